package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SignaturePad/internal/board"
	"SignaturePad/internal/export"
	"SignaturePad/internal/state"
)

const (
	eraserLabel = "Eraser"
	penLabel    = "Pen"

	minBrush = 1
	maxBrush = 50
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar holds the pad controls. Fields are exported so the window and
// tests can reach individual controls.
type Toolbar struct {
	board  *board.Board
	win    fyne.Window
	opts   Options
	status func(string)

	Clear  *widget.Button
	Save   *widget.Button
	Format *widget.Select
	Stroke *widget.Button
	Fill   *widget.Button
	Size   *widget.Slider
	Eraser *widget.Button
	Undo   *widget.Button
	Redo   *widget.Button
	Speak  *widget.Button
}

func NewToolbar(b *board.Board, win fyne.Window, opts Options, status func(string)) *Toolbar {
	if status == nil {
		status = func(string) {}
	}
	t := &Toolbar{board: b, win: win, opts: opts, status: status}

	t.Clear = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), b.Clear)

	formats := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		formats[i] = string(f)
	}
	t.Format = widget.NewSelect(formats, nil)
	t.Format.SetSelected(string(export.PNG))
	t.Save = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), t.save)

	t.Stroke = widget.NewButtonWithIcon("Stroke", theme.ColorPaletteIcon(), func() {
		t.pickColor("Stroke color", func(c color.Color) {
			if err := b.SetStrokeColor(state.HexColor(c)); err != nil {
				dialog.ShowError(err, win)
			}
		})
	})
	t.Fill = widget.NewButtonWithIcon("Background", theme.ColorPaletteIcon(), func() {
		t.pickColor("Background color", func(c color.Color) {
			if err := b.SetBackground(state.HexColor(c)); err != nil {
				dialog.ShowError(err, win)
			}
		})
	})

	t.Size = widget.NewSlider(minBrush, maxBrush)
	t.Size.Step = 1
	t.Size.SetValue(float64(b.Brush().Size))
	t.Size.OnChanged = func(v float64) {
		if err := b.SetBrushSize(int(v)); err != nil {
			status(err.Error())
		}
	}

	t.Eraser = widget.NewButtonWithIcon(eraserLabel, theme.DeleteIcon(), t.toggleEraser)
	t.Undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), b.Undo)
	t.Redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), b.Redo)
	t.Speak = widget.NewButtonWithIcon("Speak", theme.MediaRecordIcon(), t.speak)
	if opts.Recognizer == nil {
		t.Speak.Disable()
	}
	return t
}

func (t *Toolbar) toggleEraser() {
	if t.board.ToggleEraser() {
		t.Eraser.SetText(penLabel)
	} else {
		t.Eraser.SetText(eraserLabel)
	}
}

func (t *Toolbar) save() {
	f, err := export.ParseFormat(t.Format.Selected)
	if err != nil {
		dialog.ShowError(err, t.win)
		return
	}
	path, err := t.board.Export(t.opts.SaveDir, f)
	switch {
	case errors.Is(err, export.ErrUnsupportedFormat):
		dialog.ShowInformation("Unsupported format", err.Error(), t.win)
	case err != nil:
		dialog.ShowError(err, t.win)
	default:
		t.status("Saved " + path)
	}
}

func (t *Toolbar) pickColor(title string, apply func(color.Color)) {
	picker := dialog.NewColorPicker(title, "", apply, t.win)
	picker.Advanced = true
	picker.Show()
}

// speak runs one recognition. Failures only reach the log.
func (t *Toolbar) speak() {
	ctx, cancel := context.Background(), context.CancelFunc(func() {})
	if t.opts.SpeechTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), t.opts.SpeechTimeout)
	}
	done := t.board.Dictate(ctx, t.opts.Recognizer, t.opts.SpeechOptions)
	t.Speak.Disable()
	go func() {
		<-done
		cancel()
		fyne.Do(t.Speak.Enable)
	}()
}

// Object lays the controls out in one row.
func (t *Toolbar) Object() fyne.CanvasObject {
	onSwatch := func(c color.Color) {
		if err := t.board.SetStrokeColor(state.HexColor(c)); err != nil {
			t.status(err.Error())
		}
	}
	swatches := container.NewHBox(
		newColorSwatch(color.Black, onSwatch),
		newColorSwatch(color.NRGBA{R: 255, A: 255}, onSwatch),
		newColorSwatch(color.NRGBA{G: 128, A: 255}, onSwatch),
		newColorSwatch(color.NRGBA{B: 255, A: 255}, onSwatch),
	)
	size := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), t.Size)

	return container.NewHBox(
		t.Clear,
		t.Format,
		t.Save,
		widget.NewSeparator(),
		t.Stroke,
		swatches,
		t.Fill,
		widget.NewSeparator(),
		widget.NewLabel(fmt.Sprintf("Size (%d-%d):", minBrush, maxBrush)),
		size,
		t.Eraser,
		widget.NewSeparator(),
		t.Undo,
		t.Redo,
		t.Speak,
		layout.NewSpacer(),
	)
}
