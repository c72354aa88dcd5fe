package ui

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignaturePad/internal/board"
	"SignaturePad/internal/state"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func newPad(t *testing.T) (*board.Board, *PadWidget) {
	t.Helper()
	test.NewTempApp(t)
	b, err := board.New(board.Options{})
	require.NoError(t, err)
	pad := NewPadWidget(b)
	w := test.NewWindow(pad)
	t.Cleanup(w.Close)
	pad.Resize(fyne.NewSize(300, 200))
	return b, pad
}

func press(x, y float32, button desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     button,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestPadFitsBoardToWidth(t *testing.T) {
	b, _ := newPad(t)
	w, h := b.Size()
	assert.Equal(t, 270, w)
	assert.Equal(t, 162, h)
}

func TestPadDrawsStroke(t *testing.T) {
	b, pad := newPad(t)

	pad.MouseDown(press(10, 20, desktop.MouseButtonPrimary))
	pad.Dragged(drag(60, 20))
	pad.DragEnd()
	pad.MouseUp(press(60, 20, desktop.MouseButtonPrimary))

	assert.Equal(t, 2, b.HistoryLen())
	assert.False(t, b.Drawing())
	assert.NotEqual(t, white, b.Image().RGBAAt(35, 20))
}

func TestPadHoverDrawsWhilePressed(t *testing.T) {
	b, pad := newPad(t)

	pad.MouseMoved(press(35, 40, desktop.MouseButtonPrimary))
	assert.Equal(t, white, b.Image().RGBAAt(35, 40), "no stroke before press")

	pad.MouseDown(press(10, 40, desktop.MouseButtonPrimary))
	pad.MouseMoved(press(60, 40, desktop.MouseButtonPrimary))
	pad.MouseOut()

	assert.False(t, b.Drawing())
	assert.NotEqual(t, white, b.Image().RGBAAt(35, 40))
}

func TestPadIgnoresSecondaryButton(t *testing.T) {
	b, pad := newPad(t)

	pad.MouseDown(press(10, 10, desktop.MouseButtonSecondary))
	pad.Dragged(drag(50, 10))

	assert.Equal(t, 1, b.HistoryLen())
	assert.False(t, b.Drawing())
}

func TestPadEndsStrokeOffSurface(t *testing.T) {
	b, pad := newPad(t)

	pad.MouseDown(press(10, 10, desktop.MouseButtonPrimary))
	require.True(t, b.Drawing())
	pad.Dragged(drag(290, 10))
	assert.False(t, b.Drawing())

	pad.Dragged(drag(100, 10))
	assert.Equal(t, white, b.Image().RGBAAt(60, 10), "stroke does not resume")
}

func newToolbar(t *testing.T) (*board.Board, *Toolbar, *[]string) {
	t.Helper()
	a := test.NewTempApp(t)
	b, err := board.New(board.Options{Width: 40, Height: 24})
	require.NoError(t, err)
	win := a.NewWindow("pad")
	t.Cleanup(win.Close)

	var messages []string
	tb := NewToolbar(b, win, Options{SaveDir: t.TempDir()}, func(s string) {
		messages = append(messages, s)
	})
	win.SetContent(tb.Object())
	return b, tb, &messages
}

func TestToolbarEraserToggle(t *testing.T) {
	b, tb, _ := newToolbar(t)

	test.Tap(tb.Eraser)
	assert.True(t, b.Brush().Erasing)
	assert.Equal(t, penLabel, tb.Eraser.Text)

	test.Tap(tb.Eraser)
	assert.False(t, b.Brush().Erasing)
	assert.Equal(t, eraserLabel, tb.Eraser.Text)
}

func TestToolbarSavePNG(t *testing.T) {
	_, tb, messages := newToolbar(t)

	test.Tap(tb.Save)

	path := filepath.Join(tb.opts.SaveDir, "signature.png")
	assert.FileExists(t, path)
	require.Len(t, *messages, 1)
	assert.True(t, strings.HasSuffix((*messages)[0], path))
}

func TestToolbarSaveSVGWritesNothing(t *testing.T) {
	_, tb, messages := newToolbar(t)

	tb.Format.SetSelected("svg")
	test.Tap(tb.Save)

	entries, err := os.ReadDir(tb.opts.SaveDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, *messages)
}

func TestToolbarBrushSlider(t *testing.T) {
	b, tb, _ := newToolbar(t)

	tb.Size.SetValue(12)
	assert.Equal(t, 12, b.Brush().Size)
}

func TestToolbarUndoRedoClear(t *testing.T) {
	b, tb, _ := newToolbar(t)

	b.BeginStroke(state.Point{X: 2, Y: 2})
	b.MoveTo(state.Point{X: 20, Y: 2})
	b.EndStroke()

	test.Tap(tb.Undo)
	b.Wait()
	assert.Equal(t, 1, b.HistoryLen())
	assert.Equal(t, 1, b.RedoLen())

	test.Tap(tb.Redo)
	b.Wait()
	assert.Equal(t, 2, b.HistoryLen())

	test.Tap(tb.Clear)
	assert.Equal(t, white, b.Image().RGBAAt(10, 2))
}

func TestToolbarSpeakDisabledWithoutRecognizer(t *testing.T) {
	_, tb, _ := newToolbar(t)
	assert.True(t, tb.Speak.Disabled())
}
