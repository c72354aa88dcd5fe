package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SignaturePad/internal/board"
	"SignaturePad/internal/state"
)

// PadWidget shows the board and turns primary-button mouse input into
// strokes. The drawing surface sits at the widget's top-left corner.
type PadWidget struct {
	widget.BaseWidget
	board  *board.Board
	raster *canvas.Image
}

var _ fyne.Widget = (*PadWidget)(nil)
var _ fyne.Draggable = (*PadWidget)(nil)
var _ desktop.Mouseable = (*PadWidget)(nil)
var _ desktop.Hoverable = (*PadWidget)(nil)

func NewPadWidget(b *board.Board) *PadWidget {
	p := &PadWidget{board: b}
	p.raster = canvas.NewImageFromImage(b.Image())
	p.raster.FillMode = canvas.ImageFillStretch
	p.raster.ScaleMode = canvas.ImageScalePixels
	p.ExtendBaseWidget(p)

	b.OnChange(func() {
		fyne.Do(p.refreshImage)
	})
	return p
}

func (p *PadWidget) refreshImage() {
	img := p.board.Image()
	p.raster.Image = img
	p.raster.Resize(fyne.NewSize(float32(img.Bounds().Dx()), float32(img.Bounds().Dy())))
	p.raster.Refresh()
}

func toPoint(pos fyne.Position) state.Point {
	return state.Point{X: float64(pos.X), Y: float64(pos.Y)}
}

// onSurface reports whether pos falls on the drawing surface rather than
// the margin around it.
func (p *PadWidget) onSurface(pos fyne.Position) bool {
	w, h := p.board.Size()
	return pos.X >= 0 && pos.Y >= 0 && pos.X < float32(w) && pos.Y < float32(h)
}

func (p *PadWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !p.onSurface(e.Position) {
		return
	}
	p.board.BeginStroke(toPoint(e.Position))
}

func (p *PadWidget) MouseUp(*desktop.MouseEvent) {
	p.board.EndStroke()
}

func (p *PadWidget) MouseIn(*desktop.MouseEvent) {}

func (p *PadWidget) MouseMoved(e *desktop.MouseEvent) {
	p.move(e.Position)
}

func (p *PadWidget) MouseOut() {
	p.board.EndStroke()
}

func (p *PadWidget) Dragged(e *fyne.DragEvent) {
	p.move(e.Position)
}

func (p *PadWidget) DragEnd() {
	p.board.EndStroke()
}

func (p *PadWidget) move(pos fyne.Position) {
	if !p.onSurface(pos) {
		p.board.EndStroke()
		return
	}
	p.board.MoveTo(toPoint(pos))
}

func (p *PadWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &padRenderer{pad: p}
	r.margin = canvas.NewRectangle(color.Transparent)
	return r
}

type padRenderer struct {
	pad    *PadWidget
	margin *canvas.Rectangle
}

// Layout refits the board to the space the window gives the pad.
func (r *padRenderer) Layout(size fyne.Size) {
	r.margin.Resize(size)
	w, h := r.pad.board.Resize(float64(size.Width))
	r.pad.raster.Move(fyne.NewPos(0, 0))
	r.pad.raster.Resize(fyne.NewSize(float32(w), float32(h)))
}

func (r *padRenderer) MinSize() fyne.Size {
	return fyne.NewSize(120, 72)
}

func (r *padRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.margin, r.pad.raster}
}

func (r *padRenderer) Refresh() {
	r.pad.refreshImage()
}

func (r *padRenderer) Destroy() {}
