// Package board implements the drawing surface controller: brush state,
// strokes, snapshot history and the operations that act on it.
package board

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"SignaturePad/internal/paint"
	"SignaturePad/internal/state"
)

const (
	DefaultWidth  = 500
	DefaultHeight = 300

	maxWidth    = 500
	widthRatio  = 0.9
	aspectRatio = 0.6

	textSize = 30
)

// textAnchor is where dictated text starts (baseline, left edge).
var textAnchor = state.Point{X: 10, Y: 50}

type Options struct {
	Brush  state.Brush
	Width  int
	Height int
	Logger *slog.Logger
}

type Board struct {
	mu      sync.Mutex
	surface *paint.Surface
	brush   state.Brush
	history *state.History
	// extent is the unclipped picture as of the last resize, so shrinking
	// the surface and growing it back does not lose what was cut off.
	extent *image.RGBA
	encode func(*paint.Surface) ([]byte, error)

	clock    state.Clock
	pending  *restore
	inflight sync.WaitGroup

	drawing bool
	last    state.Point

	listenersMu sync.RWMutex
	listeners   []func()

	log *slog.Logger
}

// New builds a board painted with the brush background and records that
// blank surface as the history baseline.
func New(opts Options) (*Board, error) {
	brush := opts.Brush
	if brush == (state.Brush{}) {
		brush = state.DefaultBrush()
	}
	if err := brush.Validate(); err != nil {
		return nil, err
	}
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = DefaultWidth, DefaultHeight
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	b := &Board{
		surface: paint.New(opts.Width, opts.Height),
		brush:   brush,
		history: state.NewHistory(),
		encode:  (*paint.Surface).Encode,
		log:     logger,
	}
	b.surface.Fill(b.background())
	if err := b.saveStateLocked(); err != nil {
		return nil, err
	}
	return b, nil
}

// OnChange registers fn to run after every change to the pixels. It is
// called without the board lock held, possibly from a restore goroutine.
func (b *Board) OnChange(fn func()) {
	b.listenersMu.Lock()
	defer b.listenersMu.Unlock()
	b.listeners = append(b.listeners, fn)
}

func (b *Board) notify() {
	b.listenersMu.RLock()
	fns := make([]func(), len(b.listeners))
	copy(fns, b.listeners)
	b.listenersMu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

func (b *Board) background() color.RGBA {
	return state.MustColor(b.brush.Background)
}

// SaveState snapshots the surface onto the history and clears redo.
func (b *Board) SaveState() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settleLocked()
	return b.saveStateLocked()
}

func (b *Board) snapshotLocked() (state.Snapshot, error) {
	data, err := b.encode(b.surface)
	if err != nil {
		return state.Snapshot{}, err
	}
	return state.NewSnapshot(data, b.surface.Width(), b.surface.Height()), nil
}

func (b *Board) saveStateLocked() error {
	snap, err := b.snapshotLocked()
	if err != nil {
		b.log.Error("save state failed", "err", err)
		return err
	}
	b.history.Push(snap)
	b.log.Debug("state saved", "snapshot", snap.ID, "history", b.history.Len())
	return nil
}

// BeginStroke checkpoints the surface and starts a stroke at p.
func (b *Board) BeginStroke(p state.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settleLocked()
	if err := b.saveStateLocked(); err != nil {
		return
	}
	b.drawing = true
	b.last = p
}

// MoveTo extends the active stroke to p. Without an active stroke it does
// nothing.
func (b *Board) MoveTo(p state.Point) {
	b.mu.Lock()
	if !b.drawing {
		b.mu.Unlock()
		return
	}
	b.settleLocked()
	b.surface.Segment(b.last.X, b.last.Y, p.X, p.Y, b.brush.Ink(), float64(b.brush.Size))
	b.last = p
	b.mu.Unlock()
	b.notify()
}

// EndStroke finishes the active stroke, on pointer release or when the
// pointer leaves the surface.
func (b *Board) EndStroke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drawing = false
}

func (b *Board) Drawing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drawing
}

// Undo returns to the state before the last checkpoint. The baseline entry
// is never undone.
func (b *Board) Undo() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settleLocked()
	if !b.history.CanUndo() {
		return
	}
	current, err := b.snapshotLocked()
	if err != nil {
		b.log.Error("undo failed", "err", err)
		return
	}
	prev, _ := b.history.Undo(current)
	b.restoreLocked(prev)
}

// Redo reapplies the most recently undone state.
func (b *Board) Redo() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settleLocked()
	if !b.history.CanRedo() {
		return
	}
	current, err := b.snapshotLocked()
	if err != nil {
		b.log.Error("redo failed", "err", err)
		return
	}
	next, _ := b.history.Redo(current)
	b.restoreLocked(next)
}

// Clear paints the background over everything and forgets all history.
// The next checkpoint becomes the new baseline.
func (b *Board) Clear() {
	b.mu.Lock()
	b.settleLocked()
	b.surface.Fill(b.background())
	b.extent = nil
	b.history.Reset()
	b.mu.Unlock()
	b.log.Info("board cleared")
	b.notify()
}

func (b *Board) HistoryLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.Len()
}

func (b *Board) RedoLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.RedoLen()
}

// Brush returns the current brush settings.
func (b *Board) Brush() state.Brush {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.brush
}

func (b *Board) SetStrokeColor(hex string) error {
	c, err := state.ParseColor(hex)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.brush.StrokeColor = state.HexColor(c)
	return nil
}

func (b *Board) SetBrushSize(size int) error {
	if size < 1 {
		return fmt.Errorf("%w: %d", state.ErrInvalidBrushSize, size)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.brush.Size = size
	return nil
}

func (b *Board) SetErasing(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.brush.Erasing = on
}

// ToggleEraser flips erase mode and reports the new state.
func (b *Board) ToggleEraser() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.brush.Erasing = !b.brush.Erasing
	return b.brush.Erasing
}

// SetBackground checkpoints the surface and repaints it entirely with the
// new background color.
func (b *Board) SetBackground(hex string) error {
	c, err := state.ParseColor(hex)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.settleLocked()
	if err := b.saveStateLocked(); err != nil {
		b.mu.Unlock()
		return err
	}
	b.brush.Background = state.HexColor(c)
	b.surface.Fill(b.background())
	b.extent = nil
	b.mu.Unlock()
	b.notify()
	return nil
}

// Annotate checkpoints the surface and writes text at the fixed anchor in
// the stroke color.
func (b *Board) Annotate(text string) error {
	b.mu.Lock()
	b.settleLocked()
	if err := b.saveStateLocked(); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("annotate: %w", err)
	}
	err := b.surface.Text(text, textAnchor.X, textAnchor.Y, state.MustColor(b.brush.StrokeColor), textSize)
	b.mu.Unlock()
	if err != nil {
		return fmt.Errorf("annotate: %w", err)
	}
	b.notify()
	return nil
}

// CanvasSize is the surface size for a viewport width: 90% of the
// viewport capped at 500 pixels, with a 5:3 aspect ratio.
func CanvasSize(viewportWidth float64) (int, int) {
	w := int(math.Min(viewportWidth*widthRatio, maxWidth))
	if w < 1 {
		w = 1
	}
	h := int(float64(w) * aspectRatio)
	if h < 1 {
		h = 1
	}
	return w, h
}

// Resize fits the surface to a viewport and redraws it. Any active stroke
// is abandoned.
func (b *Board) Resize(viewportWidth float64) (int, int) {
	w, h := CanvasSize(viewportWidth)
	b.ResizeTo(w, h)
	return w, h
}

// ResizeTo reallocates the surface at exactly w×h. With history the
// picture is carried over at the origin, including any part an earlier
// shrink cut off; otherwise the surface is just the background.
func (b *Board) ResizeTo(w, h int) {
	b.mu.Lock()
	b.settleLocked()
	b.drawing = false
	if w == b.surface.Width() && h == b.surface.Height() {
		b.mu.Unlock()
		return
	}
	bg := b.background()
	next := paint.New(w, h)
	if b.history.Len() > 0 {
		b.extent = paint.Overlay(b.extent, b.surface.Image(), bg)
		next.Restore(b.extent, bg)
	} else {
		b.extent = nil
		next.Fill(bg)
	}
	b.surface = next
	b.mu.Unlock()
	b.log.Debug("board resized", "width", w, "height", h)
	b.notify()
}

// Size returns the surface dimensions.
func (b *Board) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.Width(), b.surface.Height()
}

// Image returns a copy of the current pixels.
func (b *Board) Image() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.Image()
}
