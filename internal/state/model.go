package state

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrInvalidColor     = errors.New("invalid color")
	ErrInvalidBrushSize = errors.New("brush size must be positive")
)

const (
	DefaultStrokeColor = "#000000"
	DefaultBackground  = "#ffffff"
	DefaultBrushSize   = 2
)

type Point struct{ X, Y float64 }

// Brush holds the settings applied to the next segment drawn.
type Brush struct {
	StrokeColor string
	Background  string
	Size        int
	Erasing     bool
}

func DefaultBrush() Brush {
	return Brush{
		StrokeColor: DefaultStrokeColor,
		Background:  DefaultBackground,
		Size:        DefaultBrushSize,
	}
}

// Ink is the color a stroke paints with: the background while erasing.
func (b Brush) Ink() color.Color {
	if b.Erasing {
		return MustColor(b.Background)
	}
	return MustColor(b.StrokeColor)
}

func (b Brush) Validate() error {
	if _, err := ParseColor(b.StrokeColor); err != nil {
		return fmt.Errorf("stroke color: %w", err)
	}
	if _, err := ParseColor(b.Background); err != nil {
		return fmt.Errorf("background color: %w", err)
	}
	if b.Size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBrushSize, b.Size)
	}
	return nil
}

// ParseColor parses "#rrggbb" (or "#rgb") into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustColor is ParseColor for values that were validated on the way in.
// Unparseable input yields black.
func MustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return c
}

// HexColor formats any color as "#rrggbb", dropping alpha.
func HexColor(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// Snapshot is an encoded copy of the whole surface. Never mutated once taken.
type Snapshot struct {
	ID     string
	Data   []byte
	Width  int
	Height int
	Taken  time.Time
}

func NewSnapshot(data []byte, width, height int) Snapshot {
	return Snapshot{
		ID:     uuid.NewString(),
		Data:   data,
		Width:  width,
		Height: height,
		Taken:  time.Now(),
	}
}
