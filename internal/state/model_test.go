package state

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		err  bool
	}{
		{"#000000", color.RGBA{A: 255}, false},
		{"#ffffff", color.RGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"#FF8000", color.RGBA{R: 255, G: 128, A: 255}, false},
		{"#f00", color.RGBA{R: 255, A: 255}, false},
		{"red", color.RGBA{}, true},
		{"", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBrushInk(t *testing.T) {
	b := Brush{StrokeColor: "#112233", Background: "#fafafa", Size: 3}
	assert.Equal(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 255}, b.Ink())

	b.Erasing = true
	assert.Equal(t, color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 255}, b.Ink())
}

func TestBrushValidate(t *testing.T) {
	assert.NoError(t, DefaultBrush().Validate())

	b := DefaultBrush()
	b.Size = 0
	assert.ErrorIs(t, b.Validate(), ErrInvalidBrushSize)

	b = DefaultBrush()
	b.Background = "white"
	assert.ErrorIs(t, b.Validate(), ErrInvalidColor)
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#ff0000", HexColor(color.NRGBA{R: 255, A: 255}))
	assert.Equal(t, "#000000", HexColor(color.Black))
}

func TestSnapshotIDsAreUnique(t *testing.T) {
	a := NewSnapshot(nil, 1, 1)
	b := NewSnapshot(nil, 1, 1)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestClockGenerations(t *testing.T) {
	var c Clock
	g1 := c.Tick()
	g2 := c.Tick()
	assert.Greater(t, g2, g1)
	assert.False(t, c.IsLatest(g1))
	assert.True(t, c.IsLatest(g2))
}
