package paint

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

var snapshotEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

type Surface struct {
	img *image.RGBA
	dc  *gg.Context
}

// New allocates a width×height surface. Non-positive sizes are clamped to 1.
func New(width, height int) *Surface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	dc := gg.NewContextForRGBA(img)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return &Surface{img: img, dc: dc}
}

func (s *Surface) Width() int              { return s.img.Bounds().Dx() }
func (s *Surface) Height() int             { return s.img.Bounds().Dy() }
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// At returns the pixel at (x, y).
func (s *Surface) At(x, y int) color.RGBA {
	return s.img.RGBAAt(x, y)
}

// Fill replaces every pixel with c.
func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Segment strokes a straight line from (x1, y1) to (x2, y2).
func (s *Surface) Segment(x1, y1, x2, y2 float64, c color.Color, width float64) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

// Text draws str with its baseline starting at (x, y).
func (s *Surface) Text(str string, x, y float64, c color.Color, size float64) error {
	face, err := faceFor(size)
	if err != nil {
		return err
	}
	s.dc.SetFontFace(face)
	s.dc.SetColor(c)
	s.dc.DrawString(str, x, y)
	return nil
}

// Restore paints bg over the whole surface and then img at the origin,
// replacing every pixel img covers.
func (s *Surface) Restore(img image.Image, bg color.Color) {
	s.Fill(bg)
	draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Src)
}

// Overlay returns an image spanning the union of base and top, both
// anchored at the origin: bg where neither reaches, then base, then top.
// A nil base yields a copy of top.
func Overlay(base, top image.Image, bg color.Color) *image.RGBA {
	bounds := top.Bounds().Sub(top.Bounds().Min)
	if base != nil {
		bounds = bounds.Union(base.Bounds().Sub(base.Bounds().Min))
	}
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(bg), image.Point{}, draw.Src)
	if base != nil {
		draw.Draw(out, bounds, base, base.Bounds().Min, draw.Src)
	}
	draw.Draw(out, bounds, top, top.Bounds().Min, draw.Src)
	return out
}

// Image returns a copy of the current pixels.
func (s *Surface) Image() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Encode serializes the surface as PNG.
func (s *Surface) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := snapshotEncoder.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return img, nil
}
