package paint

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce sync.Once
	ttf      *truetype.Font
	fontErr  error

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

// faceFor returns the Go Regular face at size points (72 DPI, so points
// equal pixels).
func faceFor(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		ttf, fontErr = truetype.Parse(goregular.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("failed to parse font: %w", fontErr)
		}
	})
	if fontErr != nil {
		return nil, fontErr
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	faces[size] = f
	return f, nil
}
