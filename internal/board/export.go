package board

import (
	"errors"
	"image"
	"io"

	"SignaturePad/internal/export"
)

// Export writes signature.<format> into dir from the current pixels.
func (b *Board) Export(dir string, f export.Format) (string, error) {
	img := b.settledImage()
	path, err := export.Save(dir, img, f)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			b.log.Warn("export rejected", "format", f)
		} else {
			b.log.Error("export failed", "format", f, "err", err)
		}
		return "", err
	}
	b.log.Info("exported", "path", path)
	return path, nil
}

// Encode writes the current pixels to w in format f.
func (b *Board) Encode(w io.Writer, f export.Format) error {
	return export.Encode(w, b.settledImage(), f)
}

// settledImage is Image with any pending restore applied first, so an
// export always matches the state the user last asked for.
func (b *Board) settledImage() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settleLocked()
	return b.surface.Image()
}
