// Package export turns surface pixels into downloadable signature files.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat carries the notice shown to the user.
var ErrUnsupportedFormat = errors.New("SVG format is not directly supported for canvas. Please use PNG or JPEG.")

type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	PDF  Format = "pdf"
	SVG  Format = "svg"
)

const jpegQuality = 92

// Formats lists what the save selector offers, in order.
var Formats = []Format{PNG, JPEG, PDF, SVG}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	case "svg":
		return SVG, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Supported reports whether f can be produced from raster pixels.
func (f Format) Supported() bool {
	return f == PNG || f == JPEG || f == PDF
}

// FileName is the name of the downloaded file for f.
func FileName(f Format) string {
	return "signature." + string(f)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case PDF:
		return encodePDF(w, img)
	case SVG:
		return ErrUnsupportedFormat
	}
	return fmt.Errorf("unknown export format %q", f)
}

// Save writes signature.<format> into dir and returns the file path.
// Unsupported formats fail before anything touches the disk.
func Save(dir string, img image.Image, f Format) (string, error) {
	if !f.Supported() {
		if f == SVG {
			return "", ErrUnsupportedFormat
		}
		return "", fmt.Errorf("unknown export format %q", f)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create save directory: %w", err)
		}
	}

	path := filepath.Join(dir, FileName(f))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(file, img, f); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("encode %s: %w", f, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
