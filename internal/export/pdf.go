package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// encodePDF writes a single page the size of img (one pixel per point)
// with img embedded losslessly.
func encodePDF(w io.Writer, img image.Image) error {
	var raw bytes.Buffer
	if err := png.Encode(&raw, img); err != nil {
		return err
	}

	b := img.Bounds()
	wd, ht := float64(b.Dx()), float64(b.Dy())
	// gofpdf swaps the custom size for "L", so the page is always "P".
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("signature", opts, &raw)
	p.ImageOptions("signature", 0, 0, wd, ht, false, opts, 0, "")
	if err := p.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return p.Output(w)
}
