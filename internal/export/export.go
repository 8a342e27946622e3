// Package export writes a finished mosaic to disk as PNG or as a single-page
// PDF sized to the physical print.
package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/go-pdf/fpdf"

	pimaging "github.com/ironsheep/plotter-strips/internal/imaging"
)

// Format is an output file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// FormatFor picks the format from the file extension, defaulting to PDF.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return FormatPNG
	}
	return FormatPDF
}

// Write saves img to path in the format implied by its extension.
func Write(path string, img *pimaging.Image) error {
	switch FormatFor(path) {
	case FormatPNG:
		return WritePNG(path, img)
	default:
		return WritePDF(path, img)
	}
}

// WritePNG saves the mosaic pixels as a PNG file.
func WritePNG(path string, img *pimaging.Image) error {
	if err := imgio.Save(path, img.Pixels, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WritePDF saves the mosaic as a one-page PDF whose page is exactly
// width/dpiX by height/dpiY inches, so printing at 100% reproduces the
// physical strip size.
func WritePDF(path string, img *pimaging.Image) error {
	if !(img.DPIX > 0) || !(img.DPIY > 0) {
		return fmt.Errorf("cannot size PDF page: resolution %gx%g dpi", img.DPIX, img.DPIY)
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img.Pixels); err != nil {
		return fmt.Errorf("failed to encode mosaic: %w", err)
	}

	w, h := img.WidthInches(), img.HeightInches()
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("mosaic", opts, &buf)
	pdf.ImageOptions("mosaic", 0, 0, w, h, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
