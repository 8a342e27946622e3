package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Image is a pixel buffer together with its physical resolution.
//
// Pixels always has its origin at (0,0). Inches are derived as pixels / DPI, so an
// Image with zero DPI is invalid; callers reject it before handing it to the
// pipeline.
type Image struct {
	// Pixels holds the raster data in non-premultiplied RGBA.
	Pixels *image.NRGBA

	// DPIX is the horizontal resolution in pixels per inch.
	DPIX float64

	// DPIY is the vertical resolution in pixels per inch.
	DPIY float64
}

// New wraps an arbitrary image.Image as an Image with the given resolution.
//
// The pixels are copied into a fresh *image.NRGBA anchored at (0,0) unless src
// already is one with that origin, in which case it is used as is.
func New(src image.Image, dpiX, dpiY float64) *Image {
	px, ok := src.(*image.NRGBA)
	if !ok || px.Rect.Min != (image.Point{}) {
		px = imaging.Clone(src)
	}
	return &Image{Pixels: px, DPIX: dpiX, DPIY: dpiY}
}

// Width returns the width in pixels.
func (i *Image) Width() int { return i.Pixels.Rect.Dx() }

// Height returns the height in pixels.
func (i *Image) Height() int { return i.Pixels.Rect.Dy() }

// WidthInches returns the physical width.
func (i *Image) WidthInches() float64 { return float64(i.Width()) / i.DPIX }

// HeightInches returns the physical height.
func (i *Image) HeightInches() float64 { return float64(i.Height()) / i.DPIY }
