package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrRegionOutOfBounds is returned when a cut region is empty or does not fit
// inside the source image.
var ErrRegionOutOfBounds = errors.New("cut region outside image bounds")

// CutRegion is the sub-rectangle of a source image selected for printing, in pixels.
type CutRegion struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FullRegion returns the region covering the whole image.
func FullRegion(img *Image) CutRegion {
	return CutRegion{Width: img.Width(), Height: img.Height()}
}

// Rect converts the region to an image.Rectangle.
func (r CutRegion) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
}

// IsZero reports whether no region was specified.
func (r CutRegion) IsZero() bool {
	return r == CutRegion{}
}

// CutToSize extracts the region from img and returns it as a new Image with the
// same resolution. The source is not modified.
func CutToSize(img *Image, r CutRegion) (*Image, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("%w: empty region %dx%d", ErrRegionOutOfBounds, r.Width, r.Height)
	}

	bounds := img.Pixels.Bounds()
	rect := r.Rect()
	if !rect.In(bounds) {
		return nil, fmt.Errorf("%w: region (%d,%d)-(%d,%d), image (%d,%d)-(%d,%d)",
			ErrRegionOutOfBounds, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y,
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	return &Image{
		Pixels: imaging.Crop(img.Pixels, rect),
		DPIX:   img.DPIX,
		DPIY:   img.DPIY,
	}, nil
}
