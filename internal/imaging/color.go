package imaging

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// AverageColor returns the mean colour of the pixels of img inside footprint.
//
// Pixels of the footprint that fall outside the image are skipped, but the
// divisor is still the nominal footprint area, so a footprint hanging off the
// raster edge averages darker than its visible part. The result is opaque.
// An empty footprint yields opaque black.
func AverageColor(img image.Image, footprint image.Rectangle) color.NRGBA {
	area := int64(footprint.Dx()) * int64(footprint.Dy())
	if footprint.Empty() || area <= 0 {
		return color.NRGBA{A: 255}
	}

	visible := footprint.Intersect(img.Bounds())

	var r, g, b int64
	if px, ok := img.(*image.NRGBA); ok {
		for y := visible.Min.Y; y < visible.Max.Y; y++ {
			i := px.PixOffset(visible.Min.X, y)
			for x := visible.Min.X; x < visible.Max.X; x++ {
				r += int64(px.Pix[i])
				g += int64(px.Pix[i+1])
				b += int64(px.Pix[i+2])
				i += 4
			}
		}
	} else {
		for y := visible.Min.Y; y < visible.Max.Y; y++ {
			for x := visible.Min.X; x < visible.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				r += int64(c.R)
				g += int64(c.G)
				b += int64(c.B)
			}
		}
	}

	return color.NRGBA{
		R: uint8(r / area),
		G: uint8(g / area),
		B: uint8(b / area),
		A: 255,
	}
}

// ContrastColor picks a mark colour that stands out against background.
//
// The background is converted to HSL and its lightness is flipped to an
// extreme: above one half becomes 0, anything else becomes 1. Hue and
// saturation are kept. The result carries alpha as its opacity.
func ContrastColor(background color.NRGBA, alpha uint8) color.NRGBA {
	c := colorful.Color{
		R: float64(background.R) / 255,
		G: float64(background.G) / 255,
		B: float64(background.B) / 255,
	}

	h, s, l := c.Hsl()
	if l > 0.5 {
		l = 0
	} else {
		l = 1
	}

	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

// MarkColor is ContrastColor applied to the average colour under footprint.
func MarkColor(img image.Image, footprint image.Rectangle, alpha uint8) color.NRGBA {
	return ContrastColor(AverageColor(img, footprint), alpha)
}
