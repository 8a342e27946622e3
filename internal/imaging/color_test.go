package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

// hslLightness returns the HSL lightness of c in the range [0, 1].
func hslLightness(c color.Color) float64 {
	cf, _ := colorful.MakeColor(c)
	_, _, l := cf.Hsl()
	return l
}

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestAverageColor_Uniform(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{255, 128, 64, 255})

	got := AverageColor(img, image.Rect(2, 2, 12, 8))
	want := color.NRGBA{255, 128, 64, 255}
	if got != want {
		t.Errorf("AverageColor: got %v, want %v", got, want)
	}
}

func TestAverageColor_Pattern(t *testing.T) {
	img := createPatternImage(100, 100)

	// Top half: half red, half green
	got := AverageColor(img, image.Rect(0, 0, 100, 50))
	if got.R != 127 || got.G != 127 || got.B != 0 {
		t.Errorf("top half average: got (%d,%d,%d), want (127,127,0)", got.R, got.G, got.B)
	}

	// Whole image: red, green, blue, white quarters
	got = AverageColor(img, img.Bounds())
	if got.R != 127 || got.G != 127 || got.B != 127 {
		t.Errorf("full average: got (%d,%d,%d), want (127,127,127)", got.R, got.G, got.B)
	}
}

func TestAverageColor_OutOfBoundsUsesNominalArea(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	// Half of the footprint hangs off the right edge
	got := AverageColor(img, image.Rect(5, 0, 15, 10))
	if got.R != 127 || got.G != 127 || got.B != 127 {
		t.Errorf("partially outside: got (%d,%d,%d), want (127,127,127)", got.R, got.G, got.B)
	}

	// Entirely outside: nothing summed
	got = AverageColor(img, image.Rect(20, 20, 30, 30))
	if got != (color.NRGBA{A: 255}) {
		t.Errorf("fully outside: got %v, want opaque black", got)
	}
}

func TestAverageColor_EmptyFootprint(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	got := AverageColor(img, image.Rect(3, 3, 3, 8))
	if got != (color.NRGBA{A: 255}) {
		t.Errorf("empty footprint: got %v, want opaque black", got)
	}
}

func TestAverageColor_GenericImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{0, 200, 100, 255})
		}
	}

	got := AverageColor(img, img.Bounds())
	if got != (color.NRGBA{0, 200, 100, 255}) {
		t.Errorf("generic path: got %v", got)
	}
}

func TestContrastColor(t *testing.T) {
	tests := []struct {
		name       string
		background color.NRGBA
		want       color.NRGBA
	}{
		{"black becomes light", color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 200}},
		{"white becomes dark", color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 200}},
		{"dark red becomes light", color.NRGBA{120, 0, 0, 255}, color.NRGBA{255, 255, 255, 200}},
		{"pale yellow becomes dark", color.NRGBA{250, 250, 200, 255}, color.NRGBA{0, 0, 0, 200}},
		{"mid gray just above half is dark", color.NRGBA{128, 128, 128, 255}, color.NRGBA{0, 0, 0, 200}},
		{"mid gray just below half is light", color.NRGBA{127, 127, 127, 255}, color.NRGBA{255, 255, 255, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContrastColor(tt.background, 200)
			if got != tt.want {
				t.Errorf("ContrastColor(%v): got %v, want %v", tt.background, got, tt.want)
			}
		})
	}
}

func TestContrastColor_LightnessFlip(t *testing.T) {
	black := ContrastColor(color.NRGBA{0, 0, 0, 255}, 255)
	if l := hslLightness(black); l != 1 {
		t.Errorf("mark on black: lightness %g, want 1", l)
	}

	white := ContrastColor(color.NRGBA{255, 255, 255, 255}, 255)
	if l := hslLightness(white); l != 0 {
		t.Errorf("mark on white: lightness %g, want 0", l)
	}
}

func TestContrastColor_Alpha(t *testing.T) {
	for _, alpha := range []uint8{0, 1, 128, 255} {
		got := ContrastColor(color.NRGBA{10, 20, 30, 255}, alpha)
		if got.A != alpha {
			t.Errorf("alpha: got %d, want %d", got.A, alpha)
		}
	}
}

func TestMarkColor(t *testing.T) {
	img := createPatternImage(100, 100)

	// Blue quadrant is dark (lightness 0.5 exactly), so marks are light
	got := MarkColor(img, image.Rect(0, 50, 50, 100), 255)
	if got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("on blue: got %v, want white", got)
	}

	// White quadrant gets dark marks
	got = MarkColor(img, image.Rect(50, 50, 100, 100), 255)
	if got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("on white: got %v, want black", got)
	}
}
