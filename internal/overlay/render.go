// Package overlay draws registration marks on a finished mosaic: a short line
// at both edges of every strip seam and the strip's sequence number just below
// it, counting down from the top. Mark colours adapt to the pixels underneath
// so they stay visible on any background.
package overlay

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	pimaging "github.com/ironsheep/plotter-strips/internal/imaging"
)

// Settings controls the size and opacity of the marks. Lengths are in inches.
type Settings struct {
	LineLength      float64 `json:"line_length"`
	LineWidth       float64 `json:"line_width"`
	TextTopMargin   float64 `json:"text_top_margin"`
	TextRightMargin float64 `json:"text_right_margin"`
	TextSize        float64 `json:"text_size"`
	ColorAlpha      uint8   `json:"color_alpha"`
}

// DefaultSettings returns the marks used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		LineLength:      0.25,
		LineWidth:       0.02,
		TextTopMargin:   0.1,
		TextRightMargin: 0.02,
		TextSize:        0.1,
		ColorAlpha:      200,
	}
}

var labelFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// newFace returns a Go Regular face whose em box is sizePx pixels high.
// Faces keep glyph caches and must not be shared between goroutines.
func newFace(sizePx float64) (font.Face, error) {
	f, err := labelFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create label face: %w", err)
	}
	return face, nil
}

// mark is the geometry of the marks at one strip boundary.
type mark struct {
	label string
	lines []image.Rectangle
	text  image.Rectangle
	// dot is the baseline origin of the label.
	dot fixed.Point26_6
}

// layoutMarks computes the marks for count strips over bounds without
// touching any pixels.
func layoutMarks(bounds image.Rectangle, count int, dpiX, dpiY float64, s Settings, face font.Face) []mark {
	lineLength := int(math.Round(s.LineLength * dpiX))
	lineWidth := s.LineWidth * dpiY
	topMargin := s.TextTopMargin * dpiY
	rightMargin := s.TextRightMargin * dpiX

	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()

	w := bounds.Dx()
	step := float64(bounds.Dy()) / float64(count)

	marks := make([]mark, 0, count)
	for i := 0; i < count; i++ {
		lineTop := step*float64(i) - lineWidth/2
		m := mark{label: strconv.Itoa(count - i)}

		if i > 0 {
			y0 := int(math.Floor(lineTop - lineWidth/2))
			y1 := max(int(math.Ceil(lineTop+lineWidth/2)), y0+1)
			m.lines = []image.Rectangle{
				image.Rect(0, y0, lineLength, y1).Add(bounds.Min),
				image.Rect(w-lineLength, y0, w, y1).Add(bounds.Min),
			}
		}

		textWidth := font.MeasureString(face, m.label).Ceil()
		left := int(float64(w) - float64(textWidth) - rightMargin)
		top := int(lineTop + lineWidth + topMargin)
		m.text = image.Rect(left, top, left+textWidth, top+textHeight).Add(bounds.Min)
		m.dot = fixed.Point26_6{
			X: fixed.I(m.text.Min.X),
			Y: fixed.I(m.text.Min.Y) + metrics.Ascent,
		}

		marks = append(marks, m)
	}
	return marks
}

// Render draws the cut marks for count strips onto dst in place.
//
// Boundary i sits at i*height/count. Lines are drawn for every boundary but
// the first; every strip gets its label, count for the top strip down to 1
// for the bottom one. Each line and label takes its colour from the pixels
// it covers, sampled just before it is drawn.
func Render(dst draw.Image, count int, dpiX, dpiY float64, s Settings) error {
	if count < 1 {
		return fmt.Errorf("strip count must be positive, got %d", count)
	}
	if dpiX <= 0 || dpiY <= 0 {
		return fmt.Errorf("resolution must be positive, got %gx%g dpi", dpiX, dpiY)
	}
	if s.TextSize <= 0 {
		return fmt.Errorf("text size must be positive, got %g", s.TextSize)
	}

	face, err := newFace(s.TextSize * dpiX)
	if err != nil {
		return err
	}
	defer face.Close()

	for _, m := range layoutMarks(dst.Bounds(), count, dpiX, dpiY, s, face) {
		for _, r := range m.lines {
			c := pimaging.MarkColor(dst, r, s.ColorAlpha)
			draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
		}

		c := pimaging.MarkColor(dst, m.text, s.ColorAlpha)
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  m.dot,
		}
		d.DrawString(m.label)
	}
	return nil
}
