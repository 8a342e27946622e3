// Package mosaic slices a cut region into strips and lays them out on a single
// printable raster according to a layout.Plan.
//
// Strip boundaries are rounded half-to-even on the cumulative position
// k*step, never on the per-strip size, so the strips always add up to exactly
// the source dimension. Crosswise strips come from a clockwise-rotated copy of
// the source (left edge on top) that is made once per call; the source buffer
// itself is never modified.
package mosaic

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"

	pimaging "github.com/ironsheep/plotter-strips/internal/imaging"
	"github.com/ironsheep/plotter-strips/internal/layout"
)

// Background fills the parts of the mosaic no strip covers.
var Background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// ErrInvalidLayout means the plan handed to Compose cannot be realised. It is a
// programming error between planner and compositor, not a user error.
var ErrInvalidLayout = errors.New("invalid layout")

// tile copies one band of a source onto the mosaic.
type tile struct {
	src  *image.NRGBA
	from image.Rectangle
	to   image.Point
}

func (t tile) dest() image.Rectangle {
	return image.Rectangle{Min: t.to, Max: t.to.Add(t.from.Size())}
}

// sources holds the original cut region and, on demand, its rotated copy.
type sources struct {
	original *image.NRGBA
	rotated  func() *image.NRGBA
}

func newSources(src *image.NRGBA) *sources {
	return &sources{
		original: src,
		rotated: sync.OnceValue(func() *image.NRGBA {
			return imaging.Rotate270(src)
		}),
	}
}

// edge returns the k-th strip boundary along a dimension of length limit
// divided in strips of step pixels.
func edge(k int, step float64, limit int) int {
	return min(int(math.RoundToEven(float64(k)*step)), limit)
}

// Compose lays out the count strips of src as described by plan and returns
// the resulting mosaic. The mosaic has the resolution of src.
func Compose(src *pimaging.Image, count int, plan layout.Plan) (*pimaging.Image, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: strip count %d", ErrInvalidLayout, count)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: no plan", ErrInvalidLayout)
	}
	if c := layout.Capacity(plan); c < count {
		return nil, fmt.Errorf("%w: %s plan holds %d strips, need %d", ErrInvalidLayout, plan.Kind(), c, count)
	}

	s := newSources(src.Pixels)

	var (
		tiles []tile
		size  image.Point
		err   error
	)
	switch p := plan.(type) {
	case layout.Lengthwise:
		tiles, size, err = lengthwise(s, count, p)
	case layout.Crosswise:
		tiles, size, err = crosswise(s, count, p)
	case layout.Mixed:
		tiles, size, err = mixed(s, count, p)
	default:
		err = fmt.Errorf("%w: unknown plan type %T", ErrInvalidLayout, plan)
	}
	if err != nil {
		return nil, err
	}

	// Never clip a strip: grow the canvas to hold every tile.
	for _, t := range tiles {
		d := t.dest()
		size.X = max(size.X, d.Max.X)
		size.Y = max(size.Y, d.Max.Y)
	}

	dst := imaging.New(size.X, size.Y, Background)
	parallel.Line(len(tiles), func(start, end int) {
		for _, t := range tiles[start:end] {
			draw.Draw(dst, t.dest(), t.src, t.from.Min, draw.Src)
		}
	})

	return &pimaging.Image{Pixels: dst, DPIX: src.DPIX, DPIY: src.DPIY}, nil
}

// lengthwise places column i of the mosaic at x = width*i, holding strips
// rows*i up to rows*(i+1) of the unrotated source.
func lengthwise(s *sources, count int, p layout.Lengthwise) ([]tile, image.Point, error) {
	if p.Rows < 1 || p.Columns < 1 {
		return nil, image.Point{}, fmt.Errorf("%w: lengthwise %dx%d", ErrInvalidLayout, p.Rows, p.Columns)
	}

	src := s.original
	w, h := src.Rect.Dx(), src.Rect.Dy()
	step := float64(h) / float64(count)

	tiles, err := bands(src, count, step, p.Rows, p.Columns, false, func(i int) image.Point {
		return image.Pt(w*i, 0)
	})
	if err != nil {
		return nil, image.Point{}, err
	}

	size := image.Pt(w*p.Columns, int(math.RoundToEven(float64(p.Rows)*step)))
	return tiles, size, nil
}

// crosswise places row i of the mosaic at y = rotatedHeight*i, holding the
// rotated strips columns*i up to columns*(i+1).
func crosswise(s *sources, count int, p layout.Crosswise) ([]tile, image.Point, error) {
	if p.Rows < 1 || p.Columns < 1 {
		return nil, image.Point{}, fmt.Errorf("%w: crosswise %dx%d", ErrInvalidLayout, p.Rows, p.Columns)
	}

	rot := s.rotated()
	rw, rh := rot.Rect.Dx(), rot.Rect.Dy()
	step := float64(rw) / float64(count)

	tiles, err := bands(rot, count, step, p.Columns, p.Rows, true, func(i int) image.Point {
		return image.Pt(0, rh*i)
	})
	if err != nil {
		return nil, image.Point{}, err
	}

	size := image.Pt(int(math.RoundToEven(step*float64(p.Columns))), rh*p.Rows)
	return tiles, size, nil
}

// mixed prints complete crosswise rows first and the strips they leave over
// lengthwise below them, starting at y = crosswiseRows*sourceWidth.
//
// The crosswise rows consume rotated strips from the rotated left edge, which
// is the bottom of the source. The leftover strips are therefore the rows
// above that split in the unrotated source.
func mixed(s *sources, count int, p layout.Mixed) ([]tile, image.Point, error) {
	if p.CrosswiseRows < 1 || p.CrosswiseColumns < 1 || p.LengthwiseColumns < 1 || p.LengthwiseRows < 0 {
		return nil, image.Point{}, fmt.Errorf("%w: mixed %dx%d + %dx%d", ErrInvalidLayout,
			p.CrosswiseRows, p.CrosswiseColumns, p.LengthwiseRows, p.LengthwiseColumns)
	}

	crossed := min(p.CrosswiseRows*p.CrosswiseColumns, count)
	remaining := count - crossed
	if remaining > 0 && p.LengthwiseRows < 1 {
		return nil, image.Point{}, fmt.Errorf("%w: %d strips left without lengthwise rows", ErrInvalidLayout, remaining)
	}

	rot := s.rotated()
	rw, rh := rot.Rect.Dx(), rot.Rect.Dy()
	step := float64(rw) / float64(count)
	split := edge(crossed, step, rw)

	left := rot.SubImage(image.Rect(0, 0, split, rh)).(*image.NRGBA)
	tiles, err := bands(left, crossed, step, p.CrosswiseColumns, p.CrosswiseRows, true, func(i int) image.Point {
		return image.Pt(0, rh*i)
	})
	if err != nil {
		return nil, image.Point{}, err
	}

	lengthColumns := 0
	if remaining > 0 {
		top := s.original.SubImage(image.Rect(0, 0, rh, rw-split)).(*image.NRGBA)
		offset := rh * p.CrosswiseRows

		rest, err := bands(top, remaining, step, p.LengthwiseRows, p.LengthwiseColumns, false, func(i int) image.Point {
			return image.Pt(rh*i, offset)
		})
		if err != nil {
			return nil, image.Point{}, err
		}
		tiles = append(tiles, rest...)
		lengthColumns = len(rest)
	}

	size := image.Pt(
		max(int(math.RoundToEven(step*float64(p.CrosswiseColumns))), rh*max(lengthColumns, 1)),
		rh*p.CrosswiseRows+int(math.RoundToEven(step*float64(p.LengthwiseRows))),
	)
	return tiles, size, nil
}

// bands cuts src into at most groups tiles of per strips each, stepping along
// x when vertical is set and along y otherwise. Strip k starts at edge(k);
// the last tile always ends at the src boundary. Groups past the last strip
// are skipped.
func bands(src *image.NRGBA, count int, step float64, per, groups int, vertical bool, at func(i int) image.Point) ([]tile, error) {
	b := src.Rect
	limit := b.Dy()
	if vertical {
		limit = b.Dx()
	}

	var tiles []tile
	for i := 0; i < groups; i++ {
		first := per * i
		if first >= count {
			break
		}
		last := min(per*(i+1), count)

		lo := edge(first, step, limit)
		hi := edge(last, step, limit)
		if last == count {
			hi = limit
		}

		var from image.Rectangle
		if vertical {
			from = image.Rect(b.Min.X+lo, b.Min.Y, b.Min.X+hi, b.Max.Y)
		} else {
			from = image.Rect(b.Min.X, b.Min.Y+lo, b.Max.X, b.Min.Y+hi)
		}
		if from.Dx() <= 0 || from.Dy() <= 0 {
			return nil, fmt.Errorf("%w: tile %d is %dx%d", ErrInvalidLayout, i, from.Dx(), from.Dy())
		}

		tiles = append(tiles, tile{src: src, from: from, to: at(i)})
	}
	return tiles, nil
}
