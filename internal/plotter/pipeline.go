// Package plotter runs the strip pipeline: crop the region of interest, plan
// the arrangement, compose the mosaic and draw the cut marks.
package plotter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	pimaging "github.com/ironsheep/plotter-strips/internal/imaging"
	"github.com/ironsheep/plotter-strips/internal/layout"
	"github.com/ironsheep/plotter-strips/internal/mosaic"
	"github.com/ironsheep/plotter-strips/internal/overlay"
)

// ErrInvalidInput is returned for requests that break a precondition of the
// pipeline: no image, zero DPI, an empty region, or a strip count below one
// or above the region's height in pixels.
var ErrInvalidInput = errors.New("invalid input")

// Request is one strip job.
type Request struct {
	Source *pimaging.Image
	// Region is the part of Source to print. The zero value selects the whole image.
	Region  pimaging.CutRegion
	Count   int
	Printer layout.Constraint
	// Overlay controls the cut marks. The zero value selects overlay.DefaultSettings.
	Overlay overlay.Settings
}

// Result is the finished mosaic and how it was laid out.
type Result struct {
	Mosaic *pimaging.Image
	Plan   layout.Plan
	// Candidates holds all three evaluated arrangements in priority order.
	Candidates []layout.Plan
}

func (r Request) validate() error {
	switch {
	case r.Source == nil || r.Source.Pixels == nil:
		return fmt.Errorf("%w: no source image", ErrInvalidInput)
	case !(r.Source.DPIX > 0) || !(r.Source.DPIY > 0):
		return fmt.Errorf("%w: resolution %gx%g dpi", ErrInvalidInput, r.Source.DPIX, r.Source.DPIY)
	case r.Count < 1:
		return fmt.Errorf("%w: strip count %d", ErrInvalidInput, r.Count)
	case !(r.Printer.MaxWidthInches > 0):
		return fmt.Errorf("%w: printer width %g", ErrInvalidInput, r.Printer.MaxWidthInches)
	}
	return nil
}

// Plan crops the region and evaluates the arrangements without drawing
// anything.
func Plan(req Request) (*pimaging.Image, layout.Plan, []layout.Plan, error) {
	if err := req.validate(); err != nil {
		return nil, nil, nil, err
	}

	region := req.Region
	if region.IsZero() {
		region = pimaging.FullRegion(req.Source)
	}
	cut, err := pimaging.CutToSize(req.Source, region)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	// Every strip needs at least one pixel row.
	if req.Count > cut.Height() {
		return nil, nil, nil, fmt.Errorf("%w: %d strips from a region %dpx high", ErrInvalidInput, req.Count, cut.Height())
	}

	candidates := layout.Candidates(cut, req.Count, req.Printer)
	plan, err := layout.Choose(cut, req.Count, req.Printer)
	if err != nil {
		return nil, nil, candidates, err
	}

	log := Logger()
	if log.Enabled(context.Background(), slog.LevelDebug) {
		for _, c := range candidates {
			log.Debug("evaluated layout", "kind", c.Kind(), "total_length_in", c.TotalLength(), "feasible", c.Feasible())
		}
	}
	log.Debug("chosen layout", "kind", plan.Kind(), "plan", plan,
		"width_in", cut.WidthInches(), "height_in", cut.HeightInches(), "count", req.Count)

	return cut, plan, candidates, nil
}

// Process runs the whole pipeline for req.
//
// Returns ErrInvalidInput for a bad request, layout.ErrImageTooLarge when
// nothing fits the printer, and mosaic.ErrInvalidLayout if the chosen plan
// cannot be composed.
func Process(req Request) (*Result, error) {
	cut, plan, candidates, err := Plan(req)
	if err != nil {
		return nil, err
	}

	out, err := mosaic.Compose(cut, req.Count, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to compose %s mosaic: %w", plan.Kind(), err)
	}

	marks := req.Overlay
	if marks == (overlay.Settings{}) {
		marks = overlay.DefaultSettings()
	}
	if err := overlay.Render(out.Pixels, req.Count, out.DPIX, out.DPIY, marks); err != nil {
		return nil, fmt.Errorf("failed to draw cut marks: %w", err)
	}

	Logger().Debug("mosaic ready", "width_px", out.Width(), "height_px", out.Height(),
		"length_in", out.HeightInches())

	return &Result{Mosaic: out, Plan: plan, Candidates: candidates}, nil
}
