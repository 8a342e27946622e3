// Package layout decides how the strips of a cut region are arranged on the
// printer so that the least paper length is used.
//
// Three arrangements are considered. Lengthwise feeds the image top edge first
// and puts whole-width copies side by side. Crosswise turns the image a quarter
// turn so its left edge feeds first and puts strips side by side. Mixed prints
// as many full crosswise rows as fit and the leftover strips lengthwise below
// them. The planner only does arithmetic on inches; it never touches pixels.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMaxWidthInches is the printable width of the plotter the tool was built for.
const DefaultMaxWidthInches = 52.0

// ErrImageTooLarge is returned when no arrangement fits the printer width.
var ErrImageTooLarge = errors.New("image too large for printer width")

// infeasible is the total length reported by an arrangement that cannot be printed.
func infeasible() float64 { return math.Inf(1) }

// Kind names an arrangement.
type Kind string

const (
	KindLengthwise Kind = "lengthwise"
	KindCrosswise  Kind = "crosswise"
	KindMixed      Kind = "mixed"
)

// Measurable is anything with a physical size, typically *imaging.Image.
type Measurable interface {
	WidthInches() float64
	HeightInches() float64
}

// Constraint describes the printer.
type Constraint struct {
	// MaxWidthInches is the widest strip or row of strips the printer accepts.
	MaxWidthInches float64 `json:"max_width_inches"`
}

// DefaultConstraint returns the constraint for the default printer width.
func DefaultConstraint() Constraint {
	return Constraint{MaxWidthInches: DefaultMaxWidthInches}
}

// Plan is one evaluated arrangement. It is implemented only by Lengthwise,
// Crosswise and Mixed; consumers switch on the concrete type.
type Plan interface {
	Kind() Kind
	// TotalLength is the paper length in inches, or +Inf when infeasible.
	TotalLength() float64
	Feasible() bool
	isPlan()
}

// Lengthwise stacks Rows strips per column and places Columns full-width
// columns next to each other.
type Lengthwise struct {
	Rows              int     `json:"rows"`
	Columns           int     `json:"columns"`
	TotalLengthInches float64 `json:"total_length_inches"`
}

// Crosswise rotates the image and places Columns strips next to each other in
// each of Rows rows.
type Crosswise struct {
	Rows              int     `json:"rows"`
	Columns           int     `json:"columns"`
	TotalLengthInches float64 `json:"total_length_inches"`
}

// Mixed prints CrosswiseRows rows of CrosswiseColumns rotated strips, followed
// by the remaining strips lengthwise in LengthwiseRows rows of up to
// LengthwiseColumns.
type Mixed struct {
	CrosswiseRows     int     `json:"crosswise_rows"`
	CrosswiseColumns  int     `json:"crosswise_columns"`
	LengthwiseRows    int     `json:"lengthwise_rows"`
	LengthwiseColumns int     `json:"lengthwise_columns"`
	TotalLengthInches float64 `json:"total_length_inches"`
}

func (Lengthwise) Kind() Kind { return KindLengthwise }
func (Crosswise) Kind() Kind  { return KindCrosswise }
func (Mixed) Kind() Kind      { return KindMixed }

func (p Lengthwise) TotalLength() float64 { return p.TotalLengthInches }
func (p Crosswise) TotalLength() float64  { return p.TotalLengthInches }
func (p Mixed) TotalLength() float64      { return p.TotalLengthInches }

func (p Lengthwise) Feasible() bool { return !math.IsInf(p.TotalLengthInches, 1) }
func (p Crosswise) Feasible() bool  { return !math.IsInf(p.TotalLengthInches, 1) }
func (p Mixed) Feasible() bool      { return !math.IsInf(p.TotalLengthInches, 1) }

func (Lengthwise) isPlan() {}
func (Crosswise) isPlan()  {}
func (Mixed) isPlan()      {}

// EvaluateLengthwise computes the lengthwise arrangement for a w x h inch image
// cut into count strips.
func EvaluateLengthwise(w, h float64, count int, c Constraint) Lengthwise {
	if w > c.MaxWidthInches {
		return Lengthwise{TotalLengthInches: infeasible()}
	}
	columns := int(math.Floor(c.MaxWidthInches / w))
	rows := ceilDiv(count, columns)
	step := h / float64(count)
	return Lengthwise{
		Rows:              rows,
		Columns:           columns,
		TotalLengthInches: float64(rows) * step,
	}
}

// EvaluateCrosswise computes the crosswise arrangement.
func EvaluateCrosswise(w, h float64, count int, c Constraint) Crosswise {
	step := h / float64(count)
	if step > c.MaxWidthInches {
		return Crosswise{TotalLengthInches: infeasible()}
	}
	columns := int(math.Floor(c.MaxWidthInches / step))
	rows := ceilDiv(count, columns)
	return Crosswise{
		Rows:              rows,
		Columns:           columns,
		TotalLengthInches: float64(rows) * w,
	}
}

// EvaluateMixed computes the mixed arrangement.
//
// The crosswise row count uses truncating division, so only complete crosswise
// rows are printed and the remainder always goes lengthwise.
func EvaluateMixed(w, h float64, count int, c Constraint) Mixed {
	step := h / float64(count)
	if w > c.MaxWidthInches || step > c.MaxWidthInches {
		return Mixed{TotalLengthInches: infeasible()}
	}

	crossColumns := min(int(math.Floor(c.MaxWidthInches/step)), count)
	crossRows := max(count/crossColumns, 1)
	remaining := count - crossColumns*crossRows

	lengthColumns := int(math.Floor(c.MaxWidthInches / w))
	lengthRows := ceilDiv(remaining, lengthColumns)

	return Mixed{
		CrosswiseRows:     crossRows,
		CrosswiseColumns:  crossColumns,
		LengthwiseRows:    lengthRows,
		LengthwiseColumns: lengthColumns,
		TotalLengthInches: float64(crossRows)*w + float64(lengthRows)*step,
	}
}

// Candidates evaluates all three arrangements in priority order: lengthwise,
// crosswise, mixed. Infeasible ones are included with a length of +Inf.
func Candidates(img Measurable, count int, c Constraint) []Plan {
	w, h := img.WidthInches(), img.HeightInches()
	return []Plan{
		EvaluateLengthwise(w, h, count, c),
		EvaluateCrosswise(w, h, count, c),
		EvaluateMixed(w, h, count, c),
	}
}

// Choose returns the arrangement that uses the least paper.
//
// Ties go to the earlier candidate, so lengthwise beats crosswise and crosswise
// beats mixed. If none fits the printer, ErrImageTooLarge is returned.
func Choose(img Measurable, count int, c Constraint) (Plan, error) {
	if count < 1 {
		return nil, fmt.Errorf("strip count must be positive, got %d", count)
	}

	var best Plan
	for _, p := range Candidates(img, count, c) {
		if !p.Feasible() {
			continue
		}
		if best == nil || p.TotalLength() < best.TotalLength() {
			best = p
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %.2fin x %.2fin in %d strips, printer %.2fin",
			ErrImageTooLarge, img.WidthInches(), img.HeightInches(), count, c.MaxWidthInches)
	}
	return best, nil
}

// Capacity returns how many strips the plan has room for.
func Capacity(p Plan) int {
	switch p := p.(type) {
	case Lengthwise:
		return p.Rows * p.Columns
	case Crosswise:
		return p.Rows * p.Columns
	case Mixed:
		return p.CrosswiseRows*p.CrosswiseColumns + p.LengthwiseRows*p.LengthwiseColumns
	}
	return 0
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
