package layout

// Summary is a flat, JSON friendly view of a Plan. Infeasible plans have no
// TotalLengthInches since +Inf has no JSON encoding.
type Summary struct {
	Kind              Kind     `json:"kind"`
	Feasible          bool     `json:"feasible"`
	TotalLengthInches *float64 `json:"total_length_inches,omitempty"`
	Capacity          int      `json:"capacity,omitempty"`

	Rows    int `json:"rows,omitempty"`
	Columns int `json:"columns,omitempty"`

	CrosswiseRows     int `json:"crosswise_rows,omitempty"`
	CrosswiseColumns  int `json:"crosswise_columns,omitempty"`
	LengthwiseRows    int `json:"lengthwise_rows,omitempty"`
	LengthwiseColumns int `json:"lengthwise_columns,omitempty"`
}

// Summarize flattens p.
func Summarize(p Plan) Summary {
	s := Summary{Kind: p.Kind(), Feasible: p.Feasible()}
	if !s.Feasible {
		return s
	}

	total := p.TotalLength()
	s.TotalLengthInches = &total
	s.Capacity = Capacity(p)

	switch p := p.(type) {
	case Lengthwise:
		s.Rows, s.Columns = p.Rows, p.Columns
	case Crosswise:
		s.Rows, s.Columns = p.Rows, p.Columns
	case Mixed:
		s.CrosswiseRows, s.CrosswiseColumns = p.CrosswiseRows, p.CrosswiseColumns
		s.LengthwiseRows, s.LengthwiseColumns = p.LengthwiseRows, p.LengthwiseColumns
	}
	return s
}

// SummarizeAll flattens every plan in ps.
func SummarizeAll(ps []Plan) []Summary {
	out := make([]Summary, len(ps))
	for i, p := range ps {
		out[i] = Summarize(p)
	}
	return out
}
