package boardconfig

// Report summarizes one pass over a line source.
type Report struct {
	// Lines is the number of lines read.
	Lines int `json:"lines"`

	// Empty and Comments count blank and comment lines.
	Empty    int `json:"empty"`
	Comments int `json:"comments"`

	// Applied counts lines that wrote at least one destination.
	Applied int `json:"applied"`

	// Unknown counts lines whose key is not in the table.
	Unknown int `json:"unknown"`

	// Skipped counts lines whose key belongs to a foreign table.
	Skipped int `json:"skipped"`

	// Truncated counts lines cut at MaxLineLength.
	Truncated int `json:"truncated"`

	// Issues holds every rejection in line order.
	Issues []*ParseError `json:"issues,omitempty"`
}

func (r *Report) add(e *ParseError) {
	r.Issues = append(r.Issues, e)
}

// Count returns the number of issues of the given class.
func (r *Report) Count(class ErrorClass) int {
	n := 0
	for _, e := range r.Issues {
		if e.Class == class {
			n++
		}
	}
	return n
}

// Rejections returns line and token level issues, the ones that left a
// destination at its previous value.
func (r *Report) Rejections() []*ParseError {
	var out []*ParseError
	for _, e := range r.Issues {
		if e.Class == ClassLine || e.Class == ClassToken {
			out = append(out, e)
		}
	}
	return out
}

// HasRejections reports whether any line or token was rejected.
func (r *Report) HasRejections() bool {
	return r.Count(ClassLine)+r.Count(ClassToken) > 0
}
