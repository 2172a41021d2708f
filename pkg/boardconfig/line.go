package boardconfig

// LineKind classifies a tokenized line.
type LineKind int

const (
	LineEmpty LineKind = iota
	LineComment
	LineScalar
	LineArray
)

func (k LineKind) String() string {
	switch k {
	case LineEmpty:
		return "empty"
	case LineComment:
		return "comment"
	case LineScalar:
		return "scalar"
	case LineArray:
		return "array"
	}
	return "unknown"
}

// Line is one tokenized board.txt line.
type Line struct {
	Kind LineKind

	// Key is the configuration key for scalar and array lines.
	Key string

	// Value is the scalar value span. It may be empty.
	Value string

	// Body is the text following '{' on array lines, unparsed.
	Body string
}

// ParseLine tokenizes a line with its terminator already removed.
//
//	key = value
//	key value
//	key = { v1, v2 v3 }
//	# comment
//	// comment
func ParseLine(text string) Line {
	i := skipBlank(text, 0)
	if i == len(text) {
		return Line{Kind: LineEmpty}
	}
	if c := text[i]; c == '/' || c == '#' {
		return Line{Kind: LineComment}
	}

	start := i
	for i < len(text) && !isBlank(text[i]) && text[i] != '=' {
		i++
	}
	key := text[start:i]

	for i < len(text) && (isBlank(text[i]) || text[i] == '=') {
		i++
	}

	if i < len(text) && text[i] == '{' {
		return Line{Kind: LineArray, Key: key, Body: text[i+1:]}
	}

	start = i
	for i < len(text) && !isBlank(text[i]) && text[i] != ';' && text[i] != '/' {
		i++
	}
	return Line{Kind: LineScalar, Key: key, Value: text[start:i]}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func skipBlank(s string, i int) int {
	for i < len(s) && isBlank(s[i]) {
		i++
	}
	return i
}
