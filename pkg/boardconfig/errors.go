package boardconfig

import (
	"errors"
	"fmt"
)

// ErrorClass is the granularity at which a problem was recovered.
type ErrorClass string

const (
	// ClassStream means the source could not be opened or read. It is the
	// only class returned as an error from Parse.
	ClassStream ErrorClass = "stream"

	// ClassLine means the whole line was abandoned.
	// Examples: unterminated array, array overflow.
	ClassLine ErrorClass = "line"

	// ClassToken means one destination slot was left unchanged.
	// Examples: unknown pin name, unparseable number.
	ClassToken ErrorClass = "token"

	// ClassSemantic means the line was ignored without effect, such as an
	// unknown key.
	ClassSemantic ErrorClass = "semantic"
)

// Rejection reasons.
var (
	ErrUnterminatedArray = errors.New("array not closed before end of line")
	ErrArrayOverflow     = errors.New("too many values for array")
	ErrShapeMismatch     = errors.New("array value for scalar key or scalar value for array key")
	ErrEmptyValue        = errors.New("empty value")
	ErrPinNotFound       = errors.New("pin not found")
	ErrInvalidNumber     = errors.New("invalid unsigned number")
	ErrInvalidFloat      = errors.New("invalid float")
	ErrStringTooLong     = errors.New("string too long")
	ErrUnknownKey        = errors.New("unknown key")
)

var reasons = []struct {
	err  error
	code string
}{
	{ErrUnterminatedArray, "unterminated_array"},
	{ErrArrayOverflow, "array_overflow"},
	{ErrShapeMismatch, "shape_mismatch"},
	{ErrEmptyValue, "empty_value"},
	{ErrPinNotFound, "pin_not_found"},
	{ErrInvalidNumber, "invalid_number"},
	{ErrInvalidFloat, "invalid_float"},
	{ErrStringTooLong, "string_too_long"},
	{ErrUnknownKey, "unknown_key"},
}

// ParseError records one rejected line or token.
type ParseError struct {
	// Class is the recovery granularity.
	Class ErrorClass `json:"class"`

	// Line is the 1-based line number, or 0 for stream errors.
	Line int `json:"line,omitempty"`

	// Key is the configuration key, if one was read.
	Key string `json:"key,omitempty"`

	// Token is the offending value token, if any.
	Token string `json:"token,omitempty"`

	// Text is the raw line as read.
	Text string `json:"text,omitempty"`

	// Err is the rejection reason.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := "<nil>"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Line == 0:
		return fmt.Sprintf("[%s] %s", e.Class, msg)
	case e.Token != "":
		return fmt.Sprintf("[%s] line %d: %s: %s %q", e.Class, e.Line, e.Key, msg, e.Token)
	case e.Key != "":
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Class, e.Line, e.Key, msg)
	}
	return fmt.Sprintf("[%s] line %d: %s", e.Class, e.Line, msg)
}

// Unwrap returns the rejection reason.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches another *ParseError of the same class and reason.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return e.Class == t.Class && errors.Is(e.Err, t.Err)
}

// Reason returns a stable code for the rejection, suitable as a metric label.
func (e *ParseError) Reason() string {
	for _, r := range reasons {
		if errors.Is(e.Err, r.err) {
			return r.code
		}
	}
	if e.Class == ClassStream {
		return "read_failed"
	}
	return "other"
}

func lineError(class ErrorClass, line int, key, token, text string, err error) *ParseError {
	return &ParseError{Class: class, Line: line, Key: key, Token: token, Text: text, Err: err}
}

// IsStreamError reports whether err is a stream-level failure.
func IsStreamError(err error) bool {
	var e *ParseError
	if errors.As(err, &e) {
		return e.Class == ClassStream
	}
	return false
}
