package boardconfig

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// MaxLineLength bounds a line including its terminator. Longer lines are cut
// to MaxLineLength-1 characters and the rest of the line is discarded.
const MaxLineLength = 120

// LineSource yields lines without their terminators and io.EOF at the end.
type LineSource interface {
	ReadLine() (string, error)
}

// LineReader reads bounded lines from an io.Reader.
type LineReader struct {
	r         *bufio.Reader
	truncated bool
	eof       bool
}

// readerSize is the buffer size of a LineReader. A line that does not fit
// is truncated, so memory use does not grow with line length.
const readerSize = 128

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReaderSize(r, readerSize)}
}

// ReadLine returns the next line with '\r' and '\n' removed.
func (lr *LineReader) ReadLine() (string, error) {
	lr.truncated = false
	if lr.eof {
		return "", io.EOF
	}

	chunk, err := lr.r.ReadSlice('\n')
	raw := string(chunk)
	for errors.Is(err, bufio.ErrBufferFull) {
		lr.truncated = true
		_, err = lr.r.ReadSlice('\n')
	}
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		lr.eof = true
		if raw == "" {
			return "", io.EOF
		}
	}

	line := strings.ReplaceAll(strings.TrimSuffix(raw, "\n"), "\r", "")
	if len(line) > MaxLineLength-1 {
		line = line[:MaxLineLength-1]
		lr.truncated = true
	}
	return line, nil
}

// Truncated reports whether the last line returned was cut short.
func (lr *LineReader) Truncated() bool {
	return lr.truncated
}

// Lines is an in-memory LineSource.
type Lines struct {
	lines []string
	next  int
}

// NewLines returns a source over the given lines.
func NewLines(lines ...string) *Lines {
	return &Lines{lines: lines}
}

// ReadLine returns the next line.
func (l *Lines) ReadLine() (string, error) {
	if l.next >= len(l.lines) {
		return "", io.EOF
	}
	line := l.lines[l.next]
	l.next++
	return line, nil
}
