// Package source opens board.txt from wherever it lives: the local
// filesystem, an in-memory buffer, or a networked controller's storage over
// SFTP.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// Opener opens a fresh reader positioned at the start of the configuration.
// The loader calls Open once per bootstrap phase, so each call must start
// from the beginning.
type Opener interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// SourceError is returned when a configuration source cannot be opened or
// read.
type SourceError struct {
	// Op is the operation that failed (e.g. "open", "connect", "stat").
	Op string

	// Location identifies the source.
	Location string

	// Err is the underlying error.
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Location, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// FileOpener reads a local file.
type FileOpener struct {
	Path string
}

// File returns an opener for a local path.
func File(path string) *FileOpener {
	return &FileOpener{Path: path}
}

// Open opens the file.
func (o *FileOpener) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SourceError{Op: "open", Location: o.Path, Err: err}
	}
	f, err := os.Open(o.Path)
	if err != nil {
		return nil, &SourceError{Op: "open", Location: o.Path, Err: err}
	}
	return f, nil
}

func (o *FileOpener) String() string {
	return o.Path
}

// BytesOpener serves an in-memory copy of a configuration.
type BytesOpener struct {
	Name string
	Data []byte
}

// Bytes returns an opener over data.
func Bytes(name string, data []byte) *BytesOpener {
	return &BytesOpener{Name: name, Data: data}
}

// Open returns a reader over the data.
func (o *BytesOpener) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SourceError{Op: "open", Location: o.String(), Err: err}
	}
	return io.NopCloser(bytes.NewReader(o.Data)), nil
}

func (o *BytesOpener) String() string {
	if o.Name == "" {
		return "<memory>"
	}
	return o.Name
}

// Stdin reads the whole of r once and serves it from memory, so that both
// bootstrap phases see the same content.
func Stdin(r io.Reader) (*BytesOpener, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &SourceError{Op: "read", Location: "<stdin>", Err: err}
	}
	return Bytes("<stdin>", data), nil
}
