// Package sink delivers the formatted output of a run to its destination.
package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/jadenpxrk/cfl/pkg/cfl"
)

// Document is everything a sink may render.
type Document struct {
	Text    string // joined file blocks
	Tree    string
	Entries []cfl.FileEntry
	Summary cfl.Summary
}

// Sink is a destination for a Document. Errors returned by Deliver are
// *cfl.SinkDeliveryError.
type Sink interface {
	Name() string
	Deliver(doc Document) error
}

func deliveryError(s Sink, err error) error {
	return &cfl.SinkDeliveryError{Sink: s.Name(), Err: err}
}

// Writer prints the document text to an io.Writer.
type Writer struct {
	name string
	w    io.Writer
}

// NewWriter returns a sink writing to w under the given name.
func NewWriter(name string, w io.Writer) *Writer {
	return &Writer{name: name, w: w}
}

// Stdout returns a Writer on os.Stdout.
func Stdout() *Writer {
	return NewWriter("stdout", os.Stdout)
}

func (s *Writer) Name() string { return s.name }

func (s *Writer) Deliver(doc Document) error {
	if _, err := io.WriteString(s.w, doc.Text); err != nil {
		return deliveryError(s, err)
	}
	return nil
}

// File writes the document text to a file, replacing it.
type File struct {
	Path string
}

func NewFile(path string) *File {
	return &File{Path: path}
}

func (s *File) Name() string { return "file" }

func (s *File) Deliver(doc Document) error {
	if err := os.WriteFile(s.Path, []byte(doc.Text), 0o644); err != nil {
		return deliveryError(s, fmt.Errorf("write %s: %w", s.Path, err))
	}
	return nil
}
