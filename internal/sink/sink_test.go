package sink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jadenpxrk/cfl/internal/language"
	"github.com/jadenpxrk/cfl/pkg/cfl"
)

func testDocument() Document {
	entries := []cfl.FileEntry{
		{Path: "main.go", Size: 27, Tokens: 6, Content: []byte("package main\n\tfunc main(){}")},
		{Path: "docs/notes.md", Size: 8, Tokens: 2, Content: []byte("# héllo\n")},
	}
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, cfl.FormatBlock(e))
	}
	return Document{
		Text:    cfl.JoinBlocks(blocks),
		Tree:    cfl.BuildTree(entries),
		Entries: entries,
		Summary: cfl.Summary{TotalFiles: 2, TotalSize: 35, TotalTokens: 8},
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriterDeliver(t *testing.T) {
	var buf bytes.Buffer
	doc := testDocument()
	if err := NewWriter("stdout", &buf).Deliver(doc); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	if buf.String() != doc.Text {
		t.Fatalf("written = %q, want %q", buf.String(), doc.Text)
	}
}

func TestWriterDeliverFailure(t *testing.T) {
	err := NewWriter("stdout", failingWriter{}).Deliver(testDocument())
	var sinkErr *cfl.SinkDeliveryError
	if !errors.As(err, &sinkErr) || sinkErr.Sink != "stdout" {
		t.Fatalf("expected stdout *SinkDeliveryError, got %v", err)
	}
}

func TestFileDeliver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	doc := testDocument()
	if err := NewFile(path).Deliver(doc); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != doc.Text {
		t.Fatalf("file content = %q, want %q", got, doc.Text)
	}
}

func TestFileDeliverFailure(t *testing.T) {
	err := NewFile(filepath.Join(t.TempDir(), "missing", "out.txt")).Deliver(testDocument())
	var sinkErr *cfl.SinkDeliveryError
	if !errors.As(err, &sinkErr) || sinkErr.Sink != "file" {
		t.Fatalf("expected file *SinkDeliveryError, got %v", err)
	}
}

func TestClipboardDeliver(t *testing.T) {
	var copied string
	s := &Clipboard{writeAll: func(text string) error {
		copied = text
		return nil
	}}
	doc := testDocument()
	if err := s.Deliver(doc); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	if copied != doc.Text {
		t.Fatalf("copied = %q, want %q", copied, doc.Text)
	}
}

func TestClipboardDeliverFailure(t *testing.T) {
	cause := errors.New("xclip not found")
	s := &Clipboard{writeAll: func(string) error { return cause }}
	err := s.Deliver(testDocument())
	var sinkErr *cfl.SinkDeliveryError
	if !errors.As(err, &sinkErr) || sinkErr.Sink != "clipboard" {
		t.Fatalf("expected clipboard *SinkDeliveryError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected underlying cause to be preserved")
	}
}

func TestPDFDeliver(t *testing.T) {
	langs, err := language.Default()
	if err != nil {
		t.Fatalf("language.Default error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := NewPDF(path, langs, nil).Deliver(testDocument()); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestPDFDeliverFailure(t *testing.T) {
	err := NewPDF(filepath.Join(t.TempDir(), "missing", "out.pdf"), nil, nil).Deliver(testDocument())
	var sinkErr *cfl.SinkDeliveryError
	if !errors.As(err, &sinkErr) || sinkErr.Sink != "pdf" {
		t.Fatalf("expected pdf *SinkDeliveryError, got %v", err)
	}
}

func TestLexerFor(t *testing.T) {
	langs, _ := language.Default()
	s := NewPDF("", langs, nil)
	if got := s.lexerFor("main.go", "package main").Config().Name; got != "Go" {
		t.Fatalf("lexer = %q, want Go", got)
	}
	if got := s.lexerFor("unknown.zzz", "").Config().Name; got == "" {
		t.Fatalf("expected a fallback lexer")
	}
}
