package sink

import (
	"errors"

	"github.com/atotto/clipboard"
)

var errClipboardUnsupported = errors.New("no clipboard utility available")

// Clipboard copies the document text to the system clipboard.
type Clipboard struct {
	writeAll func(string) error
}

func NewClipboard() *Clipboard {
	return &Clipboard{writeAll: writeSystemClipboard}
}

func (s *Clipboard) Name() string { return "clipboard" }

func (s *Clipboard) Deliver(doc Document) error {
	if err := s.writeAll(doc.Text); err != nil {
		return deliveryError(s, err)
	}
	return nil
}

func writeSystemClipboard(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
