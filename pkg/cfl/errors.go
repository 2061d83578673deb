package cfl

import "fmt"

// PathNotFoundError is returned when a root passed to ProcessPath does not exist.
type PathNotFoundError struct {
	Path string
	Err  error
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s", e.Path)
}

func (e *PathNotFoundError) Unwrap() error { return e.Err }

// PatternError reports a malformed include or exclude glob.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern '%s': %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// IoError wraps a failure to stat or read a file.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error on %s: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// SinkDeliveryError is returned when the formatted output cannot be handed to
// its destination (clipboard, file, pdf).
type SinkDeliveryError struct {
	Sink string
	Err  error
}

func (e *SinkDeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Sink, e.Err)
}

func (e *SinkDeliveryError) Unwrap() error { return e.Err }
