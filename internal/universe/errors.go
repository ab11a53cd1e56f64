package universe

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates malformed or incomplete snapshot text.
	ErrFormat = errors.New("universe: malformed snapshot")

	// ErrIndex indicates a body index outside the collection.
	ErrIndex = errors.New("universe: body index out of range")
)

// FormatError reports the snapshot line that could not be decoded.
// Line is 1-based. Text holds the raw line when one was read.
type FormatError struct {
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("universe: line %d: %s", e.Line, e.Reason)
	if e.Text != "" {
		msg += fmt.Sprintf(" (%q)", e.Text)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// IndexError is raised by [Universe.At] and returned by [Universe.Body].
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("universe: body index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndex }
