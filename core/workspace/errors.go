package workspace

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure surfaced by the stores and the operations built on them
// matches exactly one of these with errors.Is.
var (
	// ErrNotFound is returned when a required store or staging file is missing.
	ErrNotFound = errors.New("not found")
	// ErrMalformed is returned when a file fails to parse or to match its schema.
	ErrMalformed = errors.New("malformed input")
	// ErrInconsistent is returned when the three stores disagree on their key sets.
	ErrInconsistent = errors.New("inconsistent stores")
	// ErrCollision is returned when a generated label is already taken.
	ErrCollision = errors.New("label collision")
	// ErrBackup is returned when a snapshot could not be written before a mutation.
	ErrBackup = errors.New("backup failed")
)

// Error attaches a kind and the offending path to an underlying cause.
type Error struct {
	Kind error
	Path string
	Err  error
}

// NewError builds an Error of the given kind.
func NewError(kind error, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the sentinel kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrMalformed, ErrInconsistent, ErrCollision, ErrBackup} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
