package recipe

import "errors"

// Error kinds. Match them with errors.Is.
var (
	// ErrValidation marks malformed caller input; no backend call was made.
	ErrValidation = errors.New("validation error")

	// ErrBackend marks a backend that was unreachable, rejected the
	// credentials or returned no content.
	ErrBackend = errors.New("backend error")

	// ErrParse marks backend content that was not parseable as JSON.
	ErrParse = errors.New("parse error")

	// ErrPersistence marks a failed write to the recipe store.
	ErrPersistence = errors.New("persistence error")
)

// Error is a classified failure. Message is safe to show to users verbatim.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}
