package fsops

import "errors"

// Error kinds surfaced to the model as tool-result content.
var (
	ErrNotFound                = errors.New("not found")
	ErrNotAFile                = errors.New("not a file")
	ErrNotADirectory           = errors.New("not a directory")
	ErrAlreadyExists           = errors.New("already exists")
	ErrAmbiguousOrMissingMatch = errors.New("ambiguous or missing match")
	ErrNoOpEdit                = errors.New("no-op edit")
)

// ToolError pairs an error kind with the human-readable message the model sees.
// Error returns only the message; errors.Is matches on the kind.
type ToolError struct {
	Kind    error
	Message string
}

func (e ToolError) Error() string { return e.Message }

func (e ToolError) Unwrap() error { return e.Kind }
