package commands

import "fmt"

// ErrorKind classifies release-command failures.
type ErrorKind string

const (
	// ErrorKindConfig indicates a malformed commands configuration.
	ErrorKindConfig ErrorKind = "configuration"

	// ErrorKindExec indicates a command could not be spawned.
	ErrorKindExec ErrorKind = "execution"

	// ErrorKindExit indicates a command ran and exited non-zero.
	ErrorKindExit ErrorKind = "exit"
)

// Error is a release-commands error.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}
