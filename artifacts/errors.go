package artifacts

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by this package.
type ErrorKind string

const (
	// ErrorKindConfigurationMissing indicates one or more required
	// configuration entries are absent; the message lists all of them.
	ErrorKindConfigurationMissing ErrorKind = "configuration_missing"

	// ErrorKindStorageURLInvalid indicates the storage URL failed to parse.
	ErrorKindStorageURLInvalid ErrorKind = "storage_url_invalid"

	// ErrorKindStorageURLHostMissing indicates the storage URL has no host.
	ErrorKindStorageURLHostMissing ErrorKind = "storage_url_host_missing"

	// ErrorKindUnsupportedScheme indicates a storage URL scheme no backend
	// implements.
	ErrorKindUnsupportedScheme ErrorKind = "unsupported_scheme"

	// ErrorKindNotFound indicates the named bundle does not exist.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindStorage indicates a backend-reported failure.
	ErrorKindStorage ErrorKind = "storage"

	// ErrorKindArchive indicates an I/O failure while creating or
	// extracting an archive.
	ErrorKindArchive ErrorKind = "archive"
)

// Error is a release-artifacts error.
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

// NewConfigurationMissingError creates a configuration error whose message
// lists the missing entries.
func NewConfigurationMissingError(msg string) *Error {
	return &Error{Kind: ErrorKindConfigurationMissing, Message: msg}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(msg string) *Error {
	return &Error{Kind: ErrorKindNotFound, Message: msg}
}

// NewStorageError creates a backend failure error.
func NewStorageError(msg string, err error) *Error {
	return &Error{Kind: ErrorKindStorage, Message: msg, Err: err}
}

// NewArchiveError creates an archive I/O error naming the failing phase.
func NewArchiveError(msg string, err error) *Error {
	return &Error{Kind: ErrorKindArchive, Message: msg, Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsNotFound reports whether err indicates an absent bundle.
func IsNotFound(err error) bool {
	return IsKind(err, ErrorKindNotFound)
}

// IsConfigurationMissing reports whether err indicates absent configuration.
func IsConfigurationMissing(err error) bool {
	return IsKind(err, ErrorKindConfigurationMissing)
}
