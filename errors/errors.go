// Package errors provides error types and handling for Skynet portal operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a Skynet operation error with context about the operation
// that failed. It wraps the underlying transport or validation error with
// additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "uploadLarge")
	Op string

	// Filename is the name under which the data was being uploaded (if applicable)
	Filename string

	// Skylink is the content identifier involved (if applicable)
	Skylink string

	// Err is the underlying error from the transport or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Filename != "" && e.Skylink != "" {
		return fmt.Sprintf("skynet.%s %s (%s): %v", e.Op, e.Filename, e.Skylink, e.Err)
	}
	if e.Filename != "" {
		return fmt.Sprintf("skynet.%s %s: %v", e.Op, e.Filename, e.Err)
	}
	if e.Skylink != "" {
		return fmt.Sprintf("skynet.%s skylink %s: %v", e.Op, e.Skylink, e.Err)
	}
	return fmt.Sprintf("skynet.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithFilename adds filename context to an existing error.
func (e *Error) WithFilename(filename string) *Error {
	e.Filename = filename
	return e
}

// WithSkylink adds skylink context to an existing error.
func (e *Error) WithSkylink(skylink string) *Error {
	e.Skylink = skylink
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// Sentinel errors for common Skynet operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that an option or argument value is invalid.
	// Validation happens eagerly, before any network activity.
	ErrInvalidInput = errors.New("skynet: invalid input")

	// ErrMalformedSkylink indicates that a skylink failed to decode.
	// Decoding is local and never retried.
	ErrMalformedSkylink = errors.New("skynet: malformed skylink")

	// ErrTransport indicates a network or HTTP failure after exhausting
	// the configured retry schedule.
	ErrTransport = errors.New("skynet: transport failure")

	// ErrUploadIncomplete indicates that every session completed but the
	// portal did not report a skylink for the finished upload.
	ErrUploadIncomplete = errors.New("skynet: upload incomplete")

	// ErrUploadFailed indicates that a session aborted irrecoverably,
	// causing the whole logical upload to abort.
	ErrUploadFailed = errors.New("skynet: upload failed")
)

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMalformedSkylink checks if an error indicates a skylink decode failure.
func IsMalformedSkylink(err error) bool {
	return errors.Is(err, ErrMalformedSkylink)
}

// IsTransport checks if an error indicates a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsUploadIncomplete checks if an error indicates a finished upload with
// missing result metadata.
func IsUploadIncomplete(err error) bool {
	return errors.Is(err, ErrUploadIncomplete)
}

// IsUploadFailed checks if an error indicates an aborted logical upload.
func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}
