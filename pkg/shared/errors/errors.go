package errors

import (
	"fmt"

	"github.com/scan-io-git/pomscan/pkg/shared"
)

// TransportError is returned when a request to the Bitbucket API fails on the network
// level or completes with a non-2xx status code.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface for TransportError.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s failed with status code %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a network level failure.
func NewTransportError(method, url string, err error) error {
	return &TransportError{
		Method: method,
		URL:    url,
		Err:    err,
	}
}

// NewStatusError reports a response with an unexpected HTTP status code.
func NewStatusError(method, url string, statusCode int, body string) error {
	return &TransportError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
	}
}

// ExtractionError describes an unexpected failure while scanning file content.
type ExtractionError struct {
	Cause interface{}
}

// Error implements the error interface for ExtractionError.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("version extraction failed: %v", e.Cause)
}

// NewExtractionError creates a new ExtractionError from a recovered value.
func NewExtractionError(cause interface{}) error {
	return &ExtractionError{Cause: cause}
}

// RepositoryScanError wraps any failure that escapes the processing of a single repository.
type RepositoryScanError struct {
	Repository shared.RepositoryRef
	Err        error
}

// Error implements the error interface for RepositoryScanError.
func (e *RepositoryScanError) Error() string {
	return fmt.Sprintf("scan of repository %q failed: %v", e.Repository.String(), e.Err)
}

func (e *RepositoryScanError) Unwrap() error {
	return e.Err
}

// NewRepositoryScanError creates a new RepositoryScanError for the given repository.
func NewRepositoryScanError(ref shared.RepositoryRef, err error) error {
	return &RepositoryScanError{
		Repository: ref,
		Err:        err,
	}
}

// CommandError represents an error that occurred during command execution together with the exit code to use.
type CommandError struct {
	ExitCode    int
	CommonError string
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError instance with the given exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Err:         err,
	}
}
