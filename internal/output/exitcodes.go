package output

import "errors"

// Process exit codes.
const (
	ExitSuccess = 0
	// ExitUserError covers bad arguments, unknown names and missing paths.
	ExitUserError = 1
	// ExitSystemError covers I/O and AI tool failures.
	ExitSystemError = 2
	// ExitConflict covers state conflicts such as an existing spec.
	ExitConflict = 3
)

// ExitError is an error that knows which exit code the CLI should use.
// Cause keeps the domain error visible to errors.Is.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string { return e.Message }

func (e *ExitError) Unwrap() error { return e.Cause }

// Wrap attaches code to err, keeping err's message. An err that already
// carries an exit code is returned as is.
func Wrap(code int, err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: code, Message: err.Error(), Cause: err}
}

// NewUserError returns an exit-code-1 error.
func NewUserError(message string) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message}
}

// NewUserErrorWithCause returns an exit-code-1 error wrapping cause.
func NewUserErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message, Cause: cause}
}

// NewSystemError returns an exit-code-2 error.
func NewSystemError(message string) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message}
}

// NewConflictError returns an exit-code-3 error.
func NewConflictError(message string) *ExitError {
	return &ExitError{Code: ExitConflict, Message: message}
}

// GetExitCode maps err to a process exit code: nil is success, an
// ExitError anywhere in the chain supplies its code, anything else is a
// user error.
func GetExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	default:
		return ExitUserError
	}
}
