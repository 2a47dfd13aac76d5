// Package exitcode maps fatal failures to the process exit codes each call
// site uses. Code 3 is intentionally unassigned.
package exitcode

import "errors"

const (
	OK           = 0
	Usage        = 1
	SourceLoad   = 2
	RemoteFetch  = 4
	ActivityMap  = 5
	CleanFailed  = 6
	CreateFailed = 7
)

// CodedError carries the exit code for the call site that produced the error.
type CodedError struct {
	Code int
	Err  error
}

func (e *CodedError) Error() string {
	return e.Err.Error()
}

func (e *CodedError) Unwrap() error {
	return e.Err
}

// Wrap attaches an exit code to err. A nil err returns nil.
func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Err: err}
}

// From returns the exit code for err: the innermost CodedError code, Usage for
// any other non-nil error, OK for nil.
func From(err error) int {
	if err == nil {
		return OK
	}
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return Usage
}
