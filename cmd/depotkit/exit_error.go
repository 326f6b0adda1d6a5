// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"depotkit/internal/subproc"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code subproc.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitFromResult converts a child process result into the error a RunE
// handler should return: nil on success, an ExitError carrying the
// child's code otherwise.
func exitFromResult(res *subproc.Result) error {
	if res.Success() {
		return nil
	}
	return &ExitError{Code: res.ExitCode, Err: res.Error}
}
