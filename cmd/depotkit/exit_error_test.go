// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"depotkit/internal/subproc"
)

func TestExitErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ExitError{Code: 5}
	if err.Error() != "exit status 5" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := &ExitError{Code: 1, Err: errors.New("boom")}
	if wrapped.Error() != "boom" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Error("Unwrap should expose the cause")
	}
}

func TestExitFromResult(t *testing.T) {
	t.Parallel()

	if err := exitFromResult(&subproc.Result{ExitCode: 0}); err != nil {
		t.Errorf("success should map to nil, got %v", err)
	}

	err := exitFromResult(&subproc.Result{ExitCode: 3})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Errorf("want ExitError code 3, got %v", err)
	}
}
