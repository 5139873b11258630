package cli

import (
	"errors"
	"fmt"
	"io"
)

// ExitError carries the process exit code of a command. A nil Err means the
// command already reported its outcome and nothing more is printed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode reports err on stderr when needed and returns the process exit code.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", exitErr.Err)
		}
		if exitErr.Code == 0 {
			return 1
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %s\n", err)
	return 1
}
