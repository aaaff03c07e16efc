package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Command completed
	ExitCheckFailed = 1 // A connectivity check failed
	ExitError       = 2 // Configuration or runtime error
)

// CheckFailureError indicates the command ran, but one of the backing
// services failed its connectivity check.
type CheckFailureError struct {
	Message string
}

func (e *CheckFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var checkErr *CheckFailureError
		if errors.As(err, &checkErr) {
			os.Exit(ExitCheckFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
