package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/wippyai/boundary/errors"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Classification, encoding or decoding failed
	ExitCommandError = 2 // Bad flags, arguments or configuration
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps configuration and input errors to ExitCommandError.
func exitCode(err error) int {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Phase != errors.PhaseConfig && e.Kind != errors.KindInvalidInput {
		return ExitFailure
	}
	return ExitCommandError
}
