// Package exit maps command outcomes to process exit codes.
package exit

import (
	"fmt"
	"io"
)

const (
	CodeOK = 0
	// CodeFailure covers usage errors, bad specs, and documents that could
	// not be read, sorted, or written.
	CodeFailure = 1
	// CodeUnsorted is returned by -check when at least one document would
	// change.
	CodeUnsorted = 2
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

func (r *Result) Print() {
	if r.Message == "" {
		return
	}
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a result with exit code 0.
func Success(w io.Writer, message string) *Result {
	return &Result{Output: w, ExitCode: CodeOK, Message: message}
}

// Error creates a failure result with exit code 1.
func Error(w io.Writer, message string) *Result {
	return &Result{Output: w, ExitCode: CodeFailure, Message: message}
}

// Errorf creates a failure result with a formatted message.
func Errorf(w io.Writer, format string, a ...any) *Result {
	return Error(w, fmt.Sprintf(format, a...))
}

// Unsorted creates a result with exit code 2 for check mode.
func Unsorted(w io.Writer, message string) *Result {
	return &Result{Output: w, ExitCode: CodeUnsorted, Message: message}
}
