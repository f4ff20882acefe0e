// Package errors carries a process exit status alongside an error so that
// main can exit with a code that tells operators why the scheduler stopped.
package errors

type ExitCode int

const (
	// Unrecoverable failure outside production mode.
	FatalExitCode ExitCode = 1

	// Bad flags or configuration, nothing was started.
	ConfigExitCode ExitCode = 2

	// Stopped by SIGINT/SIGTERM after a full teardown.
	InterruptedExitCode ExitCode = 130
)

type ExitCodeError struct {
	code ExitCode
	error
}

func NewError(err error, exitCode ExitCode) *ExitCodeError {
	if err == nil {
		return nil
	}
	return &ExitCodeError{exitCode, err}
}

func (e *ExitCodeError) GetExitCode() ExitCode {
	if e == nil {
		return 0
	}
	return e.code
}

func (e *ExitCodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.error
}
