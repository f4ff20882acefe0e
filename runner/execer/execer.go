// Package execer runs one Unix command, or fakes it. It knows nothing about
// jobs or tasks beyond the log tags it is given.
package execer

import (
	"io"
)

// LogTags identify the scheduler entity a process belongs to in log lines.
type LogTags struct {
	JobID  string
	TaskID string
}

type Command struct {
	Argv    []string
	Dir     string
	EnvVars map[string]string
	Stdout  io.Writer
	Stderr  io.Writer
	LogTags
}

type ProcessState int

const (
	UNKNOWN ProcessState = iota
	RUNNING
	COMPLETE
	FAILED
)

func (s ProcessState) IsDone() bool {
	return s == COMPLETE || s == FAILED
}

func (s ProcessState) String() string {
	switch s {
	case RUNNING:
		return "RUNNING"
	case COMPLETE:
		return "COMPLETE"
	case FAILED:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

type Execer interface {
	Exec(command Command) (Process, error)
}

type Process interface {
	// Wait blocks until the process ends.
	Wait() ProcessStatus
	// Abort kills the process and everything it spawned. Safe to call after Wait returned.
	Abort() ProcessStatus
}

// ProcessStatus is COMPLETE with an ExitCode when the command ran to its end,
// FAILED with an Error when it was aborted or could not be waited for.
type ProcessStatus struct {
	State    ProcessState
	ExitCode int
	Error    string
}
