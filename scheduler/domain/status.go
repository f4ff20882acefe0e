package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// JobStatus is the local lifecycle state of a tracked job.
// Finished, Errored, Cancelled and Corrupted are terminal: they are
// reported to the coordination service and the job is then dropped.
type JobStatus int

const (
	JobSubmitted JobStatus = iota
	JobPending
	JobProcessing
	JobFinished
	JobErrored
	JobCancelled
	JobCorrupted
)

func (s JobStatus) IsDone() bool {
	return s == JobFinished || s == JobErrored || s == JobCancelled || s == JobCorrupted
}

func (s JobStatus) String() string {
	switch s {
	case JobSubmitted:
		return "SUBMITTED"
	case JobPending:
		return "PENDING"
	case JobProcessing:
		return "PROCESSING"
	case JobFinished:
		return "FINISHED"
	case JobErrored:
		return "ERRORED"
	case JobCancelled:
		return "CANCELLED"
	case JobCorrupted:
		return "CORRUPTED"
	default:
		return fmt.Sprintf("JobStatus(%d)", int(s))
	}
}

// TaskStatus is both the local lifecycle state of a tracked task and the
// status vocabulary for tasks on the wire and in coordination service listings.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskProcessing
	TaskFinished
	TaskErrored
	TaskCancelled
)

var taskStatusNames = map[string]TaskStatus{
	"pending":    TaskPending,
	"processing": TaskProcessing,
	"finished":   TaskFinished,
	"error":      TaskErrored,
	"cancelled":  TaskCancelled,
}

func (s TaskStatus) IsDone() bool {
	return s == TaskFinished || s == TaskErrored || s == TaskCancelled
}

// IsActive is true for statuses the coordination service still considers in flight.
func (s TaskStatus) IsActive() bool {
	return s == TaskPending || s == TaskProcessing
}

func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "PENDING"
	case TaskProcessing:
		return "PROCESSING"
	case TaskFinished:
		return "FINISHED"
	case TaskErrored:
		return "ERROR"
	case TaskCancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("TaskStatus(%d)", int(s))
	}
}

// Code returns the numeric wire code of the status.
func (s TaskStatus) Code() string {
	return strconv.Itoa(int(s))
}

// ParseTaskStatus accepts a numeric wire code ("0".."4") or its lowercase name.
func ParseTaskStatus(code string) (TaskStatus, error) {
	if n, err := strconv.Atoi(code); err == nil {
		if n >= int(TaskPending) && n <= int(TaskCancelled) {
			return TaskStatus(n), nil
		}
	} else if s, ok := taskStatusNames[strings.ToLower(code)]; ok {
		return s, nil
	}
	return 0, &ProtocolError{Raw: code, Reason: "unknown task status code"}
}

func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(s.String()))
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		var n int
		if err2 := json.Unmarshal(data, &n); err2 != nil {
			return fmt.Errorf("task status must be a string or a number, got %s", data)
		}
		code = strconv.Itoa(n)
	}
	parsed, err := ParseTaskStatus(code)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// JobEvent is the closed vocabulary of job status codes received on the status queue.
// Each event drives one named transition of the scheduler's job state machine.
type JobEvent int

const (
	JobEventSubmitted JobEvent = iota + 1
	JobEventAccepted
	JobEventSolved
	JobEventFailed
	JobEventCorrupted
	JobEventCancelling
	JobEventCancelled
	JobEventTerminated
)

var jobEventNames = map[string]JobEvent{
	"pending":    JobEventSubmitted,
	"submitted":  JobEventSubmitted,
	"processing": JobEventAccepted,
	"solved":     JobEventSolved,
	"failed":     JobEventFailed,
	"corrupted":  JobEventCorrupted,
	"cancelling": JobEventCancelling,
	"cancelled":  JobEventCancelled,
	"terminated": JobEventTerminated,
}

func (e JobEvent) String() string {
	switch e {
	case JobEventSubmitted:
		return "submitted"
	case JobEventAccepted:
		return "processing"
	case JobEventSolved:
		return "solved"
	case JobEventFailed:
		return "failed"
	case JobEventCorrupted:
		return "corrupted"
	case JobEventCancelling:
		return "cancelling"
	case JobEventCancelled:
		return "cancelled"
	case JobEventTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("JobEvent(%d)", int(e))
	}
}

// ParseJobEvent accepts a numeric wire code ("1".."8") or its lowercase name.
func ParseJobEvent(code string) (JobEvent, error) {
	if n, err := strconv.Atoi(code); err == nil {
		if n >= int(JobEventSubmitted) && n <= int(JobEventTerminated) {
			return JobEvent(n), nil
		}
	} else if e, ok := jobEventNames[strings.ToLower(code)]; ok {
		return e, nil
	}
	return 0, &ProtocolError{Raw: code, Reason: "unknown job status code"}
}
