// Package domain provides definitions for the Jobs and Tasks tracked by the scheduler,
// the status vocabulary carried on the status queue and the resource limits normalizer.
package domain

import (
	"fmt"
)

// Kind distinguishes the two entity types named in status messages.
type Kind string

const (
	KindJob  Kind = "job"
	KindTask Kind = "task"
)

// Item is implemented by *Job and *Task so that a Runner can answer
// questions about either without the caller switching on the type.
type Item interface {
	ItemID() string
	ItemKind() Kind
}

// JobConfig is the job configuration pulled from the coordination service.
// Limits are raw here, they are normalized before a Job is created.
type JobConfig struct {
	ID                 string                 `json:"id"`
	Priority           int                    `json:"priority"`
	ResourceLimits     RawResourceLimits      `json:"resource_limits"`
	TaskResourceLimits RawResourceLimits      `json:"task_resource_limits"`
	Extra              map[string]interface{} `json:"extra,omitempty"`
}

// TaskConfig is the task description pulled from the coordination service.
type TaskConfig struct {
	ID             string            `json:"id"`
	JobID          string            `json:"job_id"`
	Priority       int               `json:"priority"`
	ResourceLimits RawResourceLimits `json:"resource_limits"`
	Credentials    *Credentials      `json:"credentials,omitempty"`
}

// Credentials are optional backend credentials a task may carry (e.g. for cloud workers).
type Credentials struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func (c *Credentials) String() string {
	if c == nil {
		return "<none>"
	}
	return fmt.Sprintf("user:%s password:<hidden>", c.User)
}

// JobConfiguration is the normalized configuration of a tracked job.
type JobConfiguration struct {
	ResourceLimits     ResourceLimits
	TaskResourceLimits ResourceLimits
	Priority           int
	Extra              map[string]interface{}
}

// Job is a top-level unit of verification work owned by the scheduler loop.
type Job struct {
	ID     string
	Status JobStatus
	Conf   JobConfiguration
	Error  string
}

func (j *Job) ItemID() string { return j.ID }
func (j *Job) ItemKind() Kind { return KindJob }
func (j *Job) String() string {
	return fmt.Sprintf("job:%s status:%s priority:%d", j.ID, j.Status, j.Conf.Priority)
}

// TaskDescription is the normalized description of a tracked task.
type TaskDescription struct {
	ResourceLimits ResourceLimits
	Priority       int
	JobID          string
	Credentials    *Credentials
}

// Task is the unit of work dispatched to a Runner. JobID is a soft reference:
// the owning job may no longer be tracked locally.
type Task struct {
	ID     string
	Status TaskStatus
	Desc   TaskDescription
	Error  string
}

func (t *Task) ItemID() string { return t.ID }
func (t *Task) ItemKind() Kind { return KindTask }
func (t *Task) String() string {
	return fmt.Sprintf("task:%s job:%s status:%s priority:%d", t.ID, t.Desc.JobID, t.Status, t.Desc.Priority)
}

// Progress of a job as reported by the coordination service.
type Progress struct {
	TasksTotal      int   `json:"tasks_total"`
	TasksPending    int   `json:"tasks_pending"`
	TasksProcessing int   `json:"tasks_processing"`
	TasksFinished   int   `json:"tasks_finished"`
	TasksError      int   `json:"tasks_error"`
	TasksCancelled  int   `json:"tasks_cancelled"`
	ExpectedTimeSec int64 `json:"expected_time_sec"`
}

// RemoteTaskStatus is a (task id, status) pair as listed by the coordination service.
type RemoteTaskStatus struct {
	ID     string     `json:"id"`
	Status TaskStatus `json:"status"`
}

var _ Item = (*Job)(nil)
var _ Item = (*Task)(nil)
