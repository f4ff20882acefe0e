// Package coordination talks to the coordination service, the system of record
// for job and task submissions and results.
package coordination

//go:generate mockgen -source=client.go -package=coordination -destination=client_mock.go

import (
	"fmt"

	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

// Client is synchronous: every call blocks until the service answered or retries are exhausted.
type Client interface {
	Register(schedulerType string) error
	PullJobConf(id string) (*domain.JobConfig, error)
	PullTaskConf(id string) (*domain.TaskConfig, error)
	SubmitJobFinished(id string) error
	SubmitJobError(id string, reason string) error
	SubmitTaskFinished(id string) error
	SubmitTaskError(id string, reason string) error
	SubmitProcessingTask(id string) error
	SubmitTaskCancelled(id string) error
	GetJobTasks(id string) ([]domain.RemoteTaskStatus, error)
	// GetJobProgress returns nil without error when the service has no progress for the job.
	GetJobProgress(id string) (*domain.Progress, error)
	GetAllTasks() ([]domain.RemoteTaskStatus, error)
	CancelJob(id string) error
	DeleteTask(id string) error
	Stop()
}

// CoordinationError is a non-2xx answer from the service.
type CoordinationError struct {
	Op         string
	ID         string
	StatusCode int
	Body       string
}

func (e *CoordinationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("coordination %s: status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("coordination %s(%s): status %d: %s", e.Op, e.ID, e.StatusCode, e.Body)
}
