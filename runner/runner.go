// Package runner defines the contract between the scheduler loop and an
// execution backend. Backends live in subpackages and are picked by
// runner/runners from configuration.
package runner

//go:generate mockgen -source=runner.go -package=runner -destination=runner_mock.go

import (
	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

// Runner is called only from the scheduler goroutine. Every method may block.
// Any returned error is fatal to the current tick.
type Runner interface {
	// Init connects to the backend. Called once per scheduler (re)initialization.
	Init() error

	// SchedulerType is the name the scheduler registers under with the coordination service.
	SchedulerType() string

	// PrepareJob is called when a job is created or its configuration is refreshed.
	PrepareJob(id string, job *domain.Job) error

	// PrepareTask estimates the task against the backend. A non-empty diagnostic means
	// the task can never run on this backend; it is reported as the task's error.
	// Called again every tick while the task is pending, so it must be idempotent.
	PrepareTask(id string, task *domain.Task) (diagnostic string, err error)

	SolveJob(id string, job *domain.Job) error
	SolveTask(id string, task *domain.Task) error

	// IsSolving reports whether the backend already runs the job or task.
	IsSolving(item domain.Item) bool

	// ProcessJobResult returns true once the job is over. On failure the backend sets job.Error.
	// tasks are the tracked tasks of the job.
	ProcessJobResult(id string, job *domain.Job, tasks []*domain.Task) (done bool, err error)

	// ProcessTaskResult returns true once the task is over. On failure the backend sets task.Error.
	ProcessTaskResult(id string, task *domain.Task) (done bool, err error)

	// Schedule picks what to start now from priority-ordered pending tasks and jobs.
	Schedule(pendingTasks []*domain.Task, pendingJobs []*domain.Job) (taskIDs []string, jobIDs []string, err error)

	CancelJob(id string, job *domain.Job, tasks []*domain.Task) error
	CancelTask(id string, task *domain.Task) error

	// UpdateNodes refreshes the view of available resources. Admission is skipped
	// for the tick when it fails.
	UpdateNodes() error

	// UpdateTools refreshes verification tool availability. Failures are not fatal.
	UpdateTools() error

	AddJobProgress(id string, job *domain.Job, progress *domain.Progress) error

	// Flush pushes buffered state to the backend at the end of an admission step.
	Flush() error

	// Terminate aborts everything the backend runs. Called during teardown.
	Terminate() error
}
