package server

import (
	"sort"

	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

// Lower priority values are scheduled first. Sorts are stable so that
// equal priorities keep id order.
type tasksByPriority []*domain.Task

func (s tasksByPriority) Len() int           { return len(s) }
func (s tasksByPriority) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s tasksByPriority) Less(i, j int) bool { return s[i].Desc.Priority < s[j].Desc.Priority }

type jobsByPriority []*domain.Job

func (s jobsByPriority) Len() int           { return len(s) }
func (s jobsByPriority) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s jobsByPriority) Less(i, j int) bool { return s[i].Conf.Priority < s[j].Conf.Priority }

func sortTasksByPriority(tasks []*domain.Task) {
	sort.Stable(tasksByPriority(tasks))
}

func sortJobsByPriority(jobs []*domain.Job) {
	sort.Stable(jobsByPriority(jobs))
}

// State is what /admin/state shows: every tracked job and task after the last tick.
type State struct {
	Ticks int         `json:"ticks"`
	Jobs  []JobState  `json:"jobs"`
	Tasks []TaskState `json:"tasks"`
}

type JobState struct {
	ID                 string                `json:"id"`
	Status             string                `json:"status"`
	Priority           int                   `json:"priority"`
	ResourceLimits     domain.ResourceLimits `json:"resource_limits"`
	TaskResourceLimits domain.ResourceLimits `json:"task_resource_limits"`
	Error              string                `json:"error,omitempty"`
}

type TaskState struct {
	ID             string                `json:"id"`
	JobID          string                `json:"job_id"`
	Status         string                `json:"status"`
	Priority       int                   `json:"priority"`
	ResourceLimits domain.ResourceLimits `json:"resource_limits"`
}

func (s *statefulScheduler) snapshot() *State {
	st := &State{Ticks: s.ticks, Jobs: []JobState{}, Tasks: []TaskState{}}
	for _, job := range s.sortedJobs() {
		st.Jobs = append(st.Jobs, JobState{
			ID:                 job.ID,
			Status:             job.Status.String(),
			Priority:           job.Conf.Priority,
			ResourceLimits:     job.Conf.ResourceLimits,
			TaskResourceLimits: job.Conf.TaskResourceLimits,
			Error:              job.Error,
		})
	}
	for _, task := range s.sortedTasks() {
		st.Tasks = append(st.Tasks, TaskState{
			ID:             task.ID,
			JobID:          task.Desc.JobID,
			Status:         task.Status.String(),
			Priority:       task.Desc.Priority,
			ResourceLimits: task.Desc.ResourceLimits,
		})
	}
	return st
}
