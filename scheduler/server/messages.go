package server

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/luci/go-render/render"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ldv-klever/klever-sub005/common/stats"
	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

// applyMessage drives the state machine of the job or task named by one raw status message.
func (s *statefulScheduler) applyMessage(raw string) error {
	msg, err := domain.ParseStatusMessage(raw)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"kind": msg.Kind, "id": msg.ID, "status": msg.Status}).Debug("Applying status message")
	if msg.Kind == domain.KindJob {
		return s.applyJobMessage(msg)
	}
	return s.applyTaskMessage(msg)
}

func (s *statefulScheduler) applyJobMessage(msg domain.StatusMessage) error {
	event, err := domain.ParseJobEvent(msg.Status)
	if err != nil {
		return errors.Wrapf(err, "message %q", msg.String())
	}
	job, tracked := s.jobs[msg.ID]

	switch event {
	case domain.JobEventSubmitted:
		if tracked && job.Status == domain.JobProcessing {
			return s.desync(msg, job.Status.String(), job)
		}
		return s.addJob(msg.ID)

	case domain.JobEventAccepted:
		if !tracked {
			log.WithField("jobID", msg.ID).Warn("Job accepted for processing is not tracked")
			return s.client.SubmitJobError(msg.ID, NotTrackedReason)
		}
		if job.Status == domain.JobPending {
			job.Status = domain.JobProcessing
		}

	case domain.JobEventSolved:
		if tracked {
			delete(s.jobs, msg.ID)
		}

	case domain.JobEventFailed, domain.JobEventCancelled, domain.JobEventTerminated:
		if tracked {
			return s.desync(msg, job.Status.String(), job)
		}

	case domain.JobEventCorrupted:
		if tracked {
			if err := s.cancelJob(job); err != nil {
				return err
			}
		}

	case domain.JobEventCancelling:
		if tracked {
			if err := s.cancelJob(job); err != nil {
				return err
			}
			s.stat.Counter(stats.SchedJobsCancelledCounter).Inc(1)
		}
		return s.confirmCancellation(msg.ID)
	}
	return nil
}

// cancelJob stops the job and its tracked tasks in the runner and drops them.
func (s *statefulScheduler) cancelJob(job *domain.Job) error {
	relevant := s.relevantTasks(job.ID)
	if job.Status == domain.JobPending || job.Status == domain.JobProcessing {
		if err := s.runner.CancelJob(job.ID, job, relevant); err != nil {
			return backendError("CancelJob", job.ID, err)
		}
	}
	for _, task := range relevant {
		delete(s.tasks, task.ID)
	}
	delete(s.jobs, job.ID)
	log.WithFields(log.Fields{"jobID": job.ID, "tasks": len(relevant)}).Info("Cancelled job")
	return nil
}

// confirmCancellation tells the service the job is cancelled along with every task it still shows active.
func (s *statefulScheduler) confirmCancellation(jobID string) error {
	if err := s.client.CancelJob(jobID); err != nil {
		return err
	}
	remote, err := s.client.GetJobTasks(jobID)
	if err != nil {
		return err
	}
	for _, t := range remote {
		if !t.Status.IsActive() {
			continue
		}
		if err := s.client.SubmitTaskCancelled(t.ID); err != nil {
			return err
		}
	}
	return nil
}

// addJob pulls the job configuration and tracks the job as pending, or as
// errored when its limits are unusable. Calling it again for a pending job
// refreshes the configuration.
func (s *statefulScheduler) addJob(id string) error {
	conf, err := s.client.PullJobConf(id)
	if err != nil {
		return err
	}
	job := &domain.Job{
		ID:     id,
		Status: domain.JobSubmitted,
		Conf:   domain.JobConfiguration{Priority: conf.Priority, Extra: conf.Extra},
	}
	logFields := log.Fields{"jobID": id, "priority": conf.Priority}

	limits, err := domain.NormalizeResourceLimits(conf.ResourceLimits)
	if err == nil {
		job.Conf.ResourceLimits = limits
		job.Conf.TaskResourceLimits, err = domain.NormalizeResourceLimits(conf.TaskResourceLimits)
	}
	if err != nil {
		s.stat.Counter(stats.SchedConfigurationErrorCounter).Inc(1)
		job.Status, job.Error = domain.JobErrored, err.Error()
		s.jobs[id] = job
		log.WithFields(logFields).WithError(err).Warn("Job has invalid configuration")
		return nil
	}

	job.Status = domain.JobPending
	s.jobs[id] = job
	if err := s.runner.PrepareJob(id, job); err != nil {
		return backendError("PrepareJob", id, err)
	}
	if job.Error != "" {
		job.Status = domain.JobErrored
		log.WithFields(logFields).WithField("error", job.Error).Warn("Job rejected by runner")
		return nil
	}
	log.WithFields(logFields).WithField("limits", render.Render(job.Conf.ResourceLimits)).Info("Job submitted")
	return nil
}

func (s *statefulScheduler) applyTaskMessage(msg domain.StatusMessage) error {
	status, err := domain.ParseTaskStatus(msg.Status)
	if err != nil {
		return errors.Wrapf(err, "message %q", msg.String())
	}
	task, tracked := s.tasks[msg.ID]

	switch status {
	case domain.TaskPending:
		if tracked && task.Status == domain.TaskProcessing {
			return s.desync(msg, task.Status.String(), task)
		}
		return s.addTask(msg.ID)

	case domain.TaskProcessing:
		if !tracked {
			return s.desync(msg, "untracked", nil)
		}
		task.Status = domain.TaskProcessing

	case domain.TaskFinished, domain.TaskErrored, domain.TaskCancelled:
		if !tracked {
			return nil
		}
		// The runner still holds whatever it reserved for the task.
		if task.Status == domain.TaskPending || task.Status == domain.TaskProcessing {
			if err := s.runner.CancelTask(msg.ID, task); err != nil {
				return backendError("CancelTask", msg.ID, err)
			}
		}
		delete(s.tasks, msg.ID)
		log.WithFields(log.Fields{"jobID": task.Desc.JobID, "taskID": msg.ID, "status": status}).Info("Task ended remotely")
	}
	return nil
}

// addTask pulls the task description and tracks the task as pending. Tasks
// with unusable limits, or that the runner can never run, are reported failed
// against their own id instead.
func (s *statefulScheduler) addTask(id string) error {
	conf, err := s.client.PullTaskConf(id)
	if err != nil {
		return err
	}
	logFields := log.Fields{"jobID": conf.JobID, "taskID": id}

	limits, err := domain.NormalizeResourceLimits(conf.ResourceLimits)
	if err != nil {
		s.stat.Counter(stats.SchedConfigurationErrorCounter).Inc(1)
		log.WithFields(logFields).WithError(err).Warn("Task has invalid configuration")
		return s.failTask(id, err.Error())
	}
	task := &domain.Task{
		ID:     id,
		Status: domain.TaskPending,
		Desc: domain.TaskDescription{
			ResourceLimits: limits,
			Priority:       conf.Priority,
			JobID:          conf.JobID,
			Credentials:    conf.Credentials,
		},
	}
	s.tasks[id] = task
	if _, err := s.prepareTask(task); err != nil {
		return err
	}
	log.WithFields(logFields).WithField("limits", render.Render(limits)).Debug("Task submitted")
	return nil
}

// prepareTask returns false when the runner rejected the task, which is then
// reported and dropped.
func (s *statefulScheduler) prepareTask(task *domain.Task) (bool, error) {
	diag, err := s.runner.PrepareTask(task.ID, task)
	if err != nil {
		return false, backendError("PrepareTask", task.ID, err)
	}
	if diag == "" {
		return true, nil
	}
	log.WithFields(log.Fields{"jobID": task.Desc.JobID, "taskID": task.ID}).WithField("diagnostic", diag).Warn("Task rejected by runner")
	return false, s.failTask(task.ID, diag)
}

func (s *statefulScheduler) failTask(id, reason string) error {
	delete(s.tasks, id)
	s.stat.Counter(stats.SchedTasksErroredCounter).Inc(1)
	return s.client.SubmitTaskError(id, reason)
}

// desync dumps what is known locally, local state is about to be thrown away.
func (s *statefulScheduler) desync(msg domain.StatusMessage, local string, entity interface{}) error {
	log.WithFields(log.Fields{"kind": msg.Kind, "id": msg.ID, "status": msg.Status}).
		Errorf("Status message contradicts local state:\n%s", spew.Sdump(entity))
	return &domain.DesyncError{Kind: msg.Kind, ID: msg.ID, Status: msg.Status, Local: local}
}
