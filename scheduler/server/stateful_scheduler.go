package server

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ldv-klever/klever-sub005/common/log/hooks"
	"github.com/ldv-klever/klever-sub005/common/stats"
	"github.com/ldv-klever/klever-sub005/runner"
	"github.com/ldv-klever/klever-sub005/scheduler/coordination"
	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

// Used to get proper logging from tests...
func init() {
	if loglevel := os.Getenv("SCHED_LOGLEVEL"); loglevel != "" {
		level, err := log.ParseLevel(loglevel)
		if err != nil {
			log.Error(err)
			return
		}
		log.SetLevel(level)
		log.AddHook(hooks.NewContextHook())
	}
}

// Inbox hands over raw status messages. *ingest.Ingestor is the production Inbox.
type Inbox interface {
	// Drain returns everything received since the last call, in arrival order, without blocking.
	Drain() []string
	Alive() bool
	Err() error
	// Stop requests the producer to stop and waits for it.
	Stop()
}

// IngestorDiedError is returned by a tick that found the status ingestor dead.
type IngestorDiedError struct {
	Err error
}

func (e *IngestorDiedError) Error() string {
	return fmt.Sprintf("status ingestor died: %v", e.Err)
}

func (e *IngestorDiedError) Unwrap() error { return e.Err }

// statefulScheduler owns the jobs and tasks maps. Every method runs on the
// scheduler goroutine, so nothing here is locked.
type statefulScheduler struct {
	config SchedulerConfiguration
	runner runner.Runner
	client coordination.Client
	inbox  Inbox
	stat   stats.StatsReceiver

	jobs  map[string]*domain.Job
	tasks map[string]*domain.Task
	ticks int

	// called with a fresh snapshot after every tick
	onTick func(*State)
}

func newStatefulScheduler(
	config SchedulerConfiguration,
	r runner.Runner,
	client coordination.Client,
	stat stats.StatsReceiver,
) *statefulScheduler {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &statefulScheduler{
		config: config.withDefaults(),
		runner: r,
		client: client,
		stat:   stat.Scope("scheduler"),
		jobs:   map[string]*domain.Job{},
		tasks:  map[string]*domain.Task{},
	}
}

func (s *statefulScheduler) String() string {
	return fmt.Sprintf("statefulScheduler{ticks: %d, jobs: %d, tasks: %d}", s.ticks, len(s.jobs), len(s.tasks))
}

// init prepares the runner, registers with the coordination service and
// settles tasks a previous scheduler instance left behind.
func (s *statefulScheduler) init() error {
	if err := s.runner.Init(); err != nil {
		return backendError("Init", "", err)
	}
	schedulerType := s.runner.SchedulerType()
	if err := s.client.Register(schedulerType); err != nil {
		return errors.Wrapf(err, "registering %s scheduler", schedulerType)
	}
	log.WithField("schedulerType", schedulerType).Info("Scheduler registered")
	return s.reconcileRemoteTasks()
}

// reconcileRemoteTasks errors out tasks that are still active remotely, since
// nothing in this process runs them, and deletes cancelled ones.
func (s *statefulScheduler) reconcileRemoteTasks() error {
	remote, err := s.client.GetAllTasks()
	if err != nil {
		return errors.Wrap(err, "listing remote tasks")
	}
	lost, deleted := 0, 0
	for _, t := range remote {
		switch {
		case t.Status.IsActive():
			if err := s.client.SubmitTaskError(t.ID, LostTaskReason); err != nil {
				return err
			}
			lost++
		case t.Status == domain.TaskCancelled:
			if err := s.client.DeleteTask(t.ID); err != nil {
				return err
			}
			deleted++
		}
	}
	log.WithFields(log.Fields{"remoteTasks": len(remote), "lost": lost, "deleted": deleted}).Info("Reconciled remote tasks")
	return nil
}

// loop runs ticks until one fails or ctx is done.
func (s *statefulScheduler) loop(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		if err := s.step(); err != nil {
			return err
		}
		timer.Reset(s.config.IterationPeriod)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// run one loop iteration
func (s *statefulScheduler) step() error {
	defer s.stat.Latency(stats.SchedStepLatency_ms).Time().Stop()
	s.stat.Counter(stats.SchedStepCounter).Inc(1)
	s.ticks++

	if !s.inbox.Alive() {
		return &IngestorDiedError{Err: s.inbox.Err()}
	}
	for _, raw := range s.inbox.Drain() {
		if err := s.applyMessage(raw); err != nil {
			return err
		}
		s.stat.Counter(stats.SchedMessagesAppliedCounter).Inc(1)
	}
	if err := s.reportErroredJobs(); err != nil {
		return err
	}
	if err := s.maintain(); err != nil {
		return err
	}
	s.updateStats()
	return nil
}

// reportErroredJobs reports and drops jobs whose configuration could not be used.
func (s *statefulScheduler) reportErroredJobs() error {
	for _, job := range s.sortedJobs() {
		if job.Status != domain.JobErrored {
			continue
		}
		if err := s.client.SubmitJobError(job.ID, job.Error); err != nil {
			return err
		}
		s.stat.Counter(stats.SchedJobsErroredCounter).Inc(1)
		delete(s.jobs, job.ID)
	}
	return nil
}

func (s *statefulScheduler) maintain() error {
	// Backends may start work on their own after it was scheduled.
	for _, job := range s.sortedJobs() {
		if job.Status == domain.JobPending && s.runner.IsSolving(job) {
			job.Status = domain.JobProcessing
		}
	}
	for _, task := range s.sortedTasks() {
		if task.Status == domain.TaskPending && s.runner.IsSolving(task) {
			task.Status = domain.TaskProcessing
		}
	}

	if err := s.checkJobs(); err != nil {
		return err
	}
	if err := s.checkTasks(); err != nil {
		return err
	}

	if err := s.runner.UpdateTools(); err != nil {
		log.WithError(err).Warn("Failed to update tools")
	}
	if err := s.runner.UpdateNodes(); err != nil {
		s.stat.Counter(stats.SchedNodesRefreshFailedCounter).Inc(1)
		log.WithError(err).Warn("Failed to update nodes, skipping scheduling")
		return nil
	}
	return s.scheduleTasks()
}

func (s *statefulScheduler) checkJobs() error {
	pollProgress := s.ticks%s.config.ProgressPollEvery == 0
	for _, job := range s.sortedJobs() {
		if job.Status != domain.JobProcessing {
			continue
		}
		relevant := s.relevantTasks(job.ID)
		done, err := s.runner.ProcessJobResult(job.ID, job, relevant)
		if err != nil {
			return backendError("ProcessJobResult", job.ID, err)
		}
		if done {
			if err := s.reportJob(job); err != nil {
				return err
			}
			continue
		}
		if !pollProgress || len(relevant) == 0 {
			continue
		}
		progress, err := s.client.GetJobProgress(job.ID)
		if err != nil {
			return err
		}
		if progress == nil {
			continue
		}
		if err := s.runner.AddJobProgress(job.ID, job, progress); err != nil {
			return backendError("AddJobProgress", job.ID, err)
		}
	}
	return nil
}

func (s *statefulScheduler) reportJob(job *domain.Job) error {
	logFields := log.Fields{"jobID": job.ID}
	if job.Error != "" {
		if err := s.client.SubmitJobError(job.ID, job.Error); err != nil {
			return err
		}
		s.stat.Counter(stats.SchedJobsErroredCounter).Inc(1)
		log.WithFields(logFields).WithField("error", job.Error).Info("Job failed")
	} else {
		if err := s.client.SubmitJobFinished(job.ID); err != nil {
			return err
		}
		s.stat.Counter(stats.SchedJobsFinishedCounter).Inc(1)
		log.WithFields(logFields).Info("Job finished")
	}
	delete(s.jobs, job.ID)
	return nil
}

func (s *statefulScheduler) checkTasks() error {
	for _, task := range s.sortedTasks() {
		if task.Status != domain.TaskProcessing {
			continue
		}
		done, err := s.runner.ProcessTaskResult(task.ID, task)
		if err != nil {
			return backendError("ProcessTaskResult", task.ID, err)
		}
		if !done {
			continue
		}
		logFields := log.Fields{"jobID": task.Desc.JobID, "taskID": task.ID}
		if task.Error != "" {
			if err := s.client.SubmitTaskError(task.ID, task.Error); err != nil {
				return err
			}
			s.stat.Counter(stats.SchedTasksErroredCounter).Inc(1)
			log.WithFields(logFields).WithField("error", task.Error).Info("Task failed")
		} else {
			if err := s.client.SubmitTaskFinished(task.ID); err != nil {
				return err
			}
			log.WithFields(logFields).Info("Task finished")
		}
		delete(s.tasks, task.ID)
	}
	return nil
}

// scheduleTasks refreshes pending tasks, asks the runner what to start and starts it.
// Jobs are started before tasks.
func (s *statefulScheduler) scheduleTasks() error {
	var pendingTasks []*domain.Task
	for _, task := range s.sortedTasks() {
		if task.Status != domain.TaskPending {
			continue
		}
		ok, err := s.prepareTask(task)
		if err != nil {
			return err
		}
		if ok {
			pendingTasks = append(pendingTasks, task)
		}
	}
	var pendingJobs []*domain.Job
	for _, job := range s.sortedJobs() {
		if job.Status == domain.JobPending && !s.runner.IsSolving(job) {
			pendingJobs = append(pendingJobs, job)
		}
	}
	sortTasksByPriority(pendingTasks)
	sortJobsByPriority(pendingJobs)

	taskIDs, jobIDs, err := s.runner.Schedule(pendingTasks, pendingJobs)
	if err != nil {
		return backendError("Schedule", "", err)
	}

	for _, id := range jobIDs {
		job, ok := s.jobs[id]
		if !ok || job.Status != domain.JobPending {
			return backendError("Schedule", id, errors.New("runner picked a job that is not pending"))
		}
		if err := s.runner.SolveJob(id, job); err != nil {
			return backendError("SolveJob", id, err)
		}
		job.Status = domain.JobProcessing
		s.stat.Counter(stats.SchedJobsStartedCounter).Inc(1)
		log.WithFields(log.Fields{"jobID": id, "priority": job.Conf.Priority}).Info("Started job")
	}

	for _, id := range taskIDs {
		task, ok := s.tasks[id]
		if !ok || task.Status != domain.TaskPending {
			return backendError("Schedule", id, errors.New("runner picked a task that is not pending"))
		}
		// The service must not show a task as pending once the runner was asked to run it.
		if err := s.client.SubmitProcessingTask(id); err != nil {
			return err
		}
		if err := s.runner.SolveTask(id, task); err != nil {
			return backendError("SolveTask", id, err)
		}
		task.Status = domain.TaskProcessing
		s.stat.Counter(stats.SchedTasksStartedCounter).Inc(1)
		log.WithFields(log.Fields{"jobID": task.Desc.JobID, "taskID": id, "priority": task.Desc.Priority}).Info("Started task")
	}

	if len(taskIDs) > 0 || s.countTasks(domain.TaskProcessing) > 0 {
		if err := s.runner.Flush(); err != nil {
			return backendError("Flush", "", err)
		}
	}
	return nil
}

// teardown stops everything runOnce started. Failures are logged and the
// remaining steps still run.
func (s *statefulScheduler) teardown() {
	log.Info("Tearing down scheduler")
	if s.inbox != nil {
		s.inbox.Stop()
	}
	if err := s.runner.Terminate(); err != nil {
		log.WithError(err).Warn("Runner termination failed")
	}
	for _, job := range s.sortedJobs() {
		if err := s.client.SubmitJobError(job.ID, TerminatedReason); err != nil {
			log.WithError(err).WithField("jobID", job.ID).Warn("Failed to report terminated job")
		}
	}
	s.client.Stop()
	s.jobs = map[string]*domain.Job{}
	s.tasks = map[string]*domain.Task{}
	s.publish()
}

func (s *statefulScheduler) updateStats() {
	s.stat.Gauge(stats.SchedTrackedJobsGauge).Update(int64(len(s.jobs)))
	s.stat.Gauge(stats.SchedTrackedTasksGauge).Update(int64(len(s.tasks)))
	s.stat.Gauge(stats.SchedPendingJobsGauge).Update(int64(s.countJobs(domain.JobPending)))
	s.stat.Gauge(stats.SchedProcessingJobsGauge).Update(int64(s.countJobs(domain.JobProcessing)))
	s.stat.Gauge(stats.SchedPendingTasksGauge).Update(int64(s.countTasks(domain.TaskPending)))
	s.stat.Gauge(stats.SchedProcessingTasksGauge).Update(int64(s.countTasks(domain.TaskProcessing)))
	s.publish()
}

func (s *statefulScheduler) publish() {
	if s.onTick != nil {
		s.onTick(s.snapshot())
	}
}

func backendError(op, id string, err error) error {
	return &domain.BackendError{Op: op, ID: id, Err: err}
}

func (s *statefulScheduler) sortedJobs() []*domain.Job {
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	jobs := make([]*domain.Job, len(ids))
	for i, id := range ids {
		jobs[i] = s.jobs[id]
	}
	return jobs
}

func (s *statefulScheduler) sortedTasks() []*domain.Task {
	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	tasks := make([]*domain.Task, len(ids))
	for i, id := range ids {
		tasks[i] = s.tasks[id]
	}
	return tasks
}

// relevantTasks are the tracked tasks of a job, in id order.
func (s *statefulScheduler) relevantTasks(jobID string) []*domain.Task {
	var tasks []*domain.Task
	for _, task := range s.sortedTasks() {
		if task.Desc.JobID == jobID {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func (s *statefulScheduler) countJobs(status domain.JobStatus) int {
	n := 0
	for _, job := range s.jobs {
		if job.Status == status {
			n++
		}
	}
	return n
}

func (s *statefulScheduler) countTasks(status domain.TaskStatus) int {
	n := 0
	for _, task := range s.tasks {
		if task.Status == status {
			n++
		}
	}
	return n
}
