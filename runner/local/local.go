// Package local runs jobs and tasks as processes on the scheduler's own host.
package local

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/luci/go-render/render"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ldv-klever/klever-sub005/async"
	"github.com/ldv-klever/klever-sub005/common/stats"
	"github.com/ldv-klever/klever-sub005/runner"
	"github.com/ldv-klever/klever-sub005/runner/execer"
	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

const SchedulerType = "local"

// Config describes the host and the commands used to run jobs and tasks.
// Commands may contain {id} and {job_id} placeholders.
type Config struct {
	WorkDir     string
	CPUCores    int
	MemorySize  string
	DiskSize    string
	CPUModel    string
	JobCommand  []string
	TaskCommand []string
	Tools       map[string]string
}

type process struct {
	kind   domain.Kind
	id     string
	jobID  string
	limits domain.ResourceLimits
	proc   execer.Process
	output *os.File

	// set by the completion callback
	exited bool
	status execer.ProcessStatus
}

func (p *process) fields() log.Fields {
	f := log.Fields{"kind": p.kind, "id": p.id}
	if p.jobID != "" {
		f["jobID"] = p.jobID
	}
	return f
}

type localRunner struct {
	cfg  Config
	exec execer.Execer
	stat stats.StatsReceiver

	total capacity
	free  capacity

	async    async.Runner
	procs    map[string]*process
	progress map[string]domain.Progress

	lookPath func(string) (string, error)
}

// NewRunner returns a Runner that reserves host resources for each started
// job or task until its result is collected.
func NewRunner(cfg Config, ex execer.Execer, stat stats.StatsReceiver) runner.Runner {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &localRunner{
		cfg:      cfg,
		exec:     ex,
		stat:     stat.Scope("runner"),
		async:    async.NewRunner(),
		procs:    map[string]*process{},
		progress: map[string]domain.Progress{},
		lookPath: exec.LookPath,
	}
}

func key(kind domain.Kind, id string) string {
	return string(kind) + ":" + id
}

func (r *localRunner) Init() error {
	if len(r.cfg.JobCommand) == 0 || len(r.cfg.TaskCommand) == 0 {
		return errors.New("local runner needs both JobCommand and TaskCommand")
	}
	c, err := parseCapacity(r.cfg)
	if err != nil {
		return errors.Wrap(err, "local runner capacity")
	}
	if r.cfg.WorkDir != "" {
		if err := os.MkdirAll(r.cfg.WorkDir, 0o755); err != nil {
			return errors.Wrapf(err, "creating work dir %s", r.cfg.WorkDir)
		}
	}
	r.total, r.free = c, c
	r.procs = map[string]*process{}
	r.progress = map[string]domain.Progress{}
	log.WithFields(log.Fields{"capacity": r.total.String(), "workDir": r.cfg.WorkDir}).Info("Local runner initialized")
	return nil
}

func (r *localRunner) SchedulerType() string {
	return SchedulerType
}

// PrepareJob sets job.Error when the job can never run on this host.
func (r *localRunner) PrepareJob(id string, job *domain.Job) error {
	if diag := r.total.diagnose(job.Conf.ResourceLimits); diag != "" {
		job.Error = diag
		log.WithFields(log.Fields{"jobID": id, "limits": render.Render(job.Conf.ResourceLimits)}).Info("Job does not fit the host: ", diag)
	}
	return nil
}

func (r *localRunner) PrepareTask(id string, task *domain.Task) (string, error) {
	diag := r.total.diagnose(task.Desc.ResourceLimits)
	if diag != "" {
		log.WithFields(log.Fields{
			"taskID": id,
			"jobID":  task.Desc.JobID,
			"limits": render.Render(task.Desc.ResourceLimits),
		}).Info("Task does not fit the host: ", diag)
	}
	return diag, nil
}

func (r *localRunner) SolveJob(id string, job *domain.Job) error {
	return r.start(&process{kind: domain.KindJob, id: id, limits: job.Conf.ResourceLimits}, r.cfg.JobCommand, nil)
}

func (r *localRunner) SolveTask(id string, task *domain.Task) error {
	p := &process{kind: domain.KindTask, id: id, jobID: task.Desc.JobID, limits: task.Desc.ResourceLimits}
	return r.start(p, r.cfg.TaskCommand, task.Desc.Credentials)
}

func (r *localRunner) start(p *process, argvTmpl []string, creds *domain.Credentials) error {
	k := key(p.kind, p.id)
	if _, ok := r.procs[k]; ok {
		return fmt.Errorf("%s %s is already running", p.kind, p.id)
	}

	replacer := strings.NewReplacer("{id}", p.id, "{job_id}", p.jobID)
	argv := make([]string, len(argvTmpl))
	for i, a := range argvTmpl {
		argv[i] = replacer.Replace(a)
	}

	env := map[string]string{
		"KLEVER_ID":          p.id,
		"KLEVER_KIND":        string(p.kind),
		"KLEVER_MEMORY_SIZE": strconv.FormatUint(p.limits.MemorySize, 10),
		"KLEVER_CPU_CORES":   strconv.Itoa(p.limits.CPUCores),
		"KLEVER_DISK_SIZE":   strconv.FormatUint(p.limits.DiskSize, 10),
		"KLEVER_CPU_MODEL":   p.limits.CPUModel,
		"KLEVER_WALL_TIME":   strconv.FormatInt(p.limits.WallTime, 10),
		"KLEVER_CPU_TIME":    strconv.FormatInt(p.limits.CPUTime, 10),
	}
	if p.jobID != "" {
		env["KLEVER_JOB_ID"] = p.jobID
	}
	if creds != nil {
		env["KLEVER_USER"] = creds.User
		env["KLEVER_PASSWORD"] = creds.Password
	}

	cmd := execer.Command{Argv: argv, EnvVars: env, LogTags: execer.LogTags{JobID: p.jobID}}
	if p.kind == domain.KindJob {
		cmd.JobID = p.id
	} else {
		cmd.TaskID = p.id
	}
	if r.cfg.WorkDir != "" {
		dir := filepath.Join(r.cfg.WorkDir, string(p.kind)+"s", p.id)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating work dir for %s %s", p.kind, p.id)
		}
		out, err := os.Create(filepath.Join(dir, "output.log"))
		if err != nil {
			return errors.Wrapf(err, "creating output file for %s %s", p.kind, p.id)
		}
		cmd.Dir, cmd.Stdout, cmd.Stderr = dir, out, out
		p.output = out
	}

	proc, err := r.exec.Exec(cmd)
	if err != nil {
		r.stat.Counter(stats.RunnerProcessFailedCounter).Inc(1)
		if p.output != nil {
			p.output.Close()
		}
		return errors.Wrapf(err, "starting %s %s", p.kind, p.id)
	}
	p.proc = proc
	r.procs[k] = p
	r.free.take(p.limits)
	r.stat.Counter(stats.RunnerProcessStartedCounter).Inc(1)
	r.updateGauges()
	log.WithFields(p.fields()).WithField("argv", argv).Info("Started process")

	var st execer.ProcessStatus
	r.async.RunAsync(func() error {
		st = proc.Wait()
		return nil
	}, func(error) {
		p.exited, p.status = true, st
		if p.output != nil {
			p.output.Close()
		}
		log.WithFields(p.fields()).WithFields(log.Fields{
			"state":    st.State,
			"exitCode": st.ExitCode,
		}).Info("Process ended")
	})
	return nil
}

func (r *localRunner) IsSolving(item domain.Item) bool {
	_, ok := r.procs[key(item.ItemKind(), item.ItemID())]
	return ok
}

func (r *localRunner) ProcessJobResult(id string, job *domain.Job, tasks []*domain.Task) (bool, error) {
	done, errMsg := r.collect(key(domain.KindJob, id))
	if done {
		job.Error = errMsg
		delete(r.progress, id)
	}
	return done, nil
}

func (r *localRunner) ProcessTaskResult(id string, task *domain.Task) (bool, error) {
	done, errMsg := r.collect(key(domain.KindTask, id))
	if done {
		task.Error = errMsg
	}
	return done, nil
}

// collect releases the reservation of an exited process. An item this runner
// does not know of is over: whatever ran it is gone.
func (r *localRunner) collect(k string) (bool, string) {
	r.async.ProcessMessages()
	p, ok := r.procs[k]
	if !ok {
		return true, "not running on this host"
	}
	if !p.exited {
		return false, ""
	}
	r.release(k, p)
	switch {
	case p.status.State == execer.FAILED:
		r.stat.Counter(stats.RunnerProcessFailedCounter).Inc(1)
		return true, fmt.Sprintf("process failed: %s", p.status.Error)
	case p.status.ExitCode != 0:
		r.stat.Counter(stats.RunnerProcessFailedCounter).Inc(1)
		return true, fmt.Sprintf("process exited with code %d", p.status.ExitCode)
	}
	return true, ""
}

func (r *localRunner) release(k string, p *process) {
	delete(r.procs, k)
	r.free.give(p.limits)
	r.updateGauges()
}

// Schedule admits greedily in the given order, jobs first. Items that do not
// fit are skipped so that smaller ones behind them may still start.
func (r *localRunner) Schedule(pendingTasks []*domain.Task, pendingJobs []*domain.Job) ([]string, []string, error) {
	r.async.ProcessMessages()
	free := r.free
	var taskIDs, jobIDs []string
	for _, j := range pendingJobs {
		if free.fits(j.Conf.ResourceLimits) {
			free.take(j.Conf.ResourceLimits)
			jobIDs = append(jobIDs, j.ID)
		}
	}
	for _, t := range pendingTasks {
		if free.fits(t.Desc.ResourceLimits) {
			free.take(t.Desc.ResourceLimits)
			taskIDs = append(taskIDs, t.ID)
		}
	}
	log.WithFields(log.Fields{
		"pendingJobs":  len(pendingJobs),
		"pendingTasks": len(pendingTasks),
		"startJobs":    len(jobIDs),
		"startTasks":   len(taskIDs),
		"free":         r.free.String(),
	}).Debug("Scheduled")
	return taskIDs, jobIDs, nil
}

func (r *localRunner) CancelJob(id string, job *domain.Job, tasks []*domain.Task) error {
	for _, t := range tasks {
		r.abort(key(domain.KindTask, t.ID))
	}
	r.abort(key(domain.KindJob, id))
	delete(r.progress, id)
	return nil
}

func (r *localRunner) CancelTask(id string, task *domain.Task) error {
	r.abort(key(domain.KindTask, id))
	return nil
}

func (r *localRunner) abort(k string) {
	p, ok := r.procs[k]
	if !ok {
		return
	}
	st := p.proc.Abort()
	log.WithFields(p.fields()).WithField("state", st.State).Info("Aborted process")
	r.release(k, p)
}

func (r *localRunner) UpdateNodes() error {
	if r.total.cores <= 0 || r.total.memory == 0 {
		return errors.New("local runner is not initialized")
	}
	r.async.ProcessMessages()
	r.updateGauges()
	return nil
}

// UpdateTools checks that every configured tool resolves to an executable.
func (r *localRunner) UpdateTools() error {
	names := make([]string, 0, len(r.cfg.Tools))
	for name := range r.cfg.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	var missing []string
	for _, name := range names {
		if _, err := r.lookPath(r.cfg.Tools[name]); err != nil {
			missing = append(missing, fmt.Sprintf("%s (%s)", name, r.cfg.Tools[name]))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("tools not found: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (r *localRunner) AddJobProgress(id string, job *domain.Job, progress *domain.Progress) error {
	if progress == nil {
		return nil
	}
	r.progress[id] = *progress
	log.WithFields(log.Fields{
		"jobID":    id,
		"total":    progress.TasksTotal,
		"finished": progress.TasksFinished,
		"errors":   progress.TasksError,
	}).Debug("Job progress")
	return nil
}

func (r *localRunner) Flush() error {
	log.WithField("running", len(r.procs)).Debug("Flush")
	return nil
}

func (r *localRunner) Terminate() error {
	keys := make([]string, 0, len(r.procs))
	for k := range r.procs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.abort(k)
	}
	r.async.ProcessMessages()
	log.Info("Local runner terminated")
	return nil
}

func (r *localRunner) updateGauges() {
	r.stat.Gauge(stats.RunnerReservedCoresGauge).Update(int64(r.total.cores - r.free.cores))
	r.stat.Gauge(stats.RunnerReservedMemoryGauge).Update(int64(r.total.memory - r.free.memory))
}
