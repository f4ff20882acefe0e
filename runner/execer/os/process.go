package os

import (
	"os/exec"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/ldv-klever/klever-sub005/runner/execer"
)

// process is reaped by exactly one goroutine. Wait and Abort only observe doneCh,
// so there is no second call to cmd.Wait to race with.
type process struct {
	cmd          *exec.Cmd
	wg           *sync.WaitGroup
	abortTimeout time.Duration
	tags         execer.LogTags

	doneCh chan struct{}
	mu     sync.Mutex
	result *execer.ProcessStatus
}

func (p *process) fields() log.Fields {
	return log.Fields{
		"pid":    p.cmd.Process.Pid,
		"jobID":  p.tags.JobID,
		"taskID": p.tags.TaskID,
	}
}

func (p *process) reap() {
	p.wg.Wait()
	err := p.cmd.Wait()

	status := execer.ProcessStatus{State: execer.COMPLETE}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
				status.ExitCode = ws.ExitStatus()
				if ws.Signaled() {
					status.ExitCode = -1
					status.Error = "killed by " + ws.Signal().String()
				}
			} else {
				status.State = execer.FAILED
				status.Error = "Could not find WaitStatus from exiterr.Sys()"
			}
		} else {
			status.State = execer.FAILED
			status.Error = err.Error()
		}
	}

	p.mu.Lock()
	if p.result == nil {
		p.result = &status
	}
	p.mu.Unlock()
	close(p.doneCh)
	log.WithFields(p.fields()).Infof("Process finished: %+v", status)
}

func (p *process) Wait() execer.ProcessStatus {
	<-p.doneCh
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.result
}

// Abort sends SIGTERM to the process group and SIGKILL if it is still around after abortTimeout.
func (p *process) Abort() execer.ProcessStatus {
	p.mu.Lock()
	if p.result == nil {
		p.result = &execer.ProcessStatus{State: execer.FAILED, ExitCode: -1, Error: "Aborted"}
	}
	p.mu.Unlock()

	select {
	case <-p.doneCh:
		return p.Wait()
	default:
	}

	pgid := p.cmd.Process.Pid
	log.WithFields(p.fields()).Info("Aborting process group via SIGTERM")
	if err := unix.Kill(-pgid, unix.SIGTERM); err != nil {
		log.WithFields(p.fields()).Warnf("SIGTERM failed: %v", err)
	}

	timer := time.NewTimer(p.abortTimeout)
	defer timer.Stop()
	select {
	case <-p.doneCh:
	case <-timer.C:
		log.WithFields(p.fields()).Warnf("%s timeout exceeded, killing process group", p.abortTimeout)
		if err := unix.Kill(-pgid, unix.SIGKILL); err != nil {
			log.WithFields(p.fields()).Errorf("SIGKILL failed: %v", err)
		}
		<-p.doneCh
	}
	return p.Wait()
}
