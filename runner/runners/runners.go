// Package runners builds the configured Runner.
package runners

import (
	"fmt"
	"time"

	"github.com/ldv-klever/klever-sub005/common/stats"
	"github.com/ldv-klever/klever-sub005/runner"
	"github.com/ldv-klever/klever-sub005/runner/execer"
	"github.com/ldv-klever/klever-sub005/runner/execer/execers"
	osexec "github.com/ldv-klever/klever-sub005/runner/execer/os"
	"github.com/ldv-klever/klever-sub005/runner/local"
)

const (
	// Local runs real processes on this host.
	Local = "local"
	// Sim runs simulated processes on this host; commands are SimExecer steps.
	Sim = "sim"
)

type Config struct {
	Type         string
	AbortTimeout time.Duration
	local.Config `mapstructure:",squash"`
}

func New(cfg Config, stat stats.StatsReceiver) (runner.Runner, error) {
	var ex execer.Execer
	switch cfg.Type {
	case Local, "":
		if cfg.AbortTimeout > 0 {
			ex = osexec.NewExecerWithAbortTimeout(cfg.AbortTimeout)
		} else {
			ex = osexec.NewExecer()
		}
	case Sim:
		ex = execers.NewSimExecer()
	default:
		return nil, fmt.Errorf("unknown runner type %q", cfg.Type)
	}
	return local.NewRunner(cfg.Config, ex, stat), nil
}
