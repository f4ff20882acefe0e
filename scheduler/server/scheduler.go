package server

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	schederrors "github.com/ldv-klever/klever-sub005/common/errors"
	"github.com/ldv-klever/klever-sub005/common/stats"
	"github.com/ldv-klever/klever-sub005/runner"
	"github.com/ldv-klever/klever-sub005/scheduler/coordination"
	"github.com/ldv-klever/klever-sub005/scheduler/ingest"
)

const (
	// How long a tick sleeps before the next one
	DefaultIterationPeriod = 500 * time.Millisecond

	// Job progress is pulled every this many ticks
	DefaultProgressPollEvery = 10

	// Pause between a fatal failure and reinitialization in production mode
	DefaultReinitBackoff = 10 * time.Second

	// Error reported for every job in flight when the scheduler tears down
	TerminatedReason = "terminated or reset"

	// Error reported for tasks the coordination service still shows active at startup
	LostTaskReason = "task was lost: scheduler (re)started"

	// Error reported for a job accepted for processing that this scheduler does not track
	NotTrackedReason = "not tracked by scheduler"
)

// SchedulerConfiguration variables read at initialization
// Production - when true a fatal failure is followed by a full reinitialization
//
//	instead of an exit.
//
// IterationPeriod - sleep between ticks.
// ProgressPollEvery - job progress is pulled on every n-th tick.
// ReinitBackoff - sleep before reinitializing in production mode.
// ReceiveTimeout - status ingestor receive timeout.
type SchedulerConfiguration struct {
	Production        bool
	IterationPeriod   time.Duration
	ProgressPollEvery int
	ReinitBackoff     time.Duration
	ReceiveTimeout    time.Duration
}

func (sc *SchedulerConfiguration) String() string {
	return fmt.Sprintf("SchedulerConfiguration: Production: %t, IterationPeriod: %s, ProgressPollEvery: %d, ReinitBackoff: %s, ReceiveTimeout: %s",
		sc.Production, sc.IterationPeriod, sc.ProgressPollEvery, sc.ReinitBackoff, sc.ReceiveTimeout)
}

func (sc *SchedulerConfiguration) withDefaults() SchedulerConfiguration {
	c := *sc
	if c.IterationPeriod <= 0 {
		c.IterationPeriod = DefaultIterationPeriod
	}
	if c.ProgressPollEvery <= 0 {
		c.ProgressPollEvery = DefaultProgressPollEvery
	}
	if c.ReinitBackoff <= 0 {
		c.ReinitBackoff = DefaultReinitBackoff
	}
	if c.ReceiveTimeout <= 0 {
		c.ReceiveTimeout = ingest.DefaultReceiveTimeout
	}
	return c
}

// Each (re)initialization gets fresh collaborators from these.
type RunnerFactory func() (runner.Runner, error)
type ClientFactory func() (coordination.Client, error)

// Service supervises the scheduler: it initializes it, runs ticks until a fatal
// error, tears everything down, and then exits or starts over.
type Service struct {
	config    SchedulerConfiguration
	newRunner RunnerFactory
	newClient ClientFactory
	newSource ingest.SourceFactory
	stat      stats.StatsReceiver

	state atomic.Value // *State
}

func NewService(
	config SchedulerConfiguration,
	newRunner RunnerFactory,
	newClient ClientFactory,
	newSource ingest.SourceFactory,
	stat stats.StatsReceiver,
) *Service {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Service{
		config:    config.withDefaults(),
		newRunner: newRunner,
		newClient: newClient,
		newSource: newSource,
		stat:      stat,
	}
}

// State returns the snapshot published after the last tick, or nil before the first one.
func (svc *Service) State() interface{} {
	if st, ok := svc.state.Load().(*State); ok && st != nil {
		return st
	}
	return nil
}

// Run blocks until ctx is done or, outside production mode, until the first fatal error.
// The returned error always carries an exit code.
func (svc *Service) Run(ctx context.Context) error {
	log.Info(svc.config.String())
	reinit := backoff.WithContext(backoff.NewConstantBackOff(svc.config.ReinitBackoff), ctx)
	for {
		err := svc.runOnce(ctx)
		if ctx.Err() != nil {
			log.Info("Scheduler interrupted")
			return interrupted(ctx)
		}
		svc.stat.Scope("scheduler").Counter(stats.SchedFatalErrorCounter).Inc(1)
		if !svc.config.Production {
			log.WithError(err).Error("Scheduler failed")
			return schederrors.NewError(err, schederrors.FatalExitCode)
		}

		wait := reinit.NextBackOff()
		log.WithError(err).Errorf("Scheduler failed, reinitializing in %s", wait)
		if wait == backoff.Stop {
			return interrupted(ctx)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return interrupted(ctx)
		case <-timer.C:
		}
		svc.stat.Scope("scheduler").Counter(stats.SchedReinitCounter).Inc(1)
	}
}

func interrupted(ctx context.Context) error {
	return schederrors.NewError(errors.Wrap(ctx.Err(), "scheduler interrupted"), schederrors.InterruptedExitCode)
}

// runOnce builds a scheduler from fresh collaborators and runs it until it fails.
// Whatever got started is torn down before returning.
func (svc *Service) runOnce(ctx context.Context) error {
	r, err := svc.newRunner()
	if err != nil {
		return errors.Wrap(err, "creating runner")
	}
	client, err := svc.newClient()
	if err != nil {
		return errors.Wrap(err, "creating coordination client")
	}
	s := newStatefulScheduler(svc.config, r, client, svc.stat)
	s.onTick = func(st *State) { svc.state.Store(st) }
	defer s.teardown()

	if err := s.init(); err != nil {
		return err
	}
	source, err := svc.newSource()
	if err != nil {
		return errors.Wrap(err, "connecting to status queue")
	}
	ingestor := ingest.NewIngestor(source, svc.config.ReceiveTimeout, svc.stat)
	ingestor.Start()
	s.inbox = ingestor

	return s.loop(ctx)
}
