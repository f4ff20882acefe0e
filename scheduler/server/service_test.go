package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schederrors "github.com/ldv-klever/klever-sub005/common/errors"
	"github.com/ldv-klever/klever-sub005/common/stats"
	"github.com/ldv-klever/klever-sub005/runner"
	"github.com/ldv-klever/klever-sub005/scheduler/coordination"
	"github.com/ldv-klever/klever-sub005/scheduler/domain"
	"github.com/ldv-klever/klever-sub005/scheduler/ingest"
)

// generation is the set of collaborators one (re)initialization gets.
type generation struct {
	runner *runner.MockRunner
	client *coordination.MockClient
	source *ingest.FakeSource
}

func newGeneration(ctrl *gomock.Controller) *generation {
	return &generation{
		runner: runner.NewMockRunner(ctrl),
		client: coordination.NewMockClient(ctrl),
		source: ingest.NewFakeSource(),
	}
}

func (g *generation) expectInit() {
	g.runner.EXPECT().Init().Return(nil)
	g.runner.EXPECT().SchedulerType().Return("local")
	g.client.EXPECT().Register("local").Return(nil)
	g.client.EXPECT().GetAllTasks().Return(nil, nil)
}

func makeService(t *testing.T, config SchedulerConfiguration, gens ...*generation) (*Service, stats.StatsRegistry) {
	next := 0
	current := func() *generation {
		require.Less(t, next, len(gens), "unexpected reinitialization")
		return gens[next]
	}
	reg := stats.NewFinagleStatsRegistry()
	stat, _ := stats.NewCustomStatsReceiver(func() stats.StatsRegistry { return reg }, 0)
	svc := NewService(config,
		func() (runner.Runner, error) { return current().runner, nil },
		func() (coordination.Client, error) { return current().client, nil },
		func() (ingest.Source, error) {
			g := current()
			next++
			return g.source, nil
		},
		stat)
	return svc, reg
}

func exitCode(t *testing.T, err error) schederrors.ExitCode {
	var exitErr *schederrors.ExitCodeError
	require.True(t, errors.As(err, &exitErr), "%v", err)
	return exitErr.GetExitCode()
}

// expectFailingJob makes the runner fail as soon as J1 is up for scheduling.
func (g *generation) expectFailingJob() {
	g.client.EXPECT().PullJobConf("J1").Return(jobConf("J1", 0), nil)
	g.runner.EXPECT().PrepareJob("J1", gomock.Any()).Return(nil)
	g.runner.EXPECT().IsSolving(gomock.Any()).Return(false).AnyTimes()
	g.runner.EXPECT().UpdateTools().Return(nil).AnyTimes()
	g.runner.EXPECT().UpdateNodes().Return(nil).AnyTimes()
	g.runner.EXPECT().Schedule(gomock.Any(), gomock.Any()).DoAndReturn(
		func(tasks []*domain.Task, jobs []*domain.Job) ([]string, []string, error) {
			if len(jobs) > 0 {
				return nil, nil, errors.New("backend down")
			}
			return nil, nil, nil
		}).AnyTimes()
	g.source.Send("job J1 submitted")
}

func TestService_ScenarioE_ProductionReinitializes(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, second := newGeneration(ctrl), newGeneration(ctrl)
	first.expectInit()
	first.expectFailingJob()
	gomock.InOrder(
		first.runner.EXPECT().Terminate().Return(nil),
		first.client.EXPECT().SubmitJobError("J1", TerminatedReason).Return(nil),
		first.client.EXPECT().Stop(),
	)

	second.expectInit()
	second.runner.EXPECT().IsSolving(gomock.Any()).Return(false).AnyTimes()
	second.runner.EXPECT().UpdateTools().Return(nil).AnyTimes()
	second.runner.EXPECT().UpdateNodes().Return(nil).AnyTimes()
	second.runner.EXPECT().Schedule(gomock.Len(0), gomock.Len(0)).DoAndReturn(
		func(tasks []*domain.Task, jobs []*domain.Job) ([]string, []string, error) {
			// The scheduler is running again with an empty view.
			cancel()
			return nil, nil, nil
		})
	second.runner.EXPECT().Terminate().Return(nil)
	second.client.EXPECT().Stop()

	svc, reg := makeService(t, SchedulerConfiguration{
		Production:      true,
		IterationPeriod: time.Millisecond,
		ReinitBackoff:   10 * time.Millisecond,
		ReceiveTimeout:  10 * time.Millisecond,
	}, first, second)

	err := svc.Run(ctx)
	assert.Equal(t, schederrors.InterruptedExitCode, exitCode(t, err))
	assert.True(t, first.source.Closed())
	assert.True(t, second.source.Closed())

	if !stats.StatsOk("", reg, t, map[string]stats.Rule{
		"scheduler/" + stats.SchedFatalErrorCounter: {Checker: stats.Int64EqTest, Value: 1},
		"scheduler/" + stats.SchedReinitCounter:     {Checker: stats.Int64EqTest, Value: 1},
	}) {
		t.Fatal("stats check did not pass")
	}
	st, ok := svc.State().(*State)
	require.True(t, ok)
	assert.Empty(t, st.Jobs)
}

func TestService_NonProductionExits(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := newGeneration(ctrl)
	g.expectInit()
	g.expectFailingJob()
	g.runner.EXPECT().Terminate().Return(nil)
	g.client.EXPECT().SubmitJobError("J1", TerminatedReason).Return(nil)
	g.client.EXPECT().Stop()

	svc, _ := makeService(t, SchedulerConfiguration{IterationPeriod: time.Millisecond, ReceiveTimeout: 10 * time.Millisecond}, g)
	err := svc.Run(context.Background())
	assert.Equal(t, schederrors.FatalExitCode, exitCode(t, err))
	var backendErr *domain.BackendError
	assert.True(t, errors.As(err, &backendErr), "%v", err)
}

func TestService_InitFailureTearsDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := newGeneration(ctrl)
	g.runner.EXPECT().Init().Return(errors.New("no such work dir"))
	g.runner.EXPECT().Terminate().Return(nil)
	g.client.EXPECT().Stop()

	svc, _ := makeService(t, SchedulerConfiguration{}, g)
	err := svc.Run(context.Background())
	assert.Equal(t, schederrors.FatalExitCode, exitCode(t, err))
	st, ok := svc.State().(*State)
	require.True(t, ok)
	assert.Zero(t, st.Ticks)
}

func TestService_InterruptDuringBackoff(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := newGeneration(ctrl)
	g.runner.EXPECT().Init().Return(errors.New("backend unreachable"))
	g.runner.EXPECT().Terminate().Return(nil)
	g.client.EXPECT().Stop()

	ctx, cancel := context.WithCancel(context.Background())
	svc, _ := makeService(t, SchedulerConfiguration{Production: true, ReinitBackoff: time.Hour}, g)
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := svc.Run(ctx)
	assert.Equal(t, schederrors.InterruptedExitCode, exitCode(t, err))
}
