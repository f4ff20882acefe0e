package server

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldv-klever/klever-sub005/runner/execer/execers"
	"github.com/ldv-klever/klever-sub005/runner/local"
	"github.com/ldv-klever/klever-sub005/scheduler/coordination"
	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

// A task that ends remotely must give its cores back to a real local runner,
// otherwise the next task waits forever on a one-core host.
func Test_StatefulScheduler_RemoteTaskEndFreesLocalCapacity(t *testing.T) {
	r := local.NewRunner(local.Config{
		CPUCores:    1,
		MemorySize:  "1GB",
		JobCommand:  []string{"pause"},
		TaskCommand: []string{"pause"},
	}, execers.NewSimExecer(), nil)
	require.NoError(t, r.Init())
	defer r.Terminate()

	client := coordination.NewMockClient(gomock.NewController(t))
	inbox := &fakeInbox{}
	s := newStatefulScheduler(SchedulerConfiguration{}, r, client, nil)
	s.inbox = inbox

	client.EXPECT().PullTaskConf("T1").Return(taskConf("T1", "J1", 0), nil)
	client.EXPECT().PullTaskConf("T2").Return(taskConf("T2", "J1", 0), nil)
	gomock.InOrder(
		client.EXPECT().SubmitProcessingTask("T1").Return(nil),
		client.EXPECT().SubmitProcessingTask("T2").Return(nil),
	)

	inbox.send("task T1 pending")
	require.NoError(t, s.step())
	require.Contains(t, s.tasks, "T1")
	assert.Equal(t, domain.TaskProcessing, s.tasks["T1"].Status)
	assert.True(t, r.IsSolving(s.tasks["T1"]))

	t1 := s.tasks["T1"]
	inbox.send("task T1 cancelled", "task T2 pending")
	require.NoError(t, s.step())
	assert.NotContains(t, s.tasks, "T1")
	assert.False(t, r.IsSolving(t1))
	require.Contains(t, s.tasks, "T2")
	assert.Equal(t, domain.TaskProcessing, s.tasks["T2"].Status)
	assert.True(t, r.IsSolving(s.tasks["T2"]))
}
