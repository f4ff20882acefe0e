package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

func Test_SortByPriority_IsStable(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "T1", Desc: domain.TaskDescription{Priority: 5}},
		{ID: "T2", Desc: domain.TaskDescription{Priority: 1}},
		{ID: "T3", Desc: domain.TaskDescription{Priority: 5}},
		{ID: "T4", Desc: domain.TaskDescription{Priority: 1}},
	}
	sortTasksByPriority(tasks)
	var ids []string
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"T2", "T4", "T1", "T3"}, ids)

	jobs := []*domain.Job{
		{ID: "J1", Conf: domain.JobConfiguration{Priority: 3}},
		{ID: "J2", Conf: domain.JobConfiguration{Priority: 0}},
		{ID: "J3", Conf: domain.JobConfiguration{Priority: 3}},
	}
	sortJobsByPriority(jobs)
	assert.Equal(t, "J2", jobs[0].ID)
	assert.Equal(t, "J1", jobs[1].ID)
	assert.Equal(t, "J3", jobs[2].ID)
}

func Test_Snapshot_ListsTrackedEntitiesInIDOrder(t *testing.T) {
	s := newStatefulScheduler(SchedulerConfiguration{}, nil, nil, nil)
	s.jobs["J2"] = &domain.Job{ID: "J2", Status: domain.JobProcessing}
	s.jobs["J1"] = &domain.Job{ID: "J1", Status: domain.JobErrored, Error: "bad limits"}
	s.tasks["T1"] = &domain.Task{ID: "T1", Status: domain.TaskPending, Desc: domain.TaskDescription{JobID: "J2", Priority: 4}}

	st := s.snapshot()
	assert.Equal(t, []JobState{
		{ID: "J1", Status: "ERRORED", Error: "bad limits"},
		{ID: "J2", Status: "PROCESSING"},
	}, st.Jobs)
	assert.Equal(t, []TaskState{{ID: "T1", JobID: "J2", Status: "PENDING", Priority: 4}}, st.Tasks)

	assert.Equal(t, []*domain.Task{s.tasks["T1"]}, s.relevantTasks("J2"))
	assert.Empty(t, s.relevantTasks("J1"))
}
