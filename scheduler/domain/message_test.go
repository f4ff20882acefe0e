package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusMessage(t *testing.T) {
	m, err := ParseStatusMessage("job J1 1")
	require.NoError(t, err)
	assert.Equal(t, StatusMessage{Kind: KindJob, ID: "J1", Status: "1"}, m)

	m, err = ParseStatusMessage("  task  T1   processing ")
	require.NoError(t, err)
	assert.Equal(t, StatusMessage{Kind: KindTask, ID: "T1", Status: "processing"}, m)

	for _, raw := range []string{"", "job J1", "job J1 1 extra", "node N1 1"} {
		_, err := ParseStatusMessage(raw)
		if assert.Error(t, err, raw) {
			_, ok := err.(*ProtocolError)
			assert.True(t, ok)
		}
	}
}

func TestParseJobEvent(t *testing.T) {
	cases := map[string]JobEvent{
		"1":          JobEventSubmitted,
		"pending":    JobEventSubmitted,
		"2":          JobEventAccepted,
		"3":          JobEventSolved,
		"4":          JobEventFailed,
		"5":          JobEventCorrupted,
		"6":          JobEventCancelling,
		"CANCELLING": JobEventCancelling,
		"7":          JobEventCancelled,
		"8":          JobEventTerminated,
	}
	for code, expected := range cases {
		e, err := ParseJobEvent(code)
		require.NoError(t, err, code)
		assert.Equal(t, expected, e, code)
	}
	for _, code := range []string{"0", "9", "-1", "refining", ""} {
		_, err := ParseJobEvent(code)
		assert.Error(t, err, code)
	}
}

func TestParseTaskStatus(t *testing.T) {
	for s := TaskPending; s <= TaskCancelled; s++ {
		parsed, err := ParseTaskStatus(s.Code())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	s, err := ParseTaskStatus("error")
	require.NoError(t, err)
	assert.Equal(t, TaskErrored, s)

	_, err = ParseTaskStatus("5")
	assert.Error(t, err)
	_, err = ParseTaskStatus("lost")
	assert.Error(t, err)
}

func TestTaskStatusJSON(t *testing.T) {
	var entries []RemoteTaskStatus
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"T1","status":"pending"},{"id":"T2","status":1},{"id":"T3","status":"4"}]`), &entries))
	assert.Equal(t, []RemoteTaskStatus{{"T1", TaskPending}, {"T2", TaskProcessing}, {"T3", TaskCancelled}}, entries)

	out, err := json.Marshal(RemoteTaskStatus{"T1", TaskErrored})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"T1","status":"error"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"id":"T1","status":"gone"}`), &RemoteTaskStatus{}))
}

func TestStatusPredicates(t *testing.T) {
	assert.False(t, JobPending.IsDone())
	assert.False(t, JobProcessing.IsDone())
	assert.True(t, JobCorrupted.IsDone())
	assert.True(t, TaskProcessing.IsActive())
	assert.False(t, TaskFinished.IsActive())
	assert.True(t, TaskCancelled.IsDone())
}
