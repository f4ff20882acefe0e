package coordination

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldv-klever/klever-sub005/common/stats"
	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

type recorded struct {
	method string
	path    string
	escaped string
	body    string
	user    string
}

type fakeService struct {
	mu       sync.Mutex
	requests []recorded
	handlers map[string]func(w http.ResponseWriter)
}

func newFakeService() *fakeService {
	return &fakeService{handlers: map[string]func(w http.ResponseWriter){}}
}

func (f *fakeService) on(method, path string, h func(w http.ResponseWriter)) {
	f.handlers[method+" "+path] = h
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	user, _, _ := r.BasicAuth()
	f.mu.Lock()
	f.requests = append(f.requests, recorded{r.Method, r.URL.Path, r.URL.EscapedPath(), string(body), user})
	f.mu.Unlock()
	if h, ok := f.handlers[r.Method+" "+r.URL.Path]; ok {
		h(w)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (f *fakeService) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func jsonReply(v interface{}) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

func newTestClient(t *testing.T, svc *fakeService) (Client, stats.StatsRegistry) {
	ts := httptest.NewServer(svc)
	t.Cleanup(ts.Close)
	reg := stats.NewFinagleStatsRegistry()
	stat, _ := stats.NewCustomStatsReceiver(func() stats.StatsRegistry { return reg }, 0)
	c := newHTTPClient(Config{URL: ts.URL + "/api", User: "scheduler", Password: "pw"}, http.DefaultClient, nil, stat)
	t.Cleanup(c.Stop)
	return c, reg
}

func TestSubmissions(t *testing.T) {
	svc := newFakeService()
	c, _ := newTestClient(t, svc)

	cases := []struct {
		call   func() error
		method string
		path   string
		body   string
	}{
		{func() error { return c.Register("local") }, "POST", "/api/scheduler/register/", `{"scheduler":"local"}`},
		{func() error { return c.SubmitJobFinished("J1") }, "POST", "/api/scheduler/jobs/J1/status/", `{"status":"solved"}`},
		{func() error { return c.SubmitJobError("J1", "terminated or reset") }, "POST", "/api/scheduler/jobs/J1/status/", `{"status":"failed","error":"terminated or reset"}`},
		{func() error { return c.SubmitTaskFinished("T1") }, "POST", "/api/scheduler/tasks/T1/status/", `{"status":"finished"}`},
		{func() error { return c.SubmitTaskError("T1", "bad limits") }, "POST", "/api/scheduler/tasks/T1/status/", `{"status":"error","error":"bad limits"}`},
		{func() error { return c.SubmitProcessingTask("T1") }, "POST", "/api/scheduler/tasks/T1/status/", `{"status":"processing"}`},
		{func() error { return c.SubmitTaskCancelled("T1") }, "POST", "/api/scheduler/tasks/T1/status/", `{"status":"cancelled"}`},
		{func() error { return c.CancelJob("J1") }, "POST", "/api/scheduler/jobs/J1/cancel/", ``},
		{func() error { return c.DeleteTask("T1") }, "DELETE", "/api/scheduler/tasks/T1/", ``},
	}
	for _, tc := range cases {
		require.NoError(t, tc.call(), tc.path)
		got := svc.last()
		assert.Equal(t, tc.method, got.method)
		assert.Equal(t, tc.path, got.path)
		assert.Equal(t, "scheduler", got.user)
		if tc.body == "" {
			assert.Empty(t, got.body)
		} else {
			assert.JSONEq(t, tc.body, got.body)
		}
	}
}

func TestIDsAreEscapedInPaths(t *testing.T) {
	svc := newFakeService()
	c, _ := newTestClient(t, svc)

	require.NoError(t, c.SubmitTaskCancelled("a/b c"))
	got := svc.last()
	assert.Equal(t, "/api/scheduler/tasks/a%2Fb%20c/status/", got.escaped)
	assert.Equal(t, "/api/scheduler/tasks/a/b c/status/", got.path)

	require.NoError(t, c.CancelJob("../register"))
	assert.Equal(t, "/api/scheduler/jobs/..%2Fregister/cancel/", svc.last().escaped)
}

func TestPullConfigurations(t *testing.T) {
	svc := newFakeService()
	svc.on("GET", "/api/scheduler/jobs/J1/configuration/", jsonReply(map[string]interface{}{
		"priority":             2,
		"resource_limits":      map[string]interface{}{"memory_size": 1073741824, "cpu_cores": 2},
		"task_resource_limits": map[string]interface{}{"memory_size": "1GB"},
	}))
	svc.on("GET", "/api/scheduler/tasks/T1/configuration/", jsonReply(map[string]interface{}{
		"job_id":          "J1",
		"priority":        5,
		"resource_limits": map[string]interface{}{},
		"credentials":     map[string]string{"user": "u", "password": "p"},
	}))
	c, _ := newTestClient(t, svc)

	job, err := c.PullJobConf("J1")
	require.NoError(t, err)
	assert.Equal(t, "J1", job.ID)
	assert.Equal(t, 2, job.Priority)
	assert.Equal(t, "1GB", job.TaskResourceLimits[domain.MemorySizeField])

	task, err := c.PullTaskConf("T1")
	require.NoError(t, err)
	assert.Equal(t, "T1", task.ID)
	assert.Equal(t, "J1", task.JobID)
	assert.Empty(t, task.ResourceLimits)
	require.NotNil(t, task.Credentials)
	assert.Equal(t, "u", task.Credentials.User)
}

func TestTaskListings(t *testing.T) {
	svc := newFakeService()
	svc.on("GET", "/api/scheduler/jobs/J2/tasks/", jsonReply([]map[string]interface{}{
		{"id": "T2", "status": "pending"}, {"id": "T3", "status": "1"}, {"id": "T4", "status": "finished"},
	}))
	svc.on("GET", "/api/scheduler/tasks/", jsonReply([]map[string]interface{}{
		{"id": "T5", "status": 4},
	}))
	c, _ := newTestClient(t, svc)

	tasks, err := c.GetJobTasks("J2")
	require.NoError(t, err)
	assert.Equal(t, []domain.RemoteTaskStatus{{ID: "T2", Status: domain.TaskPending}, {ID: "T3", Status: domain.TaskProcessing}, {ID: "T4", Status: domain.TaskFinished}}, tasks)

	all, err := c.GetAllTasks()
	require.NoError(t, err)
	assert.Equal(t, []domain.RemoteTaskStatus{{ID: "T5", Status: domain.TaskCancelled}}, all)
}

func TestJobProgress(t *testing.T) {
	svc := newFakeService()
	svc.on("GET", "/api/scheduler/jobs/J1/progress/", jsonReply(domain.Progress{TasksTotal: 10, TasksFinished: 4}))
	svc.on("GET", "/api/scheduler/jobs/J2/progress/", func(w http.ResponseWriter) { w.WriteHeader(http.StatusNotFound) })
	c, _ := newTestClient(t, svc)

	p, err := c.GetJobProgress("J1")
	require.NoError(t, err)
	assert.Equal(t, &domain.Progress{TasksTotal: 10, TasksFinished: 4}, p)

	p, err = c.GetJobProgress("J2")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestErrorAnswers(t *testing.T) {
	svc := newFakeService()
	svc.on("POST", "/api/scheduler/jobs/J9/status/", func(w http.ResponseWriter) {
		http.Error(w, "no such job", http.StatusBadRequest)
	})
	c, reg := newTestClient(t, svc)

	err := c.SubmitJobError("J9", "x")
	require.Error(t, err)
	coordErr, ok := errors.Cause(err).(*CoordinationError)
	require.True(t, ok, "%T", err)
	assert.Equal(t, http.StatusBadRequest, coordErr.StatusCode)
	assert.Equal(t, "no such job", coordErr.Body)
	assert.Equal(t, "J9", coordErr.ID)

	if !stats.StatsOk("coordination", reg, t, map[string]stats.Rule{
		"coordination/" + stats.CoordRequestCounter:      {Checker: stats.Int64EqTest, Value: 1},
		"coordination/" + stats.CoordRequestErrorCounter: {Checker: stats.Int64EqTest, Value: 1},
	}) {
		t.Fatal("stats check did not pass")
	}
}

func TestStoppedClientFails(t *testing.T) {
	c, _ := newTestClient(t, newFakeService())
	c.Stop()
	assert.Error(t, c.SubmitTaskFinished("T1"))
}
