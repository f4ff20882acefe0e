package endpoints

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldv-klever/klever-sub005/common/stats"
)

func get(t *testing.T, url string) (int, string) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAdminEndpoints(t *testing.T) {
	stat, cancel := MakeStatsReceiver("scheduler", 0)
	defer cancel()
	stat.Counter(stats.SchedStepCounter).Inc(2)

	server := NewTwitterServer("localhost:0", stat, func() interface{} {
		return map[string][]string{"jobs": {"J1"}}
	})
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	code, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = get(t, ts.URL+"/admin/metrics.json")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"scheduler/stepCounter": 2}`, body)

	code, body = get(t, ts.URL+"/admin/state")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"jobs": ["J1"]}`, body)

	code, _ = get(t, ts.URL+"/nothing")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStateWithoutPublisher(t *testing.T) {
	server := NewTwitterServer("localhost:0", stats.NilStatsReceiver(), nil)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	code, _ := get(t, ts.URL+"/admin/state")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestServeStopsWithContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	server := NewTwitterServer(addr, stats.NilStatsReceiver(), nil)
	server.MaxConns = 1
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()

	assert.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
