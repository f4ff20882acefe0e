package coordination

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ldv-klever/klever-sub005/common/stats"
	"github.com/ldv-klever/klever-sub005/scheduler/domain"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 5
)

type Config struct {
	URL      string
	User     string
	Password string

	// Per attempt.
	Timeout    time.Duration
	MaxRetries int

	// <= 0 means unlimited.
	RequestsPerSecond float64
}

// Doer is satisfied by *pester.Client and *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type httpClient struct {
	root      string
	cfg       Config
	doer      Doer
	transport *http.Transport
	limiter   *rate.Limiter
	stat      stats.StatsReceiver
	ctx       context.Context
	cancel    context.CancelFunc
}

// MakePesterClient retries failed attempts and 5xx answers with exponential backoff.
func MakePesterClient(hc *http.Client, maxRetries int) *pester.Client {
	client := pester.NewExtendedClient(hc)
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = maxRetries
	client.LogHook = func(e pester.ErrEntry) {
		log.Warnf("Retrying coordination request after failed attempt: %+v", e)
	}
	return client
}

// NewHTTPClient returns a Client for the REST API rooted at cfg.URL.
func NewHTTPClient(cfg Config, stat stats.StatsReceiver) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	doer := MakePesterClient(&http.Client{Timeout: cfg.Timeout, Transport: transport}, cfg.MaxRetries)
	return newHTTPClient(cfg, doer, transport, stat)
}

func newHTTPClient(cfg Config, doer Doer, transport *http.Transport, stat stats.StatsReceiver) *httpClient {
	root := cfg.URL
	if !strings.HasSuffix(root, "/") {
		root = root + "/"
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	ctx, cancel := context.WithCancel(context.Background())
	log.Infof("Making new coordination client with root URI: %s", root)
	return &httpClient{
		root:      root,
		cfg:       cfg,
		doer:      doer,
		transport: transport,
		limiter:   rate.NewLimiter(limit, 1),
		stat:      stat.Scope("coordination"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

type statusUpdate struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// call sends body (if not nil) as JSON and decodes the answer into out (if not nil).
// It returns the HTTP status for callers that give meaning to specific codes.
func (c *httpClient) call(op, id, method, path string, body, out interface{}, okCodes ...int) (int, error) {
	defer c.stat.Latency(stats.CoordRequestLatency_ms).Time().Stop()
	c.stat.Counter(stats.CoordRequestCounter).Inc(1)

	code, err := c.do(op, id, method, path, body, out, okCodes)
	if err != nil {
		c.stat.Counter(stats.CoordRequestErrorCounter).Inc(1)
	}
	return code, err
}

func (c *httpClient) do(op, id, method, path string, body, out interface{}, okCodes []int) (int, error) {
	if err := c.limiter.Wait(c.ctx); err != nil {
		return 0, errors.Wrapf(err, "coordination %s(%s)", op, id)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrapf(err, "encoding %s request", op)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.root+path, reader)
	if err != nil {
		return 0, errors.Wrapf(err, "building %s request", op)
	}
	req = req.WithContext(c.ctx)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.User != "" {
		req.SetBasicAuth(c.cfg.User, c.cfg.Password)
	}

	log.WithFields(log.Fields{"op": op, "id": id, "method": method, "path": path}).Debug("Coordination request")
	resp, err := c.doer.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "coordination %s(%s)", op, id)
	}
	defer resp.Body.Close()

	for _, code := range okCodes {
		if resp.StatusCode == code {
			return code, nil
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, &CoordinationError{Op: op, ID: id, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, errors.Wrapf(err, "decoding %s(%s) response", op, id)
		}
	}
	return resp.StatusCode, nil
}

func (c *httpClient) Register(schedulerType string) error {
	_, err := c.call("Register", "", http.MethodPost, "scheduler/register/", map[string]string{"scheduler": schedulerType}, nil)
	return err
}

func (c *httpClient) PullJobConf(id string) (*domain.JobConfig, error) {
	conf := &domain.JobConfig{}
	if _, err := c.call("PullJobConf", id, http.MethodGet, "scheduler/jobs/"+url.PathEscape(id)+"/configuration/", nil, conf); err != nil {
		return nil, err
	}
	if conf.ID == "" {
		conf.ID = id
	}
	return conf, nil
}

func (c *httpClient) PullTaskConf(id string) (*domain.TaskConfig, error) {
	conf := &domain.TaskConfig{}
	if _, err := c.call("PullTaskConf", id, http.MethodGet, "scheduler/tasks/"+url.PathEscape(id)+"/configuration/", nil, conf); err != nil {
		return nil, err
	}
	if conf.ID == "" {
		conf.ID = id
	}
	return conf, nil
}

func (c *httpClient) submitJob(op, id string, update statusUpdate) error {
	_, err := c.call(op, id, http.MethodPost, "scheduler/jobs/"+url.PathEscape(id)+"/status/", update, nil)
	return err
}

func (c *httpClient) submitTask(op, id string, update statusUpdate) error {
	_, err := c.call(op, id, http.MethodPost, "scheduler/tasks/"+url.PathEscape(id)+"/status/", update, nil)
	return err
}

func (c *httpClient) SubmitJobFinished(id string) error {
	return c.submitJob("SubmitJobFinished", id, statusUpdate{Status: "solved"})
}

func (c *httpClient) SubmitJobError(id string, reason string) error {
	return c.submitJob("SubmitJobError", id, statusUpdate{Status: "failed", Error: reason})
}

func (c *httpClient) SubmitTaskFinished(id string) error {
	return c.submitTask("SubmitTaskFinished", id, statusUpdate{Status: "finished"})
}

func (c *httpClient) SubmitTaskError(id string, reason string) error {
	return c.submitTask("SubmitTaskError", id, statusUpdate{Status: "error", Error: reason})
}

func (c *httpClient) SubmitProcessingTask(id string) error {
	return c.submitTask("SubmitProcessingTask", id, statusUpdate{Status: "processing"})
}

func (c *httpClient) SubmitTaskCancelled(id string) error {
	return c.submitTask("SubmitTaskCancelled", id, statusUpdate{Status: "cancelled"})
}

func (c *httpClient) GetJobTasks(id string) ([]domain.RemoteTaskStatus, error) {
	var tasks []domain.RemoteTaskStatus
	if _, err := c.call("GetJobTasks", id, http.MethodGet, "scheduler/jobs/"+url.PathEscape(id)+"/tasks/", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *httpClient) GetJobProgress(id string) (*domain.Progress, error) {
	progress := &domain.Progress{}
	code, err := c.call("GetJobProgress", id, http.MethodGet, "scheduler/jobs/"+url.PathEscape(id)+"/progress/", nil, progress, http.StatusNotFound)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, nil
	}
	return progress, nil
}

func (c *httpClient) GetAllTasks() ([]domain.RemoteTaskStatus, error) {
	var tasks []domain.RemoteTaskStatus
	if _, err := c.call("GetAllTasks", "", http.MethodGet, "scheduler/tasks/", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *httpClient) CancelJob(id string) error {
	_, err := c.call("CancelJob", id, http.MethodPost, "scheduler/jobs/"+url.PathEscape(id)+"/cancel/", nil, nil)
	return err
}

func (c *httpClient) DeleteTask(id string) error {
	_, err := c.call("DeleteTask", id, http.MethodDelete, "scheduler/tasks/"+url.PathEscape(id)+"/", nil, nil, http.StatusNotFound)
	return err
}

// Stop aborts requests in flight and closes idle connections. The client must not be used afterwards.
func (c *httpClient) Stop() {
	c.cancel()
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
}
