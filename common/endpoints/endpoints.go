// Package endpoints serves the scheduler's admin HTTP surface:
// /health, /admin/metrics.json and /admin/state.
package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"

	"github.com/ldv-klever/klever-sub005/common/stats"
)

// StateFunc returns a JSON-marshalable snapshot of whatever the process wants to expose.
type StateFunc func() interface{}

type StatScope string

// Admin requests are served on at most this many connections at once.
const DefaultMaxConns = 16

func NewTwitterServer(addr string, stats stats.StatsReceiver, state StateFunc) *TwitterServer {
	s := &TwitterServer{
		Addr:  addr,
		Stats: stats,
		State:    state,
		MaxConns: DefaultMaxConns,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("/", helpHandler)
	s.mux.HandleFunc("/health", healthHandler)
	s.mux.HandleFunc("/admin/metrics.json", s.statsHandler)
	s.mux.HandleFunc("/admin/state", s.stateHandler)
	return s
}

type TwitterServer struct {
	Addr     string
	Stats    stats.StatsReceiver
	State    StateFunc
	MaxConns int
	mux      *http.ServeMux
}

func (s *TwitterServer) Handler() http.Handler {
	return s.mux
}

// Serve blocks until ctx is done or the listener fails.
func (s *TwitterServer) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	if s.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.MaxConns)
	}
	srv := &http.Server{Handler: s.mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	log.Infof("Serving http & stats on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Error(w, "Common paths: '/health', '/admin/metrics.json', '/admin/state'", http.StatusNotImplemented)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "ok")
}

func (s *TwitterServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	pretty := r.URL.Query().Get("pretty") == "true"
	if _, err := w.Write(s.Stats.Render(pretty)); err != nil {
		log.Debugf("Writing stats response: %v", err)
	}
}

func (s *TwitterServer) stateHandler(w http.ResponseWriter, r *http.Request) {
	if s.State == nil {
		http.Error(w, "no state published", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(s.State()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// MakeStatsReceiver returns a latched, finagle-rendered receiver scoped to scope.
// cancelFn stops the latch goroutine.
func MakeStatsReceiver(scope StatScope, latch time.Duration) (stats.StatsReceiver, func()) {
	s, cancelFn := stats.NewCustomStatsReceiver(stats.NewFinagleStatsRegistry, latch)
	return s.Scope(string(scope)).Precision(time.Millisecond), cancelFn
}
