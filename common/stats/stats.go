// Package stats is a thin layer over go-metrics used by every scheduler component.
//
// It adds a few things go-metrics lacks:
// - A StatsReceiver that can be scoped and handed down a call tree.
// - A Latency instrument for timing call sites.
// - A latched mode which renders periodic snapshots instead of live values.
// - Finagle style flat JSON rendering for /admin/metrics.json.
package stats

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

// Time is overridden by tests.
var Time StatsTime = DefaultStatsTime()

// Instrument constructors, overridable in tests.
var NewCounter func() Counter = newMetricCounter
var NewGauge func() Gauge = newMetricGauge
var NewHistogram func() Histogram = newMetricHistogram
var NewLatency func() Latency = newLatency

// MarshalerPretty is implemented by registries that can render indented JSON.
type MarshalerPretty interface {
	MarshalJSONPretty() ([]byte, error)
}

// StatsRegistry is the subset of the go-metrics registry we rely on.
// Only the finagle registry knows how to render Latency instruments.
type StatsRegistry interface {
	// GetOrRegister returns the named metric, registering the given one (or the
	// result of calling it, when it is a constructor) if absent.
	GetOrRegister(string, interface{}) interface{}
	Unregister(string)
	Each(func(string, interface{}))
}

// StatsReceiver creates and scopes instruments. Names are joined with '/';
// a '/' inside a name element is replaced with "_SLASH_".
type StatsReceiver interface {
	// Scope returns a receiver whose instruments are prefixed with scope.
	//   stat.Scope("ingest").Counter("received") == stat.Counter("ingest", "received")
	Scope(scope ...string) StatsReceiver

	// Precision returns a receiver whose Latency instruments render in the given unit.
	// Recorded data is not affected.
	Precision(time.Duration) StatsReceiver

	Counter(name ...string) Counter
	Gauge(name ...string) Gauge
	Histogram(name ...string) Histogram
	Latency(name ...string) Latency
	Remove(name ...string)

	// Render marshals the registry, or its latest snapshot when latched.
	Render(pretty bool) []byte
}

// DefaultStatsReceiver is not latched: every Render resets histograms.
func DefaultStatsReceiver() StatsReceiver {
	stat, _ := NewCustomStatsReceiver(nil, 0)
	return stat
}

// NewLatchedStatsReceiver snapshots the registry every latched interval.
// The caller must stop rendering before calling cancelFn.
func NewLatchedStatsReceiver(latched time.Duration) (stat StatsReceiver, cancelFn func()) {
	return NewCustomStatsReceiver(nil, latched)
}

// NewCustomStatsReceiver allows a custom registry, ex: NewFinagleStatsRegistry.
func NewCustomStatsReceiver(makeRegistry func() StatsRegistry, latched time.Duration) (stat StatsReceiver, cancelFn func()) {
	if makeRegistry == nil {
		makeRegistry = func() StatsRegistry { return metrics.NewRegistry() }
	}
	receiver := &defaultStatsReceiver{
		makeRegistry: makeRegistry,
		registry:     makeRegistry(),
		precision:    time.Nanosecond,
	}
	cancelFn = func() {}
	if latched > 0 {
		var ctx context.Context
		ctx, cancelFn = context.WithCancel(context.Background())
		receiver.latchCh = make(chan chan StatsRegistry)
		first := Time.Now().Add(latched).Truncate(latched)
		go receiver.latch(ctx, capture(receiver.registry, makeRegistry()), Time.NewTicker(latched), first)
	}
	return receiver, cancelFn
}

type defaultStatsReceiver struct {
	makeRegistry func() StatsRegistry
	registry     StatsRegistry
	latchCh      chan chan StatsRegistry
	precision    time.Duration
	scope        []string
}

// latch owns the captured snapshot until ctx is done.
func (s *defaultStatsReceiver) latch(ctx context.Context, captured StatsRegistry, ticker StatsTicker, firstAt time.Time) {
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C():
			if t.Before(firstAt) {
				continue
			}
			captured = capture(s.registry, s.makeRegistry())
			resetHistograms(s.registry)
		case req := <-s.latchCh:
			req <- captured
		}
	}
}

func capture(src StatsRegistry, dst StatsRegistry) StatsRegistry {
	src.Each(func(name string, i interface{}) {
		switch m := i.(type) {
		case Counter:
			dst.GetOrRegister(name, m.Capture())
		case Gauge:
			dst.GetOrRegister(name, m.Capture())
		case Histogram:
			dst.GetOrRegister(name, m.Capture())
		case Latency:
			dst.GetOrRegister(name, m.Capture())
		default:
			log.Infof("Unrecognized capture instrument: %s %T", name, i)
		}
	})
	return dst
}

func resetHistograms(reg StatsRegistry) {
	reg.Each(func(name string, i interface{}) {
		if h, ok := i.(metrics.Histogram); ok {
			h.Clear()
		}
	})
}

func (s *defaultStatsReceiver) Scope(scope ...string) StatsReceiver {
	return &defaultStatsReceiver{s.makeRegistry, s.registry, s.latchCh, s.precision, s.scoped(scope...)}
}

func (s *defaultStatsReceiver) Precision(precision time.Duration) StatsReceiver {
	if precision < 1 {
		precision = 1
	}
	return &defaultStatsReceiver{s.makeRegistry, s.registry, s.latchCh, precision, s.scope}
}

func (s *defaultStatsReceiver) Counter(name ...string) Counter {
	return s.registry.GetOrRegister(s.scopedName(name...), NewCounter).(Counter)
}

func (s *defaultStatsReceiver) Gauge(name ...string) Gauge {
	return s.registry.GetOrRegister(s.scopedName(name...), NewGauge).(Gauge)
}

func (s *defaultStatsReceiver) Histogram(name ...string) Histogram {
	return s.registry.GetOrRegister(s.scopedName(name...), NewHistogram).(Histogram)
}

// Latency can't be registered lazily: metrics.Registry doesn't know how to call our constructor.
func (s *defaultStatsReceiver) Latency(name ...string) Latency {
	return s.registry.GetOrRegister(s.scopedName(name...), NewLatency().Precision(s.precision)).(Latency)
}

func (s *defaultStatsReceiver) Remove(name ...string) {
	s.registry.Unregister(s.scopedName(name...))
}

func (s *defaultStatsReceiver) Render(pretty bool) []byte {
	reg := s.registry
	if s.latchCh != nil {
		resultCh := make(chan StatsRegistry)
		s.latchCh <- resultCh
		reg = <-resultCh
	}

	var err error
	var bytes []byte
	if mp, ok := reg.(MarshalerPretty); ok && pretty {
		bytes, err = mp.MarshalJSONPretty()
	} else {
		bytes, err = json.Marshal(reg)
	}
	if err != nil {
		log.Errorf("Cannot marshal stats registry: %v", err)
		return []byte("{}")
	}
	if s.latchCh == nil {
		resetHistograms(s.registry)
	}
	return bytes
}

func (s *defaultStatsReceiver) scoped(scope ...string) []string {
	out := make([]string, 0, len(s.scope)+len(scope))
	out = append(out, s.scope...)
	for _, elem := range scope {
		out = append(out, strings.Replace(elem, "/", "_SLASH_", -1))
	}
	return out
}

func (s *defaultStatsReceiver) scopedName(name ...string) string {
	return strings.Join(s.scoped(name...), "/")
}

// NilStatsReceiver discards everything.
func NilStatsReceiver(scope ...string) StatsReceiver {
	return &nilStatsReceiver{}
}

type nilStatsReceiver struct{}

func (s *nilStatsReceiver) Scope(scope ...string) StatsReceiver   { return s }
func (s *nilStatsReceiver) Precision(time.Duration) StatsReceiver { return s }
func (s *nilStatsReceiver) Counter(name ...string) Counter {
	return &metricCounter{&metrics.NilCounter{}}
}
func (s *nilStatsReceiver) Gauge(name ...string) Gauge {
	return &metricGauge{&metrics.NilGauge{}}
}
func (s *nilStatsReceiver) Histogram(name ...string) Histogram {
	return &metricHistogram{&metrics.NilHistogram{}}
}
func (s *nilStatsReceiver) Latency(name ...string) Latency { return &nilLatency{} }
func (s *nilStatsReceiver) Remove(name ...string)          {}
func (s *nilStatsReceiver) Render(pretty bool) []byte      { return []byte("{}") }

// ReportUptime updates the uptime gauge (ms) every interval until ctx is done.
func ReportUptime(ctx context.Context, stat StatsReceiver, interval time.Duration) {
	start := Time.Now()
	ticker := Time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			stat.Gauge(SchedUptimeGauge_ms).Update(int64(Time.Since(start) / time.Millisecond))
		}
	}
}
