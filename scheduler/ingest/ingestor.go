package ingest

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ldv-klever/klever-sub005/common/stats"
)

const DefaultReceiveTimeout = time.Second

// Ingestor moves messages from a Source into a Queue on its own goroutine.
// A transport error ends the goroutine for good: the owner notices through
// Alive and builds a new Ingestor.
type Ingestor struct {
	source  Source
	queue   *Queue
	timeout time.Duration
	stat    stats.StatsReceiver

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once

	mu  sync.Mutex
	err error
}

// NewIngestor takes ownership of source and closes it when the goroutine exits.
// A timeout <= 0 means DefaultReceiveTimeout, a nil stat discards stats.
func NewIngestor(source Source, timeout time.Duration, stat stats.StatsReceiver) *Ingestor {
	if timeout <= 0 {
		timeout = DefaultReceiveTimeout
	}
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Ingestor{
		source:  source,
		queue:   NewQueue(),
		timeout: timeout,
		stat:    stat.Scope("ingest"),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (i *Ingestor) Start() {
	go i.run()
}

func (i *Ingestor) run() {
	defer close(i.doneCh)
	defer func() {
		if err := i.source.Close(); err != nil {
			log.Debugf("Closing status source: %v", err)
		}
	}()
	log.Info("Status ingestor started")
	for {
		select {
		case <-i.stopCh:
			log.Info("Status ingestor stopped")
			return
		default:
		}

		body, ok, err := i.source.Receive(i.timeout)
		if err != nil {
			i.stat.Counter(stats.IngestTransportErrorCounter).Inc(1)
			log.WithError(err).Error("Status ingestor failed")
			i.mu.Lock()
			i.err = err
			i.mu.Unlock()
			return
		}
		if !ok {
			continue
		}
		log.Debugf("Received status message %q", body)
		i.stat.Counter(stats.IngestReceivedCounter).Inc(1)
		i.queue.Push(body)
		i.stat.Gauge(stats.IngestQueueLenGauge).Update(int64(i.queue.Len()))
	}
}

// Stop requests the goroutine to exit and waits for it. Safe to call more than once,
// and on an Ingestor that already died.
func (i *Ingestor) Stop() {
	i.stopOnce.Do(func() { close(i.stopCh) })
	<-i.doneCh
}

// Alive is false once the goroutine has exited, for whatever reason.
func (i *Ingestor) Alive() bool {
	select {
	case <-i.doneCh:
		return false
	default:
		return true
	}
}

// Err is the transport error that ended the goroutine, if any.
func (i *Ingestor) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

// Drain returns every message received so far, in arrival order.
func (i *Ingestor) Drain() []string {
	msgs := i.queue.Drain()
	i.stat.Gauge(stats.IngestQueueLenGauge).Update(0)
	return msgs
}
