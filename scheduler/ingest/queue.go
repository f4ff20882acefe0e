package ingest

import (
	"sync"
)

// Queue is an unbounded FIFO of raw messages shared by one producer and one consumer.
type Queue struct {
	mu   sync.Mutex
	msgs []string
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(msg string) {
	q.mu.Lock()
	q.msgs = append(q.msgs, msg)
	q.mu.Unlock()
}

// Drain returns everything queued so far, oldest first, without blocking.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	msgs := q.msgs
	q.msgs = nil
	return msgs
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs)
}
