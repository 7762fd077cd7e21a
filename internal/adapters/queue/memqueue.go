package queue

import (
	"sync"

	"github.com/ghalamif/JointSync/internal/ports"
)

// MemQueue is a bounded in-memory task queue that preserves FIFO ordering.
type MemQueue struct {
	mu   sync.Mutex
	data []ports.Task
	cap  int
}

func NewMemQueue(capacity int) *MemQueue {
	return &MemQueue{
		data: make([]ports.Task, 0, capacity),
		cap:  capacity,
	}
}

func (q *MemQueue) Enqueue(t ports.Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if t == nil || len(q.data) >= q.cap {
		return false
	}
	q.data = append(q.data, t)
	return true
}

func (q *MemQueue) DequeueBatch(max int) []ports.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return nil
	}
	if max <= 0 || max > len(q.data) {
		max = len(q.data)
	}
	out := make([]ports.Task, max)
	copy(out, q.data[:max])
	q.data = append(q.data[:0], q.data[max:]...)
	return out
}

func (q *MemQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}

var _ ports.TaskQueue = (*MemQueue)(nil)
