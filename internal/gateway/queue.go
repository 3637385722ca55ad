package gateway

import (
	"github.com/seftonlabs/mqttgateway/internal/mapping"
)

// defaultQueueCapacity bounds a queue when the caller does not choose a
// capacity. A full inbox applies backpressure to the transport handler
// rather than growing without limit.
const defaultQueueCapacity = 256

// Queue is a bounded FIFO of internal messages, the hand-off point
// between the codec and a device interface.
//
// Push and Pull may be called from different goroutines.
type Queue struct {
	ch chan *mapping.Message
}

// NewQueue creates a queue with the given capacity, or the default
// capacity when n is not positive.
func NewQueue(n int) *Queue {
	if n <= 0 {
		n = defaultQueueCapacity
	}
	return &Queue{ch: make(chan *mapping.Message, n)}
}

// Push appends a message, blocking while the queue is full.
func (q *Queue) Push(msg *mapping.Message) {
	q.ch <- msg
}

// Pull removes and returns the oldest message, or nil when the queue is
// empty. It never blocks.
func (q *Queue) Pull() *mapping.Message {
	select {
	case msg := <-q.ch:
		return msg
	default:
		return nil
	}
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	return len(q.ch)
}
