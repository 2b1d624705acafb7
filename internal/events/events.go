// Package events provides the progress channel that carries pipeline
// updates from a running analysis to its consumer (SSE handler or CLI).
//
// Progress messages (log, node) are best-effort: publishing never blocks
// the pipeline, and messages are dropped when the buffer is full. Terminal
// messages (result, done, error) are delivered with blocking sends so the
// consumer always observes the outcome, with result strictly before done.
package events

import (
	"sync"
	"time"
)

// EventType identifies the kind of progress event.
type EventType string

const (
	TypeLog       EventType = "log"
	TypeNode      EventType = "node"
	TypeResult    EventType = "result"
	TypeDone      EventType = "done"
	TypeError     EventType = "error"
	TypeKeepalive EventType = "keepalive"
)

const (
	// DefaultBuffer is the progress message capacity before drops begin.
	DefaultBuffer = 100
	// DefaultKeepalive is how long Drain waits on an idle channel before
	// emitting a keepalive event.
	DefaultKeepalive = 60 * time.Second
)

// Event is one progress update.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// NodeStatus is the payload of a node event.
type NodeStatus struct {
	Node   string `json:"node"`
	Status string `json:"status"`
}

// Channel is a bounded FIFO progress channel for a single analysis run.
type Channel struct {
	ch        chan Event
	keepalive time.Duration

	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewChannel creates a progress channel. A buffer of 0 or less uses
// DefaultBuffer.
func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Channel{
		ch:        make(chan Event, buffer),
		keepalive: DefaultKeepalive,
	}
}

// Publish delivers a progress event without blocking. Returns false when
// the event was dropped because the buffer is full or the channel is
// already closed.
func (c *Channel) Publish(typ EventType, data any) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}

	select {
	case c.ch <- Event{Type: typ, Data: data}:
		return true
	default:
		c.dropped++
		return false
	}
}

// Log publishes a best-effort log line.
func (c *Channel) Log(message string) {
	c.Publish(TypeLog, message)
}

// Node publishes a best-effort pipeline stage status update.
func (c *Channel) Node(name, status string) {
	c.Publish(TypeNode, NodeStatus{Node: name, Status: status})
}

// Dropped reports how many progress events were discarded.
func (c *Channel) Dropped() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Finish delivers the final result followed by a done event, both with
// blocking sends, then closes the channel. Subsequent publishes are
// dropped. Calling Finish or Fail more than once is a no-op.
func (c *Channel) Finish(result any) {
	if !c.seal() {
		return
	}
	c.ch <- Event{Type: TypeResult, Data: result}
	c.ch <- Event{Type: TypeDone}
	close(c.ch)
}

// Fail delivers a terminal error event with a blocking send, then closes
// the channel.
func (c *Channel) Fail(message string) {
	if !c.seal() {
		return
	}
	c.ch <- Event{Type: TypeError, Data: message}
	close(c.ch)
}

// seal marks the channel closed for publishers. Only the caller that
// flips the flag may send terminal events and close the underlying
// channel. Nil-safe so a pipeline can run without a subscriber.
func (c *Channel) seal() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	return true
}
