package jointsync

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ghalamif/JointSync/internal/domain"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after being closed.
var ErrChannelSinkClosed = errors.New("jointsync: channel sink closed")

// ErrCollectorClosed is returned by a channel collector's publish function
// after the collector was stopped.
var ErrCollectorClosed = errors.New("jointsync: collector closed")

// HistoryBatchSink receives ordered batches of playback events.
type HistoryBatchSink func([]PlaybackEvent) error

// NewCallbackSink adapts a HistoryBatchSink into a full HistorySink so callers
// can plug arbitrary functions without defining structs.
func NewCallbackSink(name string, fn HistoryBatchSink) HistorySink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes batches via a channel; it returns the sink, the read-only channel,
// and a close function that the caller should invoke during shutdown.
func NewChannelSink(name string, buffer int) (HistorySink, <-chan []PlaybackEvent, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan []PlaybackEvent, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackSink struct {
	name string
	fn   HistoryBatchSink
}

func (s *callbackSink) WriteBatch(events []*domain.PlaybackEvent) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	if len(events) == 0 {
		return nil
	}
	return s.fn(copyEvents(events))
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	ch     chan []PlaybackEvent
	closed chan struct{}
	once   sync.Once
}

func (s *channelSink) WriteBatch(events []*domain.PlaybackEvent) error {
	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	if len(events) == 0 {
		return nil
	}

	batch := copyEvents(events)

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case s.ch <- batch:
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}

func copyEvents(events []*domain.PlaybackEvent) []PlaybackEvent {
	if len(events) == 0 {
		return nil
	}
	out := make([]PlaybackEvent, len(events))
	for i, ev := range events {
		out[i] = *ev
	}
	return out
}

// NewChannelCollector returns a Collector fed by the returned publish
// function, for callers that produce commands in-process.
func NewChannelCollector() (Collector, func(Command) error) {
	c := &channelCollector{}
	return c, c.publish
}

type channelCollector struct {
	mu  sync.Mutex
	out chan<- *domain.Command
}

func (c *channelCollector) Start(out chan<- *domain.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out != nil {
		return fmt.Errorf("channel collector already started")
	}
	c.out = out
	return nil
}

func (c *channelCollector) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out != nil {
		close(c.out)
		c.out = nil
	}
	return nil
}

func (c *channelCollector) publish(cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out == nil {
		return ErrCollectorClosed
	}
	c.out <- &cmd
	return nil
}
