package pipeline

import (
	"context"
	"time"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// RunHistoryPipeline batches playback events into sink until ctx is done or
// events is closed. Failed batches are retried on the next flush; once the
// backlog exceeds four batches the oldest events are dropped.
func RunHistoryPipeline(ctx context.Context, events <-chan *domain.PlaybackEvent, sink ports.HistorySink, pol ports.Policy, obs ports.Observability) {
	size := pol.MaxBatchSize
	if size <= 0 {
		size = 64
	}
	idle := pol.IdleSleep
	if idle <= 0 {
		idle = time.Second
	}

	ticker := time.NewTicker(idle)
	defer ticker.Stop()

	var pending []*domain.PlaybackEvent
	flush := func() {
		if len(pending) == 0 {
			return
		}
		start := time.Now()
		if err := sink.WriteBatch(pending); err != nil {
			obs.LogError("history_write_failed", err, ports.Field{Key: "sink", Value: sink.Name()}, ports.Field{Key: "pending", Value: len(pending)})
			if limit := 4 * size; len(pending) > limit {
				dropped := len(pending) - limit
				pending = append(pending[:0], pending[dropped:]...)
				obs.IncCounter("jointsync_history_dropped_total", float64(dropped))
			}
			return
		}
		obs.ObserveLatency("jointsync_history_write_seconds", time.Since(start).Seconds())
		obs.IncCounter("jointsync_history_events_total", float64(len(pending)))
		pending = pending[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case ev, ok := <-events:
			if !ok {
				flush()
				return
			}
			pending = append(pending, ev)
			if len(pending) >= size {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
