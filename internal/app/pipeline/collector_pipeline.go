// Package pipeline moves data between the engine and its slower neighbours:
// live controller feeds on the way in and the playback history store on the
// way out.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// Submitter hands a command to the event loop.
type Submitter func(cmd *domain.Command) error

// RunCollectorPipeline starts col and forwards every command it emits to
// submit until the collector closes its channel.
func RunCollectorPipeline(col ports.PoseCollector, submit Submitter, pol ports.Policy, obs ports.Observability) error {
	ch := make(chan *domain.Command, max(pol.MaxTasks, 1))

	if err := col.Start(ch); err != nil {
		return err
	}

	go func() {
		for cmd := range ch {
			if !submitWithPolicy(submit, cmd, pol, obs) {
				obs.RecordRejected(cmd, domain.ErrQueueFull)
			}
		}
	}()

	return nil
}

func submitWithPolicy(submit Submitter, cmd *domain.Command, pol ports.Policy, obs ports.Observability) bool {
	sleep := pol.IdleSleep
	if sleep <= 0 {
		sleep = 5 * time.Millisecond
	}

	for {
		err := submit(cmd)
		if err == nil {
			return true
		}
		if !errors.Is(err, domain.ErrQueueFull) {
			obs.LogError("command_submit_failed", err, ports.Field{Key: "command", Value: cmd.Command})
			return false
		}

		switch pol.OnQueueFull {
		case "block":
			time.Sleep(sleep)
		case "drop", "reject":
			obs.LogError("queue_full_drop", fmt.Errorf("task queue at capacity %d", pol.MaxTasks))
			return false
		default:
			obs.LogError("queue_policy_invalid", fmt.Errorf("policy=%s", pol.OnQueueFull))
			return false
		}
	}
}
