package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghalamif/JointSync/internal/app/trajectory"
	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// SetTrajectory compiles samples against the mounted scene and replaces the
// active animation. Any error leaves the current animation playing.
func (e *Engine) SetTrajectory(names []string, samples [][]float64) error {
	return e.apply("command", names, samples)
}

// SetPose holds the joints at values.
func (e *Engine) SetPose(names []string, values []float64) error {
	return e.apply("command", names, domain.PoseSamples(values))
}

// UpdateTrajectory loads the trajectory file and plays it.
func (e *Engine) UpdateTrajectory(ctx context.Context) error {
	resource := e.opts.Resources.Trajectory
	body, _, err := e.deps.Source.Fetch(ctx, resource)
	if err != nil {
		return fmt.Errorf("fetch trajectory %q: %w", resource, err)
	}
	var t domain.Trajectory
	if err := json.Unmarshal(body, &t); err != nil {
		return fmt.Errorf("decode trajectory %q: %w", resource, err)
	}
	return e.apply(resource, t.JointNames, t.Samples)
}

func (e *Engine) apply(source string, names []string, samples [][]float64) error {
	start := time.Now()
	clip, err := e.compile(names, samples)
	if err != nil {
		e.deps.Obs.IncCounter("jointsync_compile_failures_total", 1)
		return err
	}
	e.deps.Obs.ObserveLatency("jointsync_compile_seconds", time.Since(start).Seconds())

	r := e.deps.Renderer
	r.StopAllActions()
	r.UncacheMount()
	r.Play(clip)
	e.setActive(clip, source)
	return nil
}

func (e *Engine) compile(names []string, samples [][]float64) (*domain.Clip, error) {
	t, err := e.deps.Transformer.Transform(&domain.Trajectory{JointNames: names, Samples: samples})
	if err != nil {
		return nil, fmt.Errorf("transform trajectory: %w", err)
	}
	idx, err := e.index(t.JointNames)
	if err != nil {
		return nil, err
	}
	return trajectory.Compile(idx, t.JointNames, t.Samples)
}

func (e *Engine) setActive(clip *domain.Clip, source string) {
	e.active = clip
	e.activeSource = source
	e.deps.Obs.SetGauge("jointsync_active_tracks", float64(len(clip.Tracks)))
	e.record(clip, source)
}

func (e *Engine) record(clip *domain.Clip, source string) {
	if e.deps.History == nil {
		return
	}
	ev := &domain.PlaybackEvent{
		ID:         uuid.NewString(),
		Source:     source,
		ClipName:   clip.Name,
		Duration:   clip.Duration,
		TrackCount: len(clip.Tracks),
		AppliedAt:  e.deps.Clock.Now(),
	}
	select {
	case e.deps.History <- ev:
	default:
		e.deps.Obs.IncCounter("jointsync_history_dropped_total", 1)
		e.deps.Obs.LogError("history_dropped", fmt.Errorf("history buffer full"), ports.Field{Key: "clip", Value: clip.Name})
	}
}
