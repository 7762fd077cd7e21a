// Package engine is the live synchronization core of the viewer. It owns the
// mounted scene, the active animation and the watch table, and mutates them
// only from its event loop goroutine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ghalamif/JointSync/internal/app/joints"
	"github.com/ghalamif/JointSync/internal/app/trajectory"
	"github.com/ghalamif/JointSync/internal/app/watch"
	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// Resources names the watched files.
type Resources struct {
	Scene         string        `yaml:"scene"`
	Trajectory    string        `yaml:"trajectory"`
	TCPTrajectory string        `yaml:"tcp_trajectory"`
	PollPeriod    time.Duration `yaml:"poll_period"`
}

// Options tunes engine behaviour.
type Options struct {
	Resources Resources
	Policy    ports.Policy
	// NoUpdate suppresses the trajectory watchers at startup.
	NoUpdate bool
	// StrictJoints rejects scenes with duplicate joint names.
	StrictJoints bool
	// ReplayJournal re-applies the latest journaled command at startup.
	ReplayJournal bool
}

// Deps are the collaborators the engine drives.
type Deps struct {
	Source      ports.ResourceSource
	Decoder     ports.SceneDecoder
	Renderer    ports.Renderer
	Queue       ports.TaskQueue
	Clock       ports.Clock
	Obs         ports.Observability
	Transformer ports.Transformer
	Journal     ports.Journal
	// History receives one event per applied clip. Sends never block.
	History chan<- *domain.PlaybackEvent
	// ProbeRunner executes watcher probes; nil runs each on its own goroutine.
	ProbeRunner watch.Runner
}

type Engine struct {
	opts Options
	deps Deps

	watcher *watch.Watcher

	active       *domain.Clip
	activeSource string

	wake    chan struct{}
	done    chan struct{}
	stopped atomic.Bool
	once    sync.Once
}

func New(deps Deps, opts Options) (*Engine, error) {
	if deps.Source == nil {
		return nil, errors.New("engine: resource source is required")
	}
	if deps.Decoder == nil {
		return nil, errors.New("engine: scene decoder is required")
	}
	if deps.Renderer == nil {
		return nil, errors.New("engine: renderer is required")
	}
	if deps.Queue == nil {
		return nil, errors.New("engine: task queue is required")
	}
	if deps.Obs == nil {
		return nil, errors.New("engine: observability is required")
	}
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Transformer == nil {
		deps.Transformer = trajectory.Passthrough{}
	}
	if opts.Policy.Tick <= 0 {
		opts.Policy.Tick = 50 * time.Millisecond
	}
	if opts.Resources.PollPeriod <= 0 {
		opts.Resources.PollPeriod = watch.DefaultPeriod
	}

	e := &Engine{
		opts: opts,
		deps: deps,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	e.watcher = watch.New(deps.Source, deps.Clock, e.Post, deps.Obs, watch.WithRunner(deps.ProbeRunner))
	return e, nil
}

// Post schedules fn on the event loop without waiting for it.
func (e *Engine) Post(fn ports.Task) error {
	if e.stopped.Load() {
		return domain.ErrLoopStopped
	}
	if !e.deps.Queue.Enqueue(fn) {
		return domain.ErrQueueFull
	}
	select {
	case e.wake <- struct{}{}:
	default:
	}
	return nil
}

// Do runs fn on the event loop and waits for its result.
func (e *Engine) Do(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	if err := e.Post(func() { res <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-res:
		return err
	case <-e.done:
		return domain.ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run performs the startup sequence and then serves the event loop until ctx
// is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	defer e.stop()

	e.start(ctx)

	ticker := time.NewTicker(e.opts.Policy.Tick)
	defer ticker.Stop()

	for {
		e.runPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.wake:
		case <-ticker.C:
			e.watcher.Tick(ctx)
		}
	}
}

// Done is closed once the loop has exited.
func (e *Engine) Done() <-chan struct{} { return e.done }

func (e *Engine) stop() {
	e.once.Do(func() {
		e.stopped.Store(true)
		close(e.done)
	})
}

// runPending drains the task queue. Tasks posted while draining run in the
// same pass.
func (e *Engine) runPending() int {
	n := 0
	for {
		batch := e.deps.Queue.DequeueBatch(e.opts.Policy.MaxTasks)
		if len(batch) == 0 {
			e.deps.Obs.SetGauge("jointsync_task_queue_length", 0)
			return n
		}
		for _, task := range batch {
			task()
			n++
		}
		e.deps.Obs.SetGauge("jointsync_task_queue_length", float64(e.deps.Queue.Len()))
	}
}

func (e *Engine) start(ctx context.Context) {
	res := e.opts.Resources
	if err := e.LoadScene(ctx, res.Scene); err != nil {
		e.deps.Obs.LogError("initial_scene_load_failed", err, ports.Field{Key: "resource", Value: res.Scene})
	}
	e.watcher.Watch(res.Scene, res.PollPeriod, func() { e.reloadScene(ctx) })

	if !e.opts.NoUpdate {
		e.watcher.Watch(res.Trajectory, res.PollPeriod, func() { e.reloadTrajectory(ctx) })
		e.watcher.Watch(res.TCPTrajectory, res.PollPeriod, func() { e.reloadTCPTrajectory(ctx) })
	}

	if e.opts.ReplayJournal {
		if err := e.replay(); err != nil {
			e.deps.Obs.LogError("journal_replay_failed", err)
		}
	}
}

func (e *Engine) reloadScene(ctx context.Context) {
	if err := e.LoadScene(ctx, e.opts.Resources.Scene); err != nil {
		e.deps.Obs.LogError("scene_load_failed", err, ports.Field{Key: "resource", Value: e.opts.Resources.Scene})
	}
}

func (e *Engine) reloadTrajectory(ctx context.Context) {
	if err := e.UpdateTrajectory(ctx); err != nil {
		e.deps.Obs.LogError("trajectory_update_failed", err, ports.Field{Key: "resource", Value: e.opts.Resources.Trajectory})
	}
}

func (e *Engine) reloadTCPTrajectory(ctx context.Context) {
	if err := e.UpdateTCPTrajectory(ctx); err != nil {
		e.deps.Obs.LogError("tcp_trajectory_update_failed", err, ports.Field{Key: "resource", Value: e.opts.Resources.TCPTrajectory})
	}
}

// Watches returns the watch table. Call it from the event loop.
func (e *Engine) Watches() []watch.Entry { return e.watcher.Entries() }

// ActiveClip returns the clip started last. Call it from the event loop.
func (e *Engine) ActiveClip() (*domain.Clip, string) { return e.active, e.activeSource }

func (e *Engine) index(names []string) (joints.Index, error) {
	mount := e.deps.Renderer.MountChildren()
	if len(mount) == 0 {
		return nil, domain.ErrNoScene
	}
	idx, err := joints.Build(mount, names, joints.Options{Strict: e.opts.StrictJoints})
	if err != nil {
		return nil, fmt.Errorf("index joints: %w", err)
	}
	return idx, nil
}
