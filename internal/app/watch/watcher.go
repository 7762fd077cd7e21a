// Package watch detects changes to named resources by polling their
// validation tags.
//
// Each watched resource is a small state machine (Idle, Polling, Disabled)
// advanced by Tick on the owning event loop. Probes run through a Runner,
// off the loop by default, and their results are posted back to the loop, so
// a stalled resource never blocks the others. At most one probe per resource
// is in flight.
package watch

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/ghalamif/JointSync/internal/ports"
)

// DefaultPeriod is used when Watch is called with a non-positive period.
const DefaultPeriod = time.Second

// State is the polling state of one watched resource.
type State int

const (
	// StateIdle means the resource is known but no poll chain is running.
	StateIdle State = iota
	// StatePolling means the resource is probed every period.
	StatePolling
	// StateDisabled means polling is suppressed until Enable and a new Watch.
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Handler runs on the event loop after a change is detected.
type Handler func()

// Entry is a snapshot of one watched resource.
type Entry struct {
	ID      string        `json:"id"`
	Tag     string        `json:"tag,omitempty"`
	Enabled bool          `json:"enabled"`
	Period  time.Duration `json:"period"`
	State   State         `json:"state"`
	Due     time.Time     `json:"due,omitempty"`
}

type entry struct {
	Entry
	hasTag   bool
	handler  Handler
	inFlight atomic.Bool
}

// Poster schedules a task on the event loop.
type Poster func(ports.Task) error

// Runner executes one probe.
type Runner func(probe func())

// GoRunner runs every probe on its own goroutine.
func GoRunner(probe func()) { go probe() }

// InlineRunner runs probes on the calling goroutine.
func InlineRunner(probe func()) { probe() }

// Option customizes a Watcher.
type Option func(*Watcher)

// WithRunner replaces GoRunner.
func WithRunner(r Runner) Option {
	return func(w *Watcher) {
		if r != nil {
			w.run = r
		}
	}
}

// Watcher owns the tag table of every watched resource.
type Watcher struct {
	source  ports.ResourceSource
	clock   ports.Clock
	post    Poster
	obs     ports.Observability
	run     Runner
	entries map[string]*entry
}

func New(source ports.ResourceSource, clock ports.Clock, post Poster, obs ports.Observability, opts ...Option) *Watcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	w := &Watcher{
		source:  source,
		clock:   clock,
		post:    post,
		obs:     obs,
		run:     GoRunner,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts polling id every period and calls onChange once per detected
// tag change. It is a no-op for disabled resources and reports whether
// polling is active afterwards. Watching an already polling resource
// replaces its handler and period without resetting the schedule.
func (w *Watcher) Watch(id string, period time.Duration, onChange Handler) bool {
	if period <= 0 {
		period = DefaultPeriod
	}
	e := w.lookup(id)
	if !e.Enabled {
		return false
	}
	e.Period = period
	e.handler = onChange
	if e.State != StatePolling {
		e.State = StatePolling
		e.Due = w.clock.Now()
	}
	return true
}

// Disable stops polling id. The last seen tag is kept.
func (w *Watcher) Disable(id string) {
	e := w.lookup(id)
	e.Enabled = false
	e.State = StateDisabled
}

// Enable clears the disabled flag. Polling resumes only after a new Watch.
func (w *Watcher) Enable(id string) {
	e := w.lookup(id)
	e.Enabled = true
	if e.State == StateDisabled {
		e.State = StateIdle
	}
}

// Prime records a tag obtained from a full fetch so the next probe returning
// the same tag is not reported as a change.
func (w *Watcher) Prime(id, tag string) {
	if tag == "" {
		return
	}
	e := w.lookup(id)
	e.Tag = tag
	e.hasTag = true
}

// Entry returns a snapshot of id.
func (w *Watcher) Entry(id string) (Entry, bool) {
	e, ok := w.entries[id]
	if !ok {
		return Entry{}, false
	}
	return e.Entry, true
}

// Entries returns snapshots of every known resource ordered by id.
func (w *Watcher) Entries() []Entry {
	out := make([]Entry, 0, len(w.entries))
	for _, id := range w.ids() {
		out = append(out, w.entries[id].Entry)
	}
	return out
}

// Tick starts a probe for every polling resource whose due time has passed
// and that has no probe in flight. It returns the number of probes started.
// Results arrive later as tasks posted to the event loop.
func (w *Watcher) Tick(ctx context.Context) int {
	started := 0
	for _, id := range w.ids() {
		e := w.entries[id]
		if e.State != StatePolling {
			continue
		}
		now := w.clock.Now()
		if now.Before(e.Due) {
			continue
		}
		if !e.Enabled {
			e.State = StateDisabled
			continue
		}
		if !e.inFlight.CompareAndSwap(false, true) {
			continue
		}
		e.Due = now.Add(e.Period)
		w.obs.IncCounter("jointsync_probes_total", 1)
		w.run(func() { w.probe(ctx, e) })
		started++
	}
	return started
}

// probe runs off the event loop and must not touch entry state other than
// the in-flight flag.
func (w *Watcher) probe(ctx context.Context, e *entry) {
	tag, err := w.source.Probe(ctx, e.ID)
	if perr := w.post(func() { w.settle(e, tag, err) }); perr != nil {
		e.inFlight.Store(false)
		w.obs.LogError("change_dispatch_failed", perr, ports.Field{Key: "resource", Value: e.ID})
	}
}

// settle runs on the event loop with the outcome of a probe and reports
// whether a change was dispatched.
func (w *Watcher) settle(e *entry, tag string, err error) bool {
	e.inFlight.Store(false)
	if err != nil {
		w.obs.IncCounter("jointsync_probe_failures_total", 1)
		w.obs.LogInfo("probe_failed", ports.Field{Key: "resource", Value: e.ID}, ports.Field{Key: "error", Value: err.Error()})
		return false
	}
	if !e.Enabled || e.State != StatePolling {
		return false
	}
	if tag == "" || (e.hasTag && tag == e.Tag) {
		w.obs.LogInfo("no_update", ports.Field{Key: "resource", Value: e.ID})
		return false
	}

	e.Tag = tag
	e.hasTag = true
	w.obs.IncCounter("jointsync_changes_total", 1)
	w.obs.LogInfo("resource_changed", ports.Field{Key: "resource", Value: e.ID}, ports.Field{Key: "tag", Value: tag})
	if e.handler != nil {
		e.handler()
	}
	return true
}

func (w *Watcher) lookup(id string) *entry {
	e, ok := w.entries[id]
	if !ok {
		e = &entry{Entry: Entry{ID: id, Enabled: true, State: StateIdle}}
		w.entries[id] = e
	}
	return e
}

func (w *Watcher) ids() []string {
	ids := make([]string, 0, len(w.entries))
	for id := range w.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
