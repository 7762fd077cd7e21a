package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

const period = time.Second

func TestUnchangedTagFiresNothing(t *testing.T) {
	h := newHarness()
	h.src.script("scene.gltf", probe("A"), probe("A"))
	h.w.Prime("scene.gltf", "A")

	require.True(t, h.w.Watch("scene.gltf", period, h.handler("scene.gltf")))
	h.tickN(2)

	assert.Equal(t, 0, h.fired["scene.gltf"])
	assert.Equal(t, 2, h.src.calls["scene.gltf"])
}

func TestFiresOncePerTransition(t *testing.T) {
	h := newHarness()
	h.src.script("traj.json", probe("A"), probe("A"), probe("B"), probe("B"), probe("C"))
	h.w.Prime("traj.json", "A")

	h.w.Watch("traj.json", period, h.handler("traj.json"))
	h.tickN(5)

	assert.Equal(t, 2, h.fired["traj.json"])
	e, ok := h.w.Entry("traj.json")
	require.True(t, ok)
	assert.Equal(t, "C", e.Tag)
}

func TestFirstSuccessfulProbeFires(t *testing.T) {
	h := newHarness()
	h.src.script("scene.gltf", probe("A"), probe("A"))

	h.w.Watch("scene.gltf", period, h.handler("scene.gltf"))
	h.tickN(2)

	assert.Equal(t, 1, h.fired["scene.gltf"])
}

func TestProbeFailureIsNoChange(t *testing.T) {
	h := newHarness()
	h.src.script("traj.json", failed(), probe(""), probe("A"), failed(), probe("A"))

	h.w.Watch("traj.json", period, h.handler("traj.json"))
	h.tickN(5)

	assert.Equal(t, 1, h.fired["traj.json"])
	e, _ := h.w.Entry("traj.json")
	assert.Equal(t, StatePolling, e.State)
	assert.Equal(t, "A", e.Tag)
}

func TestDisableIsSticky(t *testing.T) {
	h := newHarness()
	h.src.script("traj.json", probe("A"), probe("B"), probe("C"), probe("D"))

	h.w.Watch("traj.json", period, h.handler("traj.json"))
	h.tickN(1)
	require.Equal(t, 1, h.fired["traj.json"])

	h.w.Disable("traj.json")
	h.tickN(3)
	assert.Equal(t, 1, h.fired["traj.json"])
	assert.Equal(t, 1, h.src.calls["traj.json"])

	e, _ := h.w.Entry("traj.json")
	assert.Equal(t, StateDisabled, e.State)
	assert.Equal(t, "A", e.Tag, "disable keeps the last tag")

	assert.False(t, h.w.Watch("traj.json", period, h.handler("traj.json")), "watch must not restart a disabled resource")
	h.tickN(1)
	assert.Equal(t, 1, h.fired["traj.json"])
}

func TestEnableDoesNotRestartPolling(t *testing.T) {
	h := newHarness()
	h.src.script("traj.json", probe("A"), probe("B"))

	h.w.Watch("traj.json", period, h.handler("traj.json"))
	h.tickN(1)
	h.w.Disable("traj.json")
	h.w.Enable("traj.json")

	e, _ := h.w.Entry("traj.json")
	assert.Equal(t, StateIdle, e.State)
	h.tickN(2)
	assert.Equal(t, 1, h.src.calls["traj.json"])

	require.True(t, h.w.Watch("traj.json", period, h.handler("traj.json")))
	h.tickN(1)
	assert.Equal(t, 2, h.fired["traj.json"])
}

func TestPollRespectsPeriod(t *testing.T) {
	h := newHarness()
	h.src.script("scene.gltf", probe("A"), probe("B"))

	h.w.Watch("scene.gltf", 5*time.Second, h.handler("scene.gltf"))
	h.w.Tick(context.Background())
	h.run()
	h.clock.advance(time.Second)
	h.w.Tick(context.Background())

	assert.Equal(t, 1, h.src.calls["scene.gltf"])

	h.clock.advance(4 * time.Second)
	h.w.Tick(context.Background())
	h.run()
	assert.Equal(t, 2, h.fired["scene.gltf"])
}

func TestResourcesAreIndependent(t *testing.T) {
	h := newHarness()
	h.src.script("a", probe("1"), probe("2"))
	h.src.script("b", probe("1"), probe("1"))

	h.w.Watch("a", period, h.handler("a"))
	h.w.Watch("b", period, h.handler("b"))
	h.tickN(2)
	h.w.Disable("b")

	assert.Equal(t, 2, h.fired["a"])
	assert.Equal(t, 1, h.fired["b"])

	ids := []string{}
	for _, e := range h.w.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestRejectedDispatchRetriesNextPoll(t *testing.T) {
	h := newHarness()
	h.src.script("traj.json", probe("A"), probe("A"))
	h.rejectPosts = 1

	h.w.Watch("traj.json", period, h.handler("traj.json"))
	h.tickN(2)

	assert.Equal(t, 1, h.fired["traj.json"])
}

func TestDisableBeforeDispatchSuppressesHandler(t *testing.T) {
	h := newHarness()
	h.src.script("traj.json", probe("A"))

	h.w.Watch("traj.json", period, h.handler("traj.json"))
	h.w.Tick(context.Background())
	require.Len(t, h.tasks, 1)

	h.w.Disable("traj.json")
	h.run()
	assert.Equal(t, 0, h.fired["traj.json"])
}

func TestOneCheckInFlightPerResource(t *testing.T) {
	h := newHarness()
	var pending []func()
	h.w = New(h.src, h.clock, h.post, nopObs{}, WithRunner(func(p func()) { pending = append(pending, p) }))
	h.src.script("traj.json", probe("A"))

	h.w.Watch("traj.json", period, h.handler("traj.json"))
	assert.Equal(t, 1, h.w.Tick(context.Background()))
	h.clock.advance(period)
	assert.Equal(t, 0, h.w.Tick(context.Background()), "no second probe while the first is outstanding")

	require.Len(t, pending, 1)
	pending[0]()
	h.run()
	assert.Equal(t, 1, h.fired["traj.json"])

	h.clock.advance(period)
	assert.Equal(t, 1, h.w.Tick(context.Background()))
}

func TestStalledResourceDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	src := &stallingSource{stalled: "tcp.json", release: release}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	tasks := make(chan ports.Task, 8)
	w := New(src, clock, func(t ports.Task) error {
		tasks <- t
		return nil
	}, nopObs{})

	fired := 0
	w.Watch("tcp.json", period, func() {})
	w.Watch("scene.gltf", period, func() { fired++ })
	require.Equal(t, 2, w.Tick(context.Background()))

	select {
	case task := <-tasks:
		task()
	case <-time.After(time.Second):
		t.Fatal("healthy resource was held up by the stalled one")
	}
	assert.Equal(t, 1, fired)

	clock.advance(period)
	assert.Equal(t, 1, w.Tick(context.Background()), "stalled resource keeps its single probe")
}

// harness

type stallingSource struct {
	stalled string
	release chan struct{}
}

func (s *stallingSource) Probe(ctx context.Context, id string) (string, error) {
	if id == s.stalled {
		select {
		case <-s.release:
		case <-ctx.Done():
		}
		return "", errors.New("timed out")
	}
	return `"s1"`, nil
}

func (s *stallingSource) Fetch(context.Context, string) ([]byte, string, error) {
	return nil, "", errors.New("not implemented")
}

type probeResult struct {
	tag string
	err error
}

func probe(tag string) probeResult { return probeResult{tag: tag} }
func failed() probeResult          { return probeResult{err: errors.New("connection refused")} }

type scriptedSource struct {
	results map[string][]probeResult
	calls   map[string]int
}

func (s *scriptedSource) script(id string, rs ...probeResult) { s.results[id] = rs }

func (s *scriptedSource) Probe(_ context.Context, id string) (string, error) {
	i := s.calls[id]
	s.calls[id]++
	rs := s.results[id]
	if len(rs) == 0 {
		return "", errors.New("not found")
	}
	if i >= len(rs) {
		i = len(rs) - 1
	}
	return rs[i].tag, rs[i].err
}

func (s *scriptedSource) Fetch(context.Context, string) ([]byte, string, error) {
	return nil, "", errors.New("not implemented")
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	w           *Watcher
	src         *scriptedSource
	clock       *fakeClock
	tasks       []ports.Task
	fired       map[string]int
	rejectPosts int
}

func newHarness() *harness {
	h := &harness{
		src:   &scriptedSource{results: map[string][]probeResult{}, calls: map[string]int{}},
		clock: &fakeClock{now: time.Unix(1_700_000_000, 0)},
		fired: map[string]int{},
	}
	h.w = New(h.src, h.clock, h.post, nopObs{}, WithRunner(InlineRunner))
	return h
}

func (h *harness) post(t ports.Task) error {
	if h.rejectPosts > 0 {
		h.rejectPosts--
		return domain.ErrQueueFull
	}
	h.tasks = append(h.tasks, t)
	return nil
}

func (h *harness) handler(id string) Handler {
	return func() { h.fired[id]++ }
}

func (h *harness) run() {
	tasks := h.tasks
	h.tasks = nil
	for _, t := range tasks {
		t()
	}
}

// tickN runs n poll cycles, one period apart, draining posted handlers after each.
func (h *harness) tickN(n int) {
	for i := 0; i < n; i++ {
		h.w.Tick(context.Background())
		h.run()
		h.clock.advance(period)
	}
}

type nopObs struct{}

func (nopObs) LogInfo(string, ...ports.Field)            {}
func (nopObs) LogError(string, error, ...ports.Field)    {}
func (nopObs) LogCritical(string, error, ...ports.Field) {}
func (nopObs) IncCounter(string, float64)                {}
func (nopObs) ObserveLatency(string, float64)            {}
func (nopObs) SetGauge(string, float64)                  {}
func (nopObs) RecordRejected(*domain.Command, error)     {}
