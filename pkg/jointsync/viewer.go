package jointsync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghalamif/JointSync/internal/adapters/filesource"
	"github.com/ghalamif/JointSync/internal/adapters/gltf"
	"github.com/ghalamif/JointSync/internal/adapters/httpsource"
	"github.com/ghalamif/JointSync/internal/adapters/intake"
	"github.com/ghalamif/JointSync/internal/adapters/memscene"
	"github.com/ghalamif/JointSync/internal/adapters/observability"
	"github.com/ghalamif/JointSync/internal/adapters/opcua"
	"github.com/ghalamif/JointSync/internal/adapters/queue"
	"github.com/ghalamif/JointSync/internal/adapters/sink"
	"github.com/ghalamif/JointSync/internal/adapters/wal"
	"github.com/ghalamif/JointSync/internal/app/engine"
	"github.com/ghalamif/JointSync/internal/app/pipeline"
	"github.com/ghalamif/JointSync/internal/app/trajectory"
	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// DefaultFrameInterval paces the headless renderer's frame callback.
const DefaultFrameInterval = time.Second / 60

// ViewerOption customizes the dependencies used by Viewer.
type ViewerOption func(*viewerOverrides)

type viewerOverrides struct {
	source        ResourceSource
	decoder       SceneDecoder
	renderer      Renderer
	collector     Collector
	historySink   HistorySink
	transformer   Transformer
	journal       Journal
	queue         TaskQueue
	observability Observability
	clock         Clock
	noServers     bool
}

// WithSource serves resources from a custom backend instead of HTTP/disk.
func WithSource(s ResourceSource) ViewerOption {
	return func(o *viewerOverrides) {
		o.source = s
	}
}

// WithDecoder replaces the glTF decoder.
func WithDecoder(d SceneDecoder) ViewerOption {
	return func(o *viewerOverrides) {
		o.decoder = d
	}
}

// WithRenderer plugs in the real rendering engine. The state endpoints are
// served only when the renderer also implements Snapshot like the headless one.
func WithRenderer(r Renderer) ViewerOption {
	return func(o *viewerOverrides) {
		o.renderer = r
	}
}

// WithCollector injects a live command source (OPC UA, MQTT, simulators, etc.).
func WithCollector(col Collector) ViewerOption {
	return func(o *viewerOverrides) {
		o.collector = col
	}
}

// WithHistorySink stores playback events somewhere other than Postgres.
func WithHistorySink(s HistorySink) ViewerOption {
	return func(o *viewerOverrides) {
		o.historySink = s
	}
}

// WithTransformer overrides the configured time-scale transformer.
func WithTransformer(t Transformer) ViewerOption {
	return func(o *viewerOverrides) {
		o.transformer = t
	}
}

// WithJournal lets callers bring their own command journal.
func WithJournal(j Journal) ViewerOption {
	return func(o *viewerOverrides) {
		o.journal = j
	}
}

// WithTaskQueue replaces the bounded in-memory event loop queue.
func WithTaskQueue(q TaskQueue) ViewerOption {
	return func(o *viewerOverrides) {
		o.queue = q
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) ViewerOption {
	return func(o *viewerOverrides) {
		o.observability = obs
	}
}

// WithClock drives the watcher from a custom clock.
func WithClock(c Clock) ViewerOption {
	return func(o *viewerOverrides) {
		o.clock = c
	}
}

// WithoutServers skips the intake and metrics listeners, for embedding.
func WithoutServers() ViewerOption {
	return func(o *viewerOverrides) {
		o.noServers = true
	}
}

type snapshotter interface {
	Snapshot() memscene.Snapshot
}

type framer interface {
	Frame() uint64
}

// Viewer wires watcher, loader, compiler and intake around one event loop and
// exposes lifecycle hooks for embedding JointSync inside any Go service.
type Viewer struct {
	cfg       *Config
	obs       ports.Observability
	engine    *engine.Engine
	renderer  ports.Renderer
	queue     ports.TaskQueue
	collector ports.PoseCollector
	journal   ports.Journal
	history   ports.HistorySink
	db        *sql.DB
	noServers bool

	events     chan *domain.PlaybackEvent
	handler    *intake.Handler
	httpSrv    *http.Server
	metricsSrv *http.Server

	cancel      context.CancelFunc
	historyDone chan struct{}
	bgWG        sync.WaitGroup
	startOnce   sync.Once
}

// NewViewer bootstraps the default adapters (HTTP or directory source, glTF
// decoder, headless renderer, file journal, Timescale history, OPC UA
// collector, Prometheus observability). Integrations whose config section is
// empty stay disabled. ViewerOption values override any dependency.
func NewViewer(cfg *Config, opts ...ViewerOption) (*Viewer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides viewerOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs(cfg.Log.Verbose)
	}

	src, err := buildSource(cfg, overrides.source)
	if err != nil {
		return nil, err
	}

	dec := overrides.decoder
	if dec == nil {
		dec = gltf.NewDecoder(cfg.Joints.MetadataKey)
	}

	r := overrides.renderer
	if r == nil {
		r = memscene.New()
	}

	q := overrides.queue
	if q == nil {
		q = queue.NewMemQueue(cfg.Loop.MaxTasks)
	}

	tr := overrides.transformer
	if tr == nil {
		tr = trajectory.NewTransformer(cfg.Playback.TimeScale)
	}

	j := overrides.journal
	if j == nil && cfg.Journal.Dir != "" {
		fj, err := wal.NewFileJournal(cfg.Journal.Dir)
		if err != nil {
			return nil, err
		}
		j = fj
	}

	var (
		db   *sql.DB
		hist ports.HistorySink
	)
	if overrides.historySink != nil {
		hist = overrides.historySink
	} else if cfg.History.ConnString != "" {
		db, err = sql.Open("postgres", cfg.History.ConnString)
		if err != nil {
			return nil, err
		}
		hist = sink.NewTimescaleSink(db, cfg.History.Table)
	}

	col := overrides.collector
	if col == nil && cfg.OPCUA.Enabled() {
		col, err = opcua.NewCollector(cfg.OPCUA)
		if err != nil {
			return nil, err
		}
	}

	v := &Viewer{
		cfg:       cfg,
		obs:       obs,
		renderer:  r,
		queue:     q,
		collector: col,
		journal:   j,
		history:   hist,
		db:        db,
		noServers: overrides.noServers,
	}

	deps := engine.Deps{
		Source:      src,
		Decoder:     dec,
		Renderer:    r,
		Queue:       q,
		Clock:       overrides.clock,
		Obs:         obs,
		Transformer: tr,
		Journal:     j,
	}
	if hist != nil {
		v.events = make(chan *domain.PlaybackEvent, max(cfg.Loop.MaxBatchSize, 1)*4)
		deps.History = v.events
	}

	v.engine, err = engine.New(deps, engine.Options{
		Resources:     cfg.Resources,
		Policy:        cfg.Loop,
		NoUpdate:      cfg.Watch.NoUpdate,
		StrictJoints:  cfg.Joints.StrictUnique,
		ReplayJournal: cfg.Journal.ReplayEnabled(),
	})
	if err != nil {
		return nil, err
	}

	var scene intake.Scene
	if s, ok := r.(snapshotter); ok {
		scene = s
	}
	v.handler = intake.NewHandler(v.engine, scene, 0)
	return v, nil
}

func buildSource(cfg *Config, override ResourceSource) (ResourceSource, error) {
	if override != nil {
		return override, nil
	}
	if cfg.Source.BaseURL != "" {
		return httpsource.New(cfg.Source.BaseURL, httpsource.Options{
			RetryMax: cfg.Source.RetryMax,
			Timeout:  cfg.Source.FetchTimeout,
		})
	}
	return filesource.New(cfg.Source.Dir)
}

// Start launches the event loop, the pipelines and the HTTP listeners. It
// returns immediately; call Run to block on a context instead.
func (v *Viewer) Start(ctx context.Context) error {
	if v == nil {
		return fmt.Errorf("viewer is nil")
	}
	started := false
	v.startOnce.Do(func() { started = true })
	if !started {
		return fmt.Errorf("viewer already started")
	}

	ctx, v.cancel = context.WithCancel(ctx)

	v.bgWG.Add(1)
	go func() {
		defer v.bgWG.Done()
		if err := v.engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			v.obs.LogCritical("event_loop_exited", err)
		}
	}()

	if v.history != nil {
		v.historyDone = make(chan struct{})
		go func() {
			defer close(v.historyDone)
			pipeline.RunHistoryPipeline(context.Background(), v.events, v.history, v.cfg.Loop, v.obs)
		}()
	}

	if v.collector != nil {
		if err := pipeline.RunCollectorPipeline(v.collector, v.submit, v.cfg.Loop, v.obs); err != nil {
			v.cancel()
			return fmt.Errorf("start collector: %w", err)
		}
	}

	if f, ok := v.renderer.(framer); ok {
		v.bgWG.Add(1)
		go v.renderFrames(ctx, f, DefaultFrameInterval)
	}

	v.bgWG.Add(1)
	go v.recordGauges(ctx, time.Second)

	if !v.noServers {
		v.startServers()
	}
	return nil
}

// Run starts the viewer and blocks until the provided context is cancelled.
// Upon cancellation it attempts a graceful shutdown.
func (v *Viewer) Run(ctx context.Context) error {
	if err := v.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return v.Shutdown(shutdownCtx)
}

// Submit applies cmd on the event loop and waits for the outcome.
func (v *Viewer) Submit(ctx context.Context, cmd *Command) error {
	return v.engine.Do(ctx, func() error { return v.engine.HandleCommand(cmd) })
}

// Watches returns the watch table.
func (v *Viewer) Watches(ctx context.Context) ([]WatchEntry, error) {
	var out []WatchEntry
	err := v.engine.Do(ctx, func() error {
		out = v.engine.Watches()
		return nil
	})
	return out, err
}

// Handler serves POST /command and the JSON state endpoints.
func (v *Viewer) Handler() http.Handler { return v.handler }

// Renderer returns the renderer the engine drives.
func (v *Viewer) Renderer() Renderer { return v.renderer }

// Shutdown stops the collector, the event loop, the HTTP servers and flushes
// history before closing the journal and the DB connection.
func (v *Viewer) Shutdown(ctx context.Context) error {
	var errs []error

	if v.collector != nil {
		if err := v.collector.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, srv := range []*http.Server{v.httpSrv, v.metricsSrv} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if v.cancel != nil {
		v.cancel()
	}
	v.bgWG.Wait()

	if v.historyDone != nil {
		close(v.events)
		select {
		case <-v.historyDone:
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("history flush: %w", ctx.Err()))
		}
		v.historyDone = nil
	}

	if c, ok := v.journal.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if v.db != nil {
		if err := v.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (v *Viewer) submit(cmd *domain.Command) error {
	return v.engine.Post(func() {
		if err := v.engine.HandleCommand(cmd); err != nil {
			v.obs.LogError("collector_command_failed", err, ports.Field{Key: "command", Value: cmd.Command})
		}
	})
}

func (v *Viewer) startServers() {
	v.httpSrv = &http.Server{
		Addr:    v.cfg.HTTP.Addr,
		Handler: v.handler,
	}
	go func() {
		if err := v.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("intake server exited: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	v.metricsSrv = &http.Server{
		Addr:    v.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := v.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()
}

// renderFrames stands in for the display refresh callback. It runs beside
// the event loop and only reads renderer state.
func (v *Viewer) renderFrames(ctx context.Context, f framer, interval time.Duration) {
	defer v.bgWG.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.Frame()
		}
	}
}

func (v *Viewer) recordGauges(ctx context.Context, interval time.Duration) {
	defer v.bgWG.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.obs.SetGauge("jointsync_task_queue_length", float64(v.queue.Len()))
			if v.journal != nil {
				v.obs.SetGauge("jointsync_journal_size_bytes", float64(v.journal.Stats().SizeBytes))
			}
		}
	}
}
