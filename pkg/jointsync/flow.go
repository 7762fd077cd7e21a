package jointsync

import (
	"context"
	"fmt"
)

// Flow is a convenience builder that lets callers say Conf → StreamIN → StreamOUT
// without touching the underlying hexagonal wiring. StreamIN covers what
// feeds the engine (resources, commands), StreamOUT what it drives
// (renderer, history).
type Flow struct {
	cfg  *Config
	opts []ViewerOption
}

// FlowOption mutates the Flow after configuration is loaded.
type FlowOption func(*Flow)

// StreamInOption configures the source/collector/queue side of the viewer.
type StreamInOption func(*Flow)

// StreamOutOption configures the renderer/history/transformer side of the viewer.
type StreamOutOption func(*Flow)

// Conf loads YAML from disk, applies FlowOption values, and returns a Flow builder.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig bootstraps a Flow from an in-memory Config.
func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	f := &Flow{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Config returns the underlying configuration so callers can tweak it before building a viewer.
func (f *Flow) Config() *Config {
	if f == nil {
		return nil
	}
	return f.cfg
}

// Options appends raw ViewerOption values to the builder for advanced scenarios.
func (f *Flow) Options(opts ...ViewerOption) *Flow {
	if f == nil {
		return nil
	}
	f.appendOptions(opts...)
	return f
}

// StreamIN records input-side overrides.
func (f *Flow) StreamIN(opts ...StreamInOption) *Flow {
	if f == nil {
		return nil
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// StreamOUT records output-side overrides and builds a Viewer ready to run.
func (f *Flow) StreamOUT(opts ...StreamOutOption) (*Viewer, error) {
	if f == nil {
		return nil, fmt.Errorf("flow is nil")
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return NewViewer(f.cfg, f.opts...)
}

// Run is a shortcut for StreamOUT + viewer.Run.
func (f *Flow) Run(ctx context.Context, opts ...StreamOutOption) error {
	v, err := f.StreamOUT(opts...)
	if err != nil {
		return err
	}
	return v.Run(ctx)
}

// WithFlowOptions appends ViewerOption values during Conf.
func WithFlowOptions(opts ...ViewerOption) FlowOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(opts...)
		}
	}
}

// StreamInSource serves resources from a caller-provided backend.
func StreamInSource(s ResourceSource) StreamInOption {
	return func(f *Flow) {
		if f != nil && s != nil {
			f.appendOptions(WithSource(s))
		}
	}
}

// StreamInCollector injects a live command source (MQTT, simulators, etc.).
func StreamInCollector(col Collector) StreamInOption {
	return func(f *Flow) {
		if f != nil && col != nil {
			f.appendOptions(WithCollector(col))
		}
	}
}

// StreamInQueue swaps the event loop queue for a caller-provided implementation.
func StreamInQueue(q TaskQueue) StreamInOption {
	return func(f *Flow) {
		if f != nil && q != nil {
			f.appendOptions(WithTaskQueue(q))
		}
	}
}

// StreamInJournal lets callers bring their own command journal.
func StreamInJournal(j Journal) StreamInOption {
	return func(f *Flow) {
		if f != nil && j != nil {
			f.appendOptions(WithJournal(j))
		}
	}
}

// StreamInObservability overrides the default Prometheus-based observability stack.
func StreamInObservability(obs Observability) StreamInOption {
	return func(f *Flow) {
		if f != nil && obs != nil {
			f.appendOptions(WithObservability(obs))
		}
	}
}

// StreamOutRenderer plugs in the rendering engine.
func StreamOutRenderer(r Renderer) StreamOutOption {
	return func(f *Flow) {
		if f != nil && r != nil {
			f.appendOptions(WithRenderer(r))
		}
	}
}

// StreamOutHistory injects a custom HistorySink implementation.
func StreamOutHistory(s HistorySink) StreamOutOption {
	return func(f *Flow) {
		if f != nil && s != nil {
			f.appendOptions(WithHistorySink(s))
		}
	}
}

// StreamOutTransformer overrides the configured trajectory transformer.
func StreamOutTransformer(tr Transformer) StreamOutOption {
	return func(f *Flow) {
		if f != nil && tr != nil {
			f.appendOptions(WithTransformer(tr))
		}
	}
}

// StreamOutObservability replaces the default observability backend.
func StreamOutObservability(obs Observability) StreamOutOption {
	return func(f *Flow) {
		if f != nil && obs != nil {
			f.appendOptions(WithObservability(obs))
		}
	}
}

// StreamOutCallback installs a history sink built from a simple callback function.
func StreamOutCallback(name string, fn HistoryBatchSink) StreamOutOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(WithHistorySink(NewCallbackSink(name, fn)))
		}
	}
}

func (f *Flow) appendOptions(opts ...ViewerOption) {
	for _, opt := range opts {
		if opt != nil {
			f.opts = append(f.opts, opt)
		}
	}
}
