// Package intake exposes the engine over HTTP: override commands come in on
// POST /command and the mounted state is readable as JSON.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghalamif/JointSync/internal/adapters/memscene"
	"github.com/ghalamif/JointSync/internal/app/watch"
	"github.com/ghalamif/JointSync/internal/domain"
)

const maxBodyBytes = 8 << 20

// Engine is the part of the engine the HTTP surface drives.
type Engine interface {
	Do(ctx context.Context, fn func() error) error
	HandleCommand(cmd *domain.Command) error
	Watches() []watch.Entry
}

// Scene reads renderer state. Implementations must be safe for concurrent use.
// A nil Scene disables the state endpoints.
type Scene interface {
	Snapshot() memscene.Snapshot
}

type Handler struct {
	engine  Engine
	scene   Scene
	timeout time.Duration
	mux     *http.ServeMux
}

// NewHandler wires the routes. timeout bounds how long a request waits for
// the event loop; zero means 5s.
func NewHandler(engine Engine, scene Scene, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	h := &Handler{engine: engine, scene: scene, timeout: timeout, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /command", h.postCommand)
	h.mux.HandleFunc("GET /scene", h.getScene)
	h.mux.HandleFunc("GET /clip", h.getClip)
	h.mux.HandleFunc("GET /path", h.getPath)
	h.mux.HandleFunc("GET /watches", h.getWatches)
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type commandResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *Handler) postCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commandResponse{Status: "rejected", Error: err.Error()})
		return
	}
	var cmd domain.Command
	if err := json.Unmarshal(body, &cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, commandResponse{Status: "rejected", Error: "invalid JSON: " + err.Error()})
		return
	}
	if cmd.ID == "" {
		cmd.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err = h.engine.Do(ctx, func() error { return h.engine.HandleCommand(&cmd) })
	if err != nil {
		writeJSON(w, statusFor(err), commandResponse{ID: cmd.ID, Status: "rejected", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{ID: cmd.ID, Status: "applied"})
}

func (h *Handler) snapshot(w http.ResponseWriter) (memscene.Snapshot, bool) {
	if h.scene == nil {
		http.Error(w, "renderer state unavailable", http.StatusNotImplemented)
		return memscene.Snapshot{}, false
	}
	return h.scene.Snapshot(), true
}

func (h *Handler) getScene(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.snapshot(w); ok {
		writeJSON(w, http.StatusOK, snap.Mount)
	}
}

func (h *Handler) getClip(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	active := snap.Active
	if active == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (h *Handler) getPath(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	for _, o := range snap.Overlays {
		if o.Name == domain.TCPPathDisplayName {
			writeJSON(w, http.StatusOK, o)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getWatches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var entries []watch.Entry
	if err := h.engine.Do(ctx, func() error {
		entries = h.engine.Watches()
		return nil
	}); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMalformedSample),
		errors.Is(err, domain.ErrNonMonotonicTime),
		errors.Is(err, domain.ErrUnknownJoint),
		errors.Is(err, domain.ErrUnsupportedJointType),
		errors.Is(err, domain.ErrInvalidAxis),
		errors.Is(err, domain.ErrDuplicateJoint),
		errors.Is(err, domain.ErrNoScene):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrQueueFull),
		errors.Is(err, domain.ErrLoopStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
