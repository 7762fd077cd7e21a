// Package memscene is a headless stand-in for the rendering engine. It keeps
// the mounted scene, the playing clip and the world-space overlays in memory
// and exposes them as JSON-friendly snapshots.
package memscene

import (
	"sync"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// Action is a clip bound to the mount point.
type Action struct {
	Clip    *domain.Clip `json:"clip"`
	Running bool         `json:"running"`
}

// NodeView is a serialisable copy of a scene node.
type NodeView struct {
	Name     string            `json:"name"`
	Joint    *domain.JointMeta `json:"joint,omitempty"`
	Children []NodeView        `json:"children,omitempty"`
}

// Snapshot is the renderer state at one instant.
type Snapshot struct {
	Mount    []NodeView        `json:"mount"`
	Active   *Action           `json:"active,omitempty"`
	Overlays []domain.Polyline `json:"overlays"`
}

type Renderer struct {
	mu       sync.RWMutex
	mount    []ports.Node
	actions  []*Action
	overlays []domain.Polyline
	frames   uint64
}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) MountChildren() []ports.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ports.Node(nil), r.mount...)
}

func (r *Renderer) RemoveFromMount(n ports.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.mount {
		if c == n {
			r.mount = append(r.mount[:i], r.mount[i+1:]...)
			return
		}
	}
}

func (r *Renderer) AddToMount(n ports.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mount = append(r.mount, n)
}

func (r *Renderer) StopAllActions() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.actions {
		a.Running = false
	}
}

// UncacheMount drops every action bound to the mount point.
func (r *Renderer) UncacheMount() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
}

func (r *Renderer) Play(clip *domain.Clip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, &Action{Clip: clip, Running: true})
}

func (r *Renderer) FindOverlay(name string) (domain.Polyline, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.overlays {
		if o.Name == name {
			return o, true
		}
	}
	return domain.Polyline{}, false
}

func (r *Renderer) RemoveOverlay(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.overlays {
		if o.Name == name {
			r.overlays = append(r.overlays[:i], r.overlays[i+1:]...)
			return
		}
	}
}

func (r *Renderer) AddOverlay(line domain.Polyline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlays = append(r.overlays, line)
}

// Frame counts a rendered frame. It reads whatever state is mounted.
func (r *Renderer) Frame() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	return r.frames
}

// Active returns the running action, if any.
func (r *Renderer) Active() (*Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeLocked()
}

func (r *Renderer) activeLocked() (*Action, bool) {
	for i := len(r.actions) - 1; i >= 0; i-- {
		if r.actions[i].Running {
			a := *r.actions[i]
			return &a, true
		}
	}
	return nil, false
}

// ActionCount returns the number of bound actions, running or not.
func (r *Renderer) ActionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

func (r *Renderer) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{
		Mount:    make([]NodeView, 0, len(r.mount)),
		Overlays: append([]domain.Polyline{}, r.overlays...),
	}
	for _, n := range r.mount {
		snap.Mount = append(snap.Mount, Describe(n))
	}
	if a, ok := r.activeLocked(); ok {
		snap.Active = a
	}
	return snap
}

// Describe copies a node tree into a NodeView.
func Describe(n ports.Node) NodeView {
	v := NodeView{Name: n.Name()}
	if meta, ok := n.JointMeta(); ok {
		v.Joint = &meta
	}
	for _, c := range n.Children() {
		v.Children = append(v.Children, Describe(c))
	}
	return v
}

var _ ports.Renderer = (*Renderer)(nil)
