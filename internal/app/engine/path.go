package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ghalamif/JointSync/internal/domain"
)

const (
	tcpPathColor = 0x00ff00
	tcpPathWidth = 0.005
)

// SetPath replaces the tool path overlay. An empty path only clears it.
func (e *Engine) SetPath(points []domain.TCPPoint) {
	r := e.deps.Renderer
	if _, ok := r.FindOverlay(domain.TCPPathDisplayName); ok {
		r.RemoveOverlay(domain.TCPPathDisplayName)
	}
	if len(points) == 0 {
		return
	}
	r.AddOverlay(domain.Polyline{
		Name:      domain.TCPPathDisplayName,
		Positions: domain.FlattenPoints(points),
		Color:     tcpPathColor,
		LineWidth: tcpPathWidth,
	})
}

// UpdateTCPTrajectory loads the tool path file and displays it.
func (e *Engine) UpdateTCPTrajectory(ctx context.Context) error {
	resource := e.opts.Resources.TCPTrajectory
	body, _, err := e.deps.Source.Fetch(ctx, resource)
	if err != nil {
		return fmt.Errorf("fetch tcp trajectory %q: %w", resource, err)
	}
	var t domain.TCPTrajectory
	if err := json.Unmarshal(body, &t); err != nil {
		return fmt.Errorf("decode tcp trajectory %q: %w", resource, err)
	}
	e.SetPath(t.Points)
	return nil
}
