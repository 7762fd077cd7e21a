package engine

import (
	"context"
	"fmt"

	"github.com/ghalamif/JointSync/internal/ports"
)

// LoadScene fetches and decodes resource, then swaps it into the mount point.
// On error the mounted scene is left as it was.
func (e *Engine) LoadScene(ctx context.Context, resource string) error {
	body, tag, err := e.deps.Source.Fetch(ctx, resource)
	if err != nil {
		e.deps.Obs.IncCounter("jointsync_load_failures_total", 1)
		return fmt.Errorf("fetch scene %q: %w", resource, err)
	}
	scene, err := e.deps.Decoder.Decode(body)
	if err != nil {
		e.deps.Obs.IncCounter("jointsync_load_failures_total", 1)
		return fmt.Errorf("decode scene %q: %w", resource, err)
	}

	r := e.deps.Renderer
	for _, child := range r.MountChildren() {
		r.RemoveFromMount(child)
	}
	r.AddToMount(scene.Root)

	if len(scene.Clips) > 0 {
		r.StopAllActions()
		r.UncacheMount()
		r.Play(scene.Clips[0])
		e.setActive(scene.Clips[0], resource)
	}

	if tag != "" {
		e.watcher.Prime(resource, tag)
	}
	e.deps.Obs.IncCounter("jointsync_scene_loads_total", 1)
	e.deps.Obs.LogInfo("scene_loaded",
		ports.Field{Key: "resource", Value: resource},
		ports.Field{Key: "clips", Value: len(scene.Clips)},
	)
	return nil
}
