package ports

import "context"

// ResourceSource resolves named resources (scene and trajectory files).
//
// Probe returns the current validation tag without reading the body. An empty
// tag with a nil error means the resource exists but carries no tag.
// Fetch returns the body together with the tag it was served with.
type ResourceSource interface {
	Probe(ctx context.Context, resource string) (string, error)
	Fetch(ctx context.Context, resource string) ([]byte, string, error)
}
