package ports

import "github.com/ghalamif/JointSync/internal/domain"

// Node is the capability view of a scene-graph node the engine needs.
type Node interface {
	Name() string
	Children() []Node
	// JointMeta reports the joint metadata carried by the node, if any.
	JointMeta() (domain.JointMeta, bool)
}

// Scene is a decoded scene description.
type Scene struct {
	Root  Node
	Clips []*domain.Clip
}

// SceneDecoder parses a scene description into a node tree.
type SceneDecoder interface {
	Decode(data []byte) (*Scene, error)
}

// Renderer is the external scene-graph/rendering collaborator.
//
// The mount point holds the animated scene. Overlays live under a separate,
// non-rotated world root.
type Renderer interface {
	MountChildren() []Node
	RemoveFromMount(n Node)
	AddToMount(n Node)

	StopAllActions()
	UncacheMount()
	Play(clip *domain.Clip)

	FindOverlay(name string) (domain.Polyline, bool)
	RemoveOverlay(name string)
	AddOverlay(line domain.Polyline)
}
