// Package joints builds the name-keyed lookup of animatable joints in a
// mounted scene graph.
package joints

import (
	"fmt"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// Descriptor describes one joint found in the scene.
// Node is owned by the scene graph; the index only references it.
type Descriptor struct {
	Name     string
	NodeName string
	Node     ports.Node
	Type     domain.JointType
	Axis     domain.Vec3
}

// Index maps joint names to their descriptors.
type Index map[string]Descriptor

// Options tunes index construction.
type Options struct {
	// Strict rejects scenes where a requested joint name appears on more
	// than one node. Otherwise the last node visited wins.
	Strict bool
}

// Visitor is called for every node of a depth-first, pre-order walk.
type Visitor interface {
	Visit(n ports.Node) error
}

// Walk visits n and then its children, left to right.
func Walk(n ports.Node, v Visitor) error {
	if n == nil {
		return nil
	}
	if err := v.Visit(n); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := Walk(c, v); err != nil {
			return err
		}
	}
	return nil
}

// Build walks roots in order and collects every node with joint metadata.
// When names is non-nil, joints outside that set are skipped.
func Build(roots []ports.Node, names []string, opts Options) (Index, error) {
	b := &builder{index: make(Index), strict: opts.Strict}
	if names != nil {
		b.want = make(map[string]struct{}, len(names))
		for _, n := range names {
			b.want[n] = struct{}{}
		}
	}
	for _, r := range roots {
		if err := Walk(r, b); err != nil {
			return nil, err
		}
	}
	return b.index, nil
}

type builder struct {
	index  Index
	want   map[string]struct{}
	strict bool
}

func (b *builder) Visit(n ports.Node) error {
	meta, ok := n.JointMeta()
	if !ok {
		return nil
	}
	if b.want != nil {
		if _, ok := b.want[meta.Name]; !ok {
			return nil
		}
	}
	if prev, dup := b.index[meta.Name]; dup && b.strict {
		return fmt.Errorf("%w: %q on nodes %q and %q", domain.ErrDuplicateJoint, meta.Name, prev.NodeName, n.Name())
	}
	b.index[meta.Name] = Descriptor{
		Name:     meta.Name,
		NodeName: n.Name(),
		Node:     n,
		Type:     meta.Type,
		Axis:     meta.Axis,
	}
	return nil
}

var _ Visitor = (*builder)(nil)
