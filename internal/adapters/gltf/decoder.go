// Package gltf turns glTF 2.0 scene descriptions (JSON or binary GLB) into
// node trees carrying joint metadata from node extras.
package gltf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/ghalamif/JointSync/internal/domain"
	"github.com/ghalamif/JointSync/internal/ports"
)

// DefaultMetadataKey is the extras key holding joint metadata.
const DefaultMetadataKey = "tesseract_joint"

var ErrCyclicGraph = errors.New("gltf: node graph contains a cycle")

// Node is a decoded scene node.
type Node struct {
	name     string
	joint    *domain.JointMeta
	children []ports.Node
}

func (n *Node) Name() string           { return n.name }
func (n *Node) Children() []ports.Node { return n.children }

func (n *Node) JointMeta() (domain.JointMeta, bool) {
	if n.joint == nil {
		return domain.JointMeta{}, false
	}
	return *n.joint, true
}

// Decoder implements ports.SceneDecoder.
type Decoder struct {
	MetadataKey string
}

func NewDecoder(metadataKey string) *Decoder {
	if metadataKey == "" {
		metadataKey = DefaultMetadataKey
	}
	return &Decoder{MetadataKey: metadataKey}
}

func (d *Decoder) Decode(data []byte) (*ports.Scene, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("gltf: parse: %w", err)
	}

	nodes := make([]*Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		node := &Node{name: n.Name}
		if node.name == "" {
			node.name = fmt.Sprintf("node_%d", i)
		}
		meta, ok, err := d.jointMeta(n.Extras)
		if err != nil {
			return nil, fmt.Errorf("gltf: node %q joint metadata: %w", node.name, err)
		}
		if ok {
			node.joint = &meta
		}
		nodes[i] = node
	}

	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i, n := range doc.Nodes {
		for _, child := range n.Children {
			c := int(child)
			if c < 0 || c >= len(nodes) {
				return nil, fmt.Errorf("gltf: node %d references missing child %d", i, c)
			}
			if parent[c] != -1 || c == i {
				return nil, fmt.Errorf("%w: node %d", ErrCyclicGraph, c)
			}
			parent[c] = i
			nodes[i].children = append(nodes[i].children, nodes[c])
		}
	}
	if err := checkAcyclic(parent); err != nil {
		return nil, err
	}

	root := &Node{name: "Scene"}
	roots, name, err := sceneRoots(&doc, parent)
	if err != nil {
		return nil, err
	}
	if name != "" {
		root.name = name
	}
	for _, r := range roots {
		root.children = append(root.children, nodes[r])
	}

	return &ports.Scene{Root: root, Clips: clips(&doc, nodes)}, nil
}

// jointMeta reads extras[MetadataKey]. Extras are decoded generically, so the
// value is re-encoded and parsed into the typed form.
func (d *Decoder) jointMeta(extras any) (domain.JointMeta, bool, error) {
	fields, ok := extras.(map[string]any)
	if !ok {
		return domain.JointMeta{}, false, nil
	}
	v, ok := fields[d.MetadataKey]
	if !ok {
		return domain.JointMeta{}, false, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return domain.JointMeta{}, false, err
	}
	var meta domain.JointMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return domain.JointMeta{}, false, err
	}
	return meta, true, nil
}

func sceneRoots(doc *gltf.Document, parent []int) ([]int, string, error) {
	if len(doc.Scenes) == 0 {
		var roots []int
		for i, p := range parent {
			if p == -1 {
				roots = append(roots, i)
			}
		}
		return roots, "", nil
	}
	idx := 0
	if doc.Scene != nil {
		idx = int(*doc.Scene)
	}
	if idx < 0 || idx >= len(doc.Scenes) {
		return nil, "", fmt.Errorf("gltf: default scene %d out of range", idx)
	}
	sc := doc.Scenes[idx]
	roots := make([]int, 0, len(sc.Nodes))
	for _, node := range sc.Nodes {
		n := int(node)
		if n < 0 || n >= len(parent) {
			return nil, "", fmt.Errorf("gltf: scene %d references missing node %d", idx, n)
		}
		roots = append(roots, n)
	}
	return roots, sc.Name, nil
}

func checkAcyclic(parent []int) error {
	for start := range parent {
		steps := 0
		for p := parent[start]; p != -1; p = parent[p] {
			steps++
			if steps > len(parent) {
				return fmt.Errorf("%w: node %d", ErrCyclicGraph, start)
			}
		}
	}
	return nil
}

// clips surfaces embedded animations. Keyframe data stays in the asset
// buffers and is played by the renderer; only bindings are listed here.
func clips(doc *gltf.Document, nodes []*Node) []*domain.Clip {
	out := make([]*domain.Clip, 0, len(doc.Animations))
	for i, a := range doc.Animations {
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", i)
		}
		var tracks []domain.Track
		for _, ch := range a.Channels {
			if ch.Target.Node == nil {
				continue
			}
			n := int(*ch.Target.Node)
			if n < 0 || n >= len(nodes) {
				continue
			}
			tracks = append(tracks, domain.Track{
				Node:     nodes[n].name,
				Property: targetProperty(ch.Target.Path),
			})
		}
		out = append(out, domain.NewClip(name, tracks))
	}
	return out
}

func targetProperty(path gltf.TRSProperty) domain.TrackProperty {
	switch path {
	case gltf.TRSRotation:
		return domain.PropertyQuaternion
	case gltf.TRSTranslation:
		return domain.PropertyPosition
	case gltf.TRSScale:
		return "scale"
	default:
		return "morphTargetInfluences"
	}
}

var _ ports.SceneDecoder = (*Decoder)(nil)
