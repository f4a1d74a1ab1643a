package grove

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneNode is the capability set every scene graph element provides.
// Concrete kinds embed *Node and override the hooks they need; the
// unexported base method keeps the set closed to types built on Node.
type SceneNode interface {
	Props() *NodeProperties
	Parent() SceneNode
	Children() []SceneNode

	AttachChild(child SceneNode) error
	DetachChild(id EntityID) bool

	PreRender(ctx *RenderContext) error
	Render(ctx *RenderContext) error
	PostRender(ctx *RenderContext) error
	RenderChildren(ctx *RenderContext) error
	IsVisible(ctx *RenderContext) bool

	Update(ctx *RenderContext, dt float32) error
	OnRestore(ctx *RenderContext) error
	OnLostDevice(ctx *RenderContext) error
	Pick(ctx *RenderContext, ray Ray, hits *[]Hit) error

	base() *Node
}

// Node is the base scene graph element. Used on its own it acts as a group:
// it draws nothing and forwards every pass to its children.
type Node struct {
	props NodeProperties

	// self is the outermost SceneNode wrapping this Node, so that parent
	// back-pointers and alpha records refer to the concrete kind.
	self     SceneNode
	parent   SceneNode
	children []SceneNode

	shader Shader // resolved lazily from props.shaderName
	tweens []*TweenGroup
}

// NewNode creates a node with the given transform. FromWorld is derived
// from toWorld (see SetTransform).
func NewNode(id EntityID, name string, pass RenderPass, mat Material, toWorld mgl32.Mat4) *Node {
	n := &Node{props: NodeProperties{ID: id, Name: name, Pass: pass, Material: mat}}
	n.self = n
	n.SetTransform(toWorld)
	return n
}

// NewNodeWithInverse creates a node whose inverse transform is already known,
// for example from a physics engine. The pair is trusted as given.
func NewNodeWithInverse(id EntityID, name string, pass RenderPass, mat Material, toWorld, fromWorld mgl32.Mat4) *Node {
	n := &Node{props: NodeProperties{ID: id, Name: name, Pass: pass, Material: mat}}
	n.self = n
	n.SetTransformPair(toWorld, fromWorld)
	return n
}

// NewGroup creates an identity-transform helper node with no entity.
func NewGroup(name string) *Node {
	return NewNode(NoEntity, name, PassStatic, DefaultMaterial(), mgl32.Ident4())
}

// Bind records self as the SceneNode wrapping n. Kinds that embed *Node
// call it from their constructor.
func (n *Node) Bind(self SceneNode) {
	n.self = self
}

func (n *Node) base() *Node { return n }

// Props returns the node's properties.
func (n *Node) Props() *NodeProperties { return &n.props }

// Name returns the node's display name.
func (n *Node) Name() string { return n.props.Name }

// Parent returns the node this one is attached to, or nil.
func (n *Node) Parent() SceneNode { return n.parent }

// Children returns the child list in traversal order. The returned slice
// MUST NOT be mutated by the caller.
func (n *Node) Children() []SceneNode { return n.children }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// --- Transform ---

// SetTransform stores toWorld and derives fromWorld as its inverse. A
// singular toWorld leaves fromWorld at identity; that is logged, not failed.
func (n *Node) SetTransform(toWorld mgl32.Mat4) {
	n.props.toWorld = toWorld
	inv, ok := invertTransform(toWorld)
	if !ok {
		report(slog.LevelInfo, "Node.SetTransform",
			"singular toWorld transform, using identity inverse", "node", n.props.Name)
	}
	n.props.fromWorld = inv
}

// SetTransformPair stores both transforms without checking that they are
// inverses of each other.
func (n *Node) SetTransformPair(toWorld, fromWorld mgl32.Mat4) {
	n.props.toWorld = toWorld
	n.props.fromWorld = fromWorld
}

// ToWorld returns the node-to-world transform.
func (n *Node) ToWorld() mgl32.Mat4 { return n.props.toWorld }

// FromWorld returns the world-to-node transform.
func (n *Node) FromWorld() mgl32.Mat4 { return n.props.fromWorld }

// Position returns the translation of the node's toWorld transform.
func (n *Node) Position() mgl32.Vec3 {
	return translationOf(n.props.toWorld)
}

// SetPosition moves the node, keeping rotation and scale.
func (n *Node) SetPosition(p mgl32.Vec3) {
	n.SetTransform(withTranslation(n.props.toWorld, p))
}

// WorldTransform composes the toWorld transforms of every ancestor with
// this node's, root first.
func (n *Node) WorldTransform() mgl32.Mat4 {
	m := n.props.toWorld
	for p := n.parent; p != nil; p = p.Parent() {
		m = p.Props().toWorld.Mul4(m)
	}
	return m
}

// BoundingRadius returns the conservative radius enclosing the node and its
// descendants.
func (n *Node) BoundingRadius() float32 { return n.props.radius }

// SetBoundingRadius sets the node's own radius. Kinds with geometry call it
// with their extent; it never shrinks below what attached children required.
func (n *Node) SetBoundingRadius(r float32) {
	if r > n.props.radius {
		n.props.radius = r
	}
}

// Alpha returns the node's material alpha.
func (n *Node) Alpha() float32 { return n.props.Material.Alpha() }

// SetAlpha sets the node's material alpha.
func (n *Node) SetAlpha(a float32) { n.props.Material.SetAlpha(a) }

// --- Shader ---

// SetShaderName selects a custom shader by name. The cached handle is
// dropped so the next PreRender resolves the new name. An empty name
// returns the node to the default shader.
func (n *Node) SetShaderName(name string) {
	n.props.shaderName = name
	n.shader = nil
}

// ShaderHandle returns the resolved custom shader, or nil if none has been
// resolved yet.
func (n *Node) ShaderHandle() Shader { return n.shader }

// --- Tree manipulation ---

// AttachChild appends child to this node's children and grows the bounding
// radius to enclose it. A child attached elsewhere is detached from its old
// parent first.
func (n *Node) AttachChild(child SceneNode) error {
	if child == nil {
		return ErrNilChild
	}
	cb := child.base()
	if cb == nil {
		return ErrNilChild
	}
	if isAncestor(cb, n) {
		return fmt.Errorf("%w: %q under %q", ErrCycle, cb.props.Name, n.props.Name)
	}
	if cb.parent != nil {
		cb.parent.base().removeChildByPtr(cb)
	}
	n.children = append(n.children, child)
	cb.parent = n.self
	if globalDebug {
		debugCheckTreeDepth(cb)
		debugCheckChildCount(n)
	}

	// Child offsets are local to n.
	childPos := mgl32.TransformCoordinate(translationOf(cb.props.toWorld), n.props.toWorld)
	toChild := childPos.Sub(translationOf(n.props.toWorld))
	if r := toChild.Len() + cb.props.radius; r > n.props.radius {
		n.props.radius = r
	}
	return nil
}

// DetachChild removes the first child whose entity id is id. Children
// without an entity are skipped. The bounding radius is left as is.
func (n *Node) DetachChild(id EntityID) bool {
	for i, c := range n.children {
		cb := c.base()
		if !cb.props.HasID() || cb.props.ID != id {
			continue
		}
		n.removeAt(i)
		cb.parent = nil
		return true
	}
	return false
}

// RemoveFromParent detaches this node from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.base().removeChildByPtr(n)
	n.parent = nil
}

// FindChild returns the first descendant (depth-first, pre-order) with the
// given entity id.
func (n *Node) FindChild(id EntityID) SceneNode {
	for _, c := range n.children {
		if cb := c.base(); cb.props.HasID() && cb.props.ID == id {
			return c
		}
		if found := c.base().FindChild(id); found != nil {
			return found
		}
	}
	return nil
}

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; {
		if p == candidate {
			return true
		}
		if p.parent == nil {
			return false
		}
		p = p.parent.base()
	}
	return false
}

// removeChildByPtr removes child from n.children without touching its parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c.base() == child {
			n.removeAt(i)
			return
		}
	}
}

// removeAt uses copy+nil to avoid retaining a pointer in the backing array.
func (n *Node) removeAt(i int) {
	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
}
