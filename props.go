package grove

import "github.com/go-gl/mathgl/mgl32"

// NodeProperties is the data a node exposes to the traversal and to
// renderers. Transform, radius and shader name are only changed through the
// owning Node so their invariants hold.
type NodeProperties struct {
	ID       EntityID
	Name     string
	Pass     RenderPass
	Material Material

	toWorld    mgl32.Mat4
	fromWorld  mgl32.Mat4
	radius     float32
	shaderName string
}

// ToWorld returns the node-to-world transform.
func (p *NodeProperties) ToWorld() mgl32.Mat4 { return p.toWorld }

// FromWorld returns the world-to-node transform. It is the inverse of
// ToWorld unless ToWorld is singular (identity) or the caller supplied both.
func (p *NodeProperties) FromWorld() mgl32.Mat4 { return p.fromWorld }

// Radius returns the bounding radius around the node's origin.
func (p *NodeProperties) Radius() float32 { return p.radius }

// ShaderName returns the custom shader name, or "" for the default shader.
func (p *NodeProperties) ShaderName() string { return p.shaderName }

// Alpha returns the material's diffuse alpha.
func (p *NodeProperties) Alpha() float32 { return p.Material.Alpha() }

// HasID reports whether the node stands for an entity.
func (p *NodeProperties) HasID() bool { return p.ID != NoEntity }
