package grove

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// EntityID identifies the game entity a node represents.
// NoEntity marks helper nodes that do not stand for an entity.
type EntityID uint32

// NoEntity is the EntityID of nodes without an entity.
const NoEntity EntityID = 0

// Alpha constants used to classify nodes during RenderChildren.
const (
	AlphaOpaque      float32 = 1
	AlphaTransparent float32 = 0

	// AlphaEpsilon is the tolerance for alpha comparisons. Alpha values often
	// come from tweens or decoded assets and are rarely exact.
	AlphaEpsilon float32 = 1e-4
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default diffuse color.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA for image fills.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// Vec4 returns the color as an mgl32 vector.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Material describes the visual appearance of a node. The traversal only
// reads the diffuse alpha; the remaining fields are used by MeshNode shading.
type Material struct {
	Diffuse  Color
	Ambient  Color
	Specular Color
	Emissive Color
	Power    float32

	// Texture is sampled by MeshNode when its vertices carry UVs.
	// Nil draws flat colored triangles.
	Texture *ebiten.Image
}

// DefaultMaterial returns an opaque white material.
func DefaultMaterial() Material {
	return Material{
		Diffuse: ColorWhite,
		Ambient: Color{0.2, 0.2, 0.2, 1},
	}
}

// Alpha returns the diffuse alpha of the material.
func (m Material) Alpha() float32 {
	return m.Diffuse.A
}

// SetAlpha sets the diffuse alpha of the material.
func (m *Material) SetAlpha(a float32) {
	m.Diffuse.A = a
}

// IsOpaque reports whether alpha is within AlphaEpsilon of AlphaOpaque.
// The tolerance is absolute.
func IsOpaque(alpha float32) bool {
	return mgl32.Abs(alpha-AlphaOpaque) <= AlphaEpsilon
}

// IsTransparent reports whether alpha is within AlphaEpsilon of
// AlphaTransparent.
func IsTransparent(alpha float32) bool {
	return mgl32.Abs(alpha-AlphaTransparent) <= AlphaEpsilon
}

// RenderPass tags a node with the pass a renderer groups it into.
// The traversal itself does not interpret it.
type RenderPass uint8

const (
	PassStatic    RenderPass = iota // level geometry that never moves
	PassActor                       // entities driven by game logic
	PassSky                         // sky box, drawn around the camera
	PassInvisible                   // helpers that never draw
	PassPort                        // portal / render-to-texture nodes
)

// String returns the pass name.
func (p RenderPass) String() string {
	switch p {
	case PassStatic:
		return "static"
	case PassActor:
		return "actor"
	case PassSky:
		return "sky"
	case PassInvisible:
		return "invisible"
	case PassPort:
		return "port"
	default:
		return "unknown"
	}
}

// Ray is a half-line used for picking, in world space.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Hit is one picking result.
type Hit struct {
	Node     SceneNode
	EntityID EntityID
	Distance float32    // along the ray, in world units
	Point    mgl32.Vec3 // world-space point of entry
}
