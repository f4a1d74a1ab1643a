package grove

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LightKind selects how a LightNode illuminates.
type LightKind uint8

const (
	LightDirectional LightKind = iota // parallel rays along the node's -Z axis
	LightPoint                        // radiates from the node's position up to Range
)

// MaxLights bounds the lights a LightSet keeps per frame. Later lights are
// ignored.
const MaxLights = 8

// LightNode is a light source. It draws nothing; during Update it registers
// itself with the context's LightSet.
type LightNode struct {
	*Node

	Kind LightKind
	// Range is the distance at which a point light's contribution reaches 0.
	Range float32
}

// NewLight creates a light. Its color is the material's diffuse color.
func NewLight(name string, kind LightKind, c Color, toWorld mgl32.Mat4) *LightNode {
	mat := DefaultMaterial()
	mat.Diffuse = c
	l := &LightNode{
		Node:  NewNode(NoEntity, name, PassInvisible, mat, toWorld),
		Kind:  kind,
		Range: 50,
	}
	l.Bind(l)
	return l
}

// Update registers the light for this frame and updates children.
func (l *LightNode) Update(ctx *RenderContext, dt float32) error {
	if ctx != nil && ctx.Lights != nil {
		ctx.Lights.Add(l)
	}
	return l.Node.Update(ctx, dt)
}

// light is a LightNode resolved to world space for one frame.
type light struct {
	kind  LightKind
	color Color
	pos   mgl32.Vec3
	dir   mgl32.Vec3 // toward the light, for directional lights
	rng   float32
}

// LightSet holds the lights active in the current frame.
type LightSet struct {
	Ambient Color
	lights  []light
}

// NewLightSet creates an empty set with the given ambient term.
func NewLightSet(ambient Color) *LightSet {
	return &LightSet{Ambient: ambient, lights: make([]light, 0, MaxLights)}
}

// Reset drops all lights.
func (s *LightSet) Reset() { s.lights = s.lights[:0] }

// Len returns the number of registered lights.
func (s *LightSet) Len() int { return len(s.lights) }

// Add registers l using its current world placement.
func (s *LightSet) Add(l *LightNode) {
	if len(s.lights) >= MaxLights {
		return
	}
	world := l.WorldTransform()
	forward := world.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	dir := mgl32.Vec3{0, 1, 0}
	if forward.Len() > 0 {
		dir = forward.Normalize().Mul(-1)
	}
	s.lights = append(s.lights, light{
		kind:  l.Kind,
		color: l.props.Material.Diffuse,
		pos:   translationOf(world),
		dir:   dir,
		rng:   l.Range,
	})
}

// Shade returns base lit at world point p with unit normal n using Lambert
// diffuse terms. Alpha is kept from base.
func (s *LightSet) Shade(base, ambient Color, p, n mgl32.Vec3) Color {
	r := ambient.R + s.Ambient.R
	g := ambient.G + s.Ambient.G
	b := ambient.B + s.Ambient.B
	for _, lt := range s.lights {
		toLight := lt.dir
		att := float32(1)
		if lt.kind == LightPoint {
			d := lt.pos.Sub(p)
			dist := d.Len()
			if dist == 0 || dist >= lt.rng {
				continue
			}
			toLight = d.Mul(1 / dist)
			att = 1 - dist/lt.rng
		}
		k := n.Dot(toLight) * att
		if k <= 0 {
			continue
		}
		r += lt.color.R * k
		g += lt.color.G * k
		b += lt.color.B * k
	}
	return Color{
		R: base.R * clamp01(r),
		G: base.G * clamp01(g),
		B: base.B * clamp01(b),
		A: base.A,
	}
}
