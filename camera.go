package grove

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraConfig holds the projection parameters of a CameraNode.
// Zero fields fall back to defaults.
type CameraConfig struct {
	FovY   float32 // vertical field of view in radians; default 60°
	Aspect float32 // default 4:3, normally updated from the draw target
	Near   float32 // default 0.1
	Far    float32 // default 1000
}

func (c CameraConfig) withDefaults() CameraConfig {
	if c.FovY <= 0 {
		c.FovY = mgl32.DegToRad(60)
	}
	if c.Aspect <= 0 {
		c.Aspect = 4.0 / 3.0
	}
	if c.Near <= 0 {
		c.Near = 0.1
	}
	if c.Far <= c.Near {
		c.Far = 1000
	}
	return c
}

// flyAnim holds the active FlyTo tweens.
type flyAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// CameraNode is a scene node that views the scene. It implements Camera.
type CameraNode struct {
	*Node

	frustum Frustum
	view    mgl32.Mat4

	followTarget SceneNode
	followOffset mgl32.Vec3
	followLerp   float32

	fly *flyAnim
}

// NewCamera creates a camera at toWorld with the given projection settings.
func NewCamera(name string, toWorld mgl32.Mat4, cfg CameraConfig) *CameraNode {
	cfg = cfg.withDefaults()
	c := &CameraNode{
		Node: NewNode(NoEntity, name, PassInvisible, DefaultMaterial(), toWorld),
	}
	c.Bind(c)
	c.frustum.Init(cfg.FovY, cfg.Aspect, cfg.Near, cfg.Far)
	c.refresh()
	return c
}

// Frustum returns the camera's view volume.
func (c *CameraNode) Frustum() *Frustum { return &c.frustum }

// SetAspect updates the projection aspect ratio.
func (c *CameraNode) SetAspect(aspect float32) {
	if aspect > 0 && aspect != c.frustum.Aspect {
		c.frustum.SetAspect(aspect)
	}
}

// Projection returns the perspective projection matrix.
func (c *CameraNode) Projection() mgl32.Mat4 { return c.frustum.Projection() }

// ViewTransform returns the world-to-camera transform computed by the last
// refresh.
func (c *CameraNode) ViewTransform() mgl32.Mat4 { return c.view }

// Contains tests a camera-space sphere against the frustum.
func (c *CameraNode) Contains(p mgl32.Vec3, radius float32) bool {
	return c.frustum.Inside(p, radius)
}

// LookAt places the camera at eye looking toward center.
func (c *CameraNode) LookAt(eye, center, up mgl32.Vec3) {
	view := mgl32.LookAtV(eye, center, up)
	world, ok := invertTransform(view)
	if !ok {
		return
	}
	c.SetTransformPair(world, view)
	c.refresh()
}

// Follow makes the camera track target, staying at offset from it and
// looking at it. A lerp of 1 snaps each frame; lower values ease in.
func (c *CameraNode) Follow(target SceneNode, offset mgl32.Vec3, lerp float32) {
	c.followTarget = target
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *CameraNode) Unfollow() {
	c.followTarget = nil
}

// FlyTo animates the camera position to target over duration seconds.
func (c *CameraNode) FlyTo(target mgl32.Vec3, duration float32, easeFn ease.TweenFunc) {
	from := c.Position()
	a := &flyAnim{}
	for i := range a.tweens {
		a.tweens[i] = gween.New(from[i], target[i], duration, easeFn)
	}
	c.fly = a
}

// Flying reports whether a FlyTo animation is running.
func (c *CameraNode) Flying() bool { return c.fly != nil }

// Update advances follow and FlyTo, refreshes the view transform, then
// updates children.
func (c *CameraNode) Update(ctx *RenderContext, dt float32) error {
	pos := c.Position()
	moved := false

	if c.fly != nil {
		for i, tw := range c.fly.tweens {
			if c.fly.done[i] {
				continue
			}
			pos[i], c.fly.done[i] = tw.Update(dt)
		}
		moved = true
		if c.fly.done[0] && c.fly.done[1] && c.fly.done[2] {
			c.fly = nil
		}
	}

	if c.followTarget != nil && c.fly == nil {
		target := translationOf(c.followTarget.base().WorldTransform())
		goal := target.Add(c.followOffset)
		pos = pos.Add(goal.Sub(pos).Mul(c.followLerp))
		c.LookAt(pos, target, mgl32.Vec3{0, 1, 0})
		moved = false
	}

	if moved {
		c.SetPosition(pos)
	}
	c.refresh()
	return c.Node.Update(ctx, dt)
}

// ScreenRay returns the world-space ray through screen point (sx, sy) of a
// width x height target.
func (c *CameraNode) ScreenRay(sx, sy, width, height float32) Ray {
	ndcX := 2*sx/width - 1
	ndcY := 1 - 2*sy/height
	inv, ok := invertTransform(c.Projection().Mul4(c.view))
	if !ok {
		return Ray{Origin: c.Position(), Direction: mgl32.Vec3{0, 0, -1}}
	}
	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	n := near.Vec3().Mul(1 / near[3])
	f := far.Vec3().Mul(1 / far[3])
	return Ray{Origin: n, Direction: f.Sub(n).Normalize()}
}

// refresh recomputes the view transform from the camera's world placement.
func (c *CameraNode) refresh() {
	if c.parent == nil {
		c.view = c.FromWorld()
		return
	}
	c.view, _ = invertTransform(c.WorldTransform())
}
