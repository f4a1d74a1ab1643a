package grove

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// plane is n·p + d = 0 with n pointing into the view volume.
type plane struct {
	n mgl32.Vec3
	d float32
}

func (p plane) distance(v mgl32.Vec3) float32 {
	return p.n.Dot(v) + p.d
}

const (
	planeNear = iota
	planeFar
	planeLeft
	planeRight
	planeTop
	planeBottom
	planeCount
)

// Frustum is a perspective view volume in camera space. The camera sits at
// the origin looking down -Z, matching mgl32.Perspective.
type Frustum struct {
	FovY   float32 // vertical field of view, radians
	Aspect float32 // width / height
	Near   float32
	Far    float32

	planes [planeCount]plane
}

// NewFrustum creates a frustum with the given shape.
func NewFrustum(fovY, aspect, near, far float32) *Frustum {
	f := &Frustum{}
	f.Init(fovY, aspect, near, far)
	return f
}

// Init sets the frustum shape and rebuilds its planes.
func (f *Frustum) Init(fovY, aspect, near, far float32) {
	f.FovY, f.Aspect, f.Near, f.Far = fovY, aspect, near, far

	ty := float32(math.Tan(float64(fovY) / 2))
	tx := ty * aspect

	f.planes[planeNear] = plane{n: mgl32.Vec3{0, 0, -1}, d: -near}
	f.planes[planeFar] = plane{n: mgl32.Vec3{0, 0, 1}, d: far}
	f.planes[planeLeft] = plane{n: mgl32.Vec3{1, 0, -tx}.Normalize()}
	f.planes[planeRight] = plane{n: mgl32.Vec3{-1, 0, -tx}.Normalize()}
	f.planes[planeBottom] = plane{n: mgl32.Vec3{0, 1, -ty}.Normalize()}
	f.planes[planeTop] = plane{n: mgl32.Vec3{0, -1, -ty}.Normalize()}
}

// SetAspect changes the aspect ratio, keeping the other parameters.
func (f *Frustum) SetAspect(aspect float32) {
	f.Init(f.FovY, aspect, f.Near, f.Far)
}

// Inside reports whether the sphere at camera-space point p with the given
// radius touches the frustum. The test is conservative near the corners.
func (f *Frustum) Inside(p mgl32.Vec3, radius float32) bool {
	for i := range f.planes {
		if f.planes[i].distance(p) < -radius {
			return false
		}
	}
	return true
}

// Projection returns the matching perspective projection matrix.
func (f *Frustum) Projection() mgl32.Mat4 {
	return mgl32.Perspective(f.FovY, f.Aspect, f.Near, f.Far)
}
