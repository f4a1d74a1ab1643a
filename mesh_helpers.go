package grove

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CubeGeometry returns a cube of the given edge length centered on the
// origin, with per-face normals and counter-clockwise front faces.
func CubeGeometry(size float32) ([]Vertex, []uint16) {
	h := size / 2
	faces := [6]struct {
		n, u, v mgl32.Vec3
	}{
		{n: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
		{n: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
		{n: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}},
		{n: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}},
		{n: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}},
		{n: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}},
	}
	verts := make([]Vertex, 0, 24)
	inds := make([]uint16, 0, 36)
	for _, f := range faces {
		base := uint16(len(verts))
		center := f.n.Mul(h)
		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			p := center.Add(f.u.Mul(c[0] * h)).Add(f.v.Mul(c[1] * h))
			verts = append(verts, Vertex{
				Position: p,
				Normal:   f.n,
				U:        (c[0] + 1) / 2,
				V:        (1 - c[1]) / 2,
			})
		}
		inds = append(inds, base, base+1, base+2, base, base+2, base+3)
	}
	return verts, inds
}

// PlaneGeometry returns a width x depth rectangle in the XZ plane facing +Y.
func PlaneGeometry(width, depth float32) ([]Vertex, []uint16) {
	hw, hd := width/2, depth/2
	up := mgl32.Vec3{0, 1, 0}
	verts := []Vertex{
		{Position: mgl32.Vec3{-hw, 0, hd}, Normal: up, U: 0, V: 1},
		{Position: mgl32.Vec3{hw, 0, hd}, Normal: up, U: 1, V: 1},
		{Position: mgl32.Vec3{hw, 0, -hd}, Normal: up, U: 1, V: 0},
		{Position: mgl32.Vec3{-hw, 0, -hd}, Normal: up, U: 0, V: 0},
	}
	return verts, []uint16{0, 1, 2, 0, 2, 3}
}

// SphereGeometry returns a UV sphere. With inward set the normals and
// winding face the center, as needed for a sky dome seen from inside.
func SphereGeometry(radius float32, segments, rings int, inward bool) ([]Vertex, []uint16) {
	segments = max(segments, 3)
	rings = max(rings, 2)
	verts := make([]Vertex, 0, (segments+1)*(rings+1))
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		sp, cp := math.Sincos(phi)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			st, ct := math.Sincos(theta)
			n := mgl32.Vec3{float32(sp * ct), float32(cp), float32(-sp * st)}
			normal := n
			if inward {
				normal = n.Mul(-1)
			}
			verts = append(verts, Vertex{
				Position: n.Mul(radius),
				Normal:   normal,
				U:        float32(s) / float32(segments),
				V:        float32(r) / float32(rings),
			})
		}
	}
	inds := make([]uint16, 0, segments*rings*6)
	stride := uint16(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint16(r)*stride + uint16(s)
			b := a + stride
			if inward {
				inds = append(inds, a, a+1, b, a+1, b+1, b)
			} else {
				inds = append(inds, a, b, a+1, a+1, b, b+1)
			}
		}
	}
	return verts, inds
}

// NewCube creates a cube mesh node.
func NewCube(id EntityID, name string, size float32, mat Material, toWorld mgl32.Mat4) *MeshNode {
	v, i := CubeGeometry(size)
	return NewMesh(id, name, PassActor, mat, toWorld, v, i)
}
