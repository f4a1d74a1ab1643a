package grove

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// singularEpsilon is the determinant magnitude below which a matrix is
// treated as non-invertible.
const singularEpsilon = 1e-12

// invertTransform returns the inverse of m and whether it exists.
// mgl32's Inv only rejects an exact zero determinant, which lets
// near-degenerate scale matrices through with huge entries.
func invertTransform(m mgl32.Mat4) (mgl32.Mat4, bool) {
	det := m.Det()
	if math.Abs(float64(det)) < singularEpsilon {
		return mgl32.Ident4(), false
	}
	return m.Inv(), true
}

// translationOf returns the translation column of m.
func translationOf(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// withTranslation returns m with its translation column replaced by p.
func withTranslation(m mgl32.Mat4, p mgl32.Vec3) mgl32.Mat4 {
	m[12], m[13], m[14], m[15] = p[0], p[1], p[2], 1
	return m
}

// originThrough transforms the local origin through m. The w component is
// returned separately so callers can flag projective matrices.
func originThrough(m mgl32.Mat4) (mgl32.Vec3, float32) {
	v := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	return v.Vec3(), v[3]
}

// Compose builds a transform from translation, rotation and scale, applied
// in scale, rotate, translate order.
func Compose(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// Translation is shorthand for mgl32.Translate3D on a vector.
func Translation(p mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(p[0], p[1], p[2])
}
