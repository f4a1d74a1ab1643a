package grove

import "github.com/go-gl/mathgl/mgl32"

// SkyNode is a sky dome that stays centered on the camera. It is always
// considered visible and is tagged PassSky.
type SkyNode struct {
	*MeshNode
}

// NewSky creates a sky dome of the given radius. The radius should stay
// inside the camera's far plane.
func NewSky(name string, radius float32, mat Material) *SkyNode {
	v, i := SphereGeometry(radius, 24, 12, true)
	s := &SkyNode{MeshNode: NewMesh(NoEntity, name, PassSky, mat, mgl32.Ident4(), v, i)}
	s.CullBackFaces = false
	s.Bind(s)
	return s
}

// IsVisible always reports true; the dome surrounds the viewer.
func (s *SkyNode) IsVisible(ctx *RenderContext) bool {
	return ctx != nil
}

// PreRender moves the dome to the camera position before pushing its
// transform.
func (s *SkyNode) PreRender(ctx *RenderContext) error {
	if ctx != nil && ctx.Camera != nil {
		if world, ok := invertTransform(ctx.Camera.ViewTransform()); ok {
			eye := translationOf(world)
			parent := ctx.topTransform()
			if local, ok := invertTransform(parent); ok {
				eye = mgl32.TransformCoordinate(eye, local)
			}
			s.SetPosition(eye)
		}
	}
	return s.Node.PreRender(ctx)
}
