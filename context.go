package grove

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Camera supplies the viewer transform and the frustum test used by IsVisible.
type Camera interface {
	// ViewTransform maps world-space points into the camera's frame.
	ViewTransform() mgl32.Mat4
	// Contains reports whether a sphere at view-space point p with the given
	// radius intersects the view volume.
	Contains(p mgl32.Vec3, radius float32) bool
}

// Shader is a resolved shader program handle.
type Shader interface {
	Name() string
	// Activate readies the program for the node's draws. It fails when the
	// program is unavailable.
	Activate() error
}

// ShaderResolver looks up shader programs by name.
type ShaderResolver interface {
	ResolveShader(name string) (Shader, error)
}

// AlphaCollector receives translucent nodes deferred during RenderChildren.
// The traversal only appends; sorting and drawing are up to the collector.
type AlphaCollector interface {
	Submit(rec AlphaNode)
}

// Surface is the draw target for ebiten-backed nodes. A nil Surface in the
// RenderContext runs the full traversal without drawing anything.
type Surface struct {
	Target     *ebiten.Image
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Lights     *LightSet

	triangles int
}

// NewSurface creates a surface for target with the given projection and view.
func NewSurface(target *ebiten.Image, projection, view mgl32.Mat4) *Surface {
	return &Surface{Target: target, Projection: projection, View: view}
}

// Triangles returns the number of triangles submitted to the target so far.
func (s *Surface) Triangles() int {
	return s.triangles
}

// RenderContext bundles the collaborators a traversal pass works against.
type RenderContext struct {
	Stack   TransformStack
	Camera  Camera
	Shaders ShaderResolver
	Alpha   AlphaCollector

	// Surface is optional; see Surface.
	Surface *Surface

	// Lights collects LightNodes during Update. Optional.
	Lights *LightSet

	stats *frameStats
}

// canTransform reports whether ctx can run a pass touching the stack.
func (ctx *RenderContext) canTransform() bool {
	return ctx != nil && ctx.Stack != nil
}

// canCull reports whether ctx can run a visibility test.
func (ctx *RenderContext) canCull() bool {
	return ctx != nil && ctx.Camera != nil
}

// topTransform returns the stack top, or identity without a stack.
func (ctx *RenderContext) topTransform() mgl32.Mat4 {
	if ctx == nil || ctx.Stack == nil {
		return mgl32.Ident4()
	}
	return ctx.Stack.TopTransform()
}
