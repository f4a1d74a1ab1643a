package grove

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, pick results are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event PickEvent)
}

// PickEvent carries one pick hit for the ECS bridge.
type PickEvent struct {
	EntityID EntityID
	Name     string
	Distance float32
	Point    mgl32.Vec3
	Ray      Ray
}

// Scene is the top-level object that owns the node tree, the camera and the
// per-frame traversal resources.
type Scene struct {
	root   *Node
	camera *CameraNode
	store  EntityStore
	debug  bool

	stack   *MatrixStack
	shaders *ShaderLibrary
	alpha   *AlphaQueue
	lights  *LightSet
	ctx     RenderContext

	updateFunc func(dt float32) error

	stats     frameStats
	lastStats FrameStats
	frame     uint64
	captures  []string

	injectQueue  []pickRequest
	testRunner   *TestRunner
	viewW, viewH float32 // size of the last drawn target

	// ClearColor fills the screen before each Draw.
	ClearColor Color
	// ScreenshotDir receives captures queued with Screenshot.
	ScreenshotDir string
}

// NewScene creates a new scene with a root group and the built-in shaders.
// Call SetCamera before drawing.
func NewScene() *Scene {
	shaders, err := NewShaderLibrary()
	if err != nil {
		report(slog.LevelError, "NewScene", "failed to build shader library", "err", err)
		shaders = &ShaderLibrary{shaders: make(map[string]*KageShader)}
	}
	return &Scene{
		root:          NewGroup("root"),
		stack:         NewMatrixStack(),
		shaders:       shaders,
		alpha:         NewAlphaQueue(),
		lights:        NewLightSet(Color{0.1, 0.1, 0.1, 1}),
		ClearColor:    Color{0, 0, 0, 1},
		ScreenshotDir: defaultScreenshotDir,
	}
}

// Root returns the scene's root group.
func (s *Scene) Root() *Node { return s.root }

// Camera returns the active camera, or nil.
func (s *Scene) Camera() *CameraNode { return s.camera }

// SetCamera makes cam the active camera. A camera outside the tree is
// updated by the scene directly.
func (s *Scene) SetCamera(cam *CameraNode) { s.camera = cam }

// Shaders returns the scene's shader library.
func (s *Scene) Shaders() *ShaderLibrary { return s.shaders }

// Lights returns the per-frame light set.
func (s *Scene) Lights() *LightSet { return s.lights }

// SetUpdateFunc sets a callback run at the start of every Update, before
// the tree is updated.
func (s *Scene) SetUpdateFunc(fn func(dt float32) error) { s.updateFunc = fn }

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) { s.store = store }

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings are logged and per-frame stats are collected and
// logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene.
var globalDebug bool

// LastStats returns the stats of the last completed frame. Zero unless
// debug mode is on.
func (s *Scene) LastStats() FrameStats { return s.lastStats }

// context fills the scene's reusable RenderContext for one pass.
func (s *Scene) context(surface *Surface) *RenderContext {
	s.ctx = RenderContext{
		Stack:   s.stack,
		Shaders: s.shaders,
		Alpha:   s.alpha,
		Surface: surface,
		Lights:  s.lights,
	}
	if s.camera != nil {
		s.ctx.Camera = s.camera
	}
	if s.debug {
		s.ctx.stats = &s.stats
	}
	return &s.ctx
}

// inTree reports whether n is attached under the scene root.
func (s *Scene) inTree(n *Node) bool {
	for p := n; p != nil; {
		if p == s.root {
			return true
		}
		if p.parent == nil {
			return false
		}
		p = p.parent.base()
	}
	return false
}

// Update runs the update callback, then updates the tree. Lights register
// themselves during this pass.
func (s *Scene) Update(dt float32) error {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.lights.Reset()
	ctx := s.context(nil)

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInjectedPick()

	var errs []error
	if s.updateFunc != nil {
		errs = append(errs, s.updateFunc(dt))
	}
	errs = append(errs, s.root.Update(ctx, dt))
	if s.camera != nil && !s.inTree(s.camera.Node) {
		errs = append(errs, s.camera.Update(ctx, dt))
	}
	if s.debug {
		s.stats.UpdateTime = time.Since(t0)
	}
	return errors.Join(errs...)
}

// Render runs one traversal of the tree into surface, then flushes the
// translucent queue. surface may be nil for a traversal without drawing.
func (s *Scene) Render(surface *Surface) error {
	if s.camera == nil {
		report(slog.LevelError, "Scene.Render", "no camera")
		return fmt.Errorf("%w: no camera", ErrInvalidContext)
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.camera.refresh()
	s.stack.Reset(mgl32.Ident4())
	s.alpha.Reset()
	ctx := s.context(surface)

	var errs []error
	if err := s.root.PreRender(ctx); err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, s.root.Render(ctx), s.root.RenderChildren(ctx), s.root.PostRender(ctx))
	}

	if s.debug {
		s.stats.TraverseTime = time.Since(t0)
		t0 = time.Now()
	}
	errs = append(errs, s.alpha.Flush(ctx))
	if s.debug {
		s.stats.AlphaTime = time.Since(t0)
	}

	if d := s.stack.Depth(); d != 0 {
		report(slog.LevelWarn, "Scene.Render", "transform stack unbalanced after frame", "depth", d)
	}
	return errors.Join(errs...)
}

// Draw clears screen, renders the scene through the active camera and
// publishes the frame stats.
func (s *Scene) Draw(screen *ebiten.Image) error {
	screen.Fill(s.ClearColor.toRGBA())
	if s.camera == nil {
		report(slog.LevelError, "Scene.Draw", "no camera")
		return fmt.Errorf("%w: no camera", ErrInvalidContext)
	}
	b := screen.Bounds()
	s.viewW, s.viewH = float32(b.Dx()), float32(b.Dy())
	if b.Dy() > 0 {
		s.camera.SetAspect(float32(b.Dx()) / float32(b.Dy()))
	}
	s.camera.refresh()
	surface := NewSurface(screen, s.camera.Projection(), s.camera.ViewTransform())
	surface.Lights = s.lights

	err := s.Render(surface)

	if s.debug {
		s.stats.Triangles = surface.Triangles()
		s.lastStats = s.stats.FrameStats
		s.debugLog(s.lastStats)
	}
	s.stats = frameStats{}
	s.flushScreenshots(screen)
	s.frame++
	return err
}

// Frame returns the number of frames drawn so far.
func (s *Scene) Frame() uint64 { return s.frame }

// LoseDevice releases GPU resources held by the shader library and by the
// tree.
func (s *Scene) LoseDevice() error {
	s.shaders.OnLostDevice()
	return s.root.OnLostDevice(s.context(nil))
}

// Restore recreates the shader programs and restores the tree.
func (s *Scene) Restore() error {
	return errors.Join(s.shaders.OnRestore(), s.root.OnRestore(s.context(nil)))
}

// Pick returns every node hit by ray, nearest first. Hits are forwarded to
// the entity store when one is set.
func (s *Scene) Pick(ray Ray) ([]Hit, error) {
	var hits []Hit
	err := s.root.Pick(s.context(nil), ray, &hits)
	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	if s.store != nil {
		for _, h := range hits {
			name := ""
			if h.Node != nil {
				name = h.Node.Props().Name
			}
			s.store.EmitEvent(PickEvent{
				EntityID: h.EntityID,
				Name:     name,
				Distance: h.Distance,
				Point:    h.Point,
				Ray:      ray,
			})
		}
	}
	return hits, err
}

// PickAt picks through screen point (sx, sy) of a width x height target
// using the active camera.
func (s *Scene) PickAt(sx, sy, width, height float32) ([]Hit, error) {
	if s.camera == nil || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: no camera or empty target", ErrInvalidContext)
	}
	s.camera.refresh()
	return s.Pick(s.camera.ScreenRay(sx, sy, width, height))
}
