package grove

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// recordingStore collects pick events.
type recordingStore struct {
	events []PickEvent
}

func (r *recordingStore) EmitEvent(e PickEvent) { r.events = append(r.events, e) }

func newCameraScene(t *testing.T) *Scene {
	t.Helper()
	s := NewScene()
	cam := NewCamera("cam", mgl32.Ident4(), CameraConfig{Aspect: 1})
	s.SetCamera(cam)
	return s
}

func TestNewScene(t *testing.T) {
	s := NewScene()
	if s.Root() == nil || s.Root().Props().Name != "root" {
		t.Fatal("root should be a group named root")
	}
	if s.Camera() != nil {
		t.Error("new scene should have no camera")
	}
	if s.Shaders() == nil || len(s.Shaders().Names()) != 2 {
		t.Errorf("Shaders = %v", s.Shaders())
	}
	if s.Lights() == nil || s.Lights().Ambient.R != 0.1 {
		t.Errorf("Lights = %+v", s.Lights())
	}
	if s.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q", s.ScreenshotDir)
	}
	if s.Frame() != 0 {
		t.Errorf("Frame = %d", s.Frame())
	}
}

func TestSceneSetEntityStore(t *testing.T) {
	s := NewScene()
	s.SetEntityStore(nil) // should not panic
	if s.store != nil {
		t.Error("store should be nil")
	}
}

func TestSceneSetDebugMode(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	if !s.debug || !globalDebug {
		t.Error("debug should be true")
	}
	s.SetDebugMode(false)
	if s.debug || globalDebug {
		t.Error("debug should be false")
	}
}

func TestSceneRenderWithoutCamera(t *testing.T) {
	s := NewScene()
	if err := s.Render(nil); !errors.Is(err, ErrInvalidContext) {
		t.Errorf("Render = %v, want ErrInvalidContext", err)
	}
	if err := s.Draw(ebiten.NewImage(8, 8)); !errors.Is(err, ErrInvalidContext) {
		t.Errorf("Draw = %v, want ErrInvalidContext", err)
	}
}

func TestSceneRenderFlushesTranslucent(t *testing.T) {
	var trace []string
	s := newCameraScene(t)
	attachAll(t, s.Root(),
		newProbe(1, "glass", 0.5, mgl32.Vec3{0, 0, -5}, &trace),
		newProbe(2, "wall", AlphaOpaque, mgl32.Vec3{0, 0, -20}, &trace),
		newProbe(3, "behind", AlphaOpaque, mgl32.Vec3{0, 0, 20}, &trace),
	)

	if err := s.Render(nil); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"pre:wall", "render:wall", "post:wall",
		"pre:glass", "render:glass", "post:glass",
	}
	if !equalTrace(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
	if s.stack.Depth() != 0 {
		t.Errorf("Depth = %d", s.stack.Depth())
	}
	if s.alpha.Len() != 0 {
		t.Errorf("queue not flushed: %d", s.alpha.Len())
	}
}

func TestSceneRenderAggregatesErrors(t *testing.T) {
	s := newCameraScene(t)
	a := newProbe(1, "a", AlphaOpaque, mgl32.Vec3{0, 0, -5}, nil)
	a.renderErr = errors.New("a failed")
	b := newProbe(2, "b", 0.5, mgl32.Vec3{0, 0, -5}, nil)
	b.renderErr = errors.New("b failed")
	attachAll(t, s.Root(), a, b)

	err := s.Render(nil)
	if !errors.Is(err, a.renderErr) || !errors.Is(err, b.renderErr) {
		t.Errorf("err = %v, want both failures", err)
	}
	if s.stack.Depth() != 0 {
		t.Errorf("Depth = %d", s.stack.Depth())
	}
}

func TestSceneDrawStats(t *testing.T) {
	s := newCameraScene(t)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	attachAll(t, s.Root(),
		NewCube(1, "front", 2, DefaultMaterial(), Translation(mgl32.Vec3{0, 0, -6})),
		NewCube(2, "back", 2, DefaultMaterial(), Translation(mgl32.Vec3{0, 0, 6})),
		newProbe(3, "glass", 0.5, mgl32.Vec3{0, 0, -4}, nil),
		newProbe(4, "ghost", 0, mgl32.Vec3{0, 0, -4}, nil),
	)

	if err := s.Draw(ebiten.NewImage(64, 64)); err != nil {
		t.Fatal(err)
	}
	st := s.LastStats()
	if st.Visited != 4 || st.Culled != 1 || st.Opaque != 1 || st.Translucent != 1 || st.Skipped != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.Triangles == 0 {
		t.Error("no triangles counted")
	}
	if s.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", s.Frame())
	}
	if s.stats != (frameStats{}) {
		t.Error("working stats not reset after Draw")
	}
}

func TestSceneDrawSetsAspect(t *testing.T) {
	s := newCameraScene(t)
	if err := s.Draw(ebiten.NewImage(200, 100)); err != nil {
		t.Fatal(err)
	}
	if !nearly(s.Camera().Frustum().Aspect, 2) {
		t.Errorf("Aspect = %v, want 2", s.Camera().Frustum().Aspect)
	}
	if s.viewW != 200 || s.viewH != 100 {
		t.Errorf("view size = %vx%v", s.viewW, s.viewH)
	}
}

func TestSceneUpdate(t *testing.T) {
	s := newCameraScene(t)
	var trace []string
	p := newProbe(1, "p", AlphaOpaque, mgl32.Vec3{}, &trace)
	p.updateErr = errors.New("update failed")
	attachAll(t, s.Root(), p)

	calls := 0
	cbErr := errors.New("callback failed")
	s.SetUpdateFunc(func(dt float32) error {
		calls++
		if len(trace) != 0 {
			t.Error("update callback should run before the tree")
		}
		return cbErr
	})

	err := s.Update(1.0 / 60)
	if !errors.Is(err, cbErr) || !errors.Is(err, p.updateErr) {
		t.Errorf("err = %v, want both failures", err)
	}
	if calls != 1 || !equalTrace(trace, []string{"update:p"}) {
		t.Errorf("calls = %d, trace = %v", calls, trace)
	}
}

func TestSceneUpdatesDetachedCamera(t *testing.T) {
	s := newCameraScene(t)
	s.Camera().FlyTo(mgl32.Vec3{0, 0, 4}, 1, ease.Linear)
	if err := s.Update(1); err != nil {
		t.Fatal(err)
	}
	if s.Camera().Flying() {
		t.Error("camera outside the tree was not updated")
	}
}

func TestSceneUpdatesCameraInTreeOnce(t *testing.T) {
	s := newCameraScene(t)
	attachAll(t, s.Root(), s.Camera())
	s.Camera().FlyTo(mgl32.Vec3{4, 0, 0}, 1, ease.Linear)
	if err := s.Update(0.5); err != nil {
		t.Fatal(err)
	}
	if !nearly(s.Camera().Position().X(), 2) {
		t.Errorf("X = %v, want 2 after a single update", s.Camera().Position().X())
	}
}

func TestSceneUpdateCollectsLights(t *testing.T) {
	s := newCameraScene(t)
	attachAll(t, s.Root(), NewLight("sun", LightDirectional, ColorWhite, mgl32.Ident4()))
	for i := 0; i < 3; i++ {
		if err := s.Update(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	if s.Lights().Len() != 1 {
		t.Errorf("Len = %d, want lights reset every update", s.Lights().Len())
	}
}

func TestScenePickSortedAndForwarded(t *testing.T) {
	s := newCameraScene(t)
	store := &recordingStore{}
	s.SetEntityStore(store)
	attachAll(t, s.Root(),
		NewCube(2, "far", 1, DefaultMaterial(), Translation(mgl32.Vec3{0, 0, -20})),
		NewCube(1, "near", 1, DefaultMaterial(), Translation(mgl32.Vec3{0, 0, -5})),
		NewCube(3, "aside", 1, DefaultMaterial(), Translation(mgl32.Vec3{10, 0, -5})),
	)

	ray := Ray{Direction: mgl32.Vec3{0, 0, -1}}
	hits, err := s.Pick(ray)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0].EntityID != 1 || hits[1].EntityID != 2 {
		t.Fatalf("hits = %+v, want near then far", hits)
	}
	if len(store.events) != 2 {
		t.Fatalf("events = %d, want 2", len(store.events))
	}
	if e := store.events[0]; e.Name != "near" || e.EntityID != 1 || e.Ray != ray {
		t.Errorf("event = %+v", e)
	}
}

func TestScenePickAt(t *testing.T) {
	s := newCameraScene(t)
	attachAll(t, s.Root(), NewCube(7, "center", 2, DefaultMaterial(), Translation(mgl32.Vec3{0, 0, -10})))

	hits, err := s.PickAt(32, 32, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].EntityID != 7 {
		t.Errorf("hits = %+v", hits)
	}
	if _, err := s.PickAt(0, 0, 0, 0); !errors.Is(err, ErrInvalidContext) {
		t.Errorf("PickAt with empty target = %v", err)
	}
}

func TestSceneLoseDeviceAndRestore(t *testing.T) {
	s := newCameraScene(t)
	cube := NewCube(1, "cube", 2, DefaultMaterial(), Translation(mgl32.Vec3{0, 0, -5}))
	cube.SetShaderName(ShaderUnlit)
	attachAll(t, s.Root(), cube)
	screen := ebiten.NewImage(32, 32)
	if err := s.Draw(screen); err != nil {
		t.Fatal(err)
	}

	if err := s.LoseDevice(); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(screen); !errors.Is(err, ErrShaderUnavailable) {
		t.Errorf("Draw while lost = %v, want ErrShaderUnavailable", err)
	}
	if s.stack.Depth() != 0 {
		t.Errorf("Depth = %d", s.stack.Depth())
	}

	if err := s.Restore(); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(screen); err != nil {
		t.Errorf("Draw after restore = %v", err)
	}
}
