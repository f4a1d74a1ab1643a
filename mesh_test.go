package grove

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Geometry ---

func TestGeometryCounts(t *testing.T) {
	tests := []struct {
		name          string
		build         func() ([]Vertex, []uint16)
		wantV, wantIx int
	}{
		{name: "cube", build: func() ([]Vertex, []uint16) { return CubeGeometry(2) }, wantV: 24, wantIx: 36},
		{name: "plane", build: func() ([]Vertex, []uint16) { return PlaneGeometry(4, 2) }, wantV: 4, wantIx: 6},
		{name: "sphere", build: func() ([]Vertex, []uint16) { return SphereGeometry(1, 8, 4, false) }, wantV: 9 * 5, wantIx: 8 * 4 * 6},
		{name: "sphere clamped", build: func() ([]Vertex, []uint16) { return SphereGeometry(1, 1, 1, false) }, wantV: 4 * 3, wantIx: 3 * 2 * 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ix := tt.build()
			if len(v) != tt.wantV || len(ix) != tt.wantIx {
				t.Errorf("got %d verts / %d indices, want %d / %d", len(v), len(ix), tt.wantV, tt.wantIx)
			}
			for _, i := range ix {
				if int(i) >= len(v) {
					t.Fatalf("index %d out of range", i)
				}
			}
		})
	}
}

func TestCubeGeometryNormalsAreUnit(t *testing.T) {
	v, _ := CubeGeometry(3)
	for i, vt := range v {
		if !nearly(vt.Normal.Len(), 1) {
			t.Errorf("vertex %d normal = %v", i, vt.Normal)
		}
		for a := 0; a < 3; a++ {
			if c := vt.Position[a]; c != 1.5 && c != -1.5 {
				t.Errorf("vertex %d position = %v, want corners at +/-1.5", i, vt.Position)
				break
			}
		}
	}
}

func TestPlaneGeometryFacesUp(t *testing.T) {
	v, _ := PlaneGeometry(10, 10)
	for _, vt := range v {
		if vt.Normal != (mgl32.Vec3{0, 1, 0}) || vt.Position.Y() != 0 {
			t.Errorf("vertex = %+v, want on y=0 facing +Y", vt)
		}
	}
}

func TestSphereGeometryInwardNormals(t *testing.T) {
	v, _ := SphereGeometry(5, 6, 3, true)
	for i, vt := range v {
		if !nearly(vt.Position.Len(), 5) {
			t.Errorf("vertex %d radius = %v, want 5", i, vt.Position.Len())
		}
		if vt.Normal.Dot(vt.Position) > 0 {
			t.Errorf("vertex %d normal %v points outward", i, vt.Normal)
		}
	}
}

// --- MeshNode ---

func TestNewMeshRadiusFromExtent(t *testing.T) {
	m := NewCube(1, "cube", 2, DefaultMaterial(), mgl32.Scale3D(3, 1, 1))
	want := float32(3 * 1.7320508)
	if !nearly(m.BoundingRadius(), want) {
		t.Errorf("BoundingRadius = %v, want %v", m.BoundingRadius(), want)
	}
	if m.Props().Pass != PassActor {
		t.Errorf("Pass = %v, want actor", m.Props().Pass)
	}
}

func TestMeshPick(t *testing.T) {
	m := NewCube(4, "cube", 2, DefaultMaterial(), Translation(mgl32.Vec3{0, 0, -10}))
	ctx, _, _ := newTestContext()

	var hits []Hit
	if err := m.Pick(ctx, Ray{Direction: mgl32.Vec3{0, 0, -1}}, &hits); err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	h := hits[0]
	if h.EntityID != 4 || h.Node != SceneNode(m) {
		t.Errorf("hit = %+v", h)
	}
	if !nearly(h.Distance, 10-1.7320508) {
		t.Errorf("Distance = %v", h.Distance)
	}
	if !nearVec(h.Point, mgl32.Vec3{0, 0, -(10 - 1.7320508)}) {
		t.Errorf("Point = %v", h.Point)
	}

	hits = hits[:0]
	if err := m.Pick(ctx, Ray{Direction: mgl32.Vec3{0, 0, 1}}, &hits); err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("ray pointing away hit %d nodes", len(hits))
	}
}

func TestRaySphere(t *testing.T) {
	tests := []struct {
		name   string
		ray    Ray
		want   float32
		wantOK bool
	}{
		{"hit", Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -2}}, 4, true},
		{"inside", Ray{Origin: mgl32.Vec3{0, 0.5, 0}, Direction: mgl32.Vec3{1, 0, 0}}, 0, true},
		{"behind", Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, 1}}, 0, false},
		{"beside", Ray{Origin: mgl32.Vec3{2, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}, 0, false},
		{"zero direction", Ray{Origin: mgl32.Vec3{0, 0, 5}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := raySphere(tt.ray, mgl32.Vec3{}, 1)
			if ok != tt.wantOK || (ok && !nearly(got, tt.want)) {
				t.Errorf("raySphere = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func meshSurfaceContext() (*RenderContext, *Surface) {
	ctx, _, _ := newTestContext()
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	surf := NewSurface(ebiten.NewImage(64, 64), proj, mgl32.Ident4())
	ctx.Surface = surf
	return ctx, surf
}

func TestMeshRenderCountsTriangles(t *testing.T) {
	root := NewGroup("root")
	cube := NewCube(1, "cube", 2, DefaultMaterial(), Translation(mgl32.Vec3{0, 0, -5}))
	attachAll(t, root, cube)

	ctx, surf := meshSurfaceContext()
	if err := root.RenderChildren(ctx); err != nil {
		t.Fatal(err)
	}
	culled := surf.Triangles()
	if culled == 0 || culled >= 12 {
		t.Errorf("with back-face culling: %d triangles, want between 1 and 11", culled)
	}

	cube.CullBackFaces = false
	ctx, surf = meshSurfaceContext()
	if err := root.RenderChildren(ctx); err != nil {
		t.Fatal(err)
	}
	if surf.Triangles() != 12 {
		t.Errorf("without culling: %d triangles, want 12", surf.Triangles())
	}
}

func TestMeshRenderBehindCamera(t *testing.T) {
	cube := NewCube(1, "cube", 1, DefaultMaterial(), Translation(mgl32.Vec3{0, 0, 5}))
	cube.CullBackFaces = false
	ctx, surf := meshSurfaceContext()
	if err := renderScoped(ctx, cube); err != nil {
		t.Fatal(err)
	}
	if surf.Triangles() != 0 {
		t.Errorf("triangles = %d, want 0 behind the eye", surf.Triangles())
	}
}

func TestMeshRenderWithoutSurface(t *testing.T) {
	cube := NewCube(1, "cube", 1, DefaultMaterial(), mgl32.Ident4())
	ctx, stack, _ := newTestContext()
	if err := renderScoped(ctx, cube); err != nil {
		t.Fatalf("Render without Surface = %v", err)
	}
	if stack.Depth() != 0 {
		t.Errorf("Depth = %d", stack.Depth())
	}
}

func TestMeshDeviceLossAndRestore(t *testing.T) {
	root := NewGroup("root")
	cube := NewCube(1, "cube", 2, DefaultMaterial(), Translation(mgl32.Vec3{0, 0, -5}))
	attachAll(t, root, cube)
	ctx, _ := meshSurfaceContext()
	if err := root.RenderChildren(ctx); err != nil {
		t.Fatal(err)
	}

	if err := root.OnLostDevice(ctx); err != nil {
		t.Fatal(err)
	}
	if cube.screenVerts != nil || cube.drawIndices != nil {
		t.Error("scratch buffers kept after OnLostDevice")
	}

	cube.Vertices, cube.Indices = CubeGeometry(6)
	if err := root.OnRestore(ctx); err != nil {
		t.Fatal(err)
	}
	if !nearly(cube.BoundingRadius(), 3*1.7320508) {
		t.Errorf("BoundingRadius after restore = %v", cube.BoundingRadius())
	}

	ctx, surf := meshSurfaceContext()
	if err := root.RenderChildren(ctx); err != nil {
		t.Fatal(err)
	}
	if surf.Triangles() == 0 {
		t.Error("nothing drawn after restore")
	}
}

// --- SkyNode ---

func TestSkyAlwaysVisible(t *testing.T) {
	sky := NewSky("sky", 50, DefaultMaterial())
	ctx, _, _ := newTestContext()
	ctx.Camera = &fakeCamera{view: mgl32.Ident4(), contains: func(mgl32.Vec3, float32) bool { return false }}
	if !sky.IsVisible(ctx) {
		t.Error("sky culled")
	}
	if sky.IsVisible(nil) {
		t.Error("sky visible with a nil context")
	}
	if sky.Props().Pass != PassSky || sky.CullBackFaces {
		t.Errorf("pass = %v, cull = %v", sky.Props().Pass, sky.CullBackFaces)
	}
}

func TestSkyFollowsCamera(t *testing.T) {
	rig := NewNode(1, "rig", PassStatic, DefaultMaterial(), Translation(mgl32.Vec3{0, 2, 0}))
	sky := NewSky("sky", 50, DefaultMaterial())
	root := NewGroup("root")
	attachAll(t, root, rig)
	attachAll(t, rig, sky)

	cam := NewCamera("cam", mgl32.Ident4(), CameraConfig{})
	cam.LookAt(mgl32.Vec3{4, 5, 6}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	ctx, stack, _ := newTestContext()
	ctx.Camera = cam

	if err := root.RenderChildren(ctx); err != nil {
		t.Fatal(err)
	}
	if !nearVec(translationOf(sky.WorldTransform()), mgl32.Vec3{4, 5, 6}) {
		t.Errorf("sky world position = %v, want the eye", translationOf(sky.WorldTransform()))
	}
	if stack.Depth() != 0 {
		t.Errorf("Depth = %d", stack.Depth())
	}
}
