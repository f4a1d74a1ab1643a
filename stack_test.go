package grove

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMatrixStackPushMultiplies(t *testing.T) {
	s := NewMatrixStack()
	s.PushTransform(Translation(mgl32.Vec3{1, 0, 0}))
	s.PushTransform(mgl32.Scale3D(2, 2, 2))

	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 1, 1}, s.TopTransform())
	if !nearVec(got, mgl32.Vec3{3, 2, 2}) {
		t.Errorf("top applied = %v, want (3, 2, 2)", got)
	}
	if s.Depth() != 2 {
		t.Errorf("Depth = %d, want 2", s.Depth())
	}
	s.PopTransform()
	if translationOf(s.TopTransform()) != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("after pop top = %v", s.TopTransform())
	}
}

func TestMatrixStackPopAtBaseIgnored(t *testing.T) {
	logs := captureLogs(t, slog.LevelWarn)
	s := NewMatrixStack()
	s.PopTransform()
	if s.Depth() != 0 || s.TopTransform() != mgl32.Ident4() {
		t.Error("pop at base changed the stack")
	}
	if !strings.Contains(logs.String(), "pop on empty transform stack") {
		t.Errorf("log = %q, want a warning", logs.String())
	}
}

func TestMatrixStackLoadAndMultiplyTop(t *testing.T) {
	s := NewMatrixStack()
	s.PushTransform(mgl32.Ident4())
	s.LoadTop(Translation(mgl32.Vec3{0, 5, 0}))
	s.MultiplyTop(Translation(mgl32.Vec3{1, 0, 0}))
	if translationOf(s.TopTransform()) != (mgl32.Vec3{1, 5, 0}) {
		t.Errorf("top = %v", translationOf(s.TopTransform()))
	}
	s.PopTransform()
	if s.TopTransform() != mgl32.Ident4() {
		t.Error("base entry modified")
	}
}

func TestMatrixStackReset(t *testing.T) {
	s := NewMatrixStack()
	s.PushTransform(Translation(mgl32.Vec3{1, 1, 1}))
	s.PushTransform(Translation(mgl32.Vec3{1, 1, 1}))
	base := Translation(mgl32.Vec3{0, 0, 9})
	s.Reset(base)
	if s.Depth() != 0 || s.TopTransform() != base {
		t.Errorf("after Reset depth = %d, top = %v", s.Depth(), s.TopTransform())
	}
}

func TestMatrixStackZeroValue(t *testing.T) {
	var s MatrixStack
	if s.TopTransform() != mgl32.Ident4() || s.Depth() != 0 {
		t.Error("zero value should behave as identity base")
	}
	s.PushTransform(Translation(mgl32.Vec3{2, 0, 0}))
	if s.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", s.Depth())
	}
	s.PopTransform()
	if s.Depth() != 0 {
		t.Errorf("Depth = %d, want 0", s.Depth())
	}
}
