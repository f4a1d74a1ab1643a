package grove

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// TransformStack holds the cumulative transform along the current traversal
// path. Every PushTransform is balanced by exactly one PopTransform.
type TransformStack interface {
	// PushTransform pushes TopTransform() * m.
	PushTransform(m mgl32.Mat4)
	// MultiplyTop replaces the top with TopTransform() * m.
	MultiplyTop(m mgl32.Mat4)
	// LoadTop replaces the top with m.
	LoadTop(m mgl32.Mat4)
	// PopTransform discards the top entry. The base entry is never popped.
	PopTransform()
	// TopTransform returns the current top.
	TopTransform() mgl32.Mat4
	// Depth returns the number of pushed entries above the base.
	Depth() int
}

// MatrixStack is the default TransformStack. Its base entry is identity
// unless changed with Reset.
type MatrixStack struct {
	entries []mgl32.Mat4
}

// NewMatrixStack creates a stack holding only the identity base entry.
func NewMatrixStack() *MatrixStack {
	s := &MatrixStack{entries: make([]mgl32.Mat4, 1, 32)}
	s.entries[0] = mgl32.Ident4()
	return s
}

// Reset drops every pushed entry and sets the base entry to base.
func (s *MatrixStack) Reset(base mgl32.Mat4) {
	s.entries = append(s.entries[:0], base)
}

func (s *MatrixStack) PushTransform(m mgl32.Mat4) {
	s.ensureBase()
	s.entries = append(s.entries, s.TopTransform().Mul4(m))
}

func (s *MatrixStack) MultiplyTop(m mgl32.Mat4) {
	s.ensureBase()
	top := len(s.entries) - 1
	s.entries[top] = s.entries[top].Mul4(m)
}

func (s *MatrixStack) LoadTop(m mgl32.Mat4) {
	s.ensureBase()
	s.entries[len(s.entries)-1] = m
}

// PopTransform discards the top entry. Popping at the base is reported and
// ignored.
func (s *MatrixStack) PopTransform() {
	if len(s.entries) <= 1 {
		report(slog.LevelWarn, "MatrixStack.PopTransform", "pop on empty transform stack")
		return
	}
	s.entries = s.entries[:len(s.entries)-1]
}

func (s *MatrixStack) TopTransform() mgl32.Mat4 {
	if len(s.entries) == 0 {
		return mgl32.Ident4()
	}
	return s.entries[len(s.entries)-1]
}

func (s *MatrixStack) Depth() int {
	if len(s.entries) == 0 {
		return 0
	}
	return len(s.entries) - 1
}

// ensureBase makes the zero value usable.
func (s *MatrixStack) ensureBase() {
	if len(s.entries) == 0 {
		s.entries = append(s.entries, mgl32.Ident4())
	}
}
