package grove

import "errors"

var (
	// ErrInvalidContext is returned when a pass receives a nil RenderContext
	// or one missing a collaborator the pass needs.
	ErrInvalidContext = errors.New("grove: invalid render context")

	// ErrNilChild is returned by AttachChild for a nil child.
	ErrNilChild = errors.New("grove: nil child")

	// ErrCycle is returned by AttachChild when the child is the receiver or
	// one of its ancestors.
	ErrCycle = errors.New("grove: attaching child would create a cycle")

	// ErrShaderResolve wraps failures to look up a node's custom shader.
	ErrShaderResolve = errors.New("grove: shader not resolved")

	// ErrShaderActivate wraps failures to activate a resolved shader.
	ErrShaderActivate = errors.New("grove: shader activation failed")

	// ErrShaderUnavailable is returned when activating a shader whose GPU
	// program was released by a lost device and not yet restored.
	ErrShaderUnavailable = errors.New("grove: shader program unavailable")
)
