package grove

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// PreRender resolves and activates the node's custom shader, if it has one,
// then pushes the node's toWorld onto the transform stack. Nothing is pushed
// when it fails, so PostRender must only follow a successful PreRender.
func (n *Node) PreRender(ctx *RenderContext) error {
	if !ctx.canTransform() {
		report(slog.LevelError, "Node.PreRender", "invalid render context", "node", n.props.Name)
		return ErrInvalidContext
	}
	if name := n.props.shaderName; name != "" {
		if n.shader == nil {
			if ctx.Shaders == nil {
				report(slog.LevelError, "Node.PreRender", "no shader resolver for custom shader",
					"node", n.props.Name, "shader", name)
				return fmt.Errorf("%w: no shader resolver for %q", ErrInvalidContext, name)
			}
			sh, err := ctx.Shaders.ResolveShader(name)
			if err != nil || sh == nil {
				report(slog.LevelError, "Node.PreRender", "failed to resolve custom shader",
					"node", n.props.Name, "shader", name, "err", err)
				if err == nil {
					return fmt.Errorf("%w: %q", ErrShaderResolve, name)
				}
				return fmt.Errorf("%w: %q: %w", ErrShaderResolve, name, err)
			}
			n.shader = sh
		}
		if err := n.shader.Activate(); err != nil {
			report(slog.LevelError, "Node.PreRender", "failed to activate custom shader",
				"node", n.props.Name, "shader", name, "err", err)
			return fmt.Errorf("%w: %q: %w", ErrShaderActivate, name, err)
		}
	}
	ctx.Stack.PushTransform(n.props.toWorld)
	return nil
}

// Render draws nothing. Kinds with geometry override it and draw with the
// transform on top of the stack; they must leave the stack depth unchanged.
func (n *Node) Render(ctx *RenderContext) error {
	if ctx == nil {
		report(slog.LevelError, "Node.Render", "invalid render context", "node", n.props.Name)
		return ErrInvalidContext
	}
	return nil
}

// PostRender pops the transform pushed by PreRender.
func (n *Node) PostRender(ctx *RenderContext) error {
	if !ctx.canTransform() {
		report(slog.LevelError, "Node.PostRender", "invalid render context", "node", n.props.Name)
		return ErrInvalidContext
	}
	ctx.Stack.PopTransform()
	return nil
}

// IsVisible tests the node's bounding sphere against the camera frustum.
// The node's world position is taken from the current stack top, which
// holds the cumulative transform of its parent during RenderChildren.
func (n *Node) IsVisible(ctx *RenderContext) bool {
	if !ctx.canCull() {
		report(slog.LevelError, "Node.IsVisible", "invalid render context", "node", n.props.Name)
		return false
	}
	world := ctx.topTransform().Mul4(n.props.toWorld)
	eye, _ := originThrough(ctx.Camera.ViewTransform().Mul4(world))
	return ctx.Camera.Contains(eye, n.props.radius)
}

// RenderChildren visits every child in order. A visible child is classified
// by alpha and drawn now, queued for the translucent pass, or skipped. Each
// child's own children are walked whether or not the child was visible, with
// the child's transform pushed for the duration.
func (n *Node) RenderChildren(ctx *RenderContext) error {
	if !ctx.canTransform() {
		report(slog.LevelError, "Node.RenderChildren", "invalid render context", "node", n.props.Name)
		return ErrInvalidContext
	}
	if !ctx.canCull() {
		report(slog.LevelError, "Node.RenderChildren", "no camera", "node", n.props.Name)
		return fmt.Errorf("%w: no camera", ErrInvalidContext)
	}
	var errs []error
	for _, c := range n.children {
		ctx.stats.visit()
		if c.IsVisible(ctx) {
			errs = append(errs, renderClassified(ctx, c))
		} else {
			ctx.stats.cull()
		}

		ctx.Stack.PushTransform(c.Props().toWorld)
		errs = append(errs, c.RenderChildren(ctx))
		ctx.Stack.PopTransform()
	}
	return errors.Join(errs...)
}

// renderClassified routes a visible node by its material alpha.
func renderClassified(ctx *RenderContext, sn SceneNode) error {
	props := sn.Props()
	alpha := props.Alpha()
	switch {
	case IsOpaque(alpha):
		ctx.stats.opaque()
		return renderScoped(ctx, sn)
	case !IsTransparent(alpha):
		if ctx.Alpha == nil || ctx.Camera == nil {
			report(slog.LevelError, "Node.RenderChildren", "cannot queue translucent node", "node", props.Name)
			return fmt.Errorf("%w: cannot queue translucent %q", ErrInvalidContext, props.Name)
		}
		top := ctx.Stack.TopTransform()
		eye, w := originThrough(ctx.Camera.ViewTransform().Mul4(top).Mul4(props.toWorld))
		if !mgl32.FloatEqual(w, 1) {
			report(slog.LevelDebug, "Node.RenderChildren", "eye-space position has w != 1",
				"node", props.Name, "w", w)
		}
		ctx.Alpha.Submit(AlphaNode{Node: sn, Transform: top, Depth: -eye.Z()})
		ctx.stats.translucent()
		return nil
	default:
		ctx.stats.skip()
		return nil
	}
}

// renderScoped runs PreRender, Render and PostRender for sn. PostRender is
// deferred so the stack is restored when Render fails.
func renderScoped(ctx *RenderContext, sn SceneNode) (err error) {
	if err := sn.PreRender(ctx); err != nil {
		return err
	}
	defer func() {
		if perr := sn.PostRender(ctx); perr != nil {
			err = errors.Join(err, perr)
		}
	}()
	return sn.Render(ctx)
}

// Update advances the node's tweens and then updates every child.
func (n *Node) Update(ctx *RenderContext, dt float32) error {
	if ctx == nil {
		report(slog.LevelError, "Node.Update", "invalid render context", "node", n.props.Name)
		return ErrInvalidContext
	}
	n.advanceTweens(dt)
	var errs []error
	for _, c := range n.children {
		errs = append(errs, c.Update(ctx, dt))
	}
	return errors.Join(errs...)
}

// OnRestore forwards a device restore to every child.
func (n *Node) OnRestore(ctx *RenderContext) error {
	if ctx == nil {
		report(slog.LevelError, "Node.OnRestore", "invalid render context", "node", n.props.Name)
		return ErrInvalidContext
	}
	var errs []error
	for _, c := range n.children {
		errs = append(errs, c.OnRestore(ctx))
	}
	return errors.Join(errs...)
}

// OnLostDevice forwards a device loss to every child.
func (n *Node) OnLostDevice(ctx *RenderContext) error {
	if ctx == nil {
		report(slog.LevelError, "Node.OnLostDevice", "invalid render context", "node", n.props.Name)
		return ErrInvalidContext
	}
	var errs []error
	for _, c := range n.children {
		errs = append(errs, c.OnLostDevice(ctx))
	}
	return errors.Join(errs...)
}

// Pick forwards the ray to every child. The base node has no geometry and
// adds no hits; kinds with geometry override it.
func (n *Node) Pick(ctx *RenderContext, ray Ray, hits *[]Hit) error {
	if ctx == nil {
		report(slog.LevelError, "Node.Pick", "invalid render context", "node", n.props.Name)
		return ErrInvalidContext
	}
	var errs []error
	for _, c := range n.children {
		errs = append(errs, c.Pick(ctx, ray, hits))
	}
	return errors.Join(errs...)
}
