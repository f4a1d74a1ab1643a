package grove

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float32 values on a node simultaneously.
// Create one with TweenPosition, TweenAlpha or TweenColor and either call
// Update(dt) yourself or attach it with Node.Animate so that Update passes
// advance it.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(vals [4]float32)
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target node.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	var vals [4]float32
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = val
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
}

// TweenPosition moves node to the given position over duration seconds.
func TweenPosition(node SceneNode, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	n := node.base()
	from := n.Position()
	g := &TweenGroup{count: 3}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(from[i], to[i], duration, fn)
	}
	g.apply = func(v [4]float32) {
		n.SetPosition(mgl32.Vec3{v[0], v[1], v[2]})
	}
	return g
}

// TweenAlpha fades the node's material alpha to the given value. Fading
// across AlphaOpaque and AlphaTransparent moves the node between immediate,
// deferred and skipped rendering.
func TweenAlpha(node SceneNode, to float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	n := node.base()
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(n.Alpha(), to, duration, fn)
	g.apply = func(v [4]float32) {
		n.SetAlpha(v[0])
	}
	return g
}

// TweenColor animates all four components of the node's diffuse color.
func TweenColor(node SceneNode, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	n := node.base()
	from := n.props.Material.Diffuse
	g := &TweenGroup{count: 4}
	g.tweens[0] = gween.New(from.R, to.R, duration, fn)
	g.tweens[1] = gween.New(from.G, to.G, duration, fn)
	g.tweens[2] = gween.New(from.B, to.B, duration, fn)
	g.tweens[3] = gween.New(from.A, to.A, duration, fn)
	g.apply = func(v [4]float32) {
		n.props.Material.Diffuse = Color{v[0], v[1], v[2], v[3]}
	}
	return g
}

// Animate attaches g to the node. Attached groups advance during Update and
// are dropped once done.
func (n *Node) Animate(g *TweenGroup) {
	if g == nil || g.Done {
		return
	}
	n.tweens = append(n.tweens, g)
}

// Animating reports whether the node has attached tweens still running.
func (n *Node) Animating() bool { return len(n.tweens) > 0 }

func (n *Node) advanceTweens(dt float32) {
	if len(n.tweens) == 0 {
		return
	}
	live := n.tweens[:0]
	for _, g := range n.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(n.tweens[len(live):])
	n.tweens = live
}
