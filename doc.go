// Package grove is a retained-mode 3D scene graph for [Ebitengine].
//
// Grove keeps a tree of nodes, each with a local-to-parent transform, a
// material and a bounding radius, and walks it once per frame: cull by
// bounding sphere, draw opaque nodes immediately, defer translucent ones to
// a back-to-front pass, and skip fully transparent ones.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := grove.NewScene()
//	cam := grove.NewCamera("main", mgl32.Ident4(), grove.CameraConfig{})
//	cam.LookAt(mgl32.Vec3{0, 3, 8}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
//	scene.SetCamera(cam)
//	// ... add nodes ...
//	grove.Run(scene, grove.RunConfig{Title: "My Game", Width: 640, Height: 480})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Scene graph
//
// Every node embeds [*Node] and satisfies [SceneNode]. Nodes form a tree
// rooted at [Scene.Root]; a node has at most one parent, and attaching it
// elsewhere moves it. Attaching a child grows the parent's bounding radius
// so that it encloses the child. The radius never shrinks.
//
//	cube := grove.NewCube(1, "crate", 1, grove.DefaultMaterial(), grove.Translation(mgl32.Vec3{2, 0, 0}))
//	if err := scene.Root().AttachChild(cube); err != nil {
//		return err
//	}
//
// Custom kinds embed a node type and call [Node.Bind] with themselves so
// that the traversal dispatches to their overrides:
//
//	type marker struct{ *grove.Node }
//
//	func newMarker() *marker {
//		m := &marker{Node: grove.NewGroup("marker")}
//		m.Bind(m)
//		return m
//	}
//
// # Traversal
//
// Every pass takes a [RenderContext] bundling a [TransformStack], a
// [Camera], a [ShaderResolver] and an [AlphaCollector]. The stack holds the
// cumulative transform of the path being walked; PreRender pushes a node's
// transform and PostRender pops it, on every path including failures.
// Failures of one node are logged and returned joined with the others; they
// never stop the walk of its siblings.
//
// Diagnostics go through [log/slog]. Grove is silent until [SetLogger] is
// called.
//
// Tweens (via [gween]) animate position, alpha and color; ECS integration
// lives in grove/ecs (via [Donburi]).
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package grove
