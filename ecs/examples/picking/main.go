// Picking demonstrates ray picking and the donburi bridge. Clicking a cube
// publishes a pick event into a donburi world; a subscriber turns the cube
// red and tweens it upward.
package main

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/grove"
	"github.com/phanxgames/grove/ecs"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
)

const (
	windowTitle = "Grove - Picking Example"
	screenW     = 800
	screenH     = 600
	gridSize    = 5
)

func main() {
	scene := grove.NewScene()
	scene.ClearColor = grove.Color{R: 0.1, G: 0.1, B: 0.12, A: 1}

	world := donburi.NewWorld()
	scene.SetEntityStore(ecs.NewDonburiStore(world))

	cubes := make(map[grove.EntityID]*grove.MeshNode)
	for x := 0; x < gridSize; x++ {
		for z := 0; z < gridSize; z++ {
			id := grove.EntityID(1 + x*gridSize + z)
			pos := mgl32.Vec3{float32(x-gridSize/2) * 2, 0, float32(z-gridSize/2) * 2}
			cube := grove.NewCube(id, "cube", 1, grove.DefaultMaterial(), grove.Translation(pos))
			if err := scene.Root().AttachChild(cube); err != nil {
				log.Fatal(err)
			}
			cubes[id] = cube
		}
	}

	ecs.PickEventType.Subscribe(world, func(w donburi.World, e grove.PickEvent) {
		cube, ok := cubes[e.EntityID]
		if !ok || cube.Animating() {
			return
		}
		cube.Animate(grove.TweenColor(cube, grove.Color{R: 1, G: 0.2, B: 0.2, A: 1}, 0.3, ease.OutQuad))
		cube.Animate(grove.TweenPosition(cube, cube.Position().Add(mgl32.Vec3{0, 1, 0}), 0.6, ease.OutBounce))
	})

	light := grove.NewLight("sun", grove.LightDirectional, grove.Color{R: 0.9, G: 0.9, B: 0.9, A: 1},
		mgl32.HomogRotate3DX(mgl32.DegToRad(-50)))
	if err := scene.Root().AttachChild(light); err != nil {
		log.Fatal(err)
	}

	cam := grove.NewCamera("main", mgl32.Ident4(), grove.CameraConfig{})
	cam.LookAt(mgl32.Vec3{0, 8, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	scene.SetCamera(cam)

	scene.SetUpdateFunc(func(dt float32) error {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			mx, my := ebiten.CursorPosition()
			hits, err := scene.PickAt(float32(mx), float32(my), screenW, screenH)
			if err != nil {
				return err
			}
			if len(hits) > 0 {
				log.Printf("picked %q (entity %d) at %.2f", hits[0].Node.Props().Name, hits[0].EntityID, hits[0].Distance)
			}
		}
		ecs.PickEventType.ProcessEvents(world)
		return nil
	})

	if err := grove.Run(scene, grove.RunConfig{
		Title:  windowTitle,
		Width:  screenW,
		Height: screenH,
	}); err != nil {
		log.Fatal(err)
	}
}
