package grove

import (
	"cmp"
	"log/slog"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Vertex is a mesh vertex in node-local space.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	U, V     float32 // texture coordinates in [0, 1]
}

// clipW is the smallest clip-space w a vertex may have to be drawn.
const clipW = 1e-4

// MeshNode draws indexed triangles with ebiten. Triangles are projected on
// the CPU, lit per vertex by the context's LightSet, and sorted back to
// front within the mesh since ebiten has no depth buffer.
type MeshNode struct {
	*Node

	Vertices []Vertex
	Indices  []uint16

	// CullBackFaces drops triangles wound clockwise on screen.
	CullBackFaces bool

	extent float32 // local-space radius of the geometry

	screenVerts []ebiten.Vertex
	drawIndices []uint16
	order       []triDepth
}

type triDepth struct {
	first int
	depth float32
}

// NewMesh creates a mesh node. The bounding radius starts at the geometry's
// extent scaled by toWorld.
func NewMesh(id EntityID, name string, pass RenderPass, mat Material, toWorld mgl32.Mat4, verts []Vertex, indices []uint16) *MeshNode {
	m := &MeshNode{
		Node:          NewNode(id, name, pass, mat, toWorld),
		Vertices:      verts,
		Indices:       indices,
		CullBackFaces: true,
	}
	m.Bind(m)
	m.extent = geometryExtent(verts)
	m.SetBoundingRadius(m.worldExtent())
	return m
}

// geometryExtent returns the largest vertex distance from the origin.
func geometryExtent(verts []Vertex) float32 {
	var r float32
	for i := range verts {
		if l := verts[i].Position.Len(); l > r {
			r = l
		}
	}
	return r
}

// maxScale returns the largest axis scale of m's linear part.
func maxScale(m mgl32.Mat4) float32 {
	s := m.Col(0).Vec3().Len()
	s = max(s, m.Col(1).Vec3().Len())
	return max(s, m.Col(2).Vec3().Len())
}

func (m *MeshNode) worldExtent() float32 {
	return m.extent * maxScale(m.WorldTransform())
}

// Render projects and draws the mesh using the transform on top of the
// stack. Without a Surface it only validates the context.
func (m *MeshNode) Render(ctx *RenderContext) error {
	if err := m.Node.Render(ctx); err != nil {
		return err
	}
	surf := ctx.Surface
	if surf == nil || surf.Target == nil || len(m.Indices) < 3 {
		return nil
	}

	model := ctx.topTransform()
	mvp := surf.Projection.Mul4(surf.View).Mul4(model)
	b := surf.Target.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())

	src := m.props.Material.Texture
	if src == nil {
		src = whitePixel()
	}
	sb := src.Bounds()
	sw, sh := float32(sb.Dx()), float32(sb.Dy())

	lights := ctx.Lights
	if surf.Lights != nil {
		lights = surf.Lights
	}
	mat := &m.props.Material
	ambient := Color{
		R: mat.Ambient.R + mat.Emissive.R,
		G: mat.Ambient.G + mat.Emissive.G,
		B: mat.Ambient.B + mat.Emissive.B,
	}

	m.screenVerts = m.screenVerts[:0]
	m.order = m.order[:0]
	clip := make([]mgl32.Vec4, len(m.Vertices))
	for i := range m.Vertices {
		v := &m.Vertices[i]
		clip[i] = mvp.Mul4x1(v.Position.Vec4(1))

		c := mat.Diffuse
		if lights != nil {
			p := model.Mul4x1(v.Position.Vec4(1)).Vec3()
			n := model.Mul4x1(v.Normal.Vec4(0)).Vec3()
			if n.Len() > 0 {
				n = n.Normalize()
			}
			c = lights.Shade(mat.Diffuse, ambient, p, n)
		}
		sx, sy := float32(0), float32(0)
		if cw := clip[i][3]; cw > clipW {
			sx = (clip[i][0]/cw + 1) / 2 * w
			sy = (1 - clip[i][1]/cw) / 2 * h
		}
		m.screenVerts = append(m.screenVerts, ebiten.Vertex{
			DstX:   sx,
			DstY:   sy,
			SrcX:   float32(sb.Min.X) + v.U*sw,
			SrcY:   float32(sb.Min.Y) + v.V*sh,
			ColorR: c.R * c.A,
			ColorG: c.G * c.A,
			ColorB: c.B * c.A,
			ColorA: c.A,
		})
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, bb, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(a) >= len(clip) || int(bb) >= len(clip) || int(c) >= len(clip) {
			report(slog.LevelWarn, "MeshNode.Render", "index out of range", "node", m.props.Name, "triangle", i/3)
			continue
		}
		if clip[a][3] <= clipW || clip[bb][3] <= clipW || clip[c][3] <= clipW {
			continue
		}
		if m.CullBackFaces && screenArea(m.screenVerts[a], m.screenVerts[bb], m.screenVerts[c]) >= 0 {
			continue
		}
		m.order = append(m.order, triDepth{first: i, depth: clip[a][3] + clip[bb][3] + clip[c][3]})
	}
	if len(m.order) == 0 {
		return nil
	}
	slices.SortStableFunc(m.order, func(x, y triDepth) int {
		return cmp.Compare(y.depth, x.depth)
	})
	m.drawIndices = m.drawIndices[:0]
	for _, t := range m.order {
		m.drawIndices = append(m.drawIndices, m.Indices[t.first], m.Indices[t.first+1], m.Indices[t.first+2])
	}

	if ks, ok := m.shader.(*KageShader); ok && ks.Program() != nil {
		op := &ebiten.DrawTrianglesShaderOptions{Uniforms: ks.Uniforms}
		op.Images[0] = src
		surf.Target.DrawTrianglesShader(m.screenVerts, m.drawIndices, ks.Program(), op)
	} else {
		surf.Target.DrawTriangles(m.screenVerts, m.drawIndices, src, &ebiten.DrawTrianglesOptions{})
	}
	surf.triangles += len(m.order)
	return nil
}

// screenArea returns twice the signed area of a screen-space triangle. With
// Y pointing down, counter-clockwise triangles in NDC come out negative.
func screenArea(a, b, c ebiten.Vertex) float32 {
	return (b.DstX-a.DstX)*(c.DstY-a.DstY) - (c.DstX-a.DstX)*(b.DstY-a.DstY)
}

// Pick tests the ray against the mesh's bounding sphere, then forwards it to
// children.
func (m *MeshNode) Pick(ctx *RenderContext, ray Ray, hits *[]Hit) error {
	if ctx == nil {
		return m.Node.Pick(ctx, ray, hits)
	}
	center := translationOf(m.WorldTransform())
	if t, ok := raySphere(ray, center, m.worldExtent()); ok && hits != nil {
		*hits = append(*hits, Hit{
			Node:     m.self,
			EntityID: m.props.ID,
			Distance: t,
			Point:    ray.Origin.Add(ray.Direction.Normalize().Mul(t)),
		})
	}
	return m.Node.Pick(ctx, ray, hits)
}

// raySphere returns the distance along ray to the first intersection with
// the sphere. A ray starting inside the sphere hits at distance 0.
func raySphere(ray Ray, center mgl32.Vec3, radius float32) (float32, bool) {
	l := ray.Direction.Len()
	if l == 0 {
		return 0, false
	}
	dir := ray.Direction.Mul(1 / l)
	oc := ray.Origin.Sub(center)
	c := oc.Dot(oc) - radius*radius
	if c <= 0 {
		return 0, true
	}
	b := oc.Dot(dir)
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	return -b - float32(math.Sqrt(float64(disc))), true
}

var whitePixelImage *ebiten.Image

// whitePixel is the 1x1 source image for untextured triangles.
func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(ColorWhite.toRGBA())
	}
	return whitePixelImage
}

// OnLostDevice drops the mesh's scratch vertex and index buffers, then
// forwards the loss to children.
func (m *MeshNode) OnLostDevice(ctx *RenderContext) error {
	m.screenVerts = nil
	m.drawIndices = nil
	m.order = nil
	return m.Node.OnLostDevice(ctx)
}

// OnRestore recomputes the bounding radius from the geometry, then forwards
// the restore to children. Buffers are regrown by the next Render.
func (m *MeshNode) OnRestore(ctx *RenderContext) error {
	m.extent = geometryExtent(m.Vertices)
	m.SetBoundingRadius(m.worldExtent())
	return m.Node.OnRestore(ctx)
}
