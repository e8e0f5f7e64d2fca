/*package view rasterizes triangle meshes into a grid of shaded terminal
cells.

Terminal cells are roughly twice as tall as they are wide, so a Frame with W
columns and H rows is viewed through a camera whose window is W x 2H pixels,
with every cell covering a 1 x 2 block of pixels. CellCamera and CellRay
convert between the two so that picking rays pass through the cells the user
sees.
*/
package view

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/phil-mansfield/gocloth/geom"
	"github.com/phil-mansfield/gocloth/mesh"
	"github.com/phil-mansfield/gocloth/picker"
)

const (
	ambient   = 0.15
	diffuse   = 0.7
	specular  = 0.35
	shininess = 20
)

// Mesh is an indexed triangle mesh stored in an interleaved vertex buffer.
// Only the position and normal attributes of Layout are read.
type Mesh struct {
	VB     []float32
	IB     []uint16
	Layout mesh.Layout
}

// Cell is a single rasterized terminal cell.
type Cell struct {
	// Set is false for cells which no triangle covers.
	Set bool
	// Shade is the lit intensity in [0, 1].
	Shade float32
	// Back is true if the visible surface faces away from the camera.
	Back bool
	// Depth is the normalized device depth of the visible surface.
	Depth float32
}

// Frame is a depth-buffered grid of cells, stored in row-major order.
type Frame struct {
	Width, Height int
	Cells         []Cell
}

// NewFrame returns an empty frame with the given number of columns and rows.
func NewFrame(width, height int) *Frame {
	f := &Frame{}
	f.Resize(width, height)
	return f
}

// Resize changes the dimensions of the frame and clears it.
func (f *Frame) Resize(width, height int) {
	f.Width, f.Height = width, height
	if cap(f.Cells) < width*height {
		f.Cells = make([]Cell, width*height)
	}
	f.Cells = f.Cells[:width*height]
	f.Clear()
}

// Clear empties every cell.
func (f *Frame) Clear() {
	for i := range f.Cells {
		f.Cells[i] = Cell{Depth: math32.Inf(1)}
	}
}

// At returns the cell at column x and row y.
func (f *Frame) At(x, y int) *Cell {
	return &f.Cells[y*f.Width+x]
}

// CellCamera returns a camera whose window matches the frame's cells, looking
// from eye towards target with +y up.
func (f *Frame) CellCamera(eye, target mgl32.Vec3, fovY float32) *picker.Camera {
	front, ok := geom.Normalize(target.Sub(eye))
	if !ok {
		front = mgl32.Vec3{0, 0, -1}
	}
	return &picker.Camera{
		Eye:    eye,
		Front:  front,
		Up:     mgl32.Vec3{0, 1, 0},
		Width:  float32(f.Width),
		Height: float32(2 * f.Height),
		FovY:   fovY,
		Near:   0.05,
		Far:    100,
	}
}

// CellRay returns the picking ray through the center of cell (x, y).
func CellRay(cam *picker.Camera, x, y int) geom.Ray {
	return cam.Ray(float32(x)+0.5, 2*(float32(y)+0.5))
}

// projected is a vertex in cell space. x and y are in cells, z is the
// normalized device depth.
type projected struct {
	p  mgl32.Vec3
	ok bool
}

// Draw rasterizes m into the frame as seen by cam, lit by a directional
// light shining along light. Both faces of every triangle are drawn.
func (f *Frame) Draw(m *Mesh, cam *picker.Camera, light mgl32.Vec3) {
	stride := m.Layout.Stride / 4
	pOff, nOff := m.Layout.PosOffset/4, m.Layout.NormOffset/4
	n := len(m.VB) / stride

	vp := cam.Proj().Mul4(cam.View())
	verts := make([]projected, n)
	norms := make([]mgl32.Vec3, n)
	for i := range verts {
		v := m.VB[i*stride:]
		pos := mgl32.Vec3{v[pOff], v[pOff+1], v[pOff+2]}
		norms[i] = mgl32.Vec3{v[nOff], v[nOff+1], v[nOff+2]}
		verts[i] = f.project(&vp, pos)
	}

	l, ok := geom.Normalize(light.Mul(-1))
	if !ok {
		l = cam.Front.Mul(-1)
	}
	half, ok := geom.Normalize(l.Sub(cam.Front))
	if !ok {
		half = l
	}

	for t := 0; t+2 < len(m.IB); t += 3 {
		i0, i1, i2 := int(m.IB[t]), int(m.IB[t+1]), int(m.IB[t+2])
		if !verts[i0].ok || !verts[i1].ok || !verts[i2].ok {
			continue
		}
		f.fill(
			[3]mgl32.Vec3{verts[i0].p, verts[i1].p, verts[i2].p},
			[3]mgl32.Vec3{norms[i0], norms[i1], norms[i2]},
			cam.Front, l, half,
		)
	}
}

func (f *Frame) project(vp *mgl32.Mat4, pos mgl32.Vec3) projected {
	clip := vp.Mul4x1(pos.Vec4(1))
	if clip[3] <= geom.Eps {
		return projected{}
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	return projected{
		p: mgl32.Vec3{
			(ndc[0] + 1) / 2 * float32(f.Width),
			(1 - ndc[1]) / 2 * float32(f.Height),
			ndc[2],
		},
		ok: true,
	}
}

func edge(a, b, p mgl32.Vec3) float32 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

// fill rasterizes one projected triangle, sampling at cell centers.
func (f *Frame) fill(ps, ns [3]mgl32.Vec3, front, l, half mgl32.Vec3) {
	area := edge(ps[0], ps[1], ps[2])
	if math32.Abs(area) <= geom.Eps2 {
		return
	}

	minX := math32.Min(ps[0][0], math32.Min(ps[1][0], ps[2][0]))
	maxX := math32.Max(ps[0][0], math32.Max(ps[1][0], ps[2][0]))
	minY := math32.Min(ps[0][1], math32.Min(ps[1][1], ps[2][1]))
	maxY := math32.Max(ps[0][1], math32.Max(ps[1][1], ps[2][1]))

	x0 := clampInt(int(math32.Floor(minX)), f.Width)
	x1 := clampInt(int(math32.Ceil(maxX)), f.Width)
	y0 := clampInt(int(math32.Floor(minY)), f.Height)
	y1 := clampInt(int(math32.Ceil(maxY)), f.Height)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := mgl32.Vec3{float32(x) + 0.5, float32(y) + 0.5, 0}
			w0 := edge(ps[1], ps[2], p) / area
			w1 := edge(ps[2], ps[0], p) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*ps[0][2] + w1*ps[1][2] + w2*ps[2][2]
			cell := f.At(x, y)
			if z < -1 || z > 1 || z >= cell.Depth {
				continue
			}

			n := ns[0].Mul(w0).Add(ns[1].Mul(w1)).Add(ns[2].Mul(w2))
			back := n.Dot(front) > 0
			if back {
				n = n.Mul(-1)
			}

			*cell = Cell{
				Set: true, Shade: shade(n, l, half), Back: back, Depth: z,
			}
		}
	}
}

// shade evaluates Blinn-Phong lighting for the normal n, the direction
// towards the light l and the half vector.
func shade(n, l, half mgl32.Vec3) float32 {
	n, ok := geom.Normalize(n)
	if !ok {
		return ambient
	}
	d := math32.Max(0, n.Dot(l))
	s := math32.Pow(math32.Max(0, n.Dot(half)), shininess)
	return math32.Min(1, ambient+diffuse*d+specular*s)
}

// clampInt clamps x to [0, n].
func clampInt(x, n int) int {
	if x < 0 {
		return 0
	} else if x > n {
		return n
	}
	return x
}
