// Package mesh generates the procedural meshes that are fed to the cloth
// solver.
package mesh

import (
	"fmt"
)

// Layout gives the byte stride and byte offsets of the attributes of an
// interleaved vertex buffer.
type Layout struct {
	Stride int

	PosOffset, NormOffset, TangentOffset, TexOffset int
}

// VertexLayout is the layout written by Plane: position (3 floats), normal
// (3), tangent (4) and texture coordinate (2).
var VertexLayout = Layout{
	Stride:        12 * 4,
	PosOffset:     0,
	NormOffset:    3 * 4,
	TangentOffset: 6 * 4,
	TexOffset:     10 * 4,
}

// Plane returns a rows x cols grid of vertices spanning width x height in the
// z = 0 plane, centered on the origin and facing +z. Row 0 is the top edge of
// the plane (largest y) and column 0 is the left edge. Vertex (row, col) is
// stored at index row*cols + col. Texture coordinates run from (0, 0) at the
// top-left corner to (1, 1) at the bottom-right corner.
//
// The returned index buffer is a counter-clockwise triangle list with two
// triangles per cell.
func Plane(rows, cols int, width, height float32) (vb []float32, ib []uint16) {
	if rows < 2 || cols < 2 {
		panic(fmt.Sprintf("Plane must have at least 2 rows and columns, "+
			"but was given (%d, %d).", rows, cols))
	} else if rows*cols > 1<<16 {
		panic(fmt.Sprintf("Plane with (%d, %d) vertices cannot be indexed "+
			"by 16-bit indices.", rows, cols))
	}

	stride := VertexLayout.Stride / 4
	vb = make([]float32, rows*cols*stride)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			u := float32(col) / float32(cols-1)
			v := float32(row) / float32(rows-1)

			vert := vb[(row*cols+col)*stride:]
			copy(vert[:stride], []float32{
				(u - 0.5) * width, (0.5 - v) * height, 0,
				0, 0, 1,
				1, 0, 0, 1,
				u, v,
			})
		}
	}

	ib = make([]uint16, 0, 6*(rows-1)*(cols-1))
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols-1; col++ {
			i00 := uint16(row*cols + col)
			i01, i10 := i00+1, i00+uint16(cols)
			i11 := i10 + 1
			ib = append(ib, i00, i10, i01, i01, i10, i11)
		}
	}

	return vb, ib
}

// Positions extracts the vertex positions of an interleaved vertex buffer as
// flat xyz triples.
func Positions(vb []float32, layout *Layout) []float32 {
	return attribute(vb, layout.Stride/4, layout.PosOffset/4)
}

// Normals extracts the vertex normals of an interleaved vertex buffer as
// flat xyz triples.
func Normals(vb []float32, layout *Layout) []float32 {
	return attribute(vb, layout.Stride/4, layout.NormOffset/4)
}

func attribute(vb []float32, stride, off int) []float32 {
	out := make([]float32, 0, 3*len(vb)/stride)
	for i := 0; i+stride <= len(vb); i += stride {
		out = append(out, vb[i+off], vb[i+off+1], vb[i+off+2])
	}
	return out
}
