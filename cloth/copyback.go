package cloth

import (
	"fmt"
)

// OutputLayout describes where CopyBack writes each attribute inside an
// interleaved vertex buffer. All values are in bytes and must be multiples
// of 4. The tangent occupies four floats.
type OutputLayout struct {
	Stride, PosOffset, NormOffset, TangentOffset int
}

// CopyOptions controls the handedness conventions of CopyBack.
type CopyOptions struct {
	// InvertNormal negates every written normal.
	InvertNormal bool
	// InvertBitangent writes -1 instead of 1 as the tangent's w component.
	InvertBitangent bool
}

// Check returns an error if the layout is malformed.
func (layout *OutputLayout) Check() error {
	if layout.Stride <= 0 || layout.Stride%4 != 0 {
		return fmt.Errorf("Vertex stride %d is not a positive multiple "+
			"of 4.", layout.Stride)
	}

	attrs := []struct {
		name           string
		offset, floats int
	}{
		{"Position", layout.PosOffset, 3},
		{"Normal", layout.NormOffset, 3},
		{"Tangent", layout.TangentOffset, 4},
	}
	for _, a := range attrs {
		if a.offset < 0 || a.offset%4 != 0 || a.offset+4*a.floats > layout.Stride {
			return fmt.Errorf("%s offset %d does not fit %d floats inside "+
				"a %d byte vertex.", a.name, a.offset, a.floats, layout.Stride)
		}
	}
	return nil
}

// CopyBack writes position, normal and tangent of every particle into vb.
// Particle i is written to vertex i. Other attributes in vb are left
// untouched. CopyBack does not modify the Cloth, so repeated calls write
// identical data.
//
// CopyBack panics if layout is malformed or if vb is too short to hold every
// particle.
func (c *Cloth) CopyBack(vb []float32, layout OutputLayout, opts CopyOptions) {
	if err := layout.Check(); err != nil {
		panic(err.Error())
	}
	stride := layout.Stride / 4
	if len(vb) < len(c.Pos)*stride {
		panic(fmt.Sprintf("Vertex buffer of length %d is too short to hold "+
			"%d vertices with a %d byte stride.",
			len(vb), len(c.Pos), layout.Stride))
	}

	pos, norm, tan := layout.PosOffset/4, layout.NormOffset/4, layout.TangentOffset/4

	var nSign, w float32 = 1, 1
	if opts.InvertNormal {
		nSign = -1
	}
	if opts.InvertBitangent {
		w = -1
	}

	for i := range c.Pos {
		v := vb[i*stride : (i+1)*stride]
		p, n, t := c.Pos[i], c.Norm[i], c.Tangent[i]

		v[pos], v[pos+1], v[pos+2] = p[0], p[1], p[2]
		v[norm], v[norm+1], v[norm+2] = nSign*n[0], nSign*n[1], nSign*n[2]
		v[tan], v[tan+1], v[tan+2], v[tan+3] = t[0], t[1], t[2], w
	}
}
