/*package cloth implements a position-based dynamics solver for a rectangular
grid of particles.

A Cloth is stepped with Update, which integrates particle positions with
Verlet integration, detects self-collisions between particles, edges and
triangles, and then iteratively projects distance constraints and collision
manifolds. Kinematic (pinned) particles are driven externally through
UpdateKinematics. Results are written back to an interleaved vertex buffer
with CopyBack.

A Cloth is not safe for concurrent use.
*/
package cloth

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phil-mansfield/gocloth/geom"
)

// InputLayout describes where the attributes read by New live inside an
// interleaved vertex buffer. All values are in bytes and must be multiples
// of 4.
type InputLayout struct {
	Stride, PosOffset, TexOffset int
}

// State is the per-particle simulation state. Every slice is indexed by the
// flat grid index Grid.Idx(row, col).
type State struct {
	Pos, PrevPos  []mgl32.Vec3
	Tex           []mgl32.Vec2
	Norm, Tangent []mgl32.Vec3

	// KinematicIDs are the indices of externally driven particles and
	// KinematicPos are their target positions, in the same order.
	KinematicIDs []int
	KinematicPos []mgl32.Vec3
}

// Cloth is a rectangular grid of particles connected by distance constraints.
type Cloth struct {
	State
	grid   Grid
	params Params

	tris                 [][3]int
	structural, diagonal []Edge

	manifolds Manifolds
	stats     Stats

	// Scratch space for the broad phase.
	pointBoxes, featureBoxes []geom.AABB
}

// New creates a Cloth from the rows x cols vertices of an interleaved vertex
// buffer. Vertex i of the buffer becomes the particle at (i/cols, i%cols).
// ib is a triangle list and kinematicIDs lists the particles driven by
// UpdateKinematics. If p is nil, DefaultParams is used.
//
// An error is returned if the buffers do not describe a valid rows x cols
// grid.
func New(
	vb []float32, ib, kinematicIDs []uint16,
	rows, cols int, layout InputLayout, p *Params,
) (*Cloth, error) {
	if p == nil {
		p = DefaultParams()
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	if err := checkInputLayout(&layout); err != nil {
		return nil, err
	}

	if rows < 1 || cols < 1 || rows*cols < 2 {
		return nil, fmt.Errorf("Grid dimensions (%d, %d) must describe at "+
			"least two particles.", rows, cols)
	} else if rows*cols > 1<<16 {
		return nil, fmt.Errorf("Grid dimensions (%d, %d) cannot be "+
			"addressed by 16-bit indices.", rows, cols)
	}

	stride := layout.Stride / 4
	n := rows * cols
	if len(vb)%stride != 0 || len(vb)/stride != n {
		return nil, fmt.Errorf("Vertex buffer of length %d with a %d byte "+
			"stride does not hold the %d x %d = %d vertices of the grid.",
			len(vb), layout.Stride, rows, cols, n)
	}

	if len(ib)%3 != 0 {
		return nil, fmt.Errorf("Index buffer length %d is not a multiple "+
			"of 3.", len(ib))
	}
	for i, idx := range ib {
		if int(idx) >= n {
			return nil, fmt.Errorf("Index %d of the index buffer is %d, "+
				"but the grid only has %d vertices.", i, idx, n)
		}
	}
	for i, idx := range kinematicIDs {
		if int(idx) >= n {
			return nil, fmt.Errorf("Kinematic id %d is %d, but the grid "+
				"only has %d vertices.", i, idx, n)
		}
	}

	c := &Cloth{grid: Grid{rows, cols}, params: *p}
	c.initState(vb, &layout)
	c.initTopology(ib)

	c.KinematicIDs = make([]int, len(kinematicIDs))
	c.KinematicPos = make([]mgl32.Vec3, len(kinematicIDs))
	for i, idx := range kinematicIDs {
		c.KinematicIDs[i] = int(idx)
		c.KinematicPos[i] = c.Pos[idx]
	}

	c.computeTangentNorm()
	return c, nil
}

func checkInputLayout(layout *InputLayout) error {
	switch {
	case layout.Stride <= 0 || layout.Stride%4 != 0:
		return fmt.Errorf("Vertex stride %d is not a positive multiple "+
			"of 4.", layout.Stride)
	case layout.PosOffset < 0 || layout.PosOffset%4 != 0 ||
		layout.PosOffset+12 > layout.Stride:
		return fmt.Errorf("Position offset %d does not fit a vec3 inside "+
			"a %d byte vertex.", layout.PosOffset, layout.Stride)
	case layout.TexOffset < 0 || layout.TexOffset%4 != 0 ||
		layout.TexOffset+8 > layout.Stride:
		return fmt.Errorf("Texture coordinate offset %d does not fit a "+
			"vec2 inside a %d byte vertex.", layout.TexOffset, layout.Stride)
	}
	return nil
}

func (c *Cloth) initState(vb []float32, layout *InputLayout) {
	n := c.grid.Len()
	stride := layout.Stride / 4
	pos, tex := layout.PosOffset/4, layout.TexOffset/4

	c.Pos = make([]mgl32.Vec3, n)
	c.PrevPos = make([]mgl32.Vec3, n)
	c.Tex = make([]mgl32.Vec2, n)
	c.Norm = make([]mgl32.Vec3, n)
	c.Tangent = make([]mgl32.Vec3, n)

	for i := 0; i < n; i++ {
		v := vb[i*stride : (i+1)*stride]
		c.Pos[i] = mgl32.Vec3{v[pos], v[pos+1], v[pos+2]}
		c.Tex[i] = mgl32.Vec2{v[tex], v[tex+1]}
	}
	copy(c.PrevPos, c.Pos)
}

func (c *Cloth) initTopology(ib []uint16) {
	c.tris = make([][3]int, len(ib)/3)
	for i := range c.tris {
		c.tris[i] = [3]int{int(ib[3*i]), int(ib[3*i+1]), int(ib[3*i+2])}
	}

	c.structural, c.diagonal = c.grid.Edges()
	for _, edges := range [][]Edge{c.structural, c.diagonal} {
		for i := range edges {
			e := &edges[i]
			e.RestLen = c.Pos[e.I1].Sub(c.Pos[e.I0]).Len()
		}
	}
}

// UpdateKinematics replaces the target positions of the kinematic particles.
// pos must have one entry per kinematic id, in the order given to New. The
// new positions take effect during the next Update.
func (c *Cloth) UpdateKinematics(pos []mgl32.Vec3) {
	if len(pos) != len(c.KinematicIDs) {
		panic(fmt.Sprintf("Given %d kinematic positions, but the cloth has "+
			"%d kinematic particles.", len(pos), len(c.KinematicIDs)))
	}
	copy(c.KinematicPos, pos)
}

// Update advances the simulation by a single time step of length dt.
func (c *Cloth) Update(dt float32) {
	c.stats = Stats{}

	c.integrate(dt)
	c.detect()
	c.solve()
	c.computeTangentNorm()
}

// Poke displaces the previous position of particle idx by -dx, which gives
// it an additional velocity of dx per step.
func (c *Cloth) Poke(idx int, dx mgl32.Vec3) {
	c.PrevPos[idx] = c.PrevPos[idx].Sub(dx)
}

// Grid returns the dimensions of the cloth.
func (c *Cloth) Grid() Grid { return c.grid }

// Params returns the parameters the cloth was created with.
func (c *Cloth) Params() Params { return c.params }

// Triangles returns the triangle list in flat grid indices. It must not be
// modified.
func (c *Cloth) Triangles() [][3]int { return c.tris }

// Edges returns the structural and diagonal constraint edges. They must not
// be modified.
func (c *Cloth) Edges() (structural, diagonal []Edge) {
	return c.structural, c.diagonal
}

// Manifolds returns the collision manifolds found during the last Update.
// They are overwritten by the next Update.
func (c *Cloth) Manifolds() *Manifolds { return &c.manifolds }

// Stats returns the collision statistics of the last Update.
func (c *Cloth) Stats() Stats { return c.stats }

// MaxStrain returns the largest relative deviation |len - rest| / rest over
// all constraint edges. Edges with zero rest length are ignored.
func (c *Cloth) MaxStrain() float32 {
	var max float32
	for _, edges := range [][]Edge{c.structural, c.diagonal} {
		for _, e := range edges {
			if e.RestLen <= 0 {
				continue
			}
			l := c.Pos[e.I1].Sub(c.Pos[e.I0]).Len()
			strain := (l - e.RestLen) / e.RestLen
			if strain < 0 {
				strain = -strain
			}
			if strain > max {
				max = strain
			}
		}
	}
	return max
}
