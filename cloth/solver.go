package cloth

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/phil-mansfield/gocloth/geom"
)

// solve runs the Gauss-Seidel projection loop. Manifolds are computed once
// per step by detect and reprojected on every iteration.
func (c *Cloth) solve() {
	for it := 0; it < c.params.Iterations; it++ {
		c.projectEdges(c.structural)
		c.projectEdges(c.diagonal)

		c.resolvePointPoint()
		c.resolveEdgeEdge()
		if c.params.ResolvePointTriangle {
			c.resolvePointTriangle()
		}

		c.applyKinematics()
	}
}

// projectEdges moves the endpoints of each edge symmetrically so that its
// length equals its rest length. Edges of (near) zero length carry no
// direction and are skipped.
func (c *Cloth) projectEdges(edges []Edge) {
	for i := range edges {
		e := &edges[i]
		p0, p1 := c.Pos[e.I0], c.Pos[e.I1]

		l01 := p1.Sub(p0)
		length := geom.Length(l01)
		if length <= geom.Eps {
			continue
		}

		corr := l01.Mul(0.5 * (length - e.RestLen) / length)
		c.Pos[e.I0] = p0.Add(corr)
		c.Pos[e.I1] = p1.Sub(corr)
	}
}

func (c *Cloth) resolvePointPoint() {
	contact := 2 * c.params.PointPoint.Radius
	st := &c.stats.PointPoint

	for _, m := range c.manifolds.PointPoint {
		p0, p1 := c.Pos[m.I0], c.Pos[m.I1]
		proj := p1.Sub(p0).Dot(m.Normal)
		if proj >= contact {
			continue
		}
		st.Resolved++

		corr := m.Normal.Mul(0.5 * (contact - proj))
		c.Pos[m.I0] = p0.Sub(corr)
		c.Pos[m.I1] = p1.Add(corr)
	}
}

func (c *Cloth) resolveEdgeEdge() {
	contact := 2 * c.params.EdgeEdge.Radius
	st := &c.stats.EdgeEdge

	for _, m := range c.manifolds.EdgeEdge {
		a0, a1 := c.Pos[m.E0[0]], c.Pos[m.E0[1]]
		b0, b1 := c.Pos[m.E1[0]], c.Pos[m.E1[1]]

		pa := a0.Mul(1 - m.S).Add(a1.Mul(m.S))
		pb := b0.Mul(1 - m.T).Add(b1.Mul(m.T))
		proj := pb.Sub(pa).Dot(m.Normal)
		if proj >= contact {
			continue
		}
		st.Resolved++

		corr := m.Normal.Mul(contact - proj)
		c.Pos[m.E0[0]] = a0.Sub(corr.Mul(1 - m.S))
		c.Pos[m.E0[1]] = a1.Sub(corr.Mul(m.S))
		c.Pos[m.E1[0]] = b0.Add(corr.Mul(1 - m.T))
		c.Pos[m.E1[1]] = b1.Add(corr.Mul(m.T))
	}
}

// resolvePointTriangle pushes the particle along the manifold normal by half
// the penetration and the triangle back by the other half, distributed over
// its corners so that the contact point itself moves by that half.
func (c *Cloth) resolvePointTriangle() {
	contact := 2 * c.params.PointTriangle.Radius
	st := &c.stats.PointTriangle

	for _, m := range c.manifolds.PointTriangle {
		b := m.Bary
		w := b.Dot(b)
		if w <= geom.Eps {
			continue
		}

		corners := [3]mgl32.Vec3{c.Pos[m.Tri[0]], c.Pos[m.Tri[1]], c.Pos[m.Tri[2]]}
		pc := corners[0].Mul(b[0]).Add(corners[1].Mul(b[1])).Add(corners[2].Mul(b[2]))
		p := c.Pos[m.Point]

		proj := p.Sub(pc).Dot(m.Normal)
		if proj >= contact {
			continue
		}
		st.Resolved++

		corr := m.Normal.Mul(0.5 * (contact - proj))
		c.Pos[m.Point] = p.Add(corr)
		for k := 0; k < 3; k++ {
			c.Pos[m.Tri[k]] = corners[k].Sub(corr.Mul(b[k] / w))
		}
	}
}

func (c *Cloth) applyKinematics() {
	for i, idx := range c.KinematicIDs {
		c.Pos[idx] = c.KinematicPos[i]
	}
}
