package cloth

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/phil-mansfield/gocloth/geom"
)

// fallbackAxis is used as a separation direction when no direction can be
// derived from the geometry of a contact.
var fallbackAxis = mgl32.Vec3{0, 1, 0}

// PointPointManifold is a contact between particles I0 and I1. Normal points
// from I0 towards I1.
type PointPointManifold struct {
	I0, I1 int
	Normal mgl32.Vec3
}

// EdgeEdgeManifold is a contact between the edges E0 and E1. S and T are the
// line coordinates of the closest points along E0 and E1. Normal points from
// E0 towards E1.
type EdgeEdgeManifold struct {
	E0, E1 [2]int
	S, T   float32
	Normal mgl32.Vec3
}

// PointTriangleManifold is a contact between particle Point and triangle Tri.
// Bary gives the barycentric coordinates of the closest point on the
// triangle and Normal is the triangle normal, oriented towards the side the
// particle started the step on.
type PointTriangleManifold struct {
	Point  int
	Tri    [3]int
	Bary   mgl32.Vec3
	Normal mgl32.Vec3
}

// Manifolds holds the contacts found during a single step.
type Manifolds struct {
	PointPoint    []PointPointManifold
	EdgeEdge      []EdgeEdgeManifold
	PointTriangle []PointTriangleManifold
}

// PassStats counts the work done by one collision pass during a step.
type PassStats struct {
	// Checks is the number of feature pairs considered, Overlaps the number
	// whose broad-phase boxes overlapped, and Collisions the number of
	// manifolds emitted.
	Checks, Overlaps, Collisions int
	// Resolved is the number of manifold projections that moved particles,
	// summed over solver iterations.
	Resolved int
}

// Stats holds the PassStats of each collision pass.
type Stats struct {
	PointPoint, EdgeEdge, PointTriangle PassStats
}

func (m *Manifolds) reset() {
	m.PointPoint = m.PointPoint[:0]
	m.EdgeEdge = m.EdgeEdge[:0]
	m.PointTriangle = m.PointTriangle[:0]
}

// detect runs every enabled collision pass. It must be called after
// integrate, so that PrevPos and Pos hold the start and end of the step.
func (c *Cloth) detect() {
	c.manifolds.reset()
	if c.params.PointPoint.Enabled {
		c.detectPointPoint()
	}
	if c.params.EdgeEdge.Enabled {
		c.detectEdgeEdge()
	}
	if c.params.PointTriangle.Enabled {
		c.detectPointTriangle()
	}
}

// sweepPoints fills c.pointBoxes with the swept box of every particle over
// the step, inflated by r.
func (c *Cloth) sweepPoints(r float32) {
	if cap(c.pointBoxes) < len(c.Pos) {
		c.pointBoxes = make([]geom.AABB, len(c.Pos))
	}
	c.pointBoxes = c.pointBoxes[:len(c.Pos)]
	for i := range c.Pos {
		c.pointBoxes[i] = geom.Merge(
			geom.PointAABB(c.PrevPos[i], r), geom.PointAABB(c.Pos[i], r),
		)
	}
}

func (c *Cloth) featureScratch(n int) []geom.AABB {
	if cap(c.featureBoxes) < n {
		c.featureBoxes = make([]geom.AABB, n)
	}
	c.featureBoxes = c.featureBoxes[:n]
	return c.featureBoxes
}

// separationAxis normalizes prevSep, falling back to curSep and then to
// fallbackAxis if they are degenerate.
func separationAxis(prevSep, curSep mgl32.Vec3) mgl32.Vec3 {
	if n, ok := geom.Normalize(prevSep); ok {
		return n
	} else if n, ok := geom.Normalize(curSep); ok {
		return n
	}
	return fallbackAxis
}

func (c *Cloth) detectPointPoint() {
	cp := &c.params.PointPoint
	st := &c.stats.PointPoint
	c.sweepPoints(cp.Radius + cp.StaticRadius)
	contact := 2 * cp.Radius

	for i := range c.Pos {
		for j := i + 1; j < len(c.Pos); j++ {
			st.Checks++
			if !c.pointBoxes[i].Intersect(&c.pointBoxes[j]) {
				continue
			}
			st.Overlaps++

			swept0 := geom.Segment{P0: c.PrevPos[i], P1: c.Pos[i]}
			swept1 := geom.Segment{P0: c.PrevPos[j], P1: c.Pos[j]}
			if geom.SegmentDistance(&swept0, &swept1) > contact {
				continue
			}
			st.Collisions++

			n := separationAxis(
				c.PrevPos[j].Sub(c.PrevPos[i]), c.Pos[j].Sub(c.Pos[i]),
			)
			c.manifolds.PointPoint = append(c.manifolds.PointPoint,
				PointPointManifold{I0: i, I1: j, Normal: n})
		}
	}
}

func (c *Cloth) edgeSegments(e *Edge) (prev, curr geom.Segment) {
	prev = geom.Segment{P0: c.PrevPos[e.I0], P1: c.PrevPos[e.I1]}
	curr = geom.Segment{P0: c.Pos[e.I0], P1: c.Pos[e.I1]}
	return prev, curr
}

// edgeAxis chooses the separation direction between two edges whose closest
// points coincided at the start of the step. The common normal of the two
// edges is used, oriented along the current separation.
func edgeAxis(d0, d1, curSep mgl32.Vec3) mgl32.Vec3 {
	n, ok := geom.Normalize(d0.Cross(d1))
	if !ok {
		return separationAxis(curSep, mgl32.Vec3{})
	}
	if n.Dot(curSep) < 0 {
		return n.Mul(-1)
	}
	return n
}

func (c *Cloth) detectEdgeEdge() {
	cp := &c.params.EdgeEdge
	st := &c.stats.EdgeEdge
	margin := cp.Radius + cp.StaticRadius
	contact := 2 * cp.Radius

	edges := c.structural
	boxes := c.featureScratch(len(edges))
	for i := range edges {
		prev, curr := c.edgeSegments(&edges[i])
		boxes[i] = geom.Merge(prev.AABB(margin), curr.AABB(margin))
	}

	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			e0, e1 := &edges[i], &edges[j]
			if e0.SharesEndpoint(e1) {
				continue
			}

			st.Checks++
			if !boxes[i].Intersect(&boxes[j]) {
				continue
			}
			st.Overlaps++

			prev0, curr0 := c.edgeSegments(e0)
			prev1, curr1 := c.edgeSegments(e1)

			// The separating direction is fixed at the start of the step and
			// the current configuration is measured along it.
			s, t := geom.ClosestSegments(&prev0, &prev1)
			curSep := curr1.At(t).Sub(curr0.At(s))
			dir, ok := geom.Normalize(prev1.At(t).Sub(prev0.At(s)))
			if !ok {
				dir = edgeAxis(prev0.Dir(), prev1.Dir(), curSep)
			}

			if curSep.Dot(dir) >= contact {
				continue
			}
			st.Collisions++

			c.manifolds.EdgeEdge = append(c.manifolds.EdgeEdge,
				EdgeEdgeManifold{
					E0: [2]int{e0.I0, e0.I1}, E1: [2]int{e1.I0, e1.I1},
					S: s, T: t, Normal: dir,
				})
		}
	}
}

func (c *Cloth) triangles(tri [3]int) (prev, curr geom.Triangle) {
	prev = geom.Triangle{
		P0: c.PrevPos[tri[0]], P1: c.PrevPos[tri[1]], P2: c.PrevPos[tri[2]],
	}
	curr = geom.Triangle{P0: c.Pos[tri[0]], P1: c.Pos[tri[1]], P2: c.Pos[tri[2]]}
	return prev, curr
}

func incident(p int, tri [3]int) bool {
	return p == tri[0] || p == tri[1] || p == tri[2]
}

func (c *Cloth) detectPointTriangle() {
	cp := &c.params.PointTriangle
	st := &c.stats.PointTriangle
	margin := cp.Radius + cp.StaticRadius
	contact := 2 * cp.Radius

	c.sweepPoints(margin)
	boxes := c.featureScratch(len(c.tris))
	for i, tri := range c.tris {
		prev, curr := c.triangles(tri)
		boxes[i] = geom.Merge(prev.AABB(margin), curr.AABB(margin))
	}

	for p := range c.Pos {
		for i, tri := range c.tris {
			if incident(p, tri) {
				continue
			}

			st.Checks++
			if !c.pointBoxes[p].Intersect(&boxes[i]) {
				continue
			}
			st.Overlaps++

			prev, curr := c.triangles(tri)
			bary := geom.ClosestTriangle(c.PrevPos[p], &prev)

			// Orient the triangle normal towards the side of the plane the
			// particle was on.
			normal, ok := geom.Normalize(prev.Normal())
			if !ok {
				normal = separationAxis(c.PrevPos[p].Sub(prev.At(bary)),
					c.Pos[p].Sub(curr.At(bary)))
			} else if normal.Dot(c.PrevPos[p].Sub(prev.P0)) <= 0 {
				normal = normal.Mul(-1)
			}

			dir, ok := geom.Normalize(prev.At(bary).Sub(c.PrevPos[p]))
			if !ok {
				dir = normal.Mul(-1)
			}

			if curr.At(bary).Sub(c.Pos[p]).Dot(dir) >= contact {
				continue
			}
			st.Collisions++

			c.manifolds.PointTriangle = append(c.manifolds.PointTriangle,
				PointTriangleManifold{
					Point: p, Tri: tri, Bary: bary, Normal: normal,
				})
		}
	}
}
