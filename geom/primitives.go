/*package geom contains the geometric primitives used by the cloth solver and
the picker: line segments, triangles, spheres, axis-aligned bounding boxes and
rays.

Closest-point routines follow Ericson, "Real-Time Collision Detection", with
explicit handling of the degenerate (parallel, collinear, zero-length) cases.
*/
package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Eps is the length below which a vector is treated as degenerate.
	Eps float32 = 1e-6
	// Eps2 is Eps squared, for comparisons against squared lengths.
	Eps2 float32 = Eps * Eps
)

// Segment is the line segment between P0 and P1.
type Segment struct {
	P0, P1 mgl32.Vec3
}

// Triangle is the triangle with corners P0, P1 and P2.
type Triangle struct {
	P0, P1, P2 mgl32.Vec3
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Sphere is the ball of radius R around C.
type Sphere struct {
	C mgl32.Vec3
	R float32
}

// Normalize returns v scaled to unit length. ok is false, and v is returned
// unchanged, if v is too short to have a well-defined direction.
func Normalize(v mgl32.Vec3) (n mgl32.Vec3, ok bool) {
	len2 := v.Dot(v)
	if len2 <= Eps2 {
		return v, false
	}
	return v.Mul(1 / math32.Sqrt(len2)), true
}

// Length returns the Euclidean length of v.
func Length(v mgl32.Vec3) float32 {
	return math32.Sqrt(v.Dot(v))
}

// At returns the point at line coordinate t, so that At(0) = P0 and
// At(1) = P1.
func (seg *Segment) At(t float32) mgl32.Vec3 {
	return seg.P0.Add(seg.P1.Sub(seg.P0).Mul(t))
}

// Dir returns the unnormalized direction P1 - P0.
func (seg *Segment) Dir() mgl32.Vec3 {
	return seg.P1.Sub(seg.P0)
}

// AABB returns the bounding box of the segment inflated by r.
func (seg *Segment) AABB(r float32) AABB {
	return Merge(PointAABB(seg.P0, r), PointAABB(seg.P1, r))
}

// At returns the point with barycentric coordinates b.
func (tri *Triangle) At(b mgl32.Vec3) mgl32.Vec3 {
	return tri.P0.Mul(b[0]).Add(tri.P1.Mul(b[1])).Add(tri.P2.Mul(b[2]))
}

// Normal returns the unnormalized normal (P1 - P0) x (P2 - P0). Its length is
// twice the triangle's area.
func (tri *Triangle) Normal() mgl32.Vec3 {
	return tri.P1.Sub(tri.P0).Cross(tri.P2.Sub(tri.P0))
}

// AABB returns the bounding box of the triangle inflated by r.
func (tri *Triangle) AABB(r float32) AABB {
	return Merge(Merge(PointAABB(tri.P0, r), PointAABB(tri.P1, r)),
		PointAABB(tri.P2, r))
}

// PointAABB returns a cube of half-width r centered on p.
func PointAABB(p mgl32.Vec3, r float32) AABB {
	d := mgl32.Vec3{r, r, r}
	return AABB{p.Sub(d), p.Add(d)}
}

// Merge returns the smallest box containing both a and b.
func Merge(a, b AABB) AABB {
	out := a
	for i := 0; i < 3; i++ {
		out.Min[i] = math32.Min(a.Min[i], b.Min[i])
		out.Max[i] = math32.Max(a.Max[i], b.Max[i])
	}
	return out
}

// Intersect returns true if the two boxes overlap (touching counts) and false
// otherwise.
func (a *AABB) Intersect(b *AABB) bool {
	return (a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0]) &&
		(a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1]) &&
		(a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2])
}

// Contains returns true if p lies inside the box.
func (a *AABB) Contains(p mgl32.Vec3) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1] &&
		p[2] >= a.Min[2] && p[2] <= a.Max[2]
}

// Distance2 returns the squared distance from p to the box. Points inside the
// box are at distance zero.
func (a *AABB) Distance2(p mgl32.Vec3) float32 {
	var d2 float32
	for i := 0; i < 3; i++ {
		if p[i] < a.Min[i] {
			d := a.Min[i] - p[i]
			d2 += d * d
		} else if p[i] > a.Max[i] {
			d := p[i] - a.Max[i]
			d2 += d * d
		}
	}
	return d2
}

// Bounds returns the bounding box of a set of points. The box of an empty
// set is inverted (Min > Max) so that it intersects nothing.
func Bounds(ps []mgl32.Vec3) AABB {
	inf := math32.Inf(1)
	box := AABB{mgl32.Vec3{inf, inf, inf}, mgl32.Vec3{-inf, -inf, -inf}}
	for _, p := range ps {
		box = Merge(box, AABB{p, p})
	}
	return box
}

// Contains returns true if p lies inside or on the sphere.
func (s *Sphere) Contains(p mgl32.Vec3) bool {
	d := p.Sub(s.C)
	return d.Dot(d) <= s.R*s.R
}

// Intersect returns true if the sphere overlaps box.
func (s *Sphere) Intersect(box *AABB) bool {
	return box.Distance2(s.C) <= s.R*s.R
}
