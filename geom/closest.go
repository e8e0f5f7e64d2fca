package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	} else if x > 1 {
		return 1
	}
	return x
}

// ClosestSegments returns the line coordinates s and t, both in [0, 1], of
// the closest pair of points between s0 and s1: s0.At(s) and s1.At(t).
//
// Zero-length segments are treated as points. If the segments are parallel,
// one of the (possibly many) closest pairs is returned.
func ClosestSegments(s0, s1 *Segment) (s, t float32) {
	d1, d2 := s0.Dir(), s1.Dir()
	r := s0.P0.Sub(s1.P0)
	a, e, f := d1.Dot(d1), d2.Dot(d2), d2.Dot(r)

	if a <= Eps2 && e <= Eps2 {
		return 0, 0
	} else if a <= Eps2 {
		return 0, clamp01(f / e)
	}

	c := d1.Dot(r)
	if e <= Eps2 {
		return clamp01(-c / a), 0
	}

	b := d1.Dot(d2)
	denom := a*e - b*b
	// denom is |d1 x d2|^2 and vanishes for parallel segments.
	if denom > Eps*a*e {
		s = clamp01((b*f - c*e) / denom)
	} else {
		s = 0
	}

	t = (b*s + f) / e
	if t < 0 {
		t = 0
		s = clamp01(-c / a)
	} else if t > 1 {
		t = 1
		s = clamp01((b - c) / a)
	}

	return s, t
}

// SegmentDistance returns the minimum distance between two segments.
func SegmentDistance(s0, s1 *Segment) float32 {
	s, t := ClosestSegments(s0, s1)
	return Length(s0.At(s).Sub(s1.At(t)))
}

// SegmentBarycentric returns the barycentric coordinates (u, v) of the
// projection of p onto the line through seg, so that p projects to
// seg.P0*u + seg.P1*v. The coordinates are not clamped. A zero-length segment
// gives (1, 0).
func SegmentBarycentric(p mgl32.Vec3, seg *Segment) (u, v float32) {
	d := seg.Dir()
	len2 := d.Dot(d)
	if len2 <= Eps2 {
		return 1, 0
	}
	v = p.Sub(seg.P0).Dot(d) / len2
	return 1 - v, v
}

// PointSegmentDistance returns the distance from p to the closest point on
// seg.
func PointSegmentDistance(p mgl32.Vec3, seg *Segment) float32 {
	_, v := SegmentBarycentric(p, seg)
	return Length(p.Sub(seg.At(clamp01(v))))
}

// TriangleBarycentric returns the barycentric coordinates of the projection
// of p onto the plane of tri. ok is false if tri is degenerate.
func TriangleBarycentric(p mgl32.Vec3, tri *Triangle) (b mgl32.Vec3, ok bool) {
	v0, v1 := tri.P1.Sub(tri.P0), tri.P2.Sub(tri.P0)
	v2 := p.Sub(tri.P0)

	d00, d01, d11 := v0.Dot(v0), v0.Dot(v1), v1.Dot(v1)
	d20, d21 := v2.Dot(v0), v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if denom <= Eps*d00*d11 || denom <= Eps2*Eps2 {
		return mgl32.Vec3{1, 0, 0}, false
	}

	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return mgl32.Vec3{1 - v - w, v, w}, true
}

// ClosestTriangle returns the barycentric coordinates of the point on tri
// closest to p. The result always lies inside the triangle: every coordinate
// is in [0, 1] and they sum to 1.
//
// Degenerate triangles are handled by taking the closest point over their
// three edges.
func ClosestTriangle(p mgl32.Vec3, tri *Triangle) mgl32.Vec3 {
	a, b, c := tri.P0, tri.P1, tri.P2
	ab, ac, ap := b.Sub(a), c.Sub(a), p.Sub(a)

	// Vertex region A.
	d1, d2 := ab.Dot(ap), ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return mgl32.Vec3{1, 0, 0}
	}

	// Vertex region B.
	bp := p.Sub(b)
	d3, d4 := ab.Dot(bp), ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return mgl32.Vec3{0, 1, 0}
	}

	// Edge region AB.
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 && d1-d3 > 0 {
		v := d1 / (d1 - d3)
		return mgl32.Vec3{1 - v, v, 0}
	}

	// Vertex region C.
	cp := p.Sub(c)
	d5, d6 := ab.Dot(cp), ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return mgl32.Vec3{0, 0, 1}
	}

	// Edge region AC.
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 && d2-d6 > 0 {
		w := d2 / (d2 - d6)
		return mgl32.Vec3{1 - w, 0, w}
	}

	// Edge region BC.
	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 && (d4-d3)+(d5-d6) > 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return mgl32.Vec3{0, 1 - w, w}
	}

	sum := va + vb + vc
	if math32.Abs(sum) <= Eps2*Eps2 {
		return closestDegenerate(p, tri)
	}

	// Face region.
	v, w := vb/sum, vc/sum
	return mgl32.Vec3{1 - v - w, v, w}
}

// closestDegenerate handles triangles with (near) zero area by checking the
// three edges independently.
func closestDegenerate(p mgl32.Vec3, tri *Triangle) mgl32.Vec3 {
	edges := [3]Segment{{tri.P0, tri.P1}, {tri.P1, tri.P2}, {tri.P2, tri.P0}}

	best, bestD2 := mgl32.Vec3{1, 0, 0}, math32.Inf(1)
	for i := range edges {
		_, v := SegmentBarycentric(p, &edges[i])
		v = clamp01(v)
		d := p.Sub(edges[i].At(v))
		if d2 := d.Dot(d); d2 < bestD2 {
			bestD2 = d2
			best = mgl32.Vec3{}
			best[i] = 1 - v
			best[(i+1)%3] = v
		}
	}
	return best
}
