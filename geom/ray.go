package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// rayParallelEps is the determinant below which a ray is considered parallel
// to a triangle.
const rayParallelEps float32 = 1e-10

// Ray is a half-line starting at Origin. Dir need not be normalized, but hit
// distances are measured in units of |Dir|.
type Ray struct {
	Origin, Dir mgl32.Vec3
}

// At returns the point Origin + t*Dir.
func (r *Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Transform returns the ray mapped through the affine transformation m. Dir
// is transformed as a direction and is not renormalized.
func (r *Ray) Transform(m *mgl32.Mat4) Ray {
	o := m.Mul4x1(r.Origin.Vec4(1))
	d := m.Mul4x1(r.Dir.Vec4(0))
	return Ray{o.Vec3(), d.Vec3()}
}

// IntersectAABB performs the slab test between the ray and box. On a hit it
// returns the entry and exit parameters, with tNear clamped to 0 when the
// origin is inside the box.
func (r *Ray) IntersectAABB(box *AABB) (tNear, tFar float32, ok bool) {
	tNear, tFar = 0, math32.Inf(1)
	for i := 0; i < 3; i++ {
		if math32.Abs(r.Dir[i]) <= Eps2 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, 0, false
			}
			continue
		}

		inv := 1 / r.Dir[i]
		t0 := (box.Min[i] - r.Origin[i]) * inv
		t1 := (box.Max[i] - r.Origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		tNear, tFar = math32.Max(tNear, t0), math32.Min(tFar, t1)
		if tNear > tFar {
			return 0, 0, false
		}
	}
	return tNear, tFar, true
}

// IntersectTriangle performs the Moller-Trumbore test between the ray and
// tri. On a hit it returns the ray parameter and the barycentric coordinates
// of the hit point. Hits behind the origin and rays parallel to the triangle
// are misses. Both faces are hit.
func (r *Ray) IntersectTriangle(tri *Triangle) (t float32, b mgl32.Vec3, ok bool) {
	e1, e2 := tri.P1.Sub(tri.P0), tri.P2.Sub(tri.P0)
	h := r.Dir.Cross(e2)
	det := e1.Dot(h)
	if math32.Abs(det) < rayParallelEps {
		return 0, b, false
	}

	f := 1 / det
	s := r.Origin.Sub(tri.P0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, b, false
	}

	q := s.Cross(e1)
	v := f * r.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, b, false
	}

	t = f * e2.Dot(q)
	if t < 0 {
		return 0, b, false
	}
	return t, mgl32.Vec3{1 - u - v, u, v}, true
}
