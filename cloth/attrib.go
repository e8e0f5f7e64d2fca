package cloth

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/phil-mansfield/gocloth/geom"
)

// fallbackNormal is assigned to particles whose incident triangles are all
// degenerate.
var fallbackNormal = mgl32.Vec3{0, 0, 1}

// computeTangentNorm recomputes per-particle normals and tangents from the
// current positions. Each triangle contributes its area-weighted face normal
// and, if its texture coordinates are not degenerate, its face tangent.
func (c *Cloth) computeTangentNorm() {
	for i := range c.Norm {
		c.Norm[i] = mgl32.Vec3{}
		c.Tangent[i] = mgl32.Vec3{}
	}

	for _, tri := range c.tris {
		p0, p1, p2 := c.Pos[tri[0]], c.Pos[tri[1]], c.Pos[tri[2]]
		e1, e2 := p1.Sub(p0), p2.Sub(p0)

		n := e1.Cross(e2)
		for _, idx := range tri {
			c.Norm[idx] = c.Norm[idx].Add(n)
		}

		t, ok := faceTangent(e1, e2,
			c.Tex[tri[1]].Sub(c.Tex[tri[0]]), c.Tex[tri[2]].Sub(c.Tex[tri[0]]))
		if !ok {
			continue
		}
		for _, idx := range tri {
			c.Tangent[idx] = c.Tangent[idx].Add(t)
		}
	}

	for i := range c.Norm {
		n, ok := geom.Normalize(c.Norm[i])
		if !ok {
			n = fallbackNormal
		}
		c.Norm[i] = n
		c.Tangent[i] = orthonormalTangent(c.Tangent[i], n)
	}
}

// faceTangent solves [e1 e2] = [T B] * [duv1 duv2] for the tangent T. ok is
// false if the texture mapping of the triangle is singular.
func faceTangent(e1, e2 mgl32.Vec3, duv1, duv2 mgl32.Vec2) (t mgl32.Vec3, ok bool) {
	m := mgl32.Mat2{duv1[0], duv1[1], duv2[0], duv2[1]}
	if math32.Abs(m.Det()) <= geom.Eps2 {
		return mgl32.Vec3{}, false
	}
	inv := m.Inv()
	return e1.Mul(inv[0]).Add(e2.Mul(inv[1])), true
}

// orthonormalTangent removes the component of t along the unit normal n and
// normalizes the result. If nothing is left, an arbitrary unit vector
// perpendicular to n is returned.
func orthonormalTangent(t, n mgl32.Vec3) mgl32.Vec3 {
	if ortho, ok := geom.Normalize(t.Sub(n.Mul(n.Dot(t)))); ok {
		return ortho
	}

	axis := mgl32.Vec3{1, 0, 0}
	if math32.Abs(n[0]) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	ortho, _ := geom.Normalize(axis.Sub(n.Mul(n.Dot(axis))))
	return ortho
}
