package geom

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const testEps = 1e-5

func almostEq(x, y float32) bool {
	return math32.Abs(x-y) <= testEps
}

func vecAlmostEq(v1, v2 mgl32.Vec3) bool {
	return almostEq(v1[0], v2[0]) && almostEq(v1[1], v2[1]) &&
		almostEq(v1[2], v2[2])
}

func TestNormalize(t *testing.T) {
	n, ok := Normalize(mgl32.Vec3{3, 0, 4})
	assert.True(t, ok)
	assert.True(t, vecAlmostEq(n, mgl32.Vec3{0.6, 0, 0.8}))

	_, ok = Normalize(mgl32.Vec3{})
	assert.False(t, ok, "zero vector")
	_, ok = Normalize(mgl32.Vec3{Eps / 10, 0, 0})
	assert.False(t, ok, "tiny vector")
}

func TestClosestSegments(t *testing.T) {
	table := []struct {
		s0, s1 Segment
		dist   float32
	}{
		{Segment{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{1, 0, 0}},
			Segment{mgl32.Vec3{0, -1, 1}, mgl32.Vec3{0, 1, 1}}, 1},
		{Segment{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}},
			Segment{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 0}}, 1},
		{Segment{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}},
			Segment{mgl32.Vec3{2, 0, 0}, mgl32.Vec3{3, 0, 0}}, 1},
		{Segment{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0}},
			Segment{mgl32.Vec3{1, -1, 0}, mgl32.Vec3{1, 1, 0}}, 1},
		{Segment{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}},
			Segment{mgl32.Vec3{2, 1, 0}, mgl32.Vec3{2, 2, 0}}, math32.Sqrt(2)},
		{Segment{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 0}},
			Segment{mgl32.Vec3{0, 2, 0}, mgl32.Vec3{2, 0, 0}}, 0},
	}

	for i, test := range table {
		s, u := ClosestSegments(&test.s0, &test.s1)
		if s < 0 || s > 1 || u < 0 || u > 1 {
			t.Errorf("%d) Parameters (%g, %g) outside [0, 1].", i+1, s, u)
		}
		if d := SegmentDistance(&test.s0, &test.s1); !almostEq(d, test.dist) {
			t.Errorf("%d) Expected distance %g, got %g.", i+1, test.dist, d)
		}
		// Symmetric in argument order.
		if d := SegmentDistance(&test.s1, &test.s0); !almostEq(d, test.dist) {
			t.Errorf("%d) Expected swapped distance %g, got %g.",
				i+1, test.dist, d)
		}
	}
}

func TestClosestSegmentsRandom(t *testing.T) {
	gen := rand.New(rand.NewSource(1))
	rvec := func() mgl32.Vec3 {
		return mgl32.Vec3{gen.Float32(), gen.Float32(), gen.Float32()}
	}

	// No sampled pair of points may be closer than the reported minimum.
	for i := 0; i < 200; i++ {
		s0, s1 := Segment{rvec(), rvec()}, Segment{rvec(), rvec()}
		d := SegmentDistance(&s0, &s1)
		for j := 0; j <= 20; j++ {
			for k := 0; k <= 20; k++ {
				sample := Length(s0.At(float32(j) / 20).Sub(s1.At(float32(k) / 20)))
				if sample < d-testEps {
					t.Fatalf("%d) Sampled distance %g below minimum %g.",
						i+1, sample, d)
				}
			}
		}
	}
}

func TestSegmentBarycentric(t *testing.T) {
	seg := Segment{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 0, 0}}

	u, v := SegmentBarycentric(mgl32.Vec3{0.5, 3, 0}, &seg)
	assert.InDelta(t, 0.75, u, testEps)
	assert.InDelta(t, 0.25, v, testEps)

	u, v = SegmentBarycentric(mgl32.Vec3{4, 0, 0}, &seg)
	assert.InDelta(t, -1, u, testEps, "unclamped")
	assert.InDelta(t, 2, v, testEps, "unclamped")

	assert.InDelta(t, 2, PointSegmentDistance(mgl32.Vec3{4, 0, 0}, &seg), testEps)
	assert.InDelta(t, 3, PointSegmentDistance(mgl32.Vec3{1, 3, 0}, &seg), testEps)

	point := Segment{mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}}
	u, v = SegmentBarycentric(mgl32.Vec3{4, 0, 0}, &point)
	assert.Equal(t, float32(1), u, "degenerate")
	assert.Equal(t, float32(0), v, "degenerate")
}

func TestTriangleBarycentric(t *testing.T) {
	tri := Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}}

	b, ok := TriangleBarycentric(mgl32.Vec3{0.25, 0.25, 5}, &tri)
	assert.True(t, ok)
	assert.True(t, vecAlmostEq(b, mgl32.Vec3{0.5, 0.25, 0.25}))

	b, ok = TriangleBarycentric(mgl32.Vec3{2, 0, 0}, &tri)
	assert.True(t, ok)
	assert.True(t, vecAlmostEq(b, mgl32.Vec3{-1, 2, 0}), "outside")

	flat := Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 0, 0}}
	_, ok = TriangleBarycentric(mgl32.Vec3{0.25, 0.25, 5}, &flat)
	assert.False(t, ok, "degenerate")
}

func TestClosestTriangle(t *testing.T) {
	tri := Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}}
	flat := Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 0, 0}}

	table := []struct {
		tri   Triangle
		p     mgl32.Vec3
		point mgl32.Vec3
	}{
		{tri, mgl32.Vec3{0.25, 0.25, 1}, mgl32.Vec3{0.25, 0.25, 0}},
		{tri, mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{0, 0, 0}},
		{tri, mgl32.Vec3{2, -0.5, 0}, mgl32.Vec3{1, 0, 0}},
		{tri, mgl32.Vec3{-0.5, 2, -1}, mgl32.Vec3{0, 1, 0}},
		{tri, mgl32.Vec3{0.5, -1, 0}, mgl32.Vec3{0.5, 0, 0}},
		{tri, mgl32.Vec3{-1, 0.5, 0}, mgl32.Vec3{0, 0.5, 0}},
		{tri, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0.5, 0.5, 0}},
		{flat, mgl32.Vec3{1.5, 1, 0}, mgl32.Vec3{1.5, 0, 0}},
	}

	for i, test := range table {
		b := ClosestTriangle(test.p, &test.tri)
		if !almostEq(b[0]+b[1]+b[2], 1) {
			t.Errorf("%d) Barycentric coordinates %v do not sum to 1.", i+1, b)
		}
		for k := 0; k < 3; k++ {
			if b[k] < -testEps || b[k] > 1+testEps {
				t.Errorf("%d) Barycentric coordinates %v outside triangle.",
					i+1, b)
			}
		}
		if point := test.tri.At(b); !vecAlmostEq(point, test.point) {
			t.Errorf("%d) Expected closest point %v, got %v.",
				i+1, test.point, point)
		}
	}
}

func TestAABB(t *testing.T) {
	seg := Segment{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, -1, 2}}
	box := seg.AABB(0.5)
	assert.Equal(t, mgl32.Vec3{-0.5, -1.5, -0.5}, box.Min)
	assert.Equal(t, mgl32.Vec3{1.5, 0.5, 2.5}, box.Max)

	tri := Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}}
	tbox := tri.AABB(0)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, tbox.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, tbox.Max)

	table := []struct {
		a, b AABB
		hit  bool
	}{
		{PointAABB(mgl32.Vec3{0, 0, 0}, 1), PointAABB(mgl32.Vec3{1.5, 0, 0}, 1), true},
		{PointAABB(mgl32.Vec3{0, 0, 0}, 1), PointAABB(mgl32.Vec3{2, 0, 0}, 1), true},
		{PointAABB(mgl32.Vec3{0, 0, 0}, 1), PointAABB(mgl32.Vec3{2.5, 0, 0}, 1), false},
		{PointAABB(mgl32.Vec3{0, 0, 0}, 1), PointAABB(mgl32.Vec3{0, 0, -3}, 1), false},
		{Bounds(nil), PointAABB(mgl32.Vec3{0, 0, 0}, 10), false},
	}

	for i, test := range table {
		if hit := test.a.Intersect(&test.b); hit != test.hit {
			t.Errorf("%d) Expected Intersect = %v, got %v.", i+1, test.hit, hit)
		}
		if hit := test.b.Intersect(&test.a); hit != test.hit {
			t.Errorf("%d) Expected swapped Intersect = %v, got %v.",
				i+1, test.hit, hit)
		}
	}

	unit := AABB{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}}
	assert.Equal(t, float32(0), unit.Distance2(mgl32.Vec3{0.5, 0.5, 0.5}))
	assert.InDelta(t, 4+1, unit.Distance2(mgl32.Vec3{3, 1, -1}), testEps)
	assert.True(t, unit.Contains(mgl32.Vec3{1, 0, 0.5}))
	assert.False(t, unit.Contains(mgl32.Vec3{1, 0, 1.5}))

	s := Sphere{mgl32.Vec3{3, 0.5, 0.5}, 2}
	assert.True(t, s.Contains(mgl32.Vec3{1, 0.5, 0.5}))
	assert.False(t, s.Contains(mgl32.Vec3{0.9, 0.5, 0.5}))
	assert.True(t, s.Intersect(&unit))
	s.R = 1.5
	assert.False(t, s.Intersect(&unit))
}

func TestRayAABB(t *testing.T) {
	box := AABB{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}}

	table := []struct {
		ray         Ray
		hit         bool
		tNear, tFar float32
	}{
		{Ray{mgl32.Vec3{-1, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}}, true, 1, 2},
		{Ray{mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0, 0, 2}}, true, 0, 0.25},
		{Ray{mgl32.Vec3{-1, 2, 0.5}, mgl32.Vec3{1, 0, 0}}, false, 0, 0},
		{Ray{mgl32.Vec3{2, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}}, false, 0, 0},
		{Ray{mgl32.Vec3{-1, -1, 0.5}, mgl32.Vec3{1, 1, 0}}, true, 1, 2},
	}

	for i, test := range table {
		tNear, tFar, hit := test.ray.IntersectAABB(&box)
		if hit != test.hit {
			t.Errorf("%d) Expected hit = %v, got %v.", i+1, test.hit, hit)
		} else if hit && (!almostEq(tNear, test.tNear) || !almostEq(tFar, test.tFar)) {
			t.Errorf("%d) Expected [%g, %g], got [%g, %g].",
				i+1, test.tNear, test.tFar, tNear, tFar)
		}
	}
}

func TestRayTriangle(t *testing.T) {
	tri := Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}}

	ray := Ray{mgl32.Vec3{0.25, 0.25, 1}, mgl32.Vec3{0, 0, -1}}
	dist, b, ok := ray.IntersectTriangle(&tri)
	assert.True(t, ok)
	assert.InDelta(t, 1, dist, testEps)
	assert.True(t, vecAlmostEq(b, mgl32.Vec3{0.5, 0.25, 0.25}))
	assert.True(t, vecAlmostEq(ray.At(dist), tri.At(b)))

	misses := []Ray{
		{mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0.25, 0.25, -1}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{-1, 0.25, 0}, mgl32.Vec3{1, 0, 0}},
	}
	for i := range misses {
		if _, _, ok := misses[i].IntersectTriangle(&tri); ok {
			t.Errorf("%d) Expected miss.", i+1)
		}
	}
}

func TestRayTransform(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	r := Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}}
	tr := r.Transform(&m)
	assert.True(t, vecAlmostEq(tr.Origin, mgl32.Vec3{1, 2, 3}))
	assert.True(t, vecAlmostEq(tr.Dir, mgl32.Vec3{0, 0, 1}), "directions ignore translation")
}

func BenchmarkClosestSegments(b *testing.B) {
	gen := rand.New(rand.NewSource(2))
	segs := make([]Segment, 1024)
	for i := range segs {
		segs[i] = Segment{
			mgl32.Vec3{gen.Float32(), gen.Float32(), gen.Float32()},
			mgl32.Vec3{gen.Float32(), gen.Float32(), gen.Float32()},
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ClosestSegments(&segs[i%len(segs)], &segs[(i+1)%len(segs)])
	}
}

func BenchmarkClosestTriangle(b *testing.B) {
	gen := rand.New(rand.NewSource(3))
	tri := Triangle{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}}
	ps := make([]mgl32.Vec3, 1024)
	for i := range ps {
		ps[i] = mgl32.Vec3{2*gen.Float32() - 0.5, 2*gen.Float32() - 0.5, gen.Float32()}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ClosestTriangle(ps[i%len(ps)], &tri)
	}
}
