/*package picker finds the triangle meshes under a ray, which is used to let
the user grab and poke a cloth with the mouse.

Meshes are registered with a RayCaster along with a model transform. Queries
are made in world space and transformed into each mesh's local space, where a
mesh bounding box and per-triangle bounding boxes cull the exact
ray-triangle tests.
*/
package picker

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/phil-mansfield/gocloth/geom"
)

// TriMeshDesc describes a triangle mesh. Positions and Normals are flat xyz
// triples and Indices is a triangle list.
type TriMeshDesc struct {
	Positions, Normals []float32
	Indices            []uint16
	Transform          mgl32.Mat4
}

// Hit describes the nearest intersection of a ray with the registered
// meshes.
type Hit struct {
	// OK is false if the ray missed every mesh, in which case no other field
	// is meaningful.
	OK   bool
	Mesh int
	// Tri holds the vertex indices of the hit triangle.
	Tri [3]uint16
	// T is the ray parameter of the hit point and Bary its barycentric
	// coordinates in Tri.
	T    float32
	Bary mgl32.Vec3
	// Normal is the interpolated vertex normal in world space.
	Normal mgl32.Vec3
}

type triMesh struct {
	positions, normals []mgl32.Vec3
	indices            []uint16

	transform, inverse mgl32.Mat4
	normalMatrix       mgl32.Mat3

	box      geom.AABB
	triBoxes []geom.AABB
}

// RayCaster intersects rays with a set of triangle meshes. It is not safe
// for concurrent use.
type RayCaster struct {
	ids    *IDAllocator
	meshes map[int]*triMesh
}

// NewRayCaster returns a RayCaster with no meshes.
func NewRayCaster() *RayCaster {
	return &RayCaster{ids: NewIDAllocator(), meshes: map[int]*triMesh{}}
}

// AddTriMesh registers a copy of the described mesh and returns its id.
func (rc *RayCaster) AddTriMesh(desc *TriMeshDesc) (int, error) {
	positions, normals, err := unpackVertices(desc.Positions, desc.Normals)
	if err != nil {
		return -1, err
	}
	if len(desc.Indices)%3 != 0 {
		return -1, fmt.Errorf("Index buffer length %d is not a multiple "+
			"of 3.", len(desc.Indices))
	}
	for i, idx := range desc.Indices {
		if int(idx) >= len(positions) {
			return -1, fmt.Errorf("Index %d at position %d is out of range "+
				"for a mesh with %d vertices.", idx, i, len(positions))
		}
	}

	mesh := &triMesh{
		positions: positions,
		normals:   normals,
		indices:   append([]uint16{}, desc.Indices...),
	}
	mesh.setTransform(desc.Transform)
	mesh.updateBounds()

	id := rc.ids.Allocate()
	rc.meshes[id] = mesh
	return id, nil
}

// RemoveTriMesh unregisters a mesh. Its id may be reused.
func (rc *RayCaster) RemoveTriMesh(id int) {
	rc.mesh(id)
	delete(rc.meshes, id)
	rc.ids.Release(id)
}

// UpdateVertexPositions replaces the positions and normals of a mesh. The
// vertex count may not change.
func (rc *RayCaster) UpdateVertexPositions(
	id int, positions, normals []float32,
) error {
	mesh := rc.mesh(id)
	ps, ns, err := unpackVertices(positions, normals)
	if err != nil {
		return err
	} else if len(ps) != len(mesh.positions) {
		return fmt.Errorf("Mesh %d has %d vertices, but %d positions were "+
			"given.", id, len(mesh.positions), len(ps))
	}

	mesh.positions, mesh.normals = ps, ns
	mesh.updateBounds()
	return nil
}

// UpdateTransform replaces the model transform of a mesh.
func (rc *RayCaster) UpdateTransform(id int, transform mgl32.Mat4) {
	rc.mesh(id).setTransform(transform)
}

// Meshes returns the ids of every registered mesh in increasing order.
func (rc *RayCaster) Meshes() []int {
	ids := make([]int, 0, len(rc.meshes))
	for id := range rc.meshes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Intersect returns the nearest intersection of r with any registered mesh.
// Both faces of a triangle can be hit.
func (rc *RayCaster) Intersect(r geom.Ray) Hit {
	best := Hit{}
	for _, id := range rc.Meshes() {
		mesh := rc.meshes[id]
		// Dir is not renormalized, so local and world ray parameters agree
		// and hits on different meshes compare directly.
		local := r.Transform(&mesh.inverse)

		if _, _, ok := local.IntersectAABB(&mesh.box); !ok {
			continue
		}

		for i := range mesh.triBoxes {
			if _, _, ok := local.IntersectAABB(&mesh.triBoxes[i]); !ok {
				continue
			}

			tri, ids := mesh.triangle(i)
			t, bary, ok := local.IntersectTriangle(&tri)
			if !ok || (best.OK && t >= best.T) {
				continue
			}

			best = Hit{
				OK: true, Mesh: id, Tri: ids, T: t, Bary: bary,
				Normal: mesh.worldNormal(ids, bary),
			}
		}
	}
	return best
}

// Envelope returns the sorted indices of the vertices of mesh id that lie
// inside s. The center of s is given in world space and its radius is
// measured in the mesh's local space.
func (rc *RayCaster) Envelope(id int, s geom.Sphere) []uint16 {
	mesh := rc.mesh(id)
	local := geom.Sphere{
		C: mesh.inverse.Mul4x1(s.C.Vec4(1)).Vec3(),
		R: s.R,
	}

	found := map[uint16]bool{}
	for i := range mesh.triBoxes {
		if !local.Intersect(&mesh.triBoxes[i]) {
			continue
		}
		for _, idx := range mesh.indices[3*i : 3*i+3] {
			if local.Contains(mesh.positions[idx]) {
				found[idx] = true
			}
		}
	}

	out := make([]uint16, 0, len(found))
	for idx := range found {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (rc *RayCaster) mesh(id int) *triMesh {
	mesh, ok := rc.meshes[id]
	if !ok {
		panic(fmt.Sprintf("No mesh with id %d.", id))
	}
	return mesh
}

func unpackVertices(
	positions, normals []float32,
) (ps, ns []mgl32.Vec3, err error) {
	if len(positions)%3 != 0 {
		return nil, nil, fmt.Errorf("Position buffer length %d is not a "+
			"multiple of 3.", len(positions))
	} else if len(normals) != len(positions) {
		return nil, nil, fmt.Errorf("Normal buffer has length %d, but "+
			"position buffer has length %d.", len(normals), len(positions))
	}

	ps = make([]mgl32.Vec3, len(positions)/3)
	ns = make([]mgl32.Vec3, len(normals)/3)
	for i := range ps {
		ps[i] = mgl32.Vec3{positions[3*i], positions[3*i+1], positions[3*i+2]}
		ns[i] = mgl32.Vec3{normals[3*i], normals[3*i+1], normals[3*i+2]}
	}
	return ps, ns, nil
}

func (mesh *triMesh) setTransform(transform mgl32.Mat4) {
	mesh.transform = transform
	mesh.inverse = transform.Inv()
	mesh.normalMatrix = transform.Mat3().Inv().Transpose()
}

func (mesh *triMesh) updateBounds() {
	n := len(mesh.indices) / 3
	if cap(mesh.triBoxes) < n {
		mesh.triBoxes = make([]geom.AABB, n)
	}
	mesh.triBoxes = mesh.triBoxes[:n]

	mesh.box = geom.Bounds(nil)
	for i := range mesh.triBoxes {
		tri, _ := mesh.triangle(i)
		mesh.triBoxes[i] = tri.AABB(0)
		mesh.box = geom.Merge(mesh.box, mesh.triBoxes[i])
	}
}

func (mesh *triMesh) triangle(i int) (geom.Triangle, [3]uint16) {
	ids := [3]uint16{
		mesh.indices[3*i], mesh.indices[3*i+1], mesh.indices[3*i+2],
	}
	tri := geom.Triangle{
		P0: mesh.positions[ids[0]],
		P1: mesh.positions[ids[1]],
		P2: mesh.positions[ids[2]],
	}
	return tri, ids
}

// worldNormal interpolates the vertex normals of a triangle and maps the
// result to world space.
func (mesh *triMesh) worldNormal(ids [3]uint16, bary mgl32.Vec3) mgl32.Vec3 {
	n := mesh.normals[ids[0]].Mul(bary[0]).
		Add(mesh.normals[ids[1]].Mul(bary[1])).
		Add(mesh.normals[ids[2]].Mul(bary[2]))
	n = mesh.normalMatrix.Mul3x1(n)
	if unit, ok := geom.Normalize(n); ok {
		return unit
	}
	return n
}
