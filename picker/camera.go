package picker

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/phil-mansfield/gocloth/geom"
)

// Camera is a perspective camera. Width and Height are the size of the
// window in pixels and FovY is the vertical field of view in radians.
type Camera struct {
	Eye, Front, Up mgl32.Vec3

	Width, Height   float32
	FovY, Near, Far float32
}

// View returns the world-to-eye matrix of the camera.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Eye.Add(c.Front), c.Up)
}

// Proj returns the eye-to-clip matrix of the camera.
func (c *Camera) Proj() mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, c.Width/c.Height, c.Near, c.Far)
}

// WindowToNDC converts window coordinates, with the origin at the top-left
// corner and y increasing downwards, to normalized device coordinates.
func (c *Camera) WindowToNDC(x, y float32) mgl32.Vec2 {
	return mgl32.Vec2{
		x/c.Width*2 - 1,
		(1-y/c.Height)*2 - 1,
	}
}

// NDCToWorld returns the world-space point which projects to ndc and lies at
// the given eye-space depth. Points in front of the camera have negative
// depth.
func (c *Camera) NDCToWorld(ndc mgl32.Vec2, depth float32) mgl32.Vec3 {
	n, f := c.Near, c.Far
	w := -depth
	clip := mgl32.Vec4{
		ndc[0] * w,
		ndc[1] * w,
		(-(f+n)*depth - 2*f*n) / (f - n),
		w,
	}

	inv := c.Proj().Mul4(c.View()).Inv()
	world := inv.Mul4x1(clip)
	return world.Vec3().Mul(1 / world[3])
}

// Ray returns the ray through the given window coordinates. It starts on the
// near plane and has a unit direction.
func (c *Camera) Ray(x, y float32) geom.Ray {
	ndc := c.WindowToNDC(x, y)
	near := c.NDCToWorld(ndc, -c.Near)
	far := c.NDCToWorld(ndc, -c.Far)

	dir, ok := geom.Normalize(far.Sub(near))
	if !ok {
		dir = c.Front
	}
	return geom.Ray{Origin: near, Dir: dir}
}
