package view

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gocloth/mesh"
)

// square returns a 2 x 2 square in the plane z = z, facing +z.
func square(z float32) *Mesh {
	vb, ib := mesh.Plane(2, 2, 2, 2)
	layout := mesh.VertexLayout
	for i := layout.PosOffset/4 + 2; i < len(vb); i += layout.Stride / 4 {
		vb[i] = z
	}
	return &Mesh{VB: vb, IB: ib, Layout: layout}
}

var towardsScene = mgl32.Vec3{0, 0, -1}

func TestDrawFront(t *testing.T) {
	f := NewFrame(40, 20)
	cam := f.CellCamera(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{}, math32.Pi/3)
	f.Draw(square(0), cam, towardsScene)

	table := []struct {
		x, y int
		set  bool
	}{
		{20, 10, true},
		{12, 6, true},
		{28, 14, true},
		{0, 0, false},
		{5, 10, false},
		{20, 1, false},
		{39, 19, false},
	}

	for i, test := range table {
		cell := f.At(test.x, test.y)
		if cell.Set != test.set {
			t.Errorf("%d) Expected cell (%d, %d) to have Set = %v.",
				i+1, test.x, test.y, test.set)
		}
	}

	center := f.At(20, 10)
	assert.False(t, center.Back)
	assert.InDelta(t, 1, center.Shade, 1e-4)
	assert.True(t, center.Depth > -1 && center.Depth < 1)
	assert.Equal(t, '@', Glyph(center.Shade))
}

func TestDrawBack(t *testing.T) {
	f := NewFrame(40, 20)
	cam := f.CellCamera(mgl32.Vec3{0, 0, -3}, mgl32.Vec3{}, math32.Pi/3)
	f.Draw(square(0), cam, mgl32.Vec3{0, 0, 1})

	center := f.At(20, 10)
	require.True(t, center.Set)
	assert.True(t, center.Back)
	assert.InDelta(t, 1, center.Shade, 1e-4)
}

func TestDrawDepth(t *testing.T) {
	near, far := square(0.5), square(0)

	f := NewFrame(40, 20)
	cam := f.CellCamera(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{}, math32.Pi/3)

	f.Draw(far, cam, towardsScene)
	farDepth := f.At(20, 10).Depth
	f.Draw(near, cam, towardsScene)
	nearDepth := f.At(20, 10).Depth
	assert.True(t, nearDepth < farDepth)

	// Drawing order doesn't matter.
	f.Clear()
	f.Draw(near, cam, towardsScene)
	f.Draw(far, cam, towardsScene)
	assert.Equal(t, nearDepth, f.At(20, 10).Depth)

	// Geometry behind the camera is dropped.
	f.Clear()
	f.Draw(square(5), cam, towardsScene)
	for i := range f.Cells {
		if f.Cells[i].Set {
			t.Fatalf("Cell %d was drawn from behind the camera.", i)
		}
	}
}

func TestCellRay(t *testing.T) {
	f := NewFrame(40, 20)
	cam := f.CellCamera(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{}, math32.Pi/3)

	r := CellRay(cam, 20, 10)
	assert.InDelta(t, 0, r.Origin[0], 1e-2)
	assert.InDelta(t, 0, r.Origin[1], 1e-2)
	assert.True(t, r.Dir[2] < -0.99)

	// Rays through the corners of the frame point outwards.
	r = CellRay(cam, 0, 0)
	assert.True(t, r.Dir[0] < 0 && r.Dir[1] > 0)
	r = CellRay(cam, 39, 19)
	assert.True(t, r.Dir[0] > 0 && r.Dir[1] < 0)
}

func TestGlyph(t *testing.T) {
	table := []struct {
		shade float32
		r     rune
	}{
		{-1, '.'}, {0, '.'}, {0.5, '+'}, {0.99, '@'}, {1, '@'}, {2, '@'},
	}
	for i, test := range table {
		if r := Glyph(test.shade); r != test.r {
			t.Errorf("%d) Expected Glyph(%g) = %c, got %c.",
				i+1, test.shade, test.r, r)
		}
	}

	assert.Equal(t, tcell.StyleDefault, Style(&Cell{}))
	front := Style(&Cell{Set: true, Shade: 1})
	back := Style(&Cell{Set: true, Shade: 1, Back: true})
	assert.NotEqual(t, front, back)
}

func TestBlit(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(30, 10)

	f := NewFrame(40, 20)
	cam := f.CellCamera(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{}, math32.Pi/3)
	f.Draw(square(0), cam, towardsScene)
	f.Blit(screen)

	r, _, _, _ := screen.GetContent(20, 9)
	assert.Equal(t, Glyph(f.At(20, 9).Shade), r)
	r, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, ' ', r)

	DrawText(screen, 27, 0, "hello", tcell.StyleDefault)
	for i, want := range "hel" {
		r, _, _, _ = screen.GetContent(27+i, 0)
		assert.Equal(t, want, r)
	}
	DrawText(screen, 0, 10, "offscreen", tcell.StyleDefault)
}
