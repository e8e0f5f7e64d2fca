package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gocloth/io"
)

func newTestViewer(t *testing.T, w, h int) (*viewer, tcell.Screen) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)

	con := &io.DefaultViewWrapper().View
	con.Rows, con.Cols = 8, 8
	con.Width, con.Height = 2, 2
	require.NoError(t, con.CheckInit())

	v, err := newViewer(con, screen)
	require.NoError(t, err)
	return v, screen
}

func TestViewerDraw(t *testing.T) {
	v, screen := newTestViewer(t, 40, 21)
	defer screen.Fini()

	assert.Equal(t, 40, v.frame.Width)
	assert.Equal(t, 20, v.frame.Height)

	v.draw()
	assert.True(t, v.frame.At(20, 10).Set)
	assert.False(t, v.frame.At(0, 0).Set)

	r, _, _, _ := screen.GetContent(1, 20)
	assert.Equal(t, 's', r)

	screen.SetSize(30, 11)
	assert.True(t, v.handleEvent(tcell.NewEventResize(30, 11)))
	assert.Equal(t, 30, v.frame.Width)
	assert.Equal(t, 10, v.frame.Height)
}

func TestViewerKeys(t *testing.T) {
	v, screen := newTestViewer(t, 40, 21)
	defer screen.Fini()

	key := func(r rune) tcell.Event {
		return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
	}

	assert.True(t, v.handleEvent(key('p')))
	require.NoError(t, v.update())
	assert.Equal(t, 0, v.step)
	assert.True(t, v.handleEvent(key('p')))

	assert.True(t, v.handleEvent(
		tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	assert.True(t, v.handleEvent(key('w')))
	assert.Equal(t, mgl32.Vec3{pinStep, pinStep, 0}, v.offset)

	require.NoError(t, v.update())
	assert.Equal(t, 1, v.step)
	for i := range v.base {
		want := v.base[i].Add(v.offset)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, want[k], v.cloth.KinematicPos[i][k], 1e-6,
				"%d) pin", i+1)
		}
	}

	assert.False(t, v.handleEvent(key('q')))
	assert.False(t, v.handleEvent(
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestViewerPoke(t *testing.T) {
	v, screen := newTestViewer(t, 40, 21)
	defer screen.Fini()

	prev := append([]mgl32.Vec3{}, v.cloth.PrevPos...)
	require.True(t, v.poke(20, 10))

	moved := 0
	for i := range prev {
		d := v.cloth.PrevPos[i].Sub(prev[i])
		if d.Len() == 0 {
			continue
		}
		moved++
		assert.InDelta(t, pokeStrength, d.Len(), 1e-4, "%d)", i)
		assert.True(t, d[2] > 0, "%d) poke should push away from camera", i)
	}
	assert.True(t, moved > 0)

	assert.False(t, v.poke(0, 0))
	assert.False(t, v.poke(-1, 3))
	assert.False(t, v.poke(40, 3))

	v.handleEvent(tcell.NewEventMouse(20, 10, tcell.Button1, tcell.ModNone))
	assert.True(t, v.poking)
	v.handleEvent(tcell.NewEventMouse(20, 10, tcell.ButtonNone, tcell.ModNone))
	assert.False(t, v.poking)
}

func TestNearestCorner(t *testing.T) {
	table := []struct {
		bary mgl32.Vec3
		i    int
	}{
		{mgl32.Vec3{1, 0, 0}, 0},
		{mgl32.Vec3{0.2, 0.5, 0.3}, 1},
		{mgl32.Vec3{0.1, 0.1, 0.8}, 2},
	}
	for i, test := range table {
		if c := nearestCorner(test.bary); c != test.i {
			t.Errorf("%d) Expected nearestCorner(%v) = %d, got %d.",
				i+1, test.bary, test.i, c)
		}
	}
}
