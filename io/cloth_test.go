package io

import (
	"os"
	"path"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gocloth/mesh"
)

func TestLayouts(t *testing.T) {
	in, out := Layouts(&mesh.VertexLayout)
	assert.Equal(t, 48, in.Stride)
	assert.Equal(t, 0, in.PosOffset)
	assert.Equal(t, 40, in.TexOffset)
	assert.Equal(t, 48, out.Stride)
	assert.Equal(t, 12, out.NormOffset)
	assert.Equal(t, 24, out.TangentOffset)
	assert.NoError(t, out.Check())
}

func TestNewCloth(t *testing.T) {
	con := defaultClothConfig()
	con.Rows, con.Cols = 4, 3
	con.Width, con.Height = 2, 3
	con.Pins = "Corners"
	require.NoError(t, con.CheckInit())

	c, vb, ib, err := con.NewCloth()
	require.NoError(t, err)
	assert.Len(t, vb, 12*12)
	assert.Len(t, ib, 3*2*3*2)
	assert.Equal(t, []int{0, 2, 9, 11}, c.KinematicIDs)
	assert.Equal(t, mgl32.Vec3{-1, 1.5, 0}, c.Pos[0])
	assert.Equal(t, mgl32.Vec3{1, -1.5, 0}, c.Pos[11])

	track, err := con.PinTrack()
	require.NoError(t, err)
	assert.Equal(t, 0, track.Pins())
}

func TestClothPinTrack(t *testing.T) {
	dir, err := os.MkdirTemp("", "clothpins")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := path.Join(dir, "pins.txt")
	text := "0 0 0 0 0\n10 3 0 1 0\n"
	require.NoError(t, os.WriteFile(file, []byte(text), 0644))

	con := defaultClothConfig()
	con.Rows, con.Cols = 4, 3
	con.Pins = "Corners"
	con.PinsFile = file

	track, err := con.PinTrack()
	require.NoError(t, err)
	assert.Equal(t, 4, track.Pins())
	assert.Equal(t, []int{0, 10}, track.Steps)

	con.Pins = "TopCorners"
	_, err = con.PinTrack()
	assert.Error(t, err)
}
