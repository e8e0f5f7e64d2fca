package io

import (
	"github.com/phil-mansfield/gocloth/cloth"
	"github.com/phil-mansfield/gocloth/mesh"
)

// Layouts converts a mesh layout into the layouts read and written by the
// cloth solver.
func Layouts(layout *mesh.Layout) (cloth.InputLayout, cloth.OutputLayout) {
	in := cloth.InputLayout{
		Stride:    layout.Stride,
		PosOffset: layout.PosOffset,
		TexOffset: layout.TexOffset,
	}
	out := cloth.OutputLayout{
		Stride:        layout.Stride,
		PosOffset:     layout.PosOffset,
		NormOffset:    layout.NormOffset,
		TangentOffset: layout.TangentOffset,
	}
	return in, out
}

// NewCloth builds the flat plane described by the config and pins it
// according to Pins. The plane's vertex and index buffers are returned
// alongside the cloth and use mesh.VertexLayout.
func (con *ClothConfig) NewCloth() (*cloth.Cloth, []float32, []uint16, error) {
	vb, ib := mesh.Plane(
		con.Rows, con.Cols, float32(con.Width), float32(con.Height),
	)
	in, _ := Layouts(&mesh.VertexLayout)

	c, err := cloth.New(
		vb, ib, con.PinIDs(), con.Rows, con.Cols, in, con.Params(),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	return c, vb, ib, nil
}

// PinTrack reads PinsFile. If no file was given, an empty track which leaves
// the pins in place is returned.
func (con *ClothConfig) PinTrack() (*PinTrack, error) {
	if !con.ValidPinsFile() {
		return &PinTrack{}, nil
	}
	return ReadPinTrack(con.PinsFile, len(con.PinIDs()))
}
