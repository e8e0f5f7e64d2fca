package io

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phil-mansfield/table"
)

// PinTrack is a keyframed trajectory for a set of pins. Each keyframe gives
// every pin an offset from its initial position.
type PinTrack struct {
	Steps   []int
	Offsets [][]mgl32.Vec3
}

// ReadPinTrack reads a pin file with the columns "step pin dx dy dz". pins is
// the number of pins the track will be applied to. Pins which are missing
// from a keyframe keep the offset of the previous keyframe (or zero for the
// first).
func ReadPinTrack(file string, pins int) (*PinTrack, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2, 3, 4}, nil)
	if err != nil {
		return nil, err
	}
	return newPinTrack(cols[0], cols[1], cols[2], cols[3], cols[4], pins, file)
}

func newPinTrack(
	steps, ids, dxs, dys, dzs []float64, pins int, file string,
) (*PinTrack, error) {
	keys := map[int]bool{}
	for i := range steps {
		step, id := int(steps[i]), int(ids[i])
		if step < 0 || float64(step) != steps[i] {
			return nil, fmt.Errorf("Line %d of %s has step %g, which is not "+
				"a non-negative integer.", i+1, file, steps[i])
		} else if id < 0 || id >= pins || float64(id) != ids[i] {
			return nil, fmt.Errorf("Line %d of %s has pin %g, but there are "+
				"only %d pins.", i+1, file, ids[i], pins)
		}
		keys[step] = true
	}

	track := &PinTrack{}
	for step := range keys {
		track.Steps = append(track.Steps, step)
	}
	sort.Ints(track.Steps)

	frame := map[int]int{}
	for i, step := range track.Steps {
		frame[step] = i
	}

	// Keyframes are filled in row order, then carried forward.
	set := make([][]bool, len(track.Steps))
	track.Offsets = make([][]mgl32.Vec3, len(track.Steps))
	for i := range track.Offsets {
		track.Offsets[i] = make([]mgl32.Vec3, pins)
		set[i] = make([]bool, pins)
	}
	for i := range steps {
		k, id := frame[int(steps[i])], int(ids[i])
		track.Offsets[k][id] = mgl32.Vec3{
			float32(dxs[i]), float32(dys[i]), float32(dzs[i]),
		}
		set[k][id] = true
	}
	for k := 1; k < len(track.Offsets); k++ {
		for id := range track.Offsets[k] {
			if !set[k][id] {
				track.Offsets[k][id] = track.Offsets[k-1][id]
			}
		}
	}

	return track, nil
}

// Pins returns the number of pins in the track.
func (track *PinTrack) Pins() int {
	if len(track.Offsets) == 0 {
		return 0
	}
	return len(track.Offsets[0])
}

// At writes the position of every pin at the given step to out, given the
// pins' initial positions. Offsets are linearly interpolated between
// keyframes and held constant outside of them.
func (track *PinTrack) At(step float64, base, out []mgl32.Vec3) {
	if len(base) != len(out) {
		panic(fmt.Sprintf("base has length %d, but out has length %d.",
			len(base), len(out)))
	} else if len(track.Steps) > 0 && len(base) != track.Pins() {
		panic(fmt.Sprintf("Track has %d pins, but was given %d positions.",
			track.Pins(), len(base)))
	}

	if len(track.Steps) == 0 {
		copy(out, base)
		return
	}

	n := len(track.Steps)
	switch {
	case step <= float64(track.Steps[0]):
		addOffsets(base, track.Offsets[0], out)
		return
	case step >= float64(track.Steps[n-1]):
		addOffsets(base, track.Offsets[n-1], out)
		return
	}

	hi := sort.Search(n, func(i int) bool {
		return float64(track.Steps[i]) > step
	})
	lo := hi - 1
	t := float32((step - float64(track.Steps[lo])) /
		float64(track.Steps[hi]-track.Steps[lo]))

	for i := range out {
		d0, d1 := track.Offsets[lo][i], track.Offsets[hi][i]
		out[i] = base[i].Add(d0.Mul(1 - t).Add(d1.Mul(t)))
	}
}

func addOffsets(base, offsets, out []mgl32.Vec3) {
	for i := range out {
		out[i] = base[i].Add(offsets[i])
	}
}
