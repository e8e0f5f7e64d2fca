package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/gocloth/cloth"
)

func TestGetModeName(t *testing.T) {
	table := []struct {
		simulate, example string
		mode              string
		ok                bool
	}{
		{"", "", "", false},
		{"sim.ini", "", "Simulate", true},
		{"", "Pins", "ExampleConfig", true},
		{"sim.ini", "Pins", "", false},
	}

	for i, test := range table {
		simulate, example := test.simulate, test.example
		vars := map[string]*string{
			"Simulate": &simulate, "ExampleConfig": &example,
		}
		mode, err := getModeName(vars)
		if test.ok != (err == nil) {
			t.Errorf("%d) Expected ok = %v, got error %v.", i+1, test.ok, err)
		} else if mode != test.mode {
			t.Errorf("%d) Expected mode %s, got %s.", i+1, test.mode, mode)
		}
	}
}

func TestStatsHistory(t *testing.T) {
	h := newStatsHistory(2)
	stats := cloth.Stats{}
	stats.PointPoint.Collisions = 3
	stats.EdgeEdge.Overlaps = 4
	stats.PointTriangle.Overlaps = 5

	h.Append(1, 0.5, &stats)
	h.Append(2, 0.25, &cloth.Stats{})

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []float64{1, 2}, h.steps)
	assert.Equal(t, []float64{0.5, 0.25}, h.strain)
	assert.Equal(t, []float64{3, 0}, h.p2p)
	assert.Equal(t, []float64{9, 0}, h.overlap)
}

func TestCollisionPlotName(t *testing.T) {
	assert.Equal(t, "collisions_stats.png", collisionPlotName("stats.png"))
	assert.Equal(t, "out/plots/collisions_stats.png",
		collisionPlotName("out/plots/stats.png"))
}
