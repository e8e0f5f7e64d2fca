package main

import (
	"path"

	"github.com/phil-mansfield/gocloth/cloth"

	plt "github.com/phil-mansfield/pyplot"
)

// statsHistory records per-step solver statistics for plotting.
type statsHistory struct {
	steps, strain            []float64
	p2p, e2e, p2tri, overlap []float64
}

func newStatsHistory(n int) *statsHistory {
	return &statsHistory{
		steps:   make([]float64, 0, n),
		strain:  make([]float64, 0, n),
		p2p:     make([]float64, 0, n),
		e2e:     make([]float64, 0, n),
		p2tri:   make([]float64, 0, n),
		overlap: make([]float64, 0, n),
	}
}

// Append adds the statistics of a single step.
func (h *statsHistory) Append(step int, strain float32, stats *cloth.Stats) {
	h.steps = append(h.steps, float64(step))
	h.strain = append(h.strain, float64(strain))
	h.p2p = append(h.p2p, float64(stats.PointPoint.Collisions))
	h.e2e = append(h.e2e, float64(stats.EdgeEdge.Collisions))
	h.p2tri = append(h.p2tri, float64(stats.PointTriangle.Collisions))
	h.overlap = append(h.overlap, float64(
		stats.PointPoint.Overlaps+stats.EdgeEdge.Overlaps+
			stats.PointTriangle.Overlaps,
	))
}

// Len returns the number of recorded steps.
func (h *statsHistory) Len() int { return len(h.steps) }

// plotStats writes a two-panel summary of a run: strain in one figure and
// collision counts in another. fname is used for the strain figure and
// "collisions_" + fname for the other.
func plotStats(h *statsHistory, fname string) {
	plt.Reset()

	plt.Figure(plt.FigSize(8, 6))
	plt.Plot(h.steps, h.strain, "k", plt.LW(2))
	plt.Title("Maximum constraint strain")
	plt.XLabel("Step", plt.FontSize(16))
	plt.YLabel(`$|\ell - \ell_0|/\ell_0$`, plt.FontSize(16))
	plt.XLim(h.steps[0], h.steps[len(h.steps)-1])
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)

	plt.Figure(plt.FigSize(8, 6))
	plt.Plot(h.steps, h.p2p, plt.LW(2), plt.C("r"))
	plt.Plot(h.steps, h.e2e, plt.LW(2), plt.C("g"))
	plt.Plot(h.steps, h.p2tri, plt.LW(2), plt.C("b"))
	plt.Plot(h.steps, h.overlap, "k", plt.LW(1))
	plt.Title("Collisions: P2P (red), E2E (green), P2Tri (blue), " +
		"broad phase (black)")
	plt.XLabel("Step", plt.FontSize(16))
	plt.YLabel("Count", plt.FontSize(16))
	plt.XLim(h.steps[0], h.steps[len(h.steps)-1])
	plt.YScale("symlog")
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(collisionPlotName(fname))

	plt.Execute()
}

func collisionPlotName(fname string) string {
	dir, file := path.Split(fname)
	return path.Join(dir, "collisions_"+file)
}
