package io

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gocloth/cloth"
)

const (
	ExampleSimulateFile = `[Simulate]

#######################
# Required Parameters #
#######################

# Directory where snapshot files will be written to.
Output = path/to/output/dir

# Grid dimensions of the cloth, in particles, and its size. The cloth starts
# out flat in the z = 0 plane with row 0 along its top edge.
Rows = 20
Cols = 20
Width = 2
Height = 2

# Number of steps to simulate and the length of each step.
Steps = 600
Dt = 0.0166667

#######################
# Optional Parameters #
#######################

# Which particles are pinned in place. Must be one of
# [ Top | Corners | TopCorners | None ]. Default is Top.
# Pins = Top

# A whitespace-separated table with the columns "step pin dx dy dz" which
# moves the pins over time. dx, dy and dz are offsets from the pin's initial
# position and are interpolated linearly between steps. Run with
# -ExampleConfig Pins for an example.
# PinsFile = path/to/pins.txt

# Number of constraint solver iterations per step. Default is 10.
# Iterations = 10

# Gravitational acceleration. Default is (0, -10, 0).
# GravityX = 0
# GravityY = -10
# GravityZ = 0

# Collision radii and broad-phase padding for each self-collision pass, and
# switches for turning the passes on and off. Point-triangle contacts are
# detected by default but only resolved if ResolvePointTriangle is set.
# PointPointRadius = 0.02
# PointPointStaticRadius = 0.04
# EdgeEdgeRadius = 0.02
# EdgeEdgeStaticRadius = 0.04
# PointTriangleRadius = 0.02
# PointTriangleStaticRadius = 0.04
# DetectPointPoint = true
# DetectEdgeEdge = true
# DetectPointTriangle = true
# ResolvePointTriangle = false

# A snapshot is written every SnapshotEvery steps. Default is every step.
# SnapshotEvery = 1

# If set, a plot of the strain and collision counts over the run will be
# saved to this file.
# StatsPlot = stats.png

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`

	ExampleViewFile = `[View]

# Views a cloth in the terminal. Arrow keys and WASD move the pins, clicking
# on the cloth pokes it, p pauses and q or Esc quits.

#######################
# Required Parameters #
#######################

Rows = 16
Cols = 16
Width = 2
Height = 2

#######################
# Optional Parameters #
#######################

# Every optional parameter of a [Simulate] file other than Output, Steps,
# SnapshotEvery and StatsPlot can also be used here.

# Target frame rate. Each frame advances the simulation by one step of
# length Dt, which defaults to 1/FrameRate.
# FrameRate = 30

# Distance from the camera to the center of the cloth. Default is 3.5.
# CameraDistance = 3.5

# Play a short tone whenever new collisions start.
# Sound = false

# LogFile = log.out`

	ExamplePinsFile = `# step pin dx dy dz
0 0 0 0 0
0 19 0 0 0
60 0 0.5 0 0
60 19 -0.5 0 0
120 0 0.5 0 0.5
120 19 -0.5 0 0.5`
)

type SharedConfig struct {
	// Required
	Output string
	// Optional
	LogFile, ProfileFile string
}

func (con *SharedConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

// ClothConfig holds the parameters shared by every mode which builds a cloth.
type ClothConfig struct {
	// Required
	Rows, Cols    int
	Width, Height float64

	// Optional
	Dt         float64
	Iterations int

	GravityX, GravityY, GravityZ float64

	PointPointRadius, PointPointStaticRadius       float64
	EdgeEdgeRadius, EdgeEdgeStaticRadius           float64
	PointTriangleRadius, PointTriangleStaticRadius float64

	DetectPointPoint, DetectEdgeEdge, DetectPointTriangle bool
	ResolvePointTriangle                                bool

	Pins, PinsFile string
}

func defaultClothConfig() ClothConfig {
	p := cloth.DefaultParams()
	return ClothConfig{
		Dt:         1.0 / 60,
		Iterations: p.Iterations,

		GravityX: float64(p.Gravity[0]),
		GravityY: float64(p.Gravity[1]),
		GravityZ: float64(p.Gravity[2]),

		PointPointRadius:          float64(p.PointPoint.Radius),
		PointPointStaticRadius:    float64(p.PointPoint.StaticRadius),
		EdgeEdgeRadius:            float64(p.EdgeEdge.Radius),
		EdgeEdgeStaticRadius:      float64(p.EdgeEdge.StaticRadius),
		PointTriangleRadius:       float64(p.PointTriangle.Radius),
		PointTriangleStaticRadius: float64(p.PointTriangle.StaticRadius),

		DetectPointPoint:     p.PointPoint.Enabled,
		DetectEdgeEdge:       p.EdgeEdge.Enabled,
		DetectPointTriangle:  p.PointTriangle.Enabled,
		ResolvePointTriangle: p.ResolvePointTriangle,

		Pins: "Top",
	}
}

func (con *ClothConfig) ValidRows() bool {
	return con.Rows >= 2 && con.Rows*con.Cols <= 1<<16
}
func (con *ClothConfig) ValidCols() bool {
	return con.Cols >= 2 && con.Rows*con.Cols <= 1<<16
}
func (con *ClothConfig) ValidWidth() bool {
	return con.Width > 0
}
func (con *ClothConfig) ValidHeight() bool {
	return con.Height > 0
}
func (con *ClothConfig) ValidDt() bool {
	return con.Dt > 0
}
func (con *ClothConfig) ValidIterations() bool {
	return con.Iterations > 0
}
func (con *ClothConfig) ValidRadii() bool {
	return con.PointPointRadius >= 0 && con.PointPointStaticRadius >= 0 &&
		con.EdgeEdgeRadius >= 0 && con.EdgeEdgeStaticRadius >= 0 &&
		con.PointTriangleRadius >= 0 && con.PointTriangleStaticRadius >= 0
}
func (con *ClothConfig) ValidPins() bool {
	switch strings.ToLower(strings.TrimSpace(con.Pins)) {
	case "top", "corners", "topcorners", "none":
		return true
	}
	return false
}
func (con *ClothConfig) ValidPinsFile() bool {
	return con.PinsFile != ""
}

// CheckInit returns an error describing the first invalid parameter.
func (con *ClothConfig) CheckInit() error {
	switch {
	case !con.ValidRows():
		return fmt.Errorf("Rows must be at least 2 with Rows*Cols <= "+
			"65536, but is %d.", con.Rows)
	case !con.ValidCols():
		return fmt.Errorf("Cols must be at least 2 with Rows*Cols <= "+
			"65536, but is %d.", con.Cols)
	case !con.ValidWidth():
		return fmt.Errorf("Width must be positive, but is %g.", con.Width)
	case !con.ValidHeight():
		return fmt.Errorf("Height must be positive, but is %g.", con.Height)
	case !con.ValidDt():
		return fmt.Errorf("Dt must be positive, but is %g.", con.Dt)
	case !con.ValidIterations():
		return fmt.Errorf("Iterations must be positive, but is %d.",
			con.Iterations)
	case !con.ValidRadii():
		return fmt.Errorf("Collision radii must be non-negative.")
	case !con.ValidPins():
		return fmt.Errorf("Pins must be one of [ Top | Corners | "+
			"TopCorners | None ]. '%s' is not recognized.", con.Pins)
	}
	return nil
}

// Params converts the config into solver parameters.
func (con *ClothConfig) Params() *cloth.Params {
	return &cloth.Params{
		Gravity: mgl32.Vec3{
			float32(con.GravityX), float32(con.GravityY), float32(con.GravityZ),
		},
		Iterations: con.Iterations,

		PointPoint: cloth.CollisionParams{
			Enabled:      con.DetectPointPoint,
			Radius:       float32(con.PointPointRadius),
			StaticRadius: float32(con.PointPointStaticRadius),
		},
		EdgeEdge: cloth.CollisionParams{
			Enabled:      con.DetectEdgeEdge,
			Radius:       float32(con.EdgeEdgeRadius),
			StaticRadius: float32(con.EdgeEdgeStaticRadius),
		},
		PointTriangle: cloth.CollisionParams{
			Enabled:      con.DetectPointTriangle,
			Radius:       float32(con.PointTriangleRadius),
			StaticRadius: float32(con.PointTriangleStaticRadius),
		},

		ResolvePointTriangle: con.ResolvePointTriangle,
	}
}

// PinIDs returns the grid indices of the pinned particles, in the order used
// by pin files.
func (con *ClothConfig) PinIDs() []uint16 {
	g := cloth.Grid{Rows: con.Rows, Cols: con.Cols}
	ids := []uint16{}

	switch strings.ToLower(strings.TrimSpace(con.Pins)) {
	case "top":
		for col := 0; col < g.Cols; col++ {
			ids = append(ids, uint16(g.Idx(0, col)))
		}
	case "corners":
		ids = append(ids,
			uint16(g.Idx(0, 0)), uint16(g.Idx(0, g.Cols-1)),
			uint16(g.Idx(g.Rows-1, 0)), uint16(g.Idx(g.Rows-1, g.Cols-1)),
		)
	case "topcorners":
		ids = append(ids, uint16(g.Idx(0, 0)), uint16(g.Idx(0, g.Cols-1)))
	}

	return ids
}

type SimulateConfig struct {
	SharedConfig
	ClothConfig

	// Required
	Steps int

	// Optional
	SnapshotEvery int
	StatsPlot     string
}

func DefaultSimulateWrapper() *SimulateWrapper {
	con := SimulateConfig{ClothConfig: defaultClothConfig()}
	con.SnapshotEvery = 1
	return &SimulateWrapper{con}
}

func (con *SimulateConfig) ValidSteps() bool {
	return con.Steps > 0
}
func (con *SimulateConfig) ValidSnapshotEvery() bool {
	return con.SnapshotEvery > 0
}
func (con *SimulateConfig) ValidStatsPlot() bool {
	return con.StatsPlot != ""
}

func (con *SimulateConfig) CheckInit() error {
	if !con.ValidOutput() {
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	} else if !con.ValidSteps() {
		return fmt.Errorf("Steps must be positive, but is %d.", con.Steps)
	} else if !con.ValidSnapshotEvery() {
		return fmt.Errorf("SnapshotEvery must be positive, but is %d.",
			con.SnapshotEvery)
	}
	return con.ClothConfig.CheckInit()
}

type ViewConfig struct {
	ClothConfig

	// Optional
	FrameRate      int
	CameraDistance float64
	Sound          bool
	LogFile        string
}

func DefaultViewWrapper() *ViewWrapper {
	con := ViewConfig{ClothConfig: defaultClothConfig()}
	con.FrameRate = 30
	con.CameraDistance = 3.5
	// Zero means one frame per step. CheckInit fills it in.
	con.Dt = 0
	return &ViewWrapper{con}
}

func (con *ViewConfig) ValidFrameRate() bool {
	return con.FrameRate > 0
}
func (con *ViewConfig) ValidCameraDistance() bool {
	return con.CameraDistance > 0
}
func (con *ViewConfig) ValidLogFile() bool {
	return con.LogFile != ""
}

// CheckInit returns an error describing the first invalid parameter. If Dt
// was not set, it is set to 1/FrameRate.
func (con *ViewConfig) CheckInit() error {
	if !con.ValidFrameRate() {
		return fmt.Errorf("FrameRate must be positive, but is %d.",
			con.FrameRate)
	} else if !con.ValidCameraDistance() {
		return fmt.Errorf("CameraDistance must be positive, but is %g.",
			con.CameraDistance)
	}
	if con.Dt == 0 {
		con.Dt = 1 / float64(con.FrameRate)
	}
	return con.ClothConfig.CheckInit()
}

type SimulateWrapper struct {
	Simulate SimulateConfig
}

type ViewWrapper struct {
	View ViewConfig
}

// ReadSimulateConfig reads and validates a [Simulate] file.
func ReadSimulateConfig(fname string) (*SimulateConfig, error) {
	wrap := DefaultSimulateWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.Simulate.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.Simulate, nil
}

// ReadViewConfig reads and validates a [View] file.
func ReadViewConfig(fname string) (*ViewConfig, error) {
	wrap := DefaultViewWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.View.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.View, nil
}
