package cloth

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// CollisionParams configures one self-collision pass.
type CollisionParams struct {
	// Enabled turns detection for the pass on. Disabled passes produce no
	// manifolds and report no statistics.
	Enabled bool
	// Radius is the collision radius of a single feature. Two features are in
	// contact when they are closer than 2*Radius.
	Radius float32
	// StaticRadius is extra padding added to the broad-phase boxes so that
	// features which will be pushed into contact during solving are still
	// considered.
	StaticRadius float32
}

// Params holds the tunable constants of a Cloth.
type Params struct {
	Gravity    mgl32.Vec3
	Iterations int

	PointPoint, EdgeEdge, PointTriangle CollisionParams

	// ResolvePointTriangle enables the point-triangle response in the solver.
	// Detection still runs (and is counted in Stats) when it is false.
	ResolvePointTriangle bool
}

// DefaultParams returns the parameters used when New is given a nil *Params.
func DefaultParams() *Params {
	return &Params{
		Gravity:    mgl32.Vec3{0, -10, 0},
		Iterations: 10,

		PointPoint:    CollisionParams{true, 0.02, 0.04},
		EdgeEdge:      CollisionParams{true, 0.02, 0.04},
		PointTriangle: CollisionParams{true, 0.02, 0.04},

		ResolvePointTriangle: false,
	}
}

// Check returns an error describing the first invalid parameter, if any.
func (p *Params) Check() error {
	if p.Iterations < 1 {
		return fmt.Errorf("Iterations must be positive, but is %d.",
			p.Iterations)
	}

	passes := []struct {
		name string
		cp   *CollisionParams
	}{
		{"PointPoint", &p.PointPoint},
		{"EdgeEdge", &p.EdgeEdge},
		{"PointTriangle", &p.PointTriangle},
	}
	for _, pass := range passes {
		if pass.cp.Radius < 0 {
			return fmt.Errorf("%s radius must be non-negative, but is %g.",
				pass.name, pass.cp.Radius)
		} else if pass.cp.StaticRadius < 0 {
			return fmt.Errorf("%s static radius must be non-negative, "+
				"but is %g.", pass.name, pass.cp.StaticRadius)
		}
	}

	return nil
}
