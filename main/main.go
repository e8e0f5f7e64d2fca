package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/phil-mansfield/gocloth/cloth"
	"github.com/phil-mansfield/gocloth/io"
)

const (
	// Number of progress messages written over the course of a run.
	logMessages = 10
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil { log.Fatal(err.Error()) }
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil { log.Fatal(err.Error()) }
	}
}

func main() {
	var simulate, exampleConfig string
	vars := map[string]*string{
		"Simulate":      &simulate,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&simulate, "Simulate", "",
		"Configuration file for [Simulate] mode.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. Accepted arguments are 'Simulate', 'View', and 'Pins'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil { log.Fatal(err.Error()) }

	switch modeName {
	case "Simulate":
		con, err := io.ReadSimulateConfig(simulate)
		if err != nil { log.Fatal(err.Error()) }
		simulateMain(con)

	case "ExampleConfig":
		switch exampleConfig {
		case "Simulate":
			fmt.Println(io.ExampleSimulateFile)
		case "View":
			fmt.Println(io.ExampleViewFile)
		case "Pins":
			fmt.Println(io.ExamplePinsFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Simulate', 'View', and 'Pins'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" { setNames = append(setNames, name) }
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but gocloth only accepts "+
				"one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// setupIO redirects logging and starts profiling, if requested.
func setupIO(con *io.SharedConfig) *FileGroup {
	fg := &FileGroup{}
	var err error

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil { log.Fatal(err.Error()) }
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil { log.Fatal(err.Error()) }
		pprof.StartCPUProfile(fg.prof)
	}

	return fg
}

// simulateMain runs a headless simulation and writes snapshots of it to the
// output directory.
func simulateMain(con *io.SimulateConfig) {
	fg := setupIO(&con.SharedConfig)
	defer fg.Close()

	c, _, _, err := con.NewCloth()
	if err != nil { log.Fatal(err.Error()) }
	track, err := con.PinTrack()
	if err != nil { log.Fatal(err.Error()) }

	if err = os.MkdirAll(con.Output, 0777); err != nil {
		log.Fatal(err.Error())
	}

	base := append([]mgl32.Vec3{}, c.KinematicPos...)
	pins := make([]mgl32.Vec3, len(base))
	hist := newStatsHistory(con.Steps)

	log.Printf("Simulating a %d x %d cloth for %d steps with %d pins.",
		con.Rows, con.Cols, con.Steps, len(base))

	writeSnapshot(con, c, 0)
	logEvery := con.Steps / logMessages
	if logEvery == 0 { logEvery = 1 }

	for step := 1; step <= con.Steps; step++ {
		if len(base) > 0 {
			track.At(float64(step), base, pins)
			c.UpdateKinematics(pins)
		}
		c.Update(float32(con.Dt))

		stats := c.Stats()
		hist.Append(step, c.MaxStrain(), &stats)

		if step%con.SnapshotEvery == 0 {
			writeSnapshot(con, c, step)
		}
		if step%logEvery == 0 || step == con.Steps {
			logStats(step, con.Steps, c.MaxStrain(), &stats)
		}
	}

	if con.ValidStatsPlot() {
		plotStats(hist, con.StatsPlot)
		log.Println("Wrote statistics plot to", con.StatsPlot)
	}
}

func writeSnapshot(con *io.SimulateConfig, c *cloth.Cloth, step int) {
	hd := &io.SnapshotHeader{
		Rows: int64(con.Rows), Cols: int64(con.Cols), Step: int64(step),
		Time: float64(step) * con.Dt, Dt: con.Dt,
	}
	file := io.SnapshotName(con.Output, step)
	if err := io.WriteSnapshot(file, hd, c.Pos, c.Norm); err != nil {
		log.Fatal(err.Error())
	}
}

func logStats(step, steps int, strain float32, stats *cloth.Stats) {
	log.Printf(
		"Step %d/%d: max strain = %.4f, collisions (P2P, E2E, P2Tri) = "+
			"(%d, %d, %d), broad phase overlaps = (%d, %d, %d)",
		step, steps, strain,
		stats.PointPoint.Collisions, stats.EdgeEdge.Collisions,
		stats.PointTriangle.Collisions,
		stats.PointPoint.Overlaps, stats.EdgeEdge.Overlaps,
		stats.PointTriangle.Overlaps,
	)
}
