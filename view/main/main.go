package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/phil-mansfield/gocloth/cloth"
	"github.com/phil-mansfield/gocloth/geom"
	"github.com/phil-mansfield/gocloth/io"
	"github.com/phil-mansfield/gocloth/mesh"
	"github.com/phil-mansfield/gocloth/picker"
	"github.com/phil-mansfield/gocloth/view"
)

const (
	// Distance the pins move per key press.
	pinStep = 0.05
	// Velocity per step given to poked particles.
	pokeStrength = 0.04
	// Radius of a poke as a fraction of the cloth's width.
	pokeRadius = 0.1

	fovY       = math32.Pi / 3
	sampleRate = beep.SampleRate(44100)
	toneFreq   = 880
	toneLength = 50 * time.Millisecond
)

var light = mgl32.Vec3{-0.4, -0.6, -1}

// viewer runs an interactive cloth simulation inside a terminal.
type viewer struct {
	con    *io.ViewConfig
	screen tcell.Screen

	cloth *cloth.Cloth
	vb    []float32
	ib    []uint16
	out   cloth.OutputLayout

	track      *io.PinTrack
	base, pins []mgl32.Vec3
	offset     mgl32.Vec3

	rc     *picker.RayCaster
	meshID int
	frame  *view.Frame
	cam    *picker.Camera

	step              int
	paused, sound     bool
	colliding, poking bool
}

func newViewer(con *io.ViewConfig, screen tcell.Screen) (*viewer, error) {
	c, vb, ib, err := con.NewCloth()
	if err != nil {
		return nil, err
	}
	track, err := con.PinTrack()
	if err != nil {
		return nil, err
	}
	_, out := io.Layouts(&mesh.VertexLayout)

	v := &viewer{
		con: con, screen: screen,
		cloth: c, vb: vb, ib: ib, out: out,
		track: track,
		base:  append([]mgl32.Vec3{}, c.KinematicPos...),
		rc:    picker.NewRayCaster(),
		frame: view.NewFrame(0, 0),
	}
	v.pins = make([]mgl32.Vec3, len(v.base))

	c.CopyBack(vb, out, cloth.CopyOptions{})
	v.meshID, err = v.rc.AddTriMesh(&picker.TriMeshDesc{
		Positions: mesh.Positions(vb, &mesh.VertexLayout),
		Normals:   mesh.Normals(vb, &mesh.VertexLayout),
		Indices:   ib,
		Transform: mgl32.Ident4(),
	})
	if err != nil {
		return nil, err
	}

	v.resize()
	return v, nil
}

// resize fits the frame to the screen, leaving the bottom row for the
// status line.
func (v *viewer) resize() {
	w, h := v.screen.Size()
	if h > 0 {
		h--
	}
	v.frame.Resize(w, h)
	eye := mgl32.Vec3{0, 0, float32(v.con.CameraDistance)}
	v.cam = v.frame.CellCamera(eye, mgl32.Vec3{}, fovY)
}

// update advances the simulation by one step and refreshes the picking mesh.
func (v *viewer) update() error {
	if v.paused {
		return nil
	}
	v.step++

	if len(v.base) > 0 {
		v.track.At(float64(v.step), v.base, v.pins)
		for i := range v.pins {
			v.pins[i] = v.pins[i].Add(v.offset)
		}
		v.cloth.UpdateKinematics(v.pins)
	}
	v.cloth.Update(float32(v.con.Dt))
	v.cloth.CopyBack(v.vb, v.out, cloth.CopyOptions{})

	err := v.rc.UpdateVertexPositions(
		v.meshID,
		mesh.Positions(v.vb, &mesh.VertexLayout),
		mesh.Normals(v.vb, &mesh.VertexLayout),
	)
	if err != nil {
		return err
	}

	colliding := collisions(v.cloth.Stats()) > 0
	if colliding && !v.colliding {
		v.playTone()
	}
	v.colliding = colliding
	return nil
}

func collisions(stats cloth.Stats) int {
	return stats.PointPoint.Collisions + stats.EdgeEdge.Collisions +
		stats.PointTriangle.Collisions
}

// poke pushes the particles around the point of the cloth under cell (x, y)
// away from the camera. It returns false if the cell doesn't cover the cloth.
func (v *viewer) poke(x, y int) bool {
	if x < 0 || y < 0 || x >= v.frame.Width || y >= v.frame.Height {
		return false
	}
	r := view.CellRay(v.cam, x, y)
	hit := v.rc.Intersect(r)
	if !hit.OK {
		return false
	}

	s := geom.Sphere{C: r.At(hit.T), R: pokeRadius * float32(v.con.Width)}
	ids := v.rc.Envelope(v.meshID, s)
	if len(ids) == 0 {
		ids = []uint16{hit.Tri[nearestCorner(hit.Bary)]}
	}

	dx := r.Dir.Mul(pokeStrength)
	for _, id := range ids {
		v.cloth.Poke(int(id), dx)
	}
	return true
}

// nearestCorner returns the corner of a triangle with the largest
// barycentric weight.
func nearestCorner(bary mgl32.Vec3) int {
	i := 0
	for j := 1; j < 3; j++ {
		if bary[j] > bary[i] {
			i = j
		}
	}
	return i
}

func (v *viewer) playTone() {
	if !v.sound {
		return
	}
	sine, err := generators.SineTone(sampleRate, toneFreq)
	if err != nil {
		log.Println(err.Error())
		return
	}
	speaker.Play(beep.Take(sampleRate.N(toneLength), sine))
}

// handleEvent responds to a single terminal event. It returns false once the
// user asks to quit.
func (v *viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.movePins(0, pinStep)
		case tcell.KeyDown:
			v.movePins(0, -pinStep)
		case tcell.KeyLeft:
			v.movePins(-pinStep, 0)
		case tcell.KeyRight:
			v.movePins(pinStep, 0)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'p':
				v.paused = !v.paused
			case 'w':
				v.movePins(0, pinStep)
			case 's':
				v.movePins(0, -pinStep)
			case 'a':
				v.movePins(-pinStep, 0)
			case 'd':
				v.movePins(pinStep, 0)
			}
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			v.poking = v.poke(x, y)
		} else {
			v.poking = false
		}

	case *tcell.EventResize:
		v.screen.Sync()
		v.resize()
	}
	return true
}

func (v *viewer) movePins(dx, dy float32) {
	v.offset = v.offset.Add(mgl32.Vec3{dx, dy, 0})
}

func (v *viewer) draw() {
	v.screen.Clear()
	if v.frame.Width > 0 && v.frame.Height > 0 {
		v.frame.Clear()
		m := &view.Mesh{VB: v.vb, IB: v.ib, Layout: mesh.VertexLayout}
		v.frame.Draw(m, v.cam, light)
		v.frame.Blit(v.screen)
	}
	view.DrawText(v.screen, 0, v.frame.Height, v.status(),
		tcell.StyleDefault.Reverse(true))
	v.screen.Show()
}

func (v *viewer) status() string {
	s := fmt.Sprintf(" step %d | strain %.3f | collisions %d ",
		v.step, v.cloth.MaxStrain(), collisions(v.cloth.Stats()))
	if v.paused {
		s += "| paused "
	}
	if v.poking {
		s += "| poke "
	}
	return s
}

// run draws frames at the configured rate until the user quits.
func (v *viewer) run() {
	ticker := time.NewTicker(time.Second / time.Duration(v.con.FrameRate))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			events <- v.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-events:
			if ev == nil || !v.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			if err := v.update(); err != nil {
				log.Println(err.Error())
				return
			}
			v.draw()
		}
	}
}

func main() {
	var viewFile, exampleConfig string
	flag.StringVar(&viewFile, "View", "", "Configuration file for [View] mode.")
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. Accepted arguments are 'View' and 'Pins'.",
	)
	flag.Parse()

	switch {
	case exampleConfig == "View":
		fmt.Println(io.ExampleViewFile)
		return
	case exampleConfig == "Pins":
		fmt.Println(io.ExamplePinsFile)
		return
	case exampleConfig != "":
		log.Fatal("Unrecognized 'ExampleConfig' argument. Only recognized " +
			"arguments are 'View' and 'Pins'.")
	case viewFile == "":
		log.Fatal("No flags have been set.")
	}

	con, err := io.ReadViewConfig(viewFile)
	if err != nil { log.Fatal(err.Error()) }

	// Anything written to stderr would be drawn over the screen.
	if con.ValidLogFile() {
		f, err := os.Create(con.LogFile)
		if err != nil { log.Fatal(err.Error()) }
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(ioutil.Discard)
	}

	screen, err := tcell.NewScreen()
	if err != nil { log.Fatal(err.Error()) }
	if err = screen.Init(); err != nil { log.Fatal(err.Error()) }
	defer screen.Fini()
	screen.EnableMouse()

	v, err := newViewer(con, screen)
	if err != nil {
		screen.Fini()
		log.Fatal(err.Error())
	}

	if con.Sound {
		err = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
		if err != nil {
			log.Printf("Audio initialization failed: %v", err)
		} else {
			v.sound = true
			defer speaker.Close()
		}
	}

	v.run()
}
