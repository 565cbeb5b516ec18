package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strings"
	"time"

	"github.com/phil-mansfield/wingworks"
	"github.com/phil-mansfield/wingworks/geom"
	"github.com/phil-mansfield/wingworks/io"
	"github.com/phil-mansfield/wingworks/stream"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

// Outputs are the optional destinations each step is written to.
type Outputs struct {
	frames  *io.FrameWriter
	history *io.History
	hub     *stream.Hub
	server  *http.Server
}

func main() {
	var run, exampleConfig string
	vars := map[string]*string{
		"Run":           &run,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(&run, "Run", "", "Configuration file for [Run] mode.")
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. The only accepted argument is 'Run'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Run":
		con, err := io.ReadRunConfig(run)
		if err != nil {
			log.Fatal(err.Error())
		}
		runMain(con)
	case "ExampleConfig":
		switch exampleConfig {
		case "Run":
			fmt.Println(io.ExampleRunFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only recognized " +
					"argument is 'Run'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}
	sort.Strings(setNames)

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but wingworks "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func runMain(con *io.RunConfig) {
	fg := setupFiles(con)
	defer fg.Close()

	foil, err := buildFoil(con)
	if err != nil {
		log.Fatal(err.Error())
	}

	scale := con.SpeedScale()
	w, err := wingworks.NewWorld(wingworks.WorldConfig{
		Foil:             foil,
		Width:            con.WorldWidth,
		Height:           con.WorldHeight,
		MaxParticleSpeed: con.MaxParticleSpeed * scale,
		WindSpeed:        con.WindSpeed * scale,
		Window:           con.Window,
		Workers:          con.Workers,
		Seed:             uint64(con.Seed),
		Log:              true,
	})
	if err != nil {
		log.Fatal(err.Error())
	}

	out, err := setupOutputs(con, w)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer out.Close()

	for i := 1; i <= con.Steps; i++ {
		t0 := time.Now()
		w.Step()
		dt := time.Since(t0).Seconds()

		snap := w.Snapshot()
		log.Printf(
			"step %d/%d: net mv %g, dt = %g seconds",
			i, con.Steps, snap.NetMomentum, dt,
		)
		if err := out.Write(snap); err != nil {
			log.Fatal(err.Error())
		}
	}

	f := w.ForceOnFoil().Scale(1 / scale)
	log.Printf("Force on foil: (%g, %g)", f.X, f.Y)
	fmt.Printf("%g %g\n", f.X, f.Y)
}

// setupFiles opens the log and profile files requested by con.
func setupFiles(con *io.RunConfig) *FileGroup {
	var err error
	fg := new(FileGroup)

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	return fg
}

// buildFoil returns a NACA 2412 foil unless con names a vertex file.
func buildFoil(con *io.RunConfig) (*wingworks.AirFoil, error) {
	if !con.ValidFoilVertices() {
		return wingworks.NewNACA2412(
			con.FoilX, con.FoilY, con.FoilWidth, con.Alpha(),
		)
	}

	vs, err := io.ReadVertices(con.FoilVertices)
	if err != nil {
		return nil, err
	}
	vs = geom.PlaceOutline(vs, con.FoilX, con.FoilY, con.FoilWidth, con.Alpha())
	shape, err := geom.NewPolygon(vs)
	if err != nil {
		return nil, fmt.Errorf("Invalid foil in %s: %w", con.FoilVertices, err)
	}
	return wingworks.NewAirFoil(shape, geom.Vec{}), nil
}

func setupOutputs(con *io.RunConfig, w *wingworks.World) (*Outputs, error) {
	out := &Outputs{}
	hd := io.NewFrameHeader(w)

	if con.ValidFrameFile() {
		fw, err := io.CreateFrameFile(con.FrameFile, hd)
		if err != nil {
			return nil, err
		}
		out.frames = fw
	}

	if con.ValidHistoryFile() {
		h, err := io.OpenHistory(con.HistoryFile, con)
		if err != nil {
			out.Close()
			return nil, err
		}
		out.history = h
	}

	if con.ValidStreamAddr() {
		b, err := io.EncodeHeader(hd)
		if err != nil {
			out.Close()
			return nil, err
		}
		out.hub = stream.NewHub(b)
		go out.hub.Run()

		out.server = &http.Server{
			Addr: con.StreamAddr, Handler: stream.NewMux(out.hub),
		}
		go func() {
			err := out.server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Frame server stopped: %v", err)
			}
		}()
		log.Printf("Streaming frames to ws://%s/frames", con.StreamAddr)
	}

	return out, nil
}

// Write sends snap to every configured output.
func (out *Outputs) Write(snap *wingworks.Snapshot) error {
	if out.history != nil {
		err := out.history.Record(snap.Step, snap.Force, snap.NetMomentum)
		if err != nil {
			return err
		}
	}

	if out.frames == nil && out.hub == nil {
		return nil
	}

	fr := io.NewFrame(snap)
	if out.frames != nil {
		if err := out.frames.Write(fr); err != nil {
			return err
		}
	}
	if out.hub != nil {
		b, err := io.EncodeFrame(fr)
		if err != nil {
			return err
		}
		out.hub.Broadcast(b)
	}
	return nil
}

// Close flushes and closes every output.
func (out *Outputs) Close() {
	if out.frames != nil {
		if err := out.frames.Close(); err != nil {
			log.Printf("Could not close frame file: %v", err)
		}
	}
	if out.history != nil {
		if err := out.history.Close(); err != nil {
			log.Printf("Could not close history: %v", err)
		}
	}
	if out.server != nil {
		out.server.Close()
	}
	if out.hub != nil {
		out.hub.Close()
	}
}
