package io

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/gcfg.v1"
)

const (
	ExampleRunFile = `[Run]

#######################
# Required Parameters #
#######################

# Extent of the world. Particles have a radius of 0.125 in these units.
WorldWidth = 128
WorldHeight = 72

# Position of the foil's lower left corner and its chord width.
FoilX = 51.2
FoilY = 28.8
FoilWidth = 42.67

# Angle of attack, in degrees.
AlphaDeg = 6

# Thermal and wind speeds. Only their ratio matters: both are rescaled so
# that the faster of the two moves StepDistance world units per step.
MaxParticleSpeed = 400
WindSpeed = 40
StepDistance = 1.2

# Number of steps to run for.
Steps = 150

#######################
# Optional Parameters #
#######################

# Two column text file giving the foil's vertices in order. If unset, a
# NACA 2412 profile is used.
# FoilVertices = path/to/foil.txt

# Number of steps forces are averaged over. Default is 30.
# Window = 30

# Number of goroutines used per step. Default is three per CPU.
# Workers = 0

# Seed for the initial particle positions and recycling.
# Seed = 1

# Outputs. FrameFile receives a msgpack frame per step, HistoryFile is a
# SQLite database of the force on the foil, and StreamAddr serves frames to
# websocket viewers at ws://StreamAddr/frames.
# FrameFile = frames.msgpack
# HistoryFile = history.db
# StreamAddr = localhost:8080

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`
)

// RunConfig holds the parameters of a single simulation run.
type RunConfig struct {
	// Required
	WorldWidth, WorldHeight float64
	FoilX, FoilY, FoilWidth float64
	AlphaDeg                float64
	MaxParticleSpeed        float64
	WindSpeed, StepDistance float64
	Steps                   int

	// Optional
	FoilVertices           string
	Window, Workers        int
	Seed                   int64
	FrameFile, HistoryFile string
	StreamAddr             string
	LogFile, ProfileFile   string
}

type RunWrapper struct {
	Run RunConfig
}

// DefaultRunWrapper returns a wrapper around a RunConfig that has had its
// optional values set to their defaults.
func DefaultRunWrapper() *RunWrapper {
	con := RunConfig{}
	con.Window = 30
	con.Seed = 1
	return &RunWrapper{con}
}

// ReadRunConfig reads a [Run] config file. Files ending in .toml are read
// as TOML and everything else as git-style INI.
func ReadRunConfig(fname string) (*RunConfig, error) {
	wrap := DefaultRunWrapper()

	var err error
	if strings.ToLower(filepath.Ext(fname)) == ".toml" {
		_, err = toml.DecodeFile(fname, wrap)
	} else {
		err = gcfg.ReadFileInto(wrap, fname)
	}
	if err != nil {
		return nil, fmt.Errorf("Could not read config file %s: %w", fname, err)
	}

	if err := wrap.Run.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.Run, nil
}

// CheckInit returns an error describing the first invalid value in con.
func (con *RunConfig) CheckInit() error {
	switch {
	case !con.ValidWorld():
		return fmt.Errorf(
			"WorldWidth and WorldHeight must be positive, but are %g and %g.",
			con.WorldWidth, con.WorldHeight,
		)
	case !con.ValidFoil():
		return fmt.Errorf(
			"FoilWidth must be positive and (FoilX, FoilY) = (%g, %g) "+
				"must be inside the world.", con.FoilX, con.FoilY,
		)
	case !con.ValidSpeeds():
		return fmt.Errorf(
			"MaxParticleSpeed = %g and WindSpeed = %g must be non-negative "+
				"and not both zero.", con.MaxParticleSpeed, con.WindSpeed,
		)
	case !con.ValidStepDistance():
		return fmt.Errorf(
			"StepDistance must be positive, but is %g.", con.StepDistance,
		)
	case !con.ValidSteps():
		return fmt.Errorf("Steps must be positive, but is %d.", con.Steps)
	case !con.ValidWindow():
		return fmt.Errorf("Window must be positive, but is %d.", con.Window)
	case con.Workers < 0:
		return fmt.Errorf("Workers must be non-negative, but is %d.", con.Workers)
	}
	return nil
}

func (con *RunConfig) ValidWorld() bool {
	return con.WorldWidth > 0 && con.WorldHeight > 0
}
func (con *RunConfig) ValidFoil() bool {
	return con.FoilWidth > 0 &&
		con.FoilX >= 0 && con.FoilX < con.WorldWidth &&
		con.FoilY >= 0 && con.FoilY < con.WorldHeight
}
func (con *RunConfig) ValidSpeeds() bool {
	return con.MaxParticleSpeed >= 0 && con.WindSpeed >= 0 &&
		(con.MaxParticleSpeed > 0 || con.WindSpeed > 0)
}
func (con *RunConfig) ValidStepDistance() bool {
	return con.StepDistance > 0
}
func (con *RunConfig) ValidSteps() bool {
	return con.Steps > 0
}
func (con *RunConfig) ValidWindow() bool {
	return con.Window > 0
}
func (con *RunConfig) ValidFoilVertices() bool {
	return con.FoilVertices != ""
}
func (con *RunConfig) ValidFrameFile() bool {
	return con.FrameFile != ""
}
func (con *RunConfig) ValidHistoryFile() bool {
	return con.HistoryFile != ""
}
func (con *RunConfig) ValidStreamAddr() bool {
	return con.StreamAddr != ""
}
func (con *RunConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *RunConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

// SpeedScale returns the factor which converts the configured speeds into
// world units per step.
func (con *RunConfig) SpeedScale() float64 {
	return con.StepDistance / math.Max(con.MaxParticleSpeed, con.WindSpeed)
}

// Alpha returns the angle of attack in radians.
func (con *RunConfig) Alpha() float64 {
	return con.AlphaDeg * math.Pi / 180
}
