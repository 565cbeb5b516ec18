package wingworks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/wingworks/geom"
)

func testWorldConfig(t testing.TB) WorldConfig {
	foil, err := NewNACA2412(0, 0, 5, 0)
	require.NoError(t, err)
	return WorldConfig{
		Foil: foil, Width: 10, Height: 7,
		MaxParticleSpeed: 0.01, WindSpeed: 0, Seed: 5,
	}
}

func TestWorldIterate(t *testing.T) {
	config := testWorldConfig(t)
	w, err := NewWorld(config)
	require.NoError(t, err)

	n := len(w.Particles())
	assert.Greater(t, n, 0)

	for i := 0; i < 3; i++ {
		w.Step()
	}

	assert.Equal(t, 3, w.Steps())
	assert.Len(t, w.Particles(), n)
	assert.GreaterOrEqual(t, w.NetMomentum(), 0.0)
	assert.Len(t, w.FoilEdgeForces(), len(config.Foil.Shape.Edges))
	// There should be some random force on the foil.
	assert.Greater(t, w.ForceOnFoil().MagSqr(), 0.0)
}

func TestWorldParticleCount(t *testing.T) {
	config := testWorldConfig(t)
	w, err := NewWorld(config)
	require.NoError(t, err)

	free := 10*7 - config.Foil.Shape.BBoxArea()
	assert.Equal(t, int(3*free/(0.25*0.25)), len(w.Particles()))
	assert.Equal(t, ParticleRadius, w.Radius())

	for i, p := range w.Particles() {
		if p.S.X < 0 || p.S.X > 10 || p.S.Y < 0 || p.S.Y > 7 {
			t.Errorf("%d) Particle starts outside the world at %v.", i, p.S)
		}
		if config.Foil.Shape.Contains(p.S) {
			t.Errorf("%d) Particle starts inside the foil at %v.", i, p.S)
		}
	}
}

func TestNewWorldErrors(t *testing.T) {
	base := testWorldConfig(t)
	bigFoil, err := NewNACA2412(0, 0, 60, 0)
	require.NoError(t, err)

	table := []func(c *WorldConfig){
		func(c *WorldConfig) { c.Foil = nil },
		func(c *WorldConfig) { c.Width = 0 },
		func(c *WorldConfig) { c.Height = -1 },
		func(c *WorldConfig) { c.MaxParticleSpeed = -0.1 },
		func(c *WorldConfig) { c.WindSpeed = -0.1 },
		// The foil fills more than 95% of the world.
		func(c *WorldConfig) { c.Width, c.Height = 5.05, 0.62 },
		func(c *WorldConfig) { c.Foil = bigFoil },
	}

	for i, modify := range table {
		c := base
		modify(&c)
		if _, err := NewWorld(c); err == nil {
			t.Errorf("%d) Expected an error from NewWorld.", i)
		}
	}
}

func TestWorldWorkers(t *testing.T) {
	config := testWorldConfig(t)
	w, err := NewWorld(config)
	require.NoError(t, err)
	assert.Greater(t, w.Workers(), 0)

	config.Workers = 5
	w, err = NewWorld(config)
	require.NoError(t, err)
	assert.Equal(t, 5, w.Workers())
}

func TestWorldSnapshot(t *testing.T) {
	w, err := NewWorld(testWorldConfig(t))
	require.NoError(t, err)
	w.Step()

	snap := w.Snapshot()
	assert.Equal(t, 1, snap.Step)
	assert.Equal(t, ParticleRadius, snap.Radius)
	assert.Equal(t, w.Positions(), snap.Positions)
	assert.Equal(t, w.FoilShape().Vertices, snap.Foil)
	assert.Equal(t, w.ForceOnFoil(), snap.Force)
	assert.Equal(t, w.FoilEdgeForces(), snap.EdgeForces)
	assert.InDelta(t, w.NetMomentum(), snap.NetMomentum, 1e-12)

	// Snapshots are copies.
	snap.Positions[0] = geom.Vec{X: -100}
	assert.NotEqual(t, snap.Positions[0], w.Positions()[0])
}

func BenchmarkWorldStep(b *testing.B) {
	foil, err := NewNACA2412(20, 20, 30, 0.1)
	require.NoError(b, err)
	w, err := NewWorld(WorldConfig{
		Foil: foil, Width: 80, Height: 60,
		MaxParticleSpeed: 0.05, WindSpeed: 0.02,
	})
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Step()
	}
}
