package wingworks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/wingworks/geom"
)

func testFoil(t *testing.T) *AirFoil {
	foil, err := NewNACA2412(0, 0, 100, 0)
	require.NoError(t, err)
	return foil
}

func angle(v geom.Vec) float64 {
	u := v.Unit()
	return math.Atan2(u.Y, u.X)
}

// exampleFoilShape is a foil outline taken from a simulation in which
// particles were left inside the foil after colliding with it.
func exampleFoilShape(t *testing.T) *geom.Polygon {
	coords := [][2]float64{
		{21.61566625583794, 30.582579917106106},
		{22.285935920085585, 31.40518764019059},
		{22.86876914734008, 31.675743426771763},
		{23.998393101103794, 31.98929160626099},
		{25.107325989624854, 32.17220154123417},
		{26.205579618665837, 32.28768528548939},
		{28.378058542917618, 32.36694384488441},
		{30.528511494491735, 32.307135885923635},
		{32.662945556845735, 32.14618864088592},
		{34.78403054484963, 31.90095865745075},
		{38.99282783498218, 31.199791844586784},
		{43.16958734667449, 30.296346459568934},
		{47.32498833940664, 29.25804869311516},
		{51.46036572061364, 28.09332681906521},
		{55.57905675888301, 26.823251522018445},
		{59.68172890793227, 25.45203693889474},
		{61.72605671842308, 24.722181209674225},
		{63.765712352891384, 23.9628265220146},
		{63.748358556236255, 23.85325896209791},
		{61.61792921618728, 24.039491028654865},
		{59.48816732985583, 24.22993723213169},
		{55.228643557192896, 24.61082963908534},
		{50.97178959939998, 25.008578593718475},
		{46.71627054904209, 25.41475582219136},
		{42.463421313554214, 25.837789598343736},
		{38.2185815226764, 26.31139301753458},
		{33.98308608384365, 26.843994353603644},
		{31.869343086732307, 27.135579843157412},
		{29.76160717307851, 27.46509256499003},
		{27.663215611469777, 27.853603203700867},
		{25.57950803164616, 28.3348248546489},
		{24.545329959485656, 28.62389825470145},
		{23.521831146805233, 28.980397845471963},
		{22.517688491932457, 29.459107406918783},
		{22.032303507433692, 29.803815610639006},
	}
	vs := make([]geom.Vec, len(coords))
	for i, c := range coords {
		vs[i] = geom.Vec{X: c[0], Y: c[1]}
	}
	poly, err := geom.NewPolygon(vs)
	require.NoError(t, err)
	return poly
}

func TestNewNACA2412(t *testing.T) {
	foil := testFoil(t)
	assert.Len(t, foil.Shape.Vertices, 26)
	assert.Equal(t, geom.Vec{}, foil.V)
	assert.InDelta(t, 0.0, foil.S.X, 1e-9)
	assert.InDelta(t, 0.0, foil.S.Y, 1e-9)

	_, err := NewNACA2412(0, 0, 0, 0)
	assert.Error(t, err)
}

func TestOverlapAlongAxis(t *testing.T) {
	sq, err := geom.NewPolygon([]geom.Vec{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}})
	require.NoError(t, err)
	sat := NewSATPolyCollision(sq)
	x := geom.Vec{X: 1}

	table := []struct {
		x    float64
		dist float64
		ok   bool
	}{
		{2.1, 0.025, true},
		{-0.1, -0.025, true},
		{1.5, 0.625, true},
		{0.5, -0.625, true},
		{2.125, 0, false},
		{3, 0, false},
		{-1, 0, false},
	}

	for i, test := range table {
		p := NewParticle(geom.Vec{X: test.x, Y: 1}, geom.Vec{})
		dist, ok := sat.OverlapAlongAxis(p, x)
		if ok != test.ok || math.Abs(dist-test.dist) > 1e-12 {
			t.Errorf("%d) Expected OverlapAlongAxis(%g) = (%g, %v), got (%g, %v).",
				i, test.x, test.dist, test.ok, dist, ok)
		}
	}
}

func TestCollisionNormalSquare(t *testing.T) {
	sq, err := geom.NewPolygon([]geom.Vec{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}})
	require.NoError(t, err)
	sat := NewSATPolyCollision(sq)

	// Just inside the right face.
	p := NewParticle(geom.Vec{X: 1.95, Y: 1}, geom.Vec{})
	edge, push, overlap, ok := sat.CollisionNormal(p)
	require.True(t, ok)
	assert.GreaterOrEqual(t, edge, 0)
	assert.InDelta(t, 0.175, overlap, 1e-12)
	assert.InDelta(t, 0.175, push.X, 1e-12)
	assert.InDelta(t, 0.0, push.Y, 1e-12)

	// Past a corner along the diagonal, outside the circle's reach.
	p = NewParticle(geom.Vec{X: 2.1, Y: 2.1}, geom.Vec{})
	_, _, _, ok = sat.CollisionNormal(p)
	assert.False(t, ok)

	// Near a corner along the diagonal, the corner's axis is shortest.
	p = NewParticle(geom.Vec{X: 2.05, Y: 2.05}, geom.Vec{})
	edge, push, _, ok = sat.CollisionNormal(p)
	require.True(t, ok)
	assert.Equal(t, -1, edge)
	assert.Greater(t, push.X, 0.0)
	assert.InDelta(t, push.X, push.Y, 1e-12)

	// A particle sitting on a vertex has no direction to be pushed in.
	p = NewParticle(geom.Vec{X: 2, Y: 2}, geom.Vec{})
	_, _, _, ok = sat.CollisionNormal(p)
	assert.False(t, ok)

	// Far away.
	p = NewParticle(geom.Vec{X: 10, Y: 1}, geom.Vec{})
	_, _, _, ok = sat.CollisionNormal(p)
	assert.False(t, ok)
}

func TestFoilCollideNearLeadingEdge(t *testing.T) {
	foil := testFoil(t)
	ac := NewAirFoilCollision(foil)

	v0 := geom.Vec{X: 0.1}
	p := NewParticle(foil.Shape.Vertices[0].Add(geom.Vec{X: 0.01}), v0)
	require.True(t, foil.Shape.Contains(p.S))

	_, force, ok := ac.Collide(p)
	assert.True(t, ok)
	assert.Greater(t, force.MagSqr(), 0.0)
	assert.False(t, foil.Shape.Contains(p.S))
	assert.NotEqual(t, angle(v0), angle(p.V))
}

func TestFoilCollideVertices(t *testing.T) {
	foil := testFoil(t)
	ac := NewAirFoilCollision(foil)

	for _, i := range []int{10, 18, 25} {
		v0 := geom.Vec{X: 0.1}
		s0 := foil.Shape.Vertices[i].Add(geom.Vec{X: 0.01, Y: 0.01})
		p := NewParticle(s0, v0)

		_, force, ok := ac.Collide(p)
		assert.True(t, ok, "vertex %d", i)
		assert.False(t, foil.Shape.Contains(p.S),
			"vertex %d: particle ended inside foil: %v -> %v", i, s0, p.S)
		if force.MagSqr() > 0 {
			assert.NotEqual(t, angle(v0), angle(p.V), "vertex %d", i)
		}
	}
}

func TestFoilCollideMidEdges(t *testing.T) {
	foil := testFoil(t)
	ac := NewAirFoilCollision(foil)

	for _, i := range []int{5, 20, 23} {
		e := foil.Shape.Edges[i]
		s0 := e.P0.Add(e.Pf).Scale(0.5)
		// Blow into the edge.
		v0 := geom.Vec{X: 0.1}.Add(foil.Shape.EdgeNormals[i].Scale(-0.01))
		p := NewParticle(s0, v0)

		_, force, ok := ac.Collide(p)
		assert.True(t, ok, "edge %d", i)
		assert.Greater(t, force.Mag(), 0.0, "edge %d", i)
		assert.False(t, foil.Shape.Contains(p.S),
			"edge %d: particle moved inside foil: %v -> %v", i, s0, p.S)
		assert.NotEqual(t, angle(v0), angle(p.V), "edge %d", i)
	}
}

func TestFoilCollideMovesOutside(t *testing.T) {
	poly := exampleFoilShape(t)
	s0, v0 := geom.Vec{X: 23.25846245734957, Y: 30.378718758110857}, geom.Vec{X: 3}

	sat := NewSATPolyCollision(poly)
	_, _, overlap, ok := sat.CollisionNormal(NewParticle(s0, v0))
	require.True(t, ok)
	assert.InDelta(t, 1.2738855345064835, overlap, 1e-5)

	ac := NewAirFoilCollision(NewAirFoil(poly, geom.Vec{}))
	p := NewParticle(s0, v0)
	_, _, ok = ac.Collide(p)
	assert.True(t, ok)
	assert.True(t, poly.Contains(s0))
	assert.False(t, poly.Contains(p.S))
	assert.NotEqual(t, v0, p.V)
}

// The force a particle exerts on the foil must push the foil, never pull
// it.
func TestFoilRecoilPushes(t *testing.T) {
	poly := exampleFoilShape(t)
	ac := NewAirFoilCollision(NewAirFoil(poly, geom.Vec{}))

	table := []struct {
		s, v geom.Vec
		edge int
	}{
		{
			geom.Vec{X: 52.44017413168943, Y: 27.889193305986247},
			geom.Vec{X: 2.9852556164223527, Y: 0.037031388844566804},
			13,
		},
		{
			geom.Vec{X: 36.94759769359838, Y: 26.432684776816743},
			geom.Vec{X: 3.0023826998695546, Y: -0.023640365531086047},
			25,
		},
	}

	for i, test := range table {
		p := NewParticle(test.s, test.v)
		edge, force, ok := ac.Collide(p)
		require.True(t, ok, "%d)", i)
		if edge != test.edge {
			t.Errorf("%d) Expected edge %d, got %d.", i, test.edge, edge)
			continue
		}
		assert.NotEqual(t, test.s, p.S, "%d)", i)

		n := poly.EdgeNormals[edge]
		if force.Mag() > 0 {
			assert.Less(t, n.Dot(force), 0.0, "%d)", i)
		}
		dv := p.V.Sub(test.v)
		if dv.Mag() > 0 {
			assert.GreaterOrEqual(t, n.Dot(dv), 0.0, "%d)", i)
		}
	}
}

func TestFoilCollideMovingAway(t *testing.T) {
	sq, err := geom.NewPolygon([]geom.Vec{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}})
	require.NoError(t, err)
	ac := NewAirFoilCollision(NewAirFoil(sq, geom.Vec{}))

	v0 := geom.Vec{X: 0.5}
	p := NewParticle(geom.Vec{X: 1.95, Y: 1}, v0)
	edge, force, ok := ac.Collide(p)
	require.True(t, ok)
	assert.GreaterOrEqual(t, edge, 0)
	assert.Equal(t, geom.Vec{}, force)
	assert.Equal(t, v0, p.V)
	assert.InDelta(t, 2.125, p.S.X, 1e-12)

	// A head-on hit reverses the particle and pushes the foil.
	p = NewParticle(geom.Vec{X: 1.95, Y: 1}, geom.Vec{X: -0.5})
	_, force, ok = ac.Collide(p)
	require.True(t, ok)
	assert.InDelta(t, 0.5, p.V.X, 1e-12)
	assert.InDelta(t, -1.0, force.X, 1e-12)
}

func TestFoilCollideTinyPush(t *testing.T) {
	sq, err := geom.NewPolygon([]geom.Vec{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}})
	require.NoError(t, err)
	ac := NewAirFoilCollision(NewAirFoil(sq, geom.Vec{}))

	s0, v0 := geom.Vec{X: 2.1245, Y: 1}, geom.Vec{X: -0.5}
	p := NewParticle(s0, v0)
	_, force, ok := ac.Collide(p)
	assert.True(t, ok)
	assert.Equal(t, geom.Vec{}, force)
	assert.Equal(t, s0, p.S)
	assert.Equal(t, v0, p.V)
}
