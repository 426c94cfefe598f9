package mirrors

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func defaultScene(t *testing.T) *Scene {
	t.Helper()
	s, err := NewScene(DefaultLayout())
	require.NoError(t, err)
	return s
}

func TestTraceEndToEnd(t *testing.T) {
	assert := assert.New(t)
	s := defaultScene(t)

	path, err := s.TraceDegrees(0, 20)
	require.NoError(t, err)
	require.Len(t, path, 20)

	// The mirror at (450, 300) sits directly on the ray
	assertVecNear(t, V(300, 300), path[0].From)
	assertVecNear(t, V(400, 300), path[0].To)

	// Straight back toward -x, onto the mirror at (150, 300)
	assertVecNear(t, V(400, 300), path[1].From)
	assertVecNear(t, V(200, 300), path[1].To)
	assert.Less(path[1].To.X, path[1].From.X)
}

func TestTraceAtMirrorCenterReflectsBack(t *testing.T) {
	s := defaultScene(t)
	target := V(450, 150)
	angle := math.Atan2(target.Y-300, target.X-300)

	path, err := s.Trace(s.Origin(), angle, 2)
	require.NoError(t, err)
	require.Len(t, path, 2)

	in := r2.Unit(r2.Sub(path[0].To, path[0].From))
	out := r2.Unit(r2.Sub(path[1].To, path[1].From))
	assertVecNear(t, r2.Scale(-1, in), out)
	assert.InDelta(t, 50, r2.Norm(r2.Sub(path[0].To, target)), 1e-9)
}

func TestTracePathInvariants(t *testing.T) {
	s := defaultScene(t)
	rng := rand.New(rand.NewSource(7))

	angles := []float64{}
	for a := 0.0; a < 360; a += 7 {
		angles = append(angles, a)
	}
	for i := 0; i < 50; i++ {
		angles = append(angles, rng.Float64()*360)
	}

	for _, maxBounces := range []int{1, 5, 20, 60} {
		for _, angle := range angles {
			path, err := s.TraceDegrees(angle, maxBounces)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(path), maxBounces)
			// The enclosure guarantees every bounce finds a reflector
			assert.Len(t, path, maxBounces, "angle %v", angle)
			for i, seg := range path {
				assert.Greater(t, seg.Length(), s.Epsilon(), "angle %v segment %d", angle, i)
				if i > 0 {
					assert.Equal(t, path[i-1].To, seg.From, "angle %v segment %d", angle, i)
				}
			}
		}
	}
}

func TestTraceDeterministic(t *testing.T) {
	s := defaultScene(t)
	for _, angle := range []float64{0, 12.5, 33.3333, 271} {
		a, err := s.TraceDegrees(angle, 40)
		require.NoError(t, err)
		b, err := s.TraceDegrees(angle, 40)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Equal(t, a.Digest(), b.Digest())
	}
}

func TestTraceDigestDiffers(t *testing.T) {
	s := defaultScene(t)
	a, err := s.TraceDegrees(10, 20)
	require.NoError(t, err)
	b, err := s.TraceDegrees(10.0001, 20)
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest(), b.Digest())
}

func TestTraceErrors(t *testing.T) {
	s := defaultScene(t)

	_, err := s.TraceRay(Ray{Origin: s.Origin(), Direction: V(0, 0)}, 10)
	assert.ErrorIs(t, err, ErrDegenerateDirection)

	_, err = s.TraceRay(Ray{Origin: s.Origin(), Direction: V(math.NaN(), 1)}, 10)
	assert.ErrorIs(t, err, ErrDegenerateDirection)

	_, err = s.Trace(s.Origin(), math.Inf(1), 10)
	assert.ErrorIs(t, err, ErrDegenerateDirection)

	_, err = s.TraceDegrees(math.NaN(), 10)
	assert.ErrorIs(t, err, ErrDegenerateDirection)

	_, err = s.Trace(s.Origin(), 0, -1)
	assert.ErrorIs(t, err, ErrInvalidBounceLimit)
}

func TestTraceBounceCaps(t *testing.T) {
	s := defaultScene(t)

	path, err := s.Trace(s.Origin(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = s.TraceDegrees(45, 0)
	require.NoError(t, err)
	assert.Len(t, path, DefaultMaxBounces)

	custom := DefaultLayout()
	custom.MaxBounces = 7
	cs, err := NewScene(custom)
	require.NoError(t, err)
	path, err = cs.TraceDegrees(45, 0)
	require.NoError(t, err)
	assert.Len(t, path, 7)
}

func TestTraceStopsWhenNothingIsHit(t *testing.T) {
	// An open scene: one mirror, no walls
	s := &Scene{
		reflectors: []Reflector{Circle{Center: V(10, 0), Radius: 1}},
		epsilon:    DefaultEpsilon,
		maxBounces: DefaultMaxBounces,
	}
	path, err := s.TraceRay(Ray{Origin: V(0, 0), Direction: V(1, 0)}, 20)
	require.NoError(t, err)
	require.Len(t, path, 1)
	assertVecNear(t, V(9, 0), path[0].To)
}

func TestNearestHitTieBreak(t *testing.T) {
	assert := assert.New(t)
	wall := Wall{P1: V(4, -1), P2: V(6, 1)}
	mirror := Circle{Center: V(6, 0), Radius: 1}
	ray := Ray{Origin: V(0, 0), Direction: V(1, 0)}

	wallFirst := &Scene{reflectors: []Reflector{wall, mirror}, epsilon: DefaultEpsilon}
	hit, ok := wallFirst.nearestHit(ray)
	assert.True(ok)
	assert.Equal(5.0, hit.T)
	assertVecNear(t, V(-math.Sqrt2/2, math.Sqrt2/2), hit.Normal)

	mirrorFirst := &Scene{reflectors: []Reflector{mirror, wall}, epsilon: DefaultEpsilon}
	hit, ok = mirrorFirst.nearestHit(ray)
	assert.True(ok)
	assert.Equal(5.0, hit.T)
	assertVecNear(t, V(-1, 0), hit.Normal)
}

func TestNearestHitPicksClosest(t *testing.T) {
	s := defaultScene(t)
	// Along +y from the origin the mirror at (300, 450) is hit before the bottom wall
	hit, ok := s.nearestHit(Ray{Origin: s.Origin(), Direction: V(0, 1)})
	assert.True(t, ok)
	assertVecNear(t, V(300, 400), hit.Point)
}

func TestPathHelpers(t *testing.T) {
	assert := assert.New(t)
	p := Path{
		{From: V(0, 0), To: V(3, 4)},
		{From: V(3, 4), To: V(3, 0)},
	}
	assert.InDelta(9, p.Length(), 1e-12)
	assert.Equal([]r2.Vec{V(0, 0), V(3, 4), V(3, 0)}, p.Points())
	end, ok := p.End()
	assert.True(ok)
	assert.Equal(V(3, 0), end)

	var empty Path
	assert.Nil(empty.Points())
	_, ok = empty.End()
	assert.False(ok)
}

func TestTraceCornerHitReversesRay(t *testing.T) {
	assert := assert.New(t)
	layout := DefaultLayout()
	s, err := NewSceneFromParts(layout.Center(), nil, layout.Walls(), DefaultEpsilon)
	require.NoError(t, err)

	// A 225 degree launch from the center lands exactly on the corner
	path, err := s.TraceRay(Ray{Origin: layout.Center(), Direction: V(-1, -1)}, 6)
	require.NoError(t, err)
	require.Len(t, path, 6)
	for i, seg := range path {
		corner := V(50, 50)
		if i%2 == 1 {
			corner = V(550, 550)
		}
		assertVecNear(t, corner, seg.To, "segment %d", i)
	}
	assert.True(s.atCorner(V(550, 50)))
}

func TestTraceSplitWallIsNotACorner(t *testing.T) {
	assert := assert.New(t)
	walls := []Wall{
		{V(50, 50), V(300, 50)},
		{V(300, 50), V(550, 50)},
		{V(550, 50), V(550, 550)},
		{V(550, 550), V(50, 550)},
		{V(50, 550), V(50, 50)},
	}
	s, err := NewSceneFromParts(V(200, 300), nil, walls, DefaultEpsilon)
	require.NoError(t, err)
	assert.False(s.atCorner(V(300, 50)))

	path, err := s.TraceRay(Ray{Origin: V(200, 300), Direction: V(100, -250)}, 2)
	require.NoError(t, err)
	require.Len(t, path, 2)
	assertVecNear(t, V(300, 50), path[0].To)
	out := r2.Sub(path[1].To, path[1].From)
	assert.Greater(out.X, 0.0)
	assert.Greater(out.Y, 0.0)
}
