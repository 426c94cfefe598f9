package mirrors

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSweepAngles(t *testing.T) {
	tests := []struct {
		name    string
		params  SweepParams
		want    []float64
		wantErr bool
	}{
		{"quarter_steps", SweepParams{StartDeg: 0, StopDeg: 1, StepDeg: 0.25}, []float64{0, 0.25, 0.5, 0.75, 1}, false},
		{"stop_off_grid", SweepParams{StartDeg: 10, StopDeg: 15, StepDeg: 2}, []float64{10, 12, 14}, false},
		{"single", SweepParams{StartDeg: 5, StopDeg: 5, StepDeg: 1}, []float64{5}, false},
		{"tenth_steps_include_stop", SweepParams{StartDeg: 0, StopDeg: 0.3, StepDeg: 0.1}, nil, false},
		{"zero_step", SweepParams{StartDeg: 0, StopDeg: 10, StepDeg: 0}, nil, true},
		{"reversed", SweepParams{StartDeg: 10, StopDeg: 0, StepDeg: 1}, nil, true},
		{"infinite_stop", SweepParams{StartDeg: 0, StopDeg: math.Inf(1), StepDeg: 1}, nil, true},
		{"nan_start", SweepParams{StartDeg: math.NaN(), StopDeg: 10, StepDeg: 1}, nil, true},
		{"infinite_step", SweepParams{StartDeg: 0, StopDeg: 10, StepDeg: math.Inf(1)}, nil, true},
		{"nan_step", SweepParams{StartDeg: 0, StopDeg: 10, StepDeg: math.NaN()}, nil, true},
		{"too_many_angles", SweepParams{StartDeg: 0, StopDeg: 360, StepDeg: 1e-6}, nil, true},
		{"tiny_step", SweepParams{StartDeg: 0, StopDeg: 1, StepDeg: 1e-300}, nil, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			angles, err := test.params.Angles()
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if test.want == nil {
				assert.Len(t, angles, 4)
				return
			}
			assert.InDeltaSlice(t, test.want, angles, 1e-12)
		})
	}
}

func TestSweepMatchesSequentialTrace(t *testing.T) {
	assert := assert.New(t)
	s := defaultScene(t)

	results, err := Sweep(context.Background(), s, SweepParams{StartDeg: 0, StopDeg: 359, StepDeg: 1, Workers: 4}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, results, 360)

	for i, r := range results {
		assert.Equal(float64(i), r.AngleDeg)
		assert.Equal(DefaultMaxBounces, r.Bounces)
		assert.False(r.Escaped)

		path, err := s.TraceDegrees(r.AngleDeg, DefaultMaxBounces)
		require.NoError(t, err)
		assert.Equal(path.Digest(), r.Digest, "angle %v", r.AngleDeg)
		assert.Equal(path.Length(), r.Length)
	}
}

func TestSweepBounceCap(t *testing.T) {
	s := defaultScene(t)
	results, err := Sweep(context.Background(), s, SweepParams{StartDeg: 0, StopDeg: 90, StepDeg: 15, MaxBounces: 3}, nil)
	require.NoError(t, err)
	require.Len(t, results, 7)
	for _, r := range results {
		assert.Equal(t, 3, r.Bounces)
	}
}

func TestSweepCancelled(t *testing.T) {
	s := defaultScene(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Sweep(ctx, s, SweepParams{StartDeg: 0, StopDeg: 359, StepDeg: 1}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestSweepInvalidParams(t *testing.T) {
	s := defaultScene(t)
	_, err := Sweep(context.Background(), s, SweepParams{StartDeg: 0, StopDeg: 10, StepDeg: -1}, nil)
	assert.Error(t, err)
}

func TestTraceConcurrentUse(t *testing.T) {
	s := defaultScene(t)
	want, err := s.TraceDegrees(23, 50)
	require.NoError(t, err)

	done := make(chan Path, 16)
	for i := 0; i < cap(done); i++ {
		go func() {
			p, _ := s.TraceDegrees(23, 50)
			done <- p
		}()
	}
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, want.Digest(), (<-done).Digest())
	}
}
