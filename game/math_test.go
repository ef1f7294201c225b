package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{math.Pi, -math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{5 * math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, WrapAngle(tt.in), 1e-9, "WrapAngle(%v)", tt.in)
	}
}

func TestDampIsFrameRateIndependent(t *testing.T) {
	run := func(steps int) float64 {
		v, dt := 10.0, 1.0/float64(steps)
		for i := 0; i < steps; i++ {
			v = Damp(v, 0, 0.25, dt)
		}
		return v
	}
	assert.InDelta(t, run(30), run(60), 1e-9)
	assert.InDelta(t, run(60), run(240), 1e-9)
	assert.Equal(t, 1.0, DampFactor(1, 0.01))
}

func TestSlerpTakesShortestArc(t *testing.T) {
	a := YawQuat(0)
	b := YawQuat(math.Pi / 2).Scale(-1)
	mid := Slerp(a, b, 0.5)
	assert.InDelta(t, math.Pi/4, QuatYaw(mid), 1e-9)
}

func TestYawRoundTrip(t *testing.T) {
	for _, yaw := range []float64{-3, -1, 0, 0.5, 2.5} {
		assert.InDelta(t, yaw, QuatYaw(YawQuat(yaw)), 1e-9)
	}
	assert.InDelta(t, math.Pi/2, Yaw(mgl64.Vec3{1, 0, 0}), 1e-12)
}

func TestLookRotation(t *testing.T) {
	dir := mgl64.Vec3{1, 1, 0}.Normalize()
	got := LookRotation(dir).Rotate(Forward)
	assert.InDelta(t, 0, got.Sub(dir).Len(), 1e-9)
	assert.Equal(t, mgl64.QuatIdent(), LookRotation(mgl64.Vec3{}))
}

func TestSpherical(t *testing.T) {
	assert.InDelta(t, 0, Spherical(2, 0, 1).Sub(mgl64.Vec3{0, 2, 0}).Len(), 1e-12)
	assert.InDelta(t, 0, Spherical(2, math.Pi/2, 0).Sub(mgl64.Vec3{0, 0, 2}).Len(), 1e-12)
	assert.InDelta(t, 0, Spherical(2, math.Pi/2, math.Pi/2).Sub(mgl64.Vec3{2, 0, 0}).Len(), 1e-12)
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(-1))
	assert.Equal(t, 0.5, Smoothstep(0.5))
	assert.Equal(t, 1.0, Smoothstep(2))
}
