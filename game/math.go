package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ReferenceFrameRate is the tick rate that per-frame fractions are tuned against.
const ReferenceFrameRate = 60.0

var (
	// Up is the world up axis.
	Up = mgl64.Vec3{0, 1, 0}
	// Forward is the local forward axis of every oriented body.
	Forward = mgl64.Vec3{0, 0, 1}
)

// Round64 will round a float64 to a given precision.
func Round64(val float64, precision int) float64 {
	pwr := math.Pow(10, float64(precision))
	return math.Round(val*pwr) / pwr
}

// RoundVec64 will round a 64-bit vector to a given precision.
func RoundVec64(v mgl64.Vec3, p int) mgl64.Vec3 {
	return mgl64.Vec3{Round64(v.X(), p), Round64(v.Y(), p), Round64(v.Z(), p)}
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep eases t, clamped to [0, 1], with zero slope at both ends.
func Smoothstep(t float64) float64 {
	t = mgl64.Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// DampFactor converts a fraction applied once per reference tick into the blend factor to apply
// over dt seconds, so that the result converges at the same rate regardless of frame rate.
func DampFactor(fraction, dt float64) float64 {
	if fraction >= 1 {
		return 1
	}
	return 1 - math.Pow(1-fraction, dt*ReferenceFrameRate)
}

// Damp moves a towards b by a frame rate independent fraction.
func Damp(a, b, fraction, dt float64) float64 {
	return Lerp(a, b, DampFactor(fraction, dt))
}

// DampVec3 moves a towards b by a frame rate independent fraction.
func DampVec3(a, b mgl64.Vec3, fraction, dt float64) mgl64.Vec3 {
	k := DampFactor(fraction, dt)
	return a.Add(b.Sub(a).Mul(k))
}

// RateFactor converts a rate per second into a blend factor over dt, capped at 1.
func RateFactor(rate, dt float64) float64 {
	return math.Min(1, rate*dt)
}

// WrapAngle wraps an angle in radians into [-π, π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// HorizontalLen returns the length of the vector on the XZ plane.
func HorizontalLen(v mgl64.Vec3) float64 {
	return math.Hypot(v.X(), v.Z())
}

// Flatten drops the vertical component of a vector.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// Yaw returns the heading of a direction, measured from +Z towards +X.
func Yaw(dir mgl64.Vec3) float64 {
	return math.Atan2(dir.X(), dir.Z())
}

// YawQuat returns a rotation about the up axis.
func YawQuat(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, Up)
}

// QuatYaw extracts the heading of an orientation.
func QuatYaw(q mgl64.Quat) float64 {
	return Yaw(q.Rotate(Forward))
}

// LookRotation returns the orientation whose forward axis points along dir with no roll.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	if dir.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	dir = dir.Normalize()
	pitch := -math.Asin(mgl64.Clamp(dir.Y(), -1, 1))
	return YawQuat(Yaw(dir)).Mul(mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0}))
}

// Slerp interpolates between two orientations along the shortest arc.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, mgl64.Clamp(t, 0, 1)).Normalize()
}

// Spherical converts spherical coordinates to a cartesian offset. The polar angle is measured
// from the up axis and the azimuth from +Z towards +X.
func Spherical(radius, polar, azimuth float64) mgl64.Vec3 {
	s := math.Sin(polar)
	return mgl64.Vec3{
		radius * s * math.Sin(azimuth),
		radius * math.Cos(polar),
		radius * s * math.Cos(azimuth),
	}
}
