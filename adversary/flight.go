package adversary

import (
	"math/rand"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/game"
	"github.com/maskfall/sim/settings"
	opt "github.com/repeale/fp-go/option"
	"github.com/zeebo/xxh3"
)

// Bounds is the horizontal rectangle free flight targets are picked in.
type Bounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// BoundsFromArea shrinks the flight area passed by the padding passed. Without an area the bounds
// span the extent passed around the origin.
func BoundsFromArea(area opt.Option[cube.BBox], padding, extent float64) Bounds {
	if opt.IsNone(area) {
		return Bounds{MinX: -extent, MaxX: extent, MinZ: -extent, MaxZ: extent}
	}
	min, max := area.Value.Min(), area.Value.Max()
	b := Bounds{MinX: min.X() + padding, MaxX: max.X() - padding, MinZ: min.Z() + padding, MaxZ: max.Z() - padding}
	// An area smaller than its padding collapses onto its centre.
	if b.MinX > b.MaxX {
		b.MinX = (min.X() + max.X()) / 2
		b.MaxX = b.MinX
	}
	if b.MinZ > b.MaxZ {
		b.MinZ = (min.Z() + max.Z()) / 2
		b.MaxZ = b.MinZ
	}
	return b
}

// Centre returns the centre of the bounds at the height passed.
func (b Bounds) Centre(y float64) mgl64.Vec3 {
	return mgl64.Vec3{(b.MinX + b.MaxX) / 2, y, (b.MinZ + b.MaxZ) / 2}
}

func (b Bounds) random(rng *rand.Rand, y float64) mgl64.Vec3 {
	return mgl64.Vec3{
		b.MinX + rng.Float64()*(b.MaxX-b.MinX),
		y,
		b.MinZ + rng.Float64()*(b.MaxZ-b.MinZ),
	}
}

// Steer turns the velocity passed towards the target with a force of at most maxForce, then
// renormalises it so that the result always has a length of maxSpeed.
func Steer(position, velocity, target mgl64.Vec3, maxSpeed, maxForce, dt float64) mgl64.Vec3 {
	desired := target.Sub(position)
	if desired.LenSqr() > 0 {
		desired = desired.Normalize().Mul(maxSpeed)
	}
	steer := desired.Sub(velocity)
	if l := steer.Len(); l > maxForce {
		steer = steer.Mul(maxForce / l)
	}
	next := velocity.Add(steer.Mul(dt))
	if next.LenSqr() == 0 {
		// Fully cancelled out: keep heading for the target, or the previous heading.
		if next = desired; next.LenSqr() == 0 {
			if next = velocity; next.LenSqr() == 0 {
				next = game.Forward
			}
		}
	}
	return next.Normalize().Mul(maxSpeed)
}

// flight is the state of the free flight behaviour.
type flight struct {
	conf   settings.Flight
	bounds Bounds
	target mgl64.Vec3
	rng    *rand.Rand
}

func newFlight(conf settings.Flight, bounds Bounds) *flight {
	return &flight{
		conf:   conf,
		bounds: bounds,
		rng:    rand.New(rand.NewSource(int64(xxh3.HashString(conf.Seed)))),
	}
}

// pickTarget picks a far point roughly ahead of the heading passed. When no candidate lies in the
// cone it falls back to a far point anywhere in the bounds, and to the farthest point drawn when the
// bounds hold none.
func (f *flight) pickTarget(position, velocity mgl64.Vec3) {
	heading := velocity
	if heading.LenSqr() > 0 {
		heading = heading.Normalize()
	}
	for i := 0; i < f.conf.TargetAttempts; i++ {
		candidate := f.bounds.random(f.rng, f.conf.TargetAltitude+f.rng.Float64()*f.conf.TargetAltRange)
		to := candidate.Sub(position)
		dist := to.Len()
		if dist <= f.conf.MinTargetDist || dist == 0 {
			continue
		}
		if heading.Dot(to.Mul(1/dist)) > f.conf.ConeDot {
			f.target = candidate
			return
		}
	}

	var best mgl64.Vec3
	bestDist := -1.0
	for i := 0; i < max(1, f.conf.TargetAttempts); i++ {
		candidate := f.bounds.random(f.rng, f.conf.FallbackAltitude)
		dist := candidate.Sub(position).Len()
		if dist > f.conf.MinTargetDist {
			f.target = candidate
			return
		}
		if dist > bestDist {
			best, bestDist = candidate, dist
		}
	}
	f.target = best
}

// update steers the adversary for a frame.
func (f *flight) update(a *Adversary, dt float64) {
	if a.position.Sub(f.target).Len() < f.conf.ArrivalRadius {
		f.pickTarget(a.position, a.velocity)
	}
	a.velocity = Steer(a.position, a.velocity, f.target, f.conf.MaxSpeed, f.conf.MaxForce, dt)
	a.position = a.position.Add(a.velocity.Mul(dt))

	if y := a.position.Y(); y < f.conf.AltitudeFloor {
		a.position[1] += (f.conf.AltitudeFloor - y) * f.conf.AltitudeNudge
	} else if y > f.conf.AltitudeCeiling {
		a.position[1] += (f.conf.AltitudeCeiling - y) * f.conf.AltitudeNudge
	}

	if a.velocity.LenSqr() <= f.conf.MinTurnSpeed {
		return
	}
	dir := a.velocity.Normalize()
	forward := a.orientation.Rotate(game.Forward)
	turn := forward.Cross(dir).Y()
	bank := mgl64.Clamp(-turn*f.conf.BankFactor*a.conf.BankSign, -f.conf.BankLimit, f.conf.BankLimit)

	k := game.RateFactor(f.conf.TurnRate, dt)
	target := game.YawQuat(game.Yaw(dir)).Mul(mgl64.QuatRotate(bank, game.Forward))
	a.orientation = game.Slerp(a.orientation, target, k)
	a.roll = game.Lerp(a.roll, bank, k)
}
