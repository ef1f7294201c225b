package projectile

import "github.com/go-gl/mathgl/mgl64"

// Projectile is a straight flying shot with a finite lifetime.
type Projectile struct {
	Owner     string     `cbor:"owner"`
	Position  mgl64.Vec3 `cbor:"position"`
	Direction mgl64.Vec3 `cbor:"direction"`
	Speed     float64    `cbor:"speed"`
	Lifetime  float64    `cbor:"lifetime"`
}

// New returns a projectile moving along the direction passed, which is normalised.
func New(owner string, pos, dir mgl64.Vec3, speed, lifetime float64) Projectile {
	if dir.LenSqr() > 0 {
		dir = dir.Normalize()
	}
	return Projectile{Owner: owner, Position: pos, Direction: dir, Speed: speed, Lifetime: lifetime}
}

// Expired returns true if the projectile has run out of lifetime.
func (p Projectile) Expired() bool {
	return p.Lifetime <= 0
}

// Step advances every projectile in the list by dt, then tests each against the target. A projectile
// that comes within radius of the target is consumed and counted as a hit. Expired and consumed
// projectiles are removed from the returned list, which reuses the backing array of the one passed.
func Step(list []Projectile, dt float64, target mgl64.Vec3, radius float64) ([]Projectile, int) {
	kept := list[:0]
	hits := 0
	for _, p := range list {
		p.Lifetime -= dt
		p.Position = p.Position.Add(p.Direction.Mul(p.Speed * dt))
		if p.Position.Sub(target).LenSqr() < radius*radius {
			hits++
			continue
		}
		if p.Expired() {
			continue
		}
		kept = append(kept, p)
	}
	clear(list[len(kept):])
	return kept, hits
}

// Advance moves every projectile in the list by dt without testing for hits.
func Advance(list []Projectile, dt float64) []Projectile {
	kept := list[:0]
	for _, p := range list {
		p.Lifetime -= dt
		p.Position = p.Position.Add(p.Direction.Mul(p.Speed * dt))
		if !p.Expired() {
			kept = append(kept, p)
		}
	}
	clear(list[len(kept):])
	return kept
}
