package player

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/game"
	"github.com/maskfall/sim/projectile"
	"github.com/maskfall/sim/world"
)

// Mount is something the player can stand on and ride, such as an adversary.
type Mount interface {
	// ID returns a string that identifies the mount.
	ID() string
	// Velocity returns the current velocity of the mount.
	Velocity() mgl64.Vec3
}

// Body is the simulated state of the player. It is mutated by the locomotion Controller and, while
// the player stands on an adversary, by the mount arbiter.
type Body struct {
	Position     mgl64.Vec3
	LastPosition mgl64.Vec3
	Orientation  mgl64.Quat

	VelocityY float64
	// Momentum is horizontal velocity carried from a mount jump. It is only applied while airborne.
	Momentum mgl64.Vec3

	Grounded        bool
	LandingCooldown float64
	Surface         world.Material

	// Mount is the mount currently being stood on, or nil.
	Mount Mount

	Moving     bool
	Speed      float64
	VisualRoll float64
	Flash      float64

	Bolts []projectile.Projectile
}

// NewBody returns a body at rest at the position passed, facing +Z.
func NewBody(pos mgl64.Vec3) *Body {
	return &Body{
		Position:     pos,
		LastPosition: pos,
		Orientation:  mgl64.QuatIdent(),
	}
}

// SetPosition sets the position of the body, keeping the previous one.
func (b *Body) SetPosition(pos mgl64.Vec3) {
	b.LastPosition = b.Position
	b.Position = pos
}

// Mounted returns true if the body is standing on a mount.
func (b *Body) Mounted() bool {
	return b.Mount != nil
}

// Facing returns the horizontal direction the body is facing.
func (b *Body) Facing() mgl64.Vec3 {
	f := game.Flatten(b.Orientation.Rotate(game.Forward))
	if f.LenSqr() == 0 {
		return game.Forward
	}
	return f.Normalize()
}

// Yaw returns the heading of the body in radians.
func (b *Body) Yaw() float64 {
	return game.QuatYaw(b.Orientation)
}

// Flashing returns true while the damage flash of the body is showing.
func (b *Body) Flashing() bool {
	return b.Flash > 0
}
