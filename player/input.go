package player

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/game"
)

// InputState is the input for a single frame.
type InputState struct {
	// Move is the movement stick. X points right and Y points forward, relative to the camera.
	Move mgl64.Vec2 `cbor:"move" toml:"move"`
	// Jump and Attack are discrete triggers for the frame.
	Jump   bool `cbor:"jump" toml:"jump"`
	Attack bool `cbor:"attack" toml:"attack"`
}

// Basis is the camera relative frame that movement input is expressed in.
type Basis struct {
	Forward mgl64.Vec3
	Right   mgl64.Vec3
}

// BasisFromForward returns the horizontal movement basis of a camera looking along the direction
// passed. A vertical or zero direction falls back to world +Z.
func BasisFromForward(dir mgl64.Vec3) Basis {
	f := game.Flatten(dir)
	if f.LenSqr() < 1e-12 {
		f = game.Forward
	}
	f = f.Normalize()
	return Basis{Forward: f, Right: f.Cross(game.Up)}
}

// direction returns the horizontal world direction and the clamped magnitude of the move input.
func (b Basis) direction(move mgl64.Vec2) (mgl64.Vec3, float64) {
	mag := move.Len()
	if mag == 0 {
		return mgl64.Vec3{}, 0
	}
	dir := b.Forward.Mul(move.Y()).Add(b.Right.Mul(move.X()))
	if dir.LenSqr() == 0 {
		return mgl64.Vec3{}, 0
	}
	return dir.Normalize(), min(mag, 1)
}
