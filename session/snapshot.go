package session

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/camera"
	"github.com/maskfall/sim/player"
	"github.com/maskfall/sim/projectile"
)

// Frame is an immutable snapshot of a Session after a frame. It holds everything a renderer or audio
// layer needs, and is the unit of a recording.
type Frame struct {
	Tick  uint64            `cbor:"tick"`
	Time  float64           `cbor:"time"`
	Delta float64           `cbor:"dt"`
	Input player.InputState `cbor:"input"`

	Player    PlayerFrame    `cbor:"player"`
	Camera    camera.Pose    `cbor:"camera"`
	Adversary AdversaryFrame `cbor:"adversary"`
}

// PlayerFrame is the state of the player in a Frame.
type PlayerFrame struct {
	Position    mgl64.Vec3 `cbor:"position"`
	Orientation mgl64.Quat `cbor:"orientation"`
	State       string     `cbor:"state"`
	Grounded    bool       `cbor:"grounded"`
	Surface     string     `cbor:"surface"`
	// Mount is the ID of the adversary being stood on, if any.
	Mount      string                  `cbor:"mount,omitempty"`
	Speed      float64                 `cbor:"speed"`
	VisualRoll float64                 `cbor:"visual_roll"`
	Flashing   bool                    `cbor:"flashing"`
	Bolts      []projectile.Projectile `cbor:"bolts,omitempty"`
}

// AdversaryFrame is the state of the adversary in a Frame.
type AdversaryFrame struct {
	ID          string                  `cbor:"id"`
	Mode        string                  `cbor:"mode"`
	State       string                  `cbor:"state"`
	Health      int                     `cbor:"health"`
	Position    mgl64.Vec3              `cbor:"position"`
	Orientation mgl64.Quat              `cbor:"orientation"`
	Roll        float64                 `cbor:"roll"`
	Flashing    bool                    `cbor:"flashing"`
	Projectiles []projectile.Projectile `cbor:"projectiles,omitempty"`
}

// Snapshot returns the last published frame. It may be called from any goroutine.
func (s *Session) Snapshot() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// publish makes the frame passed the latest snapshot and records it if a recording is running.
func (s *Session) publish(f Frame) {
	s.mu.Lock()
	s.frame = f
	s.mu.Unlock()

	if s.rec != nil {
		s.rec.write(s, f)
	}
}

// capture builds a Frame from the current state of the Session. Slices are copied so that the frame
// stays valid after later frames.
func (s *Session) capture(dt float64, in player.InputState) Frame {
	b := s.player.Body()
	pf := PlayerFrame{
		Position:    b.Position,
		Orientation: b.Orientation,
		State:       s.player.State().String(),
		Grounded:    b.Grounded,
		Surface:     b.Surface.String(),
		Speed:       b.Speed,
		VisualRoll:  b.VisualRoll,
		Flashing:    b.Flashing(),
		Bolts:       cloneProjectiles(b.Bolts),
	}
	if b.Mount != nil {
		pf.Mount = b.Mount.ID()
	}

	a := s.adversary
	return Frame{
		Tick:   s.tick,
		Time:   s.clock,
		Delta:  dt,
		Input:  in,
		Player: pf,
		Camera: s.camera.Pose(),
		Adversary: AdversaryFrame{
			ID:          a.ID(),
			Mode:        a.Mode().String(),
			State:       a.State().String(),
			Health:      a.Health(),
			Position:    a.Position(),
			Orientation: a.Orientation(),
			Roll:        a.Roll(),
			Flashing:    a.Flashing(),
			Projectiles: cloneProjectiles(a.Projectiles()),
		},
	}
}

func cloneProjectiles(list []projectile.Projectile) []projectile.Projectile {
	if len(list) == 0 {
		return nil
	}
	return slices.Clone(list)
}
