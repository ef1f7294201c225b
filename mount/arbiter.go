package mount

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/event"
	"github.com/maskfall/sim/game"
	"github.com/maskfall/sim/player"
	"github.com/maskfall/sim/settings"
	"github.com/maskfall/sim/world"
	opt "github.com/repeale/fp-go/option"
)

// Target is an adversary the player may stand on.
type Target interface {
	player.Mount
	Alive() bool
	Position() mgl64.Vec3
	Roll() float64
	// StompSurface returns the collision proxy of the target, or false if it has none.
	StompSurface() (world.Surface, bool)
	TakeDamage()
}

// Arbiter decides every frame whether the player stands on a Target. While it does, the Arbiter
// places the player on the Target instead of the floor, and damages the Target once each time the
// player lands on it.
type Arbiter struct {
	conf    settings.Mount
	handler event.Handler
}

// NewArbiter returns an Arbiter using the settings passed.
func NewArbiter(conf settings.Mount) *Arbiter {
	return &Arbiter{conf: conf, handler: event.NopHandler{}}
}

// Handle sets the handler that receives mount and dismount events.
func (a *Arbiter) Handle(h event.Handler) {
	if h == nil {
		h = event.NopHandler{}
	}
	a.handler = h
}

// Arbitrate runs between preparing and resolving the motion of the player. When the player stands on
// the target, the body is anchored to it and the motion is overridden so that floor resolution
// leaves it in place. A landing that kills the target does not anchor. It returns true if the player
// is mounted after arbitration.
func (a *Arbiter) Arbitrate(dt float64, body *player.Body, m *player.Motion, target Target) bool {
	if target == nil || !target.Alive() {
		a.release(body)
		return false
	}
	proxy, ok := target.StompSurface()
	if !ok {
		a.release(body)
		return false
	}

	standing := body.Mount != nil && body.Mount.ID() == target.ID()
	if !standing && !(body.VelocityY <= 0 && a.touching(body, target, proxy)) {
		a.release(body)
		return false
	}

	if !standing {
		a.release(body)
		target.TakeDamage()
		if !target.Alive() {
			return false
		}
		a.handler.HandleEvent(event.Mounted{Adversary: target.ID()})
	}
	body.Mount = target
	body.Grounded = true
	body.VelocityY = 0
	body.Momentum = mgl64.Vec3{}

	anchor := proxy.Top()
	body.SetPosition(anchor)
	m.Displacement = mgl64.Vec3{}
	m.NextY = anchor.Y()

	if v := game.Flatten(target.Velocity()); v.LenSqr() > a.conf.FollowSpeedSqr {
		heading := game.YawQuat(game.Yaw(v))
		body.Orientation = game.Slerp(body.Orientation, heading, game.RateFactor(a.conf.FollowRate, dt))
	}
	body.VisualRoll = game.Lerp(body.VisualRoll, target.Roll()*a.conf.RollFactor, game.RateFactor(a.conf.RollRate, dt))
	return true
}

// touching checks if the player is on top of the target, either by probing down onto the proxy or,
// failing that, by being close enough above the target.
func (a *Arbiter) touching(body *player.Body, target Target, proxy world.Surface) bool {
	origin := body.Position.Add(mgl64.Vec3{0, a.conf.ProbeLift, 0})
	if hit := world.Probe(origin, mgl64.Vec3{0, -1, 0}, a.conf.ProbeDistance, world.SurfaceSet{proxy}); !opt.IsNone(hit) {
		return true
	}
	rel := body.Position.Sub(target.Position())
	return game.HorizontalLen(rel) < a.conf.HorizontalRadius && rel.Y() > a.conf.BandLow && rel.Y() < a.conf.BandHigh
}

// release clears the mount of the body, if any. Momentum is left to the jump action.
func (a *Arbiter) release(body *player.Body) {
	if body.Mount == nil {
		return
	}
	a.handler.HandleEvent(event.Dismounted{Adversary: body.Mount.ID()})
	body.Mount = nil
	body.VisualRoll = 0
}
