package player

import (
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/event"
	"github.com/maskfall/sim/game"
	"github.com/maskfall/sim/projectile"
	"github.com/maskfall/sim/settings"
	"github.com/maskfall/sim/world"
	opt "github.com/repeale/fp-go/option"
	"github.com/sirupsen/logrus"
)

// State is the locomotion state of the player, derived from the body every frame.
type State uint8

const (
	StateIdle State = iota
	StateMoving
	StateAirborne
	StateMounted
)

func (s State) String() string {
	switch s {
	case StateMoving:
		return "moving"
	case StateAirborne:
		return "airborne"
	case StateMounted:
		return "mounted"
	default:
		return "idle"
	}
}

// Motion is the movement a Controller intends to make this frame, before it is resolved against the
// floor or overridden by a mount.
type Motion struct {
	// Displacement is the horizontal movement of the frame.
	Displacement mgl64.Vec3
	// NextY is the vertical position predicted from the integrated vertical velocity.
	NextY float64
}

// Controller moves the player Body from input.
type Controller struct {
	body     *Body
	conf     settings.Locomotion
	surfaces world.SurfaceSet

	log     *logrus.Logger
	handler event.Handler
}

// NewController returns a Controller moving the body passed through the static surfaces passed.
func NewController(body *Body, conf settings.Locomotion, surfaces world.SurfaceSet, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Controller{body: body, conf: conf, surfaces: surfaces, log: log, handler: event.NopHandler{}}
}

// Handle sets the handler that receives the events of the Controller.
func (c *Controller) Handle(h event.Handler) {
	if h == nil {
		h = event.NopHandler{}
	}
	c.handler = h
}

// Body returns the body moved by the Controller.
func (c *Controller) Body() *Body {
	return c.body
}

// State returns the current locomotion state.
func (c *Controller) State() State {
	switch {
	case c.body.Mounted():
		return StateMounted
	case !c.body.Grounded:
		return StateAirborne
	case c.body.Moving:
		return StateMoving
	default:
		return StateIdle
	}
}

// Jump launches the player if it is grounded, and returns false otherwise. Jumping off a mount
// carries the mount's velocity as momentum and clears the mount.
func (c *Controller) Jump() bool {
	b := c.body
	if !b.Grounded {
		return false
	}
	b.VelocityY = c.conf.JumpStrength
	b.Grounded = false

	mount := b.Mount
	if mount != nil {
		b.Momentum = mount.Velocity()
		if dir := game.Flatten(b.Momentum); dir.LenSqr() > game.JumpFacingSpeedSqr {
			b.Orientation = game.YawQuat(game.Yaw(dir))
		}
		b.Mount = nil
		b.VisualRoll = 0
		c.handler.HandleEvent(event.Dismounted{Adversary: mount.ID(), Jumped: true})
	}
	c.handler.HandleEvent(event.Jumped{Momentum: b.Momentum, FromMount: mount != nil})
	return true
}

// Prepare processes the input of the frame and integrates gravity, returning the motion the player
// intends to make. The motion is applied by Resolve, possibly after a mount has overridden it.
func (c *Controller) Prepare(dt float64, in InputState, basis Basis) Motion {
	b := c.body
	b.LandingCooldown = max(0, b.LandingCooldown-dt)
	b.Flash = max(0, b.Flash-dt)

	if in.Jump {
		c.Jump()
	}

	var m Motion
	dir, mag := basis.direction(in.Move)
	if mag > c.conf.Deadzone && b.LandingCooldown <= 0 {
		b.Moving = true
		b.Speed = c.conf.MaxSpeed * mag
	} else {
		b.Moving = false
		b.Speed = 0
	}

	if b.Moving {
		if !b.Mounted() {
			target := game.YawQuat(game.Yaw(dir))
			b.Orientation = game.Slerp(b.Orientation, target, game.RateFactor(c.conf.TurnRate, dt))
		}
		if !c.blocked(dir) {
			m.Displacement = dir.Mul(b.Speed * dt)
		}
	}

	if !b.Grounded && !b.Mounted() {
		m.Displacement = m.Displacement.Add(game.Flatten(b.Momentum).Mul(dt))
	}

	b.VelocityY += c.conf.Gravity * dt
	m.NextY = b.Position.Y() + b.VelocityY*dt

	if in.Attack {
		c.fire()
	}
	return m
}

// blocked checks if a wall is directly ahead of the player in the direction passed. Surfaces that
// face upward enough to be walked on never block.
func (c *Controller) blocked(dir mgl64.Vec3) bool {
	origin := c.body.Position.Add(mgl64.Vec3{0, c.conf.WallProbeHeight, 0})
	hit := world.Probe(origin, dir, c.conf.WallProbeDistance, c.surfaces)
	if opt.IsNone(hit) {
		return false
	}
	return hit.Value.Normal.Y() < c.conf.WallNormalLimit
}

// Resolve applies the motion passed, landing the player on the floor beneath it. While mounted the
// mount has already placed the body and only the surface classification is updated.
func (c *Controller) Resolve(dt float64, m Motion) {
	b := c.body
	if b.Mounted() {
		b.Surface = world.MaterialHard
		return
	}
	wasGrounded := b.Grounded

	pos := b.Position.Add(game.Flatten(m.Displacement))
	pos[1] = m.NextY

	floor := c.floor(pos, b.Position.Y()-m.NextY)
	if opt.IsNone(floor) {
		b.Grounded = false
		b.SetPosition(pos)
		return
	}
	hit := floor.Value
	floorY := hit.Point.Y()

	crossing := m.NextY <= floorY
	sticking := wasGrounded && b.Position.Y()-floorY > 0 && b.Position.Y()-floorY < c.conf.FloorSnapBand
	if b.VelocityY <= 0 && (crossing || sticking) {
		// Ease onto the floor, but never below it and never so far above it that the next frame
		// falls out of the snap band.
		damped := game.Damp(b.Position.Y(), floorY, c.conf.FloorSnapFraction, dt)
		pos[1] = mgl64.Clamp(damped, floorY, floorY+c.conf.FloorSnapBand/2)
		b.VelocityY = 0
		b.Grounded = true
		b.Surface = hit.Material
		decay := 1 - game.RateFactor(c.conf.MomentumDecayRate, dt)
		b.Momentum = b.Momentum.Mul(decay)

		if !wasGrounded {
			b.LandingCooldown = c.conf.LandingCooldown
			c.handler.HandleEvent(event.Landed{Surface: hit.Material.String(), Speed: b.Speed})
		}
	} else {
		b.Grounded = false
	}
	b.SetPosition(pos)
}

// floor probes for the floor below the horizontal position passed. The probe starts above the body
// before the move and reaches past the fall of the frame, so a fast fall never starts below the
// floor it is about to cross.
func (c *Controller) floor(pos mgl64.Vec3, fall float64) opt.Option[world.Hit] {
	origin := mgl64.Vec3{pos.X(), c.body.Position.Y() + c.conf.FloorProbeHeight, pos.Z()}
	return world.Probe(origin, mgl64.Vec3{0, -1, 0}, c.conf.FloorProbeDistance+max(0, fall), c.surfaces)
}

// Tick runs a full frame of locomotion with no mount arbitration.
func (c *Controller) Tick(dt float64, in InputState, basis Basis) {
	c.Resolve(dt, c.Prepare(dt, in, basis))
}

// Hurt starts the damage flash of the player.
func (c *Controller) Hurt(source string, hits int) {
	if hits <= 0 {
		return
	}
	c.body.Flash = c.conf.FlashDuration
	c.handler.HandleEvent(event.PlayerHit{Source: source, Hits: hits})
}

// fire launches a bolt along the facing of the player, unless too many are in flight.
func (c *Controller) fire() {
	b := c.body
	if len(b.Bolts) >= c.conf.MaxBolts {
		c.log.Debugf("bolt not fired, %d already in flight", len(b.Bolts))
		return
	}
	pos := b.Position.Add(mgl64.Vec3{0, c.conf.BoltHeight, 0})
	b.Bolts = append(b.Bolts, projectile.New("player", pos, b.Facing(), c.conf.BoltSpeed, c.conf.BoltLifetime))
	c.handler.HandleEvent(event.BoltFired{Position: pos})
}

// UpdateBolts advances the bolts of the player and returns how many struck the target. When there
// is no target the bolts only fly.
func (c *Controller) UpdateBolts(dt float64, target opt.Option[mgl64.Vec3]) int {
	b := c.body
	if opt.IsNone(target) {
		b.Bolts = projectile.Advance(b.Bolts, dt)
		return 0
	}
	var hits int
	b.Bolts, hits = projectile.Step(b.Bolts, dt, target.Value, c.conf.BoltHitRadius)
	return hits
}
