package adversary

import (
	"io"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/event"
	"github.com/maskfall/sim/game"
	"github.com/maskfall/sim/projectile"
	"github.com/maskfall/sim/settings"
	"github.com/maskfall/sim/world"
	opt "github.com/repeale/fp-go/option"
	"github.com/sirupsen/logrus"
)

// Mode is the behaviour an adversary was built with.
type Mode uint8

const (
	// ModePath follows an authored path.
	ModePath Mode = iota
	// ModeFreeFlight wanders a bounded area.
	ModeFreeFlight
)

func (m Mode) String() string {
	if m == ModeFreeFlight {
		return "free_flight"
	}
	return "path"
}

// State is the lifecycle state of an adversary.
type State uint8

const (
	StateWaiting State = iota
	StateIntro
	StateMovingToStart
	StatePathLoop
	StateRepositioning
	// StateAlive is the only living state of a free flying adversary.
	StateAlive
	StateDead
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateIntro:
		return "intro"
	case StateMovingToStart:
		return "moving_to_start"
	case StatePathLoop:
		return "path_loop"
	case StateRepositioning:
		return "repositioning"
	case StateAlive:
		return "alive"
	default:
		return "dead"
	}
}

// active returns true for the states in which an adversary attacks.
func (s State) active() bool {
	switch s {
	case StateMovingToStart, StatePathLoop, StateRepositioning, StateAlive:
		return true
	}
	return false
}

// Anchor provides the pose of an adversary while it waits and plays its intro, typically from an
// animation.
type Anchor interface {
	Pose() (mgl64.Vec3, mgl64.Quat)
}

// Config holds everything needed to build an Adversary.
type Config struct {
	Settings settings.Adversary
	Flight   settings.Flight

	// Waypoints is the authored path. Fewer than two waypoints selects free flight.
	Waypoints []mgl64.Vec3
	// FlightArea bounds free flight. Without one the adversary starts at Spawn.
	FlightArea opt.Option[cube.BBox]
	// Spawn is the initial position when no anchor or flight area places the adversary.
	Spawn  mgl64.Vec3
	Anchor Anchor

	Log *logrus.Logger
}

// UpdateResult is the outcome of a frame of an Adversary.
type UpdateResult struct {
	// PlayerHits is the number of projectiles that reached the player this frame.
	PlayerHits int
}

// Adversary is a hostile flying mask. It either follows an authored path or wanders freely,
// periodically firing projectiles at whatever is in front of it.
type Adversary struct {
	id      string
	conf    settings.Adversary
	log     *logrus.Logger
	handler event.Handler

	mode   Mode
	state  State
	health int

	position    mgl64.Vec3
	orientation mgl64.Quat
	velocity    mgl64.Vec3
	roll        float64

	bounce     spring
	flash      float64
	shootTimer float64
	introTimer float64

	projectiles []projectile.Projectile

	anchor Anchor
	path   *path
	flight *flight
}

// path is the state of the path following behaviour.
type path struct {
	curve     *Curve
	loopIndex int
	loopU     float64
	u         float64
}

// New builds an Adversary from the configuration passed.
func New(c Config) *Adversary {
	log := c.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	a := &Adversary{
		id:          c.Settings.ID,
		conf:        c.Settings,
		log:         log,
		handler:     event.NopHandler{},
		health:      c.Settings.Health,
		position:    c.Spawn,
		orientation: mgl64.QuatIdent(),
		anchor:      c.Anchor,
	}

	if curve := NewCurve(c.Waypoints, game.PathDivisions); curve != nil {
		a.mode, a.state = ModePath, StateWaiting
		idx := c.Settings.LoopIndex
		if idx >= curve.Len() {
			log.Warnf("adversary %s: path has %d waypoints, looping from the last one instead of index %d", a.id, curve.Len(), idx)
			idx = curve.Len() - 1
		}
		a.path = &path{curve: curve, loopIndex: idx, loopU: curve.WaypointU(idx)}
		a.followAnchor()
		return a
	}

	a.mode, a.state = ModeFreeFlight, StateAlive
	bounds := BoundsFromArea(c.FlightArea, c.Flight.BoundsPadding, c.Flight.BoundsExtent)
	if !opt.IsNone(c.FlightArea) {
		a.position = bounds.Centre(c.Flight.FallbackAltitude)
	}
	a.velocity = mgl64.Vec3{1, 0, 0}
	a.flight = newFlight(c.Flight, bounds)
	a.flight.pickTarget(a.position, a.velocity)
	return a
}

// Handle sets the handler that receives the events of the Adversary.
func (a *Adversary) Handle(h event.Handler) {
	if h == nil {
		h = event.NopHandler{}
	}
	a.handler = h
}

// ID returns the ID of the Adversary.
func (a *Adversary) ID() string {
	return a.id
}

// Mode returns the behaviour of the Adversary.
func (a *Adversary) Mode() Mode {
	return a.mode
}

// State returns the lifecycle state of the Adversary.
func (a *Adversary) State() State {
	return a.state
}

// Alive returns true until the Adversary dies.
func (a *Adversary) Alive() bool {
	return a.state != StateDead
}

// Health returns the remaining health of the Adversary.
func (a *Adversary) Health() int {
	return a.health
}

// Position returns the rendered position of the Adversary, including its bounce.
func (a *Adversary) Position() mgl64.Vec3 {
	return a.position.Add(mgl64.Vec3{0, a.bounce.offset, 0})
}

// Orientation returns the orientation of the Adversary.
func (a *Adversary) Orientation() mgl64.Quat {
	return a.orientation
}

// Velocity returns the velocity of the Adversary.
func (a *Adversary) Velocity() mgl64.Vec3 {
	return a.velocity
}

// Roll returns the bank angle of the Adversary in radians.
func (a *Adversary) Roll() float64 {
	return a.roll
}

// Flashing returns true while the damage flash of the Adversary is showing.
func (a *Adversary) Flashing() bool {
	return a.flash > 0
}

// Projectiles returns the projectiles of the Adversary currently in flight.
func (a *Adversary) Projectiles() []projectile.Projectile {
	return a.projectiles
}

// Param returns the arc length fraction along the path. It is always zero in free flight.
func (a *Adversary) Param() float64 {
	if a.path == nil {
		return 0
	}
	return a.path.u
}

// LoopParam returns the arc length fraction the path loop restarts from.
func (a *Adversary) LoopParam() float64 {
	if a.path == nil {
		return 0
	}
	return a.path.loopU
}

// LoopPoint returns the waypoint the path loop restarts from.
func (a *Adversary) LoopPoint() opt.Option[mgl64.Vec3] {
	if a.path == nil {
		return opt.None[mgl64.Vec3]()
	}
	return opt.Some(a.path.curve.Waypoint(a.path.loopIndex))
}

// FlightTarget returns the point a free flying Adversary is heading for.
func (a *Adversary) FlightTarget() opt.Option[mgl64.Vec3] {
	if a.flight == nil {
		return opt.None[mgl64.Vec3]()
	}
	return opt.Some(a.flight.target)
}

// StompSurface returns the collision proxy the player can stand on, placed at the current pose of
// the Adversary. It returns false when the Adversary has no proxy.
func (a *Adversary) StompSurface() (world.Surface, bool) {
	h := a.conf.ProxyHalfExtents
	if h[0] <= 0 || h[1] <= 0 || h[2] <= 0 {
		return world.Surface{}, false
	}
	pos, off := a.Position(), a.conf.ProxyOffset
	transform := mgl64.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(a.orientation.Normalize().Mat4()).
		Mul4(mgl64.Translate3D(off[0], off[1], off[2]))
	box := cube.Box(-h[0], -h[1], -h[2], h[0], h[1], h[2])
	return world.NewTransformedSurface(a.id+"/proxy", world.MaterialHard, box, transform), true
}

// StartIntro starts the intro of a waiting path following Adversary.
func (a *Adversary) StartIntro() bool {
	if a.mode != ModePath || a.state != StateWaiting {
		return false
	}
	a.introTimer = a.conf.IntroDuration
	if a.introTimer <= 0 {
		a.setState(StateMovingToStart)
		return true
	}
	a.setState(StateIntro)
	return true
}

// TakeDamage removes one point of health, killing the Adversary once none is left. Damaging a dead
// Adversary does nothing.
func (a *Adversary) TakeDamage() {
	if a.state == StateDead {
		return
	}
	a.health = max(0, a.health-1)
	a.bounce.kick(a.conf.HitImpulse)
	a.flash = a.conf.FlashDuration
	a.handler.HandleEvent(event.AdversaryHit{Adversary: a.id, Health: a.health})
	if a.health == 0 {
		a.die()
	}
}

func (a *Adversary) die() {
	a.setState(StateDead)
	a.projectiles = nil
	a.velocity = mgl64.Vec3{}
	a.handler.HandleEvent(event.AdversaryDied{Adversary: a.id, Position: a.Position()})
}

func (a *Adversary) setState(s State) {
	if a.state == s {
		return
	}
	a.log.Debugf("adversary %s: %s -> %s", a.id, a.state, s)
	a.handler.HandleEvent(event.AdversaryState{Adversary: a.id, From: a.state.String(), To: s.String()})
	a.state = s
}

// Update advances the Adversary by a frame. Projectiles are tested against the player position passed.
// A dead Adversary is never updated.
func (a *Adversary) Update(dt float64, player mgl64.Vec3) UpdateResult {
	if a.state == StateDead {
		return UpdateResult{}
	}
	switch a.state {
	case StateWaiting:
		a.followAnchor()
	case StateIntro:
		a.followAnchor()
		if a.introTimer -= dt; a.introTimer <= 0 {
			a.setState(StateMovingToStart)
		}
	case StateMovingToStart, StateRepositioning:
		if a.moveTo(dt, a.path.curve.Waypoint(a.path.loopIndex)) {
			a.path.u = a.path.loopU
			a.setState(StatePathLoop)
		}
	case StatePathLoop:
		a.advance(dt)
	case StateAlive:
		a.flight.update(a, dt)
	}

	a.bounce.step(dt, a.conf.SpringTension, a.conf.SpringDamping)
	a.flash = max(0, a.flash-dt)

	if a.state.active() {
		a.shootTimer += dt
		if a.shootTimer > a.shootInterval() {
			a.fire()
			a.shootTimer = 0
		}
	}

	var hits int
	a.projectiles, hits = projectile.Step(a.projectiles, dt, player, a.conf.ProjectileHitRadius)
	return UpdateResult{PlayerHits: hits}
}

func (a *Adversary) shootInterval() float64 {
	if a.flight != nil {
		return a.flight.conf.ShootInterval
	}
	return a.conf.ShootInterval
}

func (a *Adversary) followAnchor() {
	if a.anchor == nil {
		return
	}
	a.position, a.orientation = a.anchor.Pose()
}

// moveTo walks straight towards the target, turning to face it and levelling out. It reports true
// once the target is reached.
func (a *Adversary) moveTo(dt float64, target mgl64.Vec3) bool {
	delta := target.Sub(a.position)
	dist := delta.Len()
	step := a.conf.PathSpeed * dt

	var dir mgl64.Vec3
	if dist > 0 {
		dir = delta.Mul(1 / dist)
	}
	arrived := dist <= step
	if arrived {
		a.position = target
	} else {
		a.position = a.position.Add(dir.Mul(step))
	}

	k := game.RateFactor(a.conf.MoveToTurnRate, dt)
	if dist > 0 {
		a.orientation = game.Slerp(a.orientation, game.LookRotation(dir), k)
	}
	a.roll = game.Lerp(a.roll, 0, k)
	a.velocity = dir.Mul(a.conf.PathSpeed)
	return arrived
}

// advance moves the Adversary along the path at constant speed, banking into turns.
func (a *Adversary) advance(dt float64) {
	p := a.path
	if length := p.curve.Length(); length > 0 {
		p.u += a.conf.PathSpeed / length * dt
	} else {
		p.u = 1
	}
	if p.u >= 1 {
		p.u = 1
		a.setState(StateRepositioning)
	}

	a.position = p.curve.PointAt(p.u)
	tangent := p.curve.TangentAt(p.u)
	future := p.curve.TangentAt(min(1, p.u+a.conf.LookAhead))
	cross := tangent.Cross(future).Y()
	target := mgl64.Clamp(-cross*a.conf.BankIntensity*a.conf.BankSign, -a.conf.BankLimit, a.conf.BankLimit)

	a.roll = game.Lerp(a.roll, target, game.RateFactor(a.conf.BankRate, dt))
	a.orientation = game.LookRotation(tangent).Mul(mgl64.QuatRotate(a.roll, game.Forward))
	a.velocity = tangent.Mul(a.conf.PathSpeed)
}

// fire launches a pair of projectiles from either side of the Adversary along its facing.
func (a *Adversary) fire() {
	base := a.Position().Add(mgl64.Vec3{0, a.conf.ProjectileLift, 0})
	dir := a.orientation.Rotate(game.Forward)
	for _, side := range [2]float64{-a.conf.ProjectileLateral, a.conf.ProjectileLateral} {
		pos := base.Add(a.orientation.Rotate(mgl64.Vec3{side, 0, a.conf.ProjectileForward}))
		a.projectiles = append(a.projectiles, projectile.New(a.id, pos, dir, a.conf.ProjectileSpeed, a.conf.ProjectileLifetime))
	}
	a.handler.HandleEvent(event.ProjectilesFired{Adversary: a.id, Count: 2})
}
