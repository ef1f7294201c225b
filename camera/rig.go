package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/event"
	"github.com/maskfall/sim/game"
	"github.com/maskfall/sim/settings"
	"github.com/maskfall/sim/world"
	opt "github.com/repeale/fp-go/option"
)

// Mode is the mode of a camera Rig.
type Mode uint8

const (
	// ModeManual orbits the player from drag input.
	ModeManual Mode = iota
	// ModeCinematicIntro plays the scripted intro sweep.
	ModeCinematicIntro
	// ModeReturning blends from wherever the camera is back to a manual framing.
	ModeReturning
)

func (m Mode) String() string {
	switch m {
	case ModeCinematicIntro:
		return "cinematic_intro"
	case ModeReturning:
		return "returning"
	default:
		return "manual"
	}
}

// Pose is the resolved placement of the camera for a frame.
type Pose struct {
	Position mgl64.Vec3 `cbor:"position"`
	LookAt   mgl64.Vec3 `cbor:"look_at"`
	Mode     Mode       `cbor:"mode"`
}

// Forward returns the direction the camera looks in.
func (p Pose) Forward() mgl64.Vec3 {
	d := p.LookAt.Sub(p.Position)
	if d.LenSqr() == 0 {
		return game.Forward
	}
	return d.Normalize()
}

// View returns the view matrix of the pose for the renderer.
func (p Pose) View() mgl32.Mat4 {
	return mgl32.LookAtV(vec32(p.Position), vec32(p.LookAt), mgl32.Vec3{0, 1, 0})
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Rig places the camera around the player. The spherical coordinates of the rig are only changed by
// drag input while in manual mode, and by entering the returning mode.
type Rig struct {
	conf     settings.Camera
	surfaces world.SurfaceSet
	handler  event.Handler

	radius, polar, azimuth float64
	currentRadius          float64

	position, lookAt mgl64.Vec3
	initialised      bool
	target           mgl64.Vec3
	focus            mgl64.Vec3

	mode      Mode
	clock     float64
	modeStart float64

	startPosition, startLook          mgl64.Vec3
	startRadius, startPolar, startAzi float64
}

// NewRig returns a Rig in manual mode, occluded by the surfaces passed.
func NewRig(conf settings.Camera, surfaces world.SurfaceSet) *Rig {
	return &Rig{
		conf:          conf,
		surfaces:      surfaces,
		handler:       event.NopHandler{},
		radius:        conf.Radius,
		polar:         mgl64.Clamp(conf.Polar, conf.PolarMin, conf.PolarMax),
		azimuth:       game.WrapAngle(conf.Azimuth),
		currentRadius: conf.Radius,
	}
}

// Handle sets the handler that receives mode changes of the Rig.
func (r *Rig) Handle(h event.Handler) {
	if h == nil {
		h = event.NopHandler{}
	}
	r.handler = h
}

// Mode returns the current mode of the Rig.
func (r *Rig) Mode() Mode {
	return r.mode
}

// Spherical returns the manual framing of the Rig: its radius, polar angle and azimuth.
func (r *Rig) Spherical() (radius, polar, azimuth float64) {
	return r.radius, r.polar, r.azimuth
}

// CurrentRadius returns the radius after occlusion.
func (r *Rig) CurrentRadius() float64 {
	return r.currentRadius
}

// Pose returns the pose produced by the last update.
func (r *Rig) Pose() Pose {
	return Pose{Position: r.position, LookAt: r.lookAt, Mode: r.mode}
}

// SetFocus sets the scripted point the cinematic intro frames.
func (r *Rig) SetFocus(p mgl64.Vec3) {
	r.focus = p
}

// Drag orbits the camera by a pointer delta in pixels. It only has an effect in manual mode.
func (r *Rig) Drag(dx, dy float64) bool {
	if r.mode != ModeManual {
		return false
	}
	r.azimuth = game.WrapAngle(r.azimuth - dx*r.conf.DragSensitivity)
	r.polar = mgl64.Clamp(r.polar-dy*r.conf.DragSensitivity, r.conf.PolarMin, r.conf.PolarMax)
	return true
}

// StartCinematic starts the intro sweep from the camera position and look-at point passed.
func (r *Rig) StartCinematic(from, lookAt mgl64.Vec3) {
	r.startPosition, r.startLook = from, lookAt
	r.setMode(ModeCinematicIntro)
}

// StartReturn blends the camera back to a manual framing behind the player, facing the focal point
// passed. The blend starts from wherever the camera currently is.
func (r *Rig) StartReturn(focal mgl64.Vec3) {
	head := r.head(r.target)
	offset := r.position.Sub(head)
	r.startRadius = offset.Len()
	if r.startRadius > 0 {
		r.startPolar = math.Acos(mgl64.Clamp(offset.Y()/r.startRadius, -1, 1))
		r.startAzi = math.Atan2(offset.X(), offset.Z())
	} else {
		r.startPolar, r.startAzi = r.polar, r.azimuth
	}
	r.startLook = r.lookAt

	r.focus = focal
	away := game.Flatten(r.target.Sub(focal))
	if away.LenSqr() > 0 {
		r.azimuth = game.WrapAngle(game.Yaw(away) + math.Pi)
	}
	r.polar = mgl64.Clamp(r.conf.ReturnPolar, r.conf.PolarMin, r.conf.PolarMax)
	r.radius = r.conf.ReturnRadius
	r.currentRadius = r.radius
	r.setMode(ModeReturning)
}

func (r *Rig) setMode(m Mode) {
	if r.mode != m {
		r.handler.HandleEvent(event.CameraMode{From: r.mode.String(), To: m.String()})
	}
	r.mode = m
	r.modeStart = r.clock
}

// Update moves the camera for a frame, following the player position passed.
func (r *Rig) Update(dt float64, player mgl64.Vec3) Pose {
	r.clock += dt
	r.target = player
	switch r.mode {
	case ModeCinematicIntro:
		r.cinematic(player)
	case ModeReturning:
		if !r.returning(player) {
			r.setMode(ModeManual)
			r.manual(dt, player)
		}
	default:
		r.manual(dt, player)
	}
	return r.Pose()
}

func (r *Rig) head(player mgl64.Vec3) mgl64.Vec3 {
	return player.Add(mgl64.Vec3{0, r.conf.HeadHeight, 0})
}

// manual orbits the head of the player, pulling in when geometry is between the head and the
// camera.
func (r *Rig) manual(dt float64, player mgl64.Vec3) {
	head := r.head(player)
	ideal := game.Spherical(r.radius, r.polar, r.azimuth)

	r.currentRadius = r.radius
	if hit := world.Probe(head, ideal, r.radius, r.surfaces); !opt.IsNone(hit) {
		r.currentRadius = mgl64.Clamp(hit.Value.Distance-r.conf.OcclusionMargin, r.conf.MinRadius, r.radius)
	}
	final := head.Add(game.Spherical(r.currentRadius, r.polar, r.azimuth))

	if !r.initialised {
		r.position, r.lookAt = final, head
		r.initialised = true
		return
	}
	r.position = game.DampVec3(r.position, final, r.conf.Smoothing, dt)
	r.lookAt = game.DampVec3(r.lookAt, head, r.conf.Smoothing, dt)
}

// cinematic plays the two shot intro sweep, holding on the second shot once it completes.
func (r *Rig) cinematic(player mgl64.Vec3) {
	toFocus := r.focus.Sub(player)
	if toFocus.LenSqr() > 0 {
		toFocus = toFocus.Normalize()
	}
	first := player.Sub(toFocus.Mul(r.conf.FirstShotDistance)).Add(mgl64.Vec3{0, r.conf.FirstShotHeight, 0})
	second := player.Sub(toFocus.Mul(r.conf.SecondShotDistance)).Add(mgl64.Vec3{0, r.conf.SecondShotHeight, 0})
	look := r.focus.Add(mgl64.Vec3{0, r.conf.FocusHeight, 0})

	elapsed := r.clock - r.modeStart
	switch {
	case elapsed < r.conf.FirstShotDuration:
		s := game.Smoothstep(elapsed / r.conf.FirstShotDuration)
		r.position = lerpVec(r.startPosition, first, s)
		r.lookAt = lerpVec(r.startLook, look, s)
	case elapsed < r.conf.FirstShotDuration+r.conf.SecondShotDuration:
		s := game.Smoothstep((elapsed - r.conf.FirstShotDuration) / r.conf.SecondShotDuration)
		r.position = lerpVec(first, second, s)
		r.lookAt = look
	default:
		r.position, r.lookAt = second, look
	}
	r.initialised = true
}

// returning blends towards the manual framing and reports false once the blend has completed.
func (r *Rig) returning(player mgl64.Vec3) bool {
	elapsed := r.clock - r.modeStart
	if elapsed >= r.conf.ReturnDuration {
		return false
	}
	s := game.Smoothstep(elapsed / r.conf.ReturnDuration)
	radius := game.Lerp(r.startRadius, r.radius, math.Min(1, s*r.conf.ReturnRadiusLead))
	polar := game.Lerp(r.startPolar, r.polar, s)
	azimuth := BlendAzimuth(r.startAzi, r.azimuth, s)

	head := r.head(player)
	r.currentRadius = radius
	r.position = head.Add(game.Spherical(radius, polar, azimuth))
	r.lookAt = lerpVec(r.startLook, head, s)
	return true
}

// BlendAzimuth blends between two azimuths along the shortest arc.
func BlendAzimuth(from, to, t float64) float64 {
	return game.WrapAngle(from + game.WrapAngle(to-from)*t)
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
