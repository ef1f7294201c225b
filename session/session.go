package session

import (
	"fmt"
	"io"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/adversary"
	"github.com/maskfall/sim/assert"
	"github.com/maskfall/sim/camera"
	"github.com/maskfall/sim/event"
	"github.com/maskfall/sim/mount"
	"github.com/maskfall/sim/oerror"
	"github.com/maskfall/sim/player"
	"github.com/maskfall/sim/settings"
	"github.com/maskfall/sim/world"
	opt "github.com/repeale/fp-go/option"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Config holds everything needed to start a Session.
type Config struct {
	Settings settings.Settings
	// Surfaces is the static collision set of the level.
	Surfaces world.SurfaceSet

	// Spawn is the initial position of the player.
	Spawn mgl64.Vec3
	// Focus is the point the cinematic intro frames, usually where the adversary waits.
	Focus mgl64.Vec3

	// Waypoints is the authored adversary path. Fewer than two selects free flight.
	Waypoints  []mgl64.Vec3
	FlightArea opt.Option[cube.BBox]
	// AdversarySpawn is used when neither an anchor nor a flight area places the adversary.
	AdversarySpawn mgl64.Vec3
	Anchor         adversary.Anchor

	Logger  *logrus.Logger
	Handler event.Handler
}

// Session owns every simulated component of a single play session and runs them in a fixed order
// each frame. A Session is not safe for concurrent use, except for Snapshot.
type Session struct {
	conf    settings.Settings
	log     *logrus.Logger
	handler event.Handler

	player    *player.Controller
	camera    *camera.Rig
	adversary *adversary.Adversary
	arbiter   *mount.Arbiter

	tick  uint64
	clock float64

	frame Frame
	mu    deadlock.RWMutex

	rec *recorder
}

// New starts a Session from the configuration passed. It returns an error if the settings are invalid.
func New(c Config) (*Session, error) {
	if err := c.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	log := c.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	s := &Session{conf: c.Settings, log: log}

	handlers := event.Multi{logHandler{log: log}}
	if c.Handler != nil {
		handlers = append(handlers, c.Handler)
	}
	s.handler = handlers

	s.player = player.NewController(player.NewBody(c.Spawn), c.Settings.Locomotion, c.Surfaces, log)
	s.player.Handle(s.handler)

	s.camera = camera.NewRig(c.Settings.Camera, c.Surfaces)
	s.camera.SetFocus(c.Focus)
	s.camera.Handle(s.handler)

	s.adversary = adversary.New(adversary.Config{
		Settings:   c.Settings.Adversary,
		Flight:     c.Settings.Flight,
		Waypoints:  c.Waypoints,
		FlightArea: c.FlightArea,
		Spawn:      c.AdversarySpawn,
		Anchor:     c.Anchor,
		Log:        log,
	})
	s.adversary.Handle(s.handler)

	s.arbiter = mount.NewArbiter(c.Settings.Mount)
	s.arbiter.Handle(s.handler)

	s.camera.Update(0, c.Spawn)
	s.frame = s.capture(0, player.InputState{})
	log.Infof("session started (adversary %s in %s mode)", s.adversary.ID(), s.adversary.Mode())
	return s, nil
}

// Player returns the locomotion controller of the player.
func (s *Session) Player() *player.Controller {
	return s.player
}

// Camera returns the camera rig.
func (s *Session) Camera() *camera.Rig {
	return s.camera
}

// Adversary returns the adversary of the session.
func (s *Session) Adversary() *adversary.Adversary {
	return s.adversary
}

// StartCinematic starts the intro sweep of the camera from its current pose.
func (s *Session) StartCinematic() {
	p := s.camera.Pose()
	s.camera.StartCinematic(p.Position, p.LookAt)
}

// StartReturn blends the camera back behind the player, facing the focal point passed.
func (s *Session) StartReturn(focal mgl64.Vec3) {
	s.camera.StartReturn(focal)
}

// StartIntro starts the intro of the adversary. It returns false if the adversary has no intro to play.
func (s *Session) StartIntro() bool {
	return s.adversary.StartIntro()
}

// Drag orbits the camera by a pointer drag. It returns false unless the camera is under manual control.
func (s *Session) Drag(dx, dy float64) bool {
	return s.camera.Drag(dx, dy)
}

// Tick simulates a frame of dt seconds with the input passed and returns the resulting frame. dt is
// capped to the maximum frame delta, and a non-positive dt simulates nothing. If the frame panics,
// for example because a body position stopped being finite, the panic is reported and the previous
// frame is returned.
func (s *Session) Tick(dt float64, in player.InputState) (f Frame) {
	if dt <= 0 {
		return s.Snapshot()
	}
	dt = min(dt, s.conf.Session.MaxFrameDelta)

	defer func() {
		if err := recover(); err != nil {
			s.log.Errorf("Tick() panic: %v", err)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("tick", fmt.Sprint(s.tick))
				scope.SetTag("adversary_state", s.adversary.State().String())
			})
			hub.Recover(oerror.New("%v", err))
			hub.Flush(time.Second * 5)
			f = s.Snapshot()
		}
	}()

	s.tick++
	s.clock += dt
	if s.camera.Mode() == camera.ModeCinematicIntro {
		in = player.InputState{}
	}
	basis := player.BasisFromForward(s.camera.Pose().Forward())
	body := s.player.Body()

	m := s.player.Prepare(dt, in, basis)
	s.arbiter.Arbitrate(dt, body, &m, s.adversary)
	s.player.Resolve(dt, m)

	s.camera.Update(dt, body.Position)

	if res := s.adversary.Update(dt, body.Position); res.PlayerHits > 0 {
		s.player.Hurt(s.adversary.ID(), res.PlayerHits)
	}

	target := opt.None[mgl64.Vec3]()
	if s.adversary.Alive() {
		target = opt.Some(s.adversary.Position())
	}
	for range s.player.UpdateBolts(dt, target) {
		s.adversary.TakeDamage()
	}

	assert.Finite(body.Position, "player position")
	assert.Finite(s.adversary.Position(), "adversary position")

	f = s.capture(dt, in)
	s.publish(f)
	return f
}

// logHandler writes every event to the logger at debug level.
type logHandler struct {
	log *logrus.Logger
}

func (h logHandler) HandleEvent(ev event.Event) {
	h.log.Debugf("event %s", event.String(ev))
}
