package session

import (
	"bytes"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/adversary"
	"github.com/maskfall/sim/camera"
	"github.com/maskfall/sim/event"
	"github.com/maskfall/sim/player"
	"github.com/maskfall/sim/settings"
	"github.com/maskfall/sim/world"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

type fixedAnchor struct {
	pos mgl64.Vec3
}

func (f fixedAnchor) Pose() (mgl64.Vec3, mgl64.Quat) { return f.pos, mgl64.QuatIdent() }

func ground() world.SurfaceSet {
	return world.SurfaceSet{world.NewSurface("ground", world.MaterialDefault, cube.Box(-50, -1, -50, 50, 0, 50))}
}

func path() []mgl64.Vec3 {
	return []mgl64.Vec3{{0, 3, 20}, {10, 3, 20}, {20, 3, 10}, {20, 3, 0}}
}

func newSession(t *testing.T, configure func(c *Config)) (*Session, *event.Recorder) {
	t.Helper()
	rec := &event.Recorder{}
	c := Config{Settings: settings.DefaultSettings(), Handler: rec, AdversarySpawn: mgl64.Vec3{0, 3, 40}}
	if configure != nil {
		configure(&c)
	}
	s, err := New(c)
	require.NoError(t, err)
	return s, rec
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	c := Config{Settings: settings.DefaultSettings()}
	c.Settings.Session.MaxFrameDelta = 0
	_, err := New(c)
	assert.Error(t, err)
}

func TestNonPositiveDeltaSimulatesNothing(t *testing.T) {
	s, _ := newSession(t, func(c *Config) { c.Spawn = mgl64.Vec3{0, 10, 0} })
	first := s.Tick(dt, player.InputState{})

	for _, d := range []float64{0, -1} {
		f := s.Tick(d, player.InputState{Move: mgl64.Vec2{0, 1}})
		assert.Equal(t, first, f)
	}
	assert.Equal(t, uint64(1), s.Snapshot().Tick)
}

func TestDeltaIsClamped(t *testing.T) {
	s, _ := newSession(t, func(c *Config) { c.Spawn = mgl64.Vec3{0, 10, 0} })
	conf := settings.DefaultSettings()

	f := s.Tick(1, player.InputState{})
	step := conf.Session.MaxFrameDelta
	assert.Equal(t, step, f.Delta)
	assert.InDelta(t, 10+conf.Locomotion.Gravity*step*step, f.Player.Position.Y(), 1e-9)
	assert.InDelta(t, step, f.Time, 1e-12)
}

func TestSnapshotMatchesLastFrame(t *testing.T) {
	s, _ := newSession(t, func(c *Config) { c.Surfaces = ground() })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = s.Snapshot()
		}
	}()
	var last Frame
	for i := 0; i < 60; i++ {
		last = s.Tick(dt, player.InputState{Move: mgl64.Vec2{0.5, 0.5}})
	}
	wg.Wait()
	assert.Equal(t, last, s.Snapshot())
	assert.Equal(t, uint64(60), last.Tick)
}

func TestCinematicLocksInput(t *testing.T) {
	s, _ := newSession(t, func(c *Config) {
		c.Surfaces = ground()
		c.Focus = mgl64.Vec3{0, 0, 20}
	})
	s.Tick(dt, player.InputState{})
	s.StartCinematic()

	start := s.Snapshot().Player.Position
	var f Frame
	for i := 0; i < 30; i++ {
		f = s.Tick(dt, player.InputState{Move: mgl64.Vec2{0, 1}, Jump: true})
	}
	assert.Equal(t, camera.ModeCinematicIntro, f.Camera.Mode)
	assert.InDelta(t, start.X(), f.Player.Position.X(), 1e-9)
	assert.InDelta(t, start.Z(), f.Player.Position.Z(), 1e-9)
	assert.True(t, f.Player.Grounded)
	assert.False(t, s.Drag(10, 0))

	s.StartReturn(mgl64.Vec3{0, 0, 20})
	for i := 0; i < 180; i++ {
		f = s.Tick(dt, player.InputState{})
	}
	assert.Equal(t, camera.ModeManual, f.Camera.Mode)
	assert.True(t, s.Drag(10, 0))
}

func TestMountOnAdversary(t *testing.T) {
	anchor := fixedAnchor{pos: mgl64.Vec3{0, 5, 0}}
	s, rec := newSession(t, func(c *Config) {
		c.Waypoints = path()
		c.Anchor = anchor
		c.Spawn = mgl64.Vec3{0, 5.9, 0}
	})
	health := s.Adversary().Health()

	for i := 0; i < 60; i++ {
		f := s.Tick(dt, player.InputState{})
		require.Equal(t, "mask", f.Player.Mount, "tick %d", i)
		assert.Equal(t, player.StateMounted.String(), f.Player.State)
		assert.Equal(t, world.MaterialHard.String(), f.Player.Surface)
	}
	assert.Equal(t, health-1, s.Adversary().Health())
	assert.Equal(t, 1, rec.Count(event.IDMounted))
	assert.Equal(t, 1, rec.Count(event.IDAdversaryHit))

	f := s.Tick(dt, player.InputState{Jump: true})
	assert.Empty(t, f.Player.Mount)
	assert.Equal(t, player.StateAirborne.String(), f.Player.State)
	assert.Equal(t, 1, rec.Count(event.IDDismounted))
}

func TestBoltsDamageAdversary(t *testing.T) {
	s, rec := newSession(t, func(c *Config) {
		c.Surfaces = ground()
		c.Waypoints = path()
		c.Anchor = fixedAnchor{pos: mgl64.Vec3{0, 1.2, 6}}
	})
	health := s.Adversary().Health()

	f := s.Tick(dt, player.InputState{Attack: true})
	require.Len(t, f.Player.Bolts, 1)
	for i := 0; i < 30; i++ {
		f = s.Tick(dt, player.InputState{})
	}
	assert.Empty(t, f.Player.Bolts)
	assert.Equal(t, health-1, f.Adversary.Health)
	assert.Equal(t, 1, rec.Count(event.IDBoltFired))
	assert.Equal(t, 1, rec.Count(event.IDAdversaryHit))
}

func TestIntroStartsOnce(t *testing.T) {
	s, _ := newSession(t, func(c *Config) {
		c.Waypoints = path()
		c.Surfaces = ground()
	})
	assert.True(t, s.StartIntro())
	assert.False(t, s.StartIntro())
	assert.Equal(t, adversary.StateIntro.String(), s.Tick(dt, player.InputState{}).Adversary.State)

	free, _ := newSession(t, nil)
	assert.False(t, free.StartIntro())
}

func TestPanicReturnsPreviousFrame(t *testing.T) {
	s, _ := newSession(t, func(c *Config) {
		c.Surfaces = ground()
		c.Handler = event.HandlerFunc(func(ev event.Event) {
			if ev.ID() == event.IDBoltFired {
				panic("bolt handler failed")
			}
		})
	})
	prev := s.Tick(dt, player.InputState{})

	var f Frame
	require.NotPanics(t, func() {
		f = s.Tick(dt, player.InputState{Attack: true})
	})
	assert.Equal(t, prev, f)

	next := s.Tick(dt, player.InputState{})
	assert.Greater(t, next.Tick, prev.Tick)
}

func TestEventsAreLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	s, _ := newSession(t, func(c *Config) {
		c.Surfaces = ground()
		c.Logger = log
	})
	s.Tick(dt, player.InputState{})

	var landed bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.DebugLevel && strings.HasPrefix(e.Message, "event landed") {
			landed = true
		}
	}
	assert.True(t, landed)
}

func TestRecordingRoundTrip(t *testing.T) {
	s, _ := newSession(t, func(c *Config) {
		c.Surfaces = ground()
		c.Waypoints = path()
	})
	s.StartIntro()

	var buf bytes.Buffer
	require.NoError(t, s.StartRecording(&buf))
	assert.True(t, s.Recording())
	assert.Error(t, s.StartRecording(&buf))

	frames := make([]Frame, 0, 90)
	for i := 0; i < 90; i++ {
		in := player.InputState{Move: mgl64.Vec2{0, 1}, Attack: i%30 == 0}
		frames = append(frames, s.Tick(dt, in))
	}
	require.NoError(t, s.StopRecording())
	assert.Error(t, s.StopRecording())

	rec, err := ReadRecording(&buf)
	require.NoError(t, err)
	assert.Equal(t, CurrentRecordingVer, rec.Version)
	assert.Equal(t, settings.DefaultSettings(), rec.Settings)
	assert.Equal(t, frames, rec.Frames)
}

func TestReadRecordingRejectsUnknownVersion(t *testing.T) {
	data, err := cbor.Marshal(header{Version: "0", Settings: settings.DefaultSettings()})
	require.NoError(t, err)
	_, err = ReadRecording(bytes.NewReader(data))
	assert.Error(t, err)

	_, err = ReadRecording(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestNonFinitePositionIsRejected(t *testing.T) {
	s, _ := newSession(t, func(c *Config) { c.Surfaces = ground() })
	prev := s.Tick(dt, player.InputState{})

	s.Player().Body().Position = mgl64.Vec3{math.NaN(), 0, 0}
	assert.Equal(t, prev, s.Tick(dt, player.InputState{}))
}
