package player

import (
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/event"
	"github.com/maskfall/sim/settings"
	"github.com/maskfall/sim/world"
	opt "github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

var defaultBasis = BasisFromForward(mgl64.Vec3{0, 0, 1})

func floorSet() world.SurfaceSet {
	return world.SurfaceSet{
		world.NewSurface("ground", world.MaterialDefault, cube.Box(-50, -1, -50, 50, 0, 50)),
		world.NewSurface("plataforma", world.MaterialHard, cube.Box(20, 0, 20, 30, 1, 30)),
	}
}

func newController(pos mgl64.Vec3, set world.SurfaceSet) (*Controller, *event.Recorder) {
	c := NewController(NewBody(pos), settings.DefaultSettings().Locomotion, set, nil)
	rec := &event.Recorder{}
	c.Handle(rec)
	return c, rec
}

type fakeMount struct {
	velocity mgl64.Vec3
}

func (fakeMount) ID() string             { return "mask" }
func (m fakeMount) Velocity() mgl64.Vec3 { return m.velocity }

func TestGravityIntegration(t *testing.T) {
	gravity := settings.DefaultSettings().Locomotion.Gravity
	for _, step := range []float64{0.001, 1.0 / 60, 0.05, 0.1} {
		c, _ := newController(mgl64.Vec3{0, 10, 0}, nil)
		c.Body().VelocityY = 3
		c.Tick(step, InputState{}, defaultBasis)

		assert.InDelta(t, 3+gravity*step, c.Body().VelocityY, 1e-12, "dt=%v", step)
		assert.InDelta(t, 10+(3+gravity*step)*step, c.Body().Position.Y(), 1e-12, "dt=%v", step)
		assert.False(t, c.Body().Grounded)
	}
}

func TestFallsWithoutFloor(t *testing.T) {
	c, _ := newController(mgl64.Vec3{0, 0, 0}, nil)
	last := c.Body().Position.Y()
	for i := 0; i < 60; i++ {
		c.Tick(dt, InputState{}, defaultBasis)
		require.Less(t, c.Body().Position.Y(), last)
		last = c.Body().Position.Y()
	}
	assert.Equal(t, StateAirborne, c.State())
}

func TestGroundedConvergence(t *testing.T) {
	tests := []struct {
		name     string
		start    mgl64.Vec3
		grounded bool
		floorY   float64
		material world.Material
	}{
		{"falling onto ground", mgl64.Vec3{0, 5, 0}, false, 0, world.MaterialDefault},
		{"resting above ground", mgl64.Vec3{0, 0.3, 0}, true, 0, world.MaterialDefault},
		{"falling onto platform", mgl64.Vec3{25, 6, 25}, false, 1, world.MaterialHard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newController(tt.start, floorSet())
			c.Body().Grounded = tt.grounded

			landed := false
			for i := 0; i < 240; i++ {
				c.Tick(dt, InputState{}, defaultBasis)
				b := c.Body()
				if landed {
					require.True(t, b.Grounded, "tick %d", i)
					require.Zero(t, b.VelocityY, "tick %d", i)
					require.GreaterOrEqual(t, b.Position.Y(), tt.floorY)
				}
				landed = landed || b.Grounded
			}
			assert.True(t, landed)
			assert.InDelta(t, tt.floorY, c.Body().Position.Y(), 1e-6)
			assert.Equal(t, tt.material, c.Body().Surface)
			assert.Equal(t, StateIdle, c.State())
			if !tt.grounded {
				assert.Equal(t, 1, rec.Count(event.IDLanded))
			}
		})
	}
}

func TestJumpIdempotence(t *testing.T) {
	once, _ := newController(mgl64.Vec3{}, floorSet())
	twice, rec := newController(mgl64.Vec3{}, floorSet())
	once.Body().Grounded = true
	twice.Body().Grounded = true

	assert.True(t, once.Jump())
	assert.True(t, twice.Jump())
	assert.False(t, twice.Jump())
	assert.Equal(t, 1, rec.Count(event.IDJumped))

	once.Tick(dt, InputState{}, defaultBasis)
	twice.Tick(dt, InputState{Jump: true}, defaultBasis)
	assert.Equal(t, once.Body().VelocityY, twice.Body().VelocityY)
	assert.Equal(t, once.Body().Position, twice.Body().Position)
	assert.Greater(t, twice.Body().Position.Y(), 0.0)
}

func TestJumpRequiresGround(t *testing.T) {
	c, rec := newController(mgl64.Vec3{0, 5, 0}, floorSet())
	c.Body().VelocityY = -2
	assert.False(t, c.Jump())
	assert.Equal(t, -2.0, c.Body().VelocityY)
	assert.Empty(t, rec.Events)
}

func TestJumpFromMount(t *testing.T) {
	c, rec := newController(mgl64.Vec3{0, 3, 0}, floorSet())
	b := c.Body()
	b.Grounded = true
	b.Mount = fakeMount{velocity: mgl64.Vec3{3, 0, 1}}

	require.True(t, c.Jump())
	assert.Nil(t, b.Mount)
	assert.Equal(t, mgl64.Vec3{3, 0, 1}, b.Momentum)
	assert.InDelta(t, math.Atan2(3, 1), b.Yaw(), 1e-9)
	assert.Equal(t, 1, rec.Count(event.IDDismounted))

	// Momentum carries the body while airborne.
	x := b.Position.X()
	c.Tick(dt, InputState{}, defaultBasis)
	assert.InDelta(t, x+3*dt, b.Position.X(), 1e-9)
}

func TestMomentumDecaysOnGround(t *testing.T) {
	c, _ := newController(mgl64.Vec3{0, 2, 0}, floorSet())
	c.Body().Momentum = mgl64.Vec3{4, 0, 0}
	for i := 0; i < 180; i++ {
		c.Tick(dt, InputState{}, defaultBasis)
	}
	assert.True(t, c.Body().Grounded)
	assert.Less(t, c.Body().Momentum.Len(), 0.01)
	assert.Greater(t, c.Body().Position.X(), 0.0)
}

func TestCameraRelativeMovement(t *testing.T) {
	tests := []struct {
		name    string
		forward mgl64.Vec3
		move    mgl64.Vec2
		want    mgl64.Vec3
	}{
		{"forward along +z", mgl64.Vec3{0, 0, 1}, mgl64.Vec2{0, 1}, mgl64.Vec3{0, 0, 1}},
		{"forward along +x", mgl64.Vec3{1, -0.5, 0}, mgl64.Vec2{0, 1}, mgl64.Vec3{1, 0, 0}},
		{"strafe right looking -z", mgl64.Vec3{0, 0, -1}, mgl64.Vec2{1, 0}, mgl64.Vec3{1, 0, 0}},
		{"backwards", mgl64.Vec3{0, 0, 1}, mgl64.Vec2{0, -1}, mgl64.Vec3{0, 0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController(mgl64.Vec3{}, floorSet())
			c.Body().Grounded = true
			c.Tick(dt, InputState{Move: tt.move}, BasisFromForward(tt.forward))

			moved := c.Body().Position.Sub(c.Body().LastPosition)
			moved[1] = 0
			require.Greater(t, moved.Len(), 0.0)
			assert.True(t, moved.Normalize().ApproxEqualThreshold(tt.want, 1e-9), "moved %v", moved)
			assert.InDelta(t, settings.DefaultSettings().Locomotion.MaxSpeed*dt, moved.Len(), 1e-9)
			assert.Equal(t, StateMoving, c.State())
		})
	}
}

func TestInputMagnitude(t *testing.T) {
	conf := settings.DefaultSettings().Locomotion
	tests := []struct {
		move  mgl64.Vec2
		speed float64
	}{
		{mgl64.Vec2{0, 0.05}, 0},
		{mgl64.Vec2{0, 0.5}, conf.MaxSpeed * 0.5},
		{mgl64.Vec2{0, 1}, conf.MaxSpeed},
		{mgl64.Vec2{1, 1}, conf.MaxSpeed},
	}
	for _, tt := range tests {
		c, _ := newController(mgl64.Vec3{}, floorSet())
		c.Body().Grounded = true
		c.Tick(dt, InputState{Move: tt.move}, defaultBasis)
		assert.InDelta(t, tt.speed, c.Body().Speed, 1e-9, "move %v", tt.move)
	}
}

func TestLandingCooldownSuppressesInput(t *testing.T) {
	c, _ := newController(mgl64.Vec3{0, 0.5, 0}, floorSet())
	forward := InputState{Move: mgl64.Vec2{0, 1}}

	ticks := 0
	for !c.Body().Grounded {
		c.Tick(dt, InputState{}, defaultBasis)
		ticks++
		require.Less(t, ticks, 60)
	}
	require.Greater(t, c.Body().LandingCooldown, 0.0)

	c.Tick(dt, forward, defaultBasis)
	assert.Zero(t, c.Body().Speed)

	for i := 0; i < 15; i++ {
		c.Tick(dt, forward, defaultBasis)
	}
	assert.Greater(t, c.Body().Speed, 0.0)
}

func TestWallBlocksMovement(t *testing.T) {
	set := floorSet().With(world.NewSurface("wall", world.MaterialDefault, cube.Box(-5, 0, 2, 5, 3, 3)))
	c, _ := newController(mgl64.Vec3{}, set)
	c.Body().Grounded = true

	for i := 0; i < 120; i++ {
		c.Tick(dt, InputState{Move: mgl64.Vec2{0, 1}}, defaultBasis)
	}
	z := c.Body().Position.Z()
	assert.Greater(t, z, 1.0)
	assert.Less(t, z, 2.0)
}

func TestRampDoesNotBlock(t *testing.T) {
	// A low step has an upward facing top and is climbed by the floor probe.
	set := floorSet().With(world.NewSurface("step", world.MaterialDefault, cube.Box(-5, -1, 2, 5, 0.3, 10)))
	c, _ := newController(mgl64.Vec3{}, set)
	c.Body().Grounded = true

	for i := 0; i < 60; i++ {
		c.Tick(dt, InputState{Move: mgl64.Vec2{0, 1}}, defaultBasis)
	}
	assert.Greater(t, c.Body().Position.Z(), 5.0)
	assert.InDelta(t, 0.3, c.Body().Position.Y(), 1e-3)
}

func TestTurnsTowardsHeading(t *testing.T) {
	c, _ := newController(mgl64.Vec3{}, floorSet())
	c.Body().Grounded = true
	for i := 0; i < 120; i++ {
		c.Tick(dt, InputState{Move: mgl64.Vec2{1, 0}}, defaultBasis)
	}
	// Moving right while the camera looks along +z heads towards -x.
	assert.InDelta(t, math.Atan2(-1, 0), c.Body().Yaw(), 1e-3)
}

func TestMountedResolveKeepsPlacement(t *testing.T) {
	c, _ := newController(mgl64.Vec3{0, 4, 0}, floorSet())
	b := c.Body()
	b.Mount = fakeMount{}
	b.Grounded = true

	m := c.Prepare(dt, InputState{}, defaultBasis)
	c.Resolve(dt, m)
	assert.Equal(t, 4.0, b.Position.Y())
	assert.Equal(t, world.MaterialHard, b.Surface)
	assert.Equal(t, StateMounted, c.State())
}

func TestBolts(t *testing.T) {
	c, rec := newController(mgl64.Vec3{}, floorSet())
	c.Body().Grounded = true
	c.Tick(dt, InputState{Attack: true}, defaultBasis)
	require.Len(t, c.Body().Bolts, 1)
	assert.Equal(t, 1, rec.Count(event.IDBoltFired))

	target := opt.Some(mgl64.Vec3{0, 1.2, 3})
	hits := 0
	for i := 0; i < 30; i++ {
		hits += c.UpdateBolts(dt, target)
	}
	assert.Equal(t, 1, hits)
	assert.Empty(t, c.Body().Bolts)
}

func TestHurt(t *testing.T) {
	c, rec := newController(mgl64.Vec3{}, floorSet())
	c.Hurt("mask", 0)
	assert.False(t, c.Body().Flashing())
	c.Hurt("mask", 2)
	assert.True(t, c.Body().Flashing())
	assert.Equal(t, 1, rec.Count(event.IDPlayerHit))
	for i := 0; i < 20; i++ {
		c.Tick(dt, InputState{}, defaultBasis)
	}
	assert.False(t, c.Body().Flashing())
}

func TestFastFallLandsOnThinFloor(t *testing.T) {
	deck := world.SurfaceSet{world.NewSurface("deck", world.MaterialHard, cube.Box(-50, -0.5, -50, 50, 0, 50))}
	c, rec := newController(mgl64.Vec3{0, 15, 0}, deck)
	band := settings.DefaultSettings().Locomotion.FloorSnapBand

	for i := 0; i < 12; i++ {
		c.Tick(0.1, InputState{}, defaultBasis)
		require.GreaterOrEqual(t, c.Body().Position.Y(), 0.0, "tick %d", i)
	}
	assert.True(t, c.Body().Grounded)
	assert.LessOrEqual(t, c.Body().Position.Y(), band/2)
	assert.Equal(t, world.MaterialHard, c.Body().Surface)
	assert.Equal(t, 1, rec.Count(event.IDLanded))
}
