package main

import (
	"fmt"
	"os"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maskfall/sim/game"
	"github.com/maskfall/sim/player"
	"github.com/maskfall/sim/session"
	"github.com/maskfall/sim/world"
	"github.com/pelletier/go-toml/v2"
	opt "github.com/repeale/fp-go/option"
)

// Scenario is a scripted headless run: a level, an adversary, and the input and quest cues to feed
// the session frame by frame.
type Scenario struct {
	Frames int     `toml:"frames"`
	Delta  float64 `toml:"dt"`

	Spawn          mgl64.Vec3   `toml:"spawn"`
	Focus          mgl64.Vec3   `toml:"focus"`
	AdversarySpawn mgl64.Vec3   `toml:"adversary_spawn"`
	Waypoints      []mgl64.Vec3 `toml:"waypoints"`
	FlightArea     *Area        `toml:"flight_area"`

	Surfaces []SurfaceDef `toml:"surfaces"`
	Inputs   []InputSpan  `toml:"inputs"`
	Cues     []Cue        `toml:"cues"`
}

// Area is an axis aligned box given by two corners.
type Area struct {
	Min mgl64.Vec3 `toml:"min"`
	Max mgl64.Vec3 `toml:"max"`
}

// SurfaceDef describes a collision box of the level, optionally turned around Y and moved.
type SurfaceDef struct {
	ID       string     `toml:"id"`
	Material string     `toml:"material"`
	Min      mgl64.Vec3 `toml:"min"`
	Max      mgl64.Vec3 `toml:"max"`
	Position mgl64.Vec3 `toml:"position"`
	Yaw      float64    `toml:"yaw"`
}

// InputSpan holds an input over the frames [From, To).
type InputSpan struct {
	From  int               `toml:"from"`
	To    int               `toml:"to"`
	Input player.InputState `toml:"input"`
}

// Cue is a quest event fired before the frame passed.
type Cue struct {
	Frame  int        `toml:"frame"`
	Action string     `toml:"action"`
	Point  mgl64.Vec3 `toml:"point"`
	DX     float64    `toml:"dx"`
	DY     float64    `toml:"dy"`
}

// LoadScenario reads and checks the scenario file at the path passed.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("error reading scenario: %w", err)
	}
	sc := Scenario{Frames: 600, Delta: game.DefaultFrameDuration}
	if err := toml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("error decoding scenario: %w", err)
	}
	for _, c := range sc.Cues {
		switch c.Action {
		case "cinematic", "return", "intro", "drag":
		default:
			return Scenario{}, fmt.Errorf("cue at frame %d: unknown action %q", c.Frame, c.Action)
		}
	}
	if _, err := sc.SurfaceSet(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// SurfaceSet builds the collision set of the scenario.
func (sc Scenario) SurfaceSet() (world.SurfaceSet, error) {
	set := make(world.SurfaceSet, 0, len(sc.Surfaces))
	for i, d := range sc.Surfaces {
		var m world.Material
		switch d.Material {
		case "", "default":
			m = world.MaterialDefault
		case "hard":
			m = world.MaterialHard
		default:
			return nil, fmt.Errorf("surface %d (%s): unknown material %q", i, d.ID, d.Material)
		}
		box := cube.Box(d.Min[0], d.Min[1], d.Min[2], d.Max[0], d.Max[1], d.Max[2])
		if d.Yaw == 0 && d.Position == (mgl64.Vec3{}) {
			set = append(set, world.NewSurface(d.ID, m, box))
			continue
		}
		transform := mgl64.Translate3D(d.Position[0], d.Position[1], d.Position[2]).Mul4(mgl64.HomogRotate3DY(d.Yaw))
		set = append(set, world.NewTransformedSurface(d.ID, m, box, transform))
	}
	return set, nil
}

// Config fills the scenario part of a session configuration.
func (sc Scenario) Config(c *session.Config) error {
	set, err := sc.SurfaceSet()
	if err != nil {
		return err
	}
	c.Surfaces = set
	c.Spawn = sc.Spawn
	c.Focus = sc.Focus
	c.AdversarySpawn = sc.AdversarySpawn
	c.Waypoints = sc.Waypoints
	c.FlightArea = opt.None[cube.BBox]()
	if a := sc.FlightArea; a != nil {
		c.FlightArea = opt.Some(cube.Box(a.Min[0], a.Min[1], a.Min[2], a.Max[0], a.Max[1], a.Max[2]))
	}
	return nil
}

// Input returns the input of the frame passed. Later spans override earlier ones.
func (sc Scenario) Input(frame int) player.InputState {
	var in player.InputState
	for _, s := range sc.Inputs {
		if frame >= s.From && frame < s.To {
			in = s.Input
		}
	}
	return in
}

// Apply fires the cues of the frame passed on the session.
func (sc Scenario) Apply(frame int, s *session.Session) {
	for _, c := range sc.Cues {
		if c.Frame != frame {
			continue
		}
		switch c.Action {
		case "cinematic":
			s.StartCinematic()
		case "return":
			s.StartReturn(c.Point)
		case "intro":
			s.StartIntro()
		case "drag":
			s.Drag(c.DX, c.DY)
		}
	}
}
