package event

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Jumped is emitted when the player leaves the ground or a mount by jumping.
type Jumped struct {
	Momentum  mgl64.Vec3
	FromMount bool
}

func (Jumped) ID() byte { return IDJumped }
func (e Jumped) Details() *orderedmap.OrderedMap[string, any] {
	return details("momentum", e.Momentum, "from_mount", e.FromMount)
}

// Landed is emitted on the transition from airborne to grounded.
type Landed struct {
	Surface string
	Speed   float64
}

func (Landed) ID() byte { return IDLanded }
func (e Landed) Details() *orderedmap.OrderedMap[string, any] {
	return details("surface", e.Surface, "speed", e.Speed)
}

// Mounted is emitted when the player starts standing on an adversary.
type Mounted struct {
	Adversary string
}

func (Mounted) ID() byte { return IDMounted }
func (e Mounted) Details() *orderedmap.OrderedMap[string, any] {
	return details("adversary", e.Adversary)
}

// Dismounted is emitted when the player stops standing on an adversary.
type Dismounted struct {
	Adversary string
	Jumped    bool
}

func (Dismounted) ID() byte { return IDDismounted }
func (e Dismounted) Details() *orderedmap.OrderedMap[string, any] {
	return details("adversary", e.Adversary, "jumped", e.Jumped)
}

// PlayerHit is emitted when an adversary projectile reaches the player.
type PlayerHit struct {
	Source string
	Hits   int
}

func (PlayerHit) ID() byte { return IDPlayerHit }
func (e PlayerHit) Details() *orderedmap.OrderedMap[string, any] {
	return details("source", e.Source, "hits", e.Hits)
}

// AdversaryHit is emitted when an adversary takes damage.
type AdversaryHit struct {
	Adversary string
	Health    int
}

func (AdversaryHit) ID() byte { return IDAdversaryHit }
func (e AdversaryHit) Details() *orderedmap.OrderedMap[string, any] {
	return details("adversary", e.Adversary, "health", e.Health)
}

// AdversaryDied is emitted once when an adversary's health is exhausted.
type AdversaryDied struct {
	Adversary string
	Position  mgl64.Vec3
}

func (AdversaryDied) ID() byte { return IDAdversaryDied }
func (e AdversaryDied) Details() *orderedmap.OrderedMap[string, any] {
	return details("adversary", e.Adversary, "position", e.Position)
}

// AdversaryState is emitted whenever an adversary changes lifecycle state.
type AdversaryState struct {
	Adversary string
	From, To  string
}

func (AdversaryState) ID() byte { return IDAdversaryState }
func (e AdversaryState) Details() *orderedmap.OrderedMap[string, any] {
	return details("adversary", e.Adversary, "from", e.From, "to", e.To)
}

// ProjectilesFired is emitted when an adversary fires a volley.
type ProjectilesFired struct {
	Adversary string
	Count     int
}

func (ProjectilesFired) ID() byte { return IDProjectilesFired }
func (e ProjectilesFired) Details() *orderedmap.OrderedMap[string, any] {
	return details("adversary", e.Adversary, "count", e.Count)
}

// CameraMode is emitted when the camera rig switches mode.
type CameraMode struct {
	From, To string
}

func (CameraMode) ID() byte { return IDCameraMode }
func (e CameraMode) Details() *orderedmap.OrderedMap[string, any] {
	return details("from", e.From, "to", e.To)
}

// BoltFired is emitted when the player attacks.
type BoltFired struct {
	Position mgl64.Vec3
}

func (BoltFired) ID() byte { return IDBoltFired }
func (e BoltFired) Details() *orderedmap.OrderedMap[string, any] {
	return details("position", e.Position)
}
