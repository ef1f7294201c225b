package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Material classifies a surface for footstep and impact cues.
type Material uint8

const (
	// MaterialDefault is any surface without a special classification.
	MaterialDefault Material = iota
	// MaterialHard is stone-like ground such as consoles, platforms and lookouts.
	MaterialHard
)

// String ...
func (m Material) String() string {
	switch m {
	case MaterialHard:
		return "hard"
	default:
		return "default"
	}
}

// Surface is a box shaped collision surface. The box is expressed in the surface's local space
// and placed in the world by a transform, which allows oriented boxes.
type Surface struct {
	ID       string
	Material Material

	box       cube.BBox
	transform mgl64.Mat4
	inverse   mgl64.Mat4
	normals   mgl64.Mat3
}

// NewSurface returns an axis aligned surface already placed in world space.
func NewSurface(id string, material Material, box cube.BBox) Surface {
	return NewTransformedSurface(id, material, box, mgl64.Ident4())
}

// NewTransformedSurface returns a surface whose local box is placed in the world by the
// local-to-world transform passed.
func NewTransformedSurface(id string, material Material, box cube.BBox, transform mgl64.Mat4) Surface {
	inv := transform.Inv()
	return Surface{
		ID:        id,
		Material:  material,
		box:       box,
		transform: transform,
		inverse:   inv,
		normals:   inv.Transpose().Mat3(),
	}
}

// Box returns the local space box of the surface.
func (s Surface) Box() cube.BBox {
	return s.box
}

// Transform returns the local-to-world transform of the surface.
func (s Surface) Transform() mgl64.Mat4 {
	return s.transform
}

// Top returns the world position of the centre of the top face of the surface.
func (s Surface) Top() mgl64.Vec3 {
	min, max := s.box.Min(), s.box.Max()
	local := mgl64.Vec3{(min.X() + max.X()) / 2, max.Y(), (min.Z() + max.Z()) / 2}
	return s.toWorld(local)
}

func (s Surface) toLocal(v mgl64.Vec3) mgl64.Vec3 {
	return s.inverse.Mul4x1(v.Vec4(1)).Vec3()
}

func (s Surface) toWorld(v mgl64.Vec3) mgl64.Vec3 {
	return s.transform.Mul4x1(v.Vec4(1)).Vec3()
}

func (s Surface) normalToWorld(n mgl64.Vec3) mgl64.Vec3 {
	w := s.normals.Mul3x1(n)
	if w.LenSqr() == 0 {
		return n
	}
	return w.Normalize()
}

// SurfaceSet is the static collision set of a level. It never changes while a session runs.
type SurfaceSet []Surface

// With returns a new set containing the surfaces of the set and the ones passed.
func (set SurfaceSet) With(surfaces ...Surface) SurfaceSet {
	out := make(SurfaceSet, 0, len(set)+len(surfaces))
	out = append(out, set...)
	return append(out, surfaces...)
}
