package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/cube/trace"
	"github.com/go-gl/mathgl/mgl64"
	opt "github.com/repeale/fp-go/option"
)

// Hit is the nearest intersection found by a probe.
type Hit struct {
	// Point is the world position of the intersection.
	Point mgl64.Vec3
	// Normal is the unit world space normal of the face that was hit.
	Normal mgl64.Vec3
	// Distance is the distance from the probe origin to Point.
	Distance float64

	SurfaceID string
	Material  Material
}

// Probe casts a ray from origin along direction for at most maxDistance units and returns the
// nearest surface hit in the set, if any. Probing is pure: missing geometry simply yields no hit.
func Probe(origin, direction mgl64.Vec3, maxDistance float64, set SurfaceSet) opt.Option[Hit] {
	if maxDistance <= 0 || direction.LenSqr() == 0 || len(set) == 0 {
		return opt.None[Hit]()
	}
	end := origin.Add(direction.Normalize().Mul(maxDistance))

	var (
		nearest Hit
		found   bool
	)
	for _, s := range set {
		result, ok := trace.BBoxIntercept(s.box, s.toLocal(origin), s.toLocal(end))
		if !ok {
			continue
		}
		point := s.toWorld(result.Position())
		dist := point.Sub(origin).Len()
		if dist > maxDistance+1e-9 {
			continue
		}
		if found && dist >= nearest.Distance {
			continue
		}
		nearest = Hit{
			Point:     point,
			Normal:    s.normalToWorld(faceNormal(result.Face())),
			Distance:  dist,
			SurfaceID: s.ID,
			Material:  s.Material,
		}
		found = true
	}
	if !found {
		return opt.None[Hit]()
	}
	return opt.Some(nearest)
}

// faceNormal returns the outward local normal of a box face.
func faceNormal(f cube.Face) mgl64.Vec3 {
	switch f {
	case cube.FaceUp:
		return mgl64.Vec3{0, 1, 0}
	case cube.FaceDown:
		return mgl64.Vec3{0, -1, 0}
	case cube.FaceNorth:
		return mgl64.Vec3{0, 0, -1}
	case cube.FaceSouth:
		return mgl64.Vec3{0, 0, 1}
	case cube.FaceWest:
		return mgl64.Vec3{-1, 0, 0}
	default:
		return mgl64.Vec3{1, 0, 0}
	}
}
