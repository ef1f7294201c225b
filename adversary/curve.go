package adversary

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Curve is a uniform Catmull-Rom spline through an ordered list of waypoints. Each span is evaluated
// as a cubic Bézier segment. Positions are addressed either by the raw spline parameter t, where
// waypoint i sits at i/(n-1), or by the arc length fraction u in [0, 1].
type Curve struct {
	points []mgl64.Vec3
	// lengths holds the cumulative arc length at each of the divisions of t.
	lengths []float64
}

// NewCurve builds a curve through the points passed. At least two points are required; nil is
// returned otherwise.
func NewCurve(points []mgl64.Vec3, divisions int) *Curve {
	if len(points) < 2 {
		return nil
	}
	if divisions < 1 {
		divisions = 1
	}
	c := &Curve{points: append([]mgl64.Vec3(nil), points...)}
	c.lengths = make([]float64, divisions+1)
	last := c.point(0)
	for i := 1; i <= divisions; i++ {
		p := c.point(float64(i) / float64(divisions))
		c.lengths[i] = c.lengths[i-1] + p.Sub(last).Len()
		last = p
	}
	return c
}

// Len returns the number of waypoints of the curve.
func (c *Curve) Len() int {
	return len(c.points)
}

// Waypoint returns the waypoint at the index passed.
func (c *Curve) Waypoint(i int) mgl64.Vec3 {
	return c.points[i]
}

// Length returns the approximate arc length of the curve.
func (c *Curve) Length() float64 {
	return c.lengths[len(c.lengths)-1]
}

// PointAt returns the position at the arc length fraction u.
func (c *Curve) PointAt(u float64) mgl64.Vec3 {
	return c.point(c.UToT(u))
}

// TangentAt returns the unit tangent at the arc length fraction u.
func (c *Curve) TangentAt(u float64) mgl64.Vec3 {
	d := c.derivative(c.UToT(u))
	if d.LenSqr() == 0 {
		return mgl64.Vec3{}
	}
	return d.Normalize()
}

// UToT maps an arc length fraction to the raw spline parameter.
func (c *Curve) UToT(u float64) float64 {
	u = mgl64.Clamp(u, 0, 1)
	total := c.Length()
	if total == 0 {
		return u
	}
	target := u * total
	n := len(c.lengths) - 1
	i := sort.SearchFloat64s(c.lengths, target)
	if i == 0 {
		return 0
	}
	if i > n {
		return 1
	}
	before, after := c.lengths[i-1], c.lengths[i]
	frac := 0.0
	if after > before {
		frac = (target - before) / (after - before)
	}
	return (float64(i-1) + frac) / float64(n)
}

// TToU maps a raw spline parameter to its arc length fraction.
func (c *Curve) TToU(t float64) float64 {
	t = mgl64.Clamp(t, 0, 1)
	total := c.Length()
	if total == 0 {
		return t
	}
	n := len(c.lengths) - 1
	f := t * float64(n)
	i := int(f)
	if i >= n {
		return 1
	}
	l := c.lengths[i] + (c.lengths[i+1]-c.lengths[i])*(f-float64(i))
	return l / total
}

// WaypointU returns the arc length fraction at which the waypoint at index i sits.
func (c *Curve) WaypointU(i int) float64 {
	return c.TToU(float64(i) / float64(len(c.points)-1))
}

// segment returns the Bézier control points of the span containing t and the local parameter
// within that span.
func (c *Curve) segment(t float64) (b0, b1, b2, b3 mgl64.Vec3, w float64) {
	n := len(c.points)
	p := mgl64.Clamp(t, 0, 1) * float64(n-1)
	i := int(p)
	w = p - float64(i)
	if i >= n-1 {
		i, w = n-2, 1
	}

	p1, p2 := c.points[i], c.points[i+1]
	var p0, p3 mgl64.Vec3
	if i > 0 {
		p0 = c.points[i-1]
	} else {
		p0 = p1.Mul(2).Sub(p2)
	}
	if i+2 < n {
		p3 = c.points[i+2]
	} else {
		p3 = p2.Mul(2).Sub(p1)
	}
	return p1, p1.Add(p2.Sub(p0).Mul(1.0 / 6)), p2.Sub(p3.Sub(p1).Mul(1.0 / 6)), p2, w
}

func (c *Curve) point(t float64) mgl64.Vec3 {
	b0, b1, b2, b3, w := c.segment(t)
	return mgl64.CubicBezierCurve3D(w, b0, b1, b2, b3)
}

// derivative returns the derivative of the curve with respect to the local span parameter.
func (c *Curve) derivative(t float64) mgl64.Vec3 {
	b0, b1, b2, b3, w := c.segment(t)
	iw := 1 - w
	return b1.Sub(b0).Mul(3 * iw * iw).
		Add(b2.Sub(b1).Mul(6 * iw * w)).
		Add(b3.Sub(b2).Mul(3 * w * w))
}
