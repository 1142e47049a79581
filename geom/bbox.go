package geom

import "math"

// BoundingBox is an axis-aligned bounding box.
type BoundingBox struct {
	Lower Point3
	Upper Point3
}

// EmptyBoundingBox returns a degenerate box that contains nothing; the
// first Union against it yields the operand's own extent.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{
		Lower: Point3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Upper: Point3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// NewBoundingBox builds a box from two corner points, normalising them so
// Lower <= Upper componentwise.
func NewBoundingBox(a, b Point3) BoundingBox {
	return BoundingBox{
		Lower: Point3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)},
		Upper: Point3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)},
	}
}

// GetLower returns the lower bound along axis (0=X,1=Y,2=Z).
func (b BoundingBox) GetLower(axis int) float64 { return b.Lower.GetAxis(axis) }

// GetUpper returns the upper bound along axis.
func (b BoundingBox) GetUpper(axis int) float64 { return b.Upper.GetAxis(axis) }

// SetLower returns a copy of b with the lower bound along axis set to v.
func (b BoundingBox) SetLower(axis int, v float64) BoundingBox {
	b.Lower = b.Lower.SetAxis(axis, v)
	return b
}

// SetUpper returns a copy of b with the upper bound along axis set to v.
func (b BoundingBox) SetUpper(axis int, v float64) BoundingBox {
	b.Upper = b.Upper.SetAxis(axis, v)
	return b
}

// Union extends b in place to include o.
func (b *BoundingBox) Union(o BoundingBox) {
	b.Lower.X = math.Min(b.Lower.X, o.Lower.X)
	b.Lower.Y = math.Min(b.Lower.Y, o.Lower.Y)
	b.Lower.Z = math.Min(b.Lower.Z, o.Lower.Z)
	b.Upper.X = math.Max(b.Upper.X, o.Upper.X)
	b.Upper.Y = math.Max(b.Upper.Y, o.Upper.Y)
	b.Upper.Z = math.Max(b.Upper.Z, o.Upper.Z)
}

// SurfaceArea returns the surface area of b; 0 for a degenerate box.
func (b BoundingBox) SurfaceArea() float64 {
	dx := b.Upper.X - b.Lower.X
	dy := b.Upper.Y - b.Lower.Y
	dz := b.Upper.Z - b.Lower.Z
	if dx < 0 || dy < 0 || dz < 0 {
		return 0
	}
	return 2 * (dx*dy + dy*dz + dz*dx)
}

// LargestAxis returns the axis (0/1/2) with the greatest extent, ties
// broken by the lowest axis index.
func (b BoundingBox) LargestAxis() int {
	dx := b.Upper.X - b.Lower.X
	dy := b.Upper.Y - b.Lower.Y
	dz := b.Upper.Z - b.Lower.Z
	axis := 0
	best := dx
	if dy > best {
		axis, best = 1, dy
	}
	if dz > best {
		axis = 2
	}
	return axis
}

// Contains reports whether p lies within b, inclusive on all faces.
func (b BoundingBox) Contains(p Point3) bool {
	return p.X >= b.Lower.X && p.X <= b.Upper.X &&
		p.Y >= b.Lower.Y && p.Y <= b.Upper.Y &&
		p.Z >= b.Lower.Z && p.Z <= b.Upper.Z
}

// FullIntersection performs the slab test of a ray (origin, direction)
// against b, returning whether it hits and, if so, the entry/exit
// parametric distances.
func (b BoundingBox) FullIntersection(origin Point3, direction Vector3) (hit bool, tMin, tMax float64) {
	tMin, tMax = math.Inf(-1), math.Inf(1)
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{direction.X, direction.Y, direction.Z}
	lo := [3]float64{b.Lower.X, b.Lower.Y, b.Lower.Z}
	hi := [3]float64{b.Upper.X, b.Upper.Y, b.Upper.Z}

	for axis := 0; axis < 3; axis++ {
		if d[axis] == 0 {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return false, 0, 0
			}
			continue
		}
		invD := 1 / d[axis]
		t1 := (lo[axis] - o[axis]) * invD
		t2 := (hi[axis] - o[axis]) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return false, 0, 0
		}
	}
	return true, tMin, tMax
}
