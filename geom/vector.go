// Package geom provides the minimal concrete geometry types the material
// and kd-tree packages are exercised against: 3-vectors/points/normals, a
// 4x4 affine matrix, an axis-aligned bounding box, and the Ray/Spectrum/
// World collaborator interfaces spec.md describes as external (§1, §6).
//
// The real affine-transform / point / vector / normal linear-algebra layer
// is explicitly out of spec scope; these are plain stand-in structs, not a
// general-purpose math library.
package geom

import "math"

// Vector3 is a direction or displacement in 3-space.
type Vector3 struct {
	X, Y, Z float64
}

// Dot returns the Euclidean dot product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the Euclidean norm of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalise returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vector3) Normalise() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector3{v.X / l, v.Y / l, v.Z / l}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Add returns v+o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v-o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Negate returns -v.
func (v Vector3) Negate() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

// GetAxis returns the component of v along the given axis (0=X, 1=Y, 2=Z).
func (v Vector3) GetAxis(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Transform applies the linear part of m to v (no translation).
func (v Vector3) Transform(m Matrix4) Vector3 {
	return m.transformLinear(v)
}

// Point3 is a position in 3-space.
type Point3 struct {
	X, Y, Z float64
}

// GetAxis returns the component of p along the given axis (0=X, 1=Y, 2=Z).
func (p Point3) GetAxis(axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// SetAxis returns a copy of p with the given axis set to v.
func (p Point3) SetAxis(axis int, v float64) Point3 {
	switch axis {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}

// Add returns p+v.
func (p Point3) Add(v Vector3) Point3 {
	return Point3{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// Sub returns the displacement from o to p.
func (p Point3) Sub(o Point3) Vector3 {
	return Vector3{p.X - o.X, p.Y - o.Y, p.Z - o.Z}
}

// Transform applies the full affine transform m (linear part + translation)
// to p.
func (p Point3) Transform(m Matrix4) Point3 {
	return m.transformAffine(p)
}

// Normal3 is a surface normal. It is kept distinct from Vector3 because in a
// full linear-algebra layer normals transform by the inverse-transpose of
// an affine matrix rather than the matrix itself; this stand-in
// implementation transforms by the linear part like a Vector3.
type Normal3 struct {
	X, Y, Z float64
}

// Dot returns the dot product of n and v.
func (n Normal3) Dot(v Vector3) float64 {
	return n.X*v.X + n.Y*v.Y + n.Z*v.Z
}

// Vector returns n reinterpreted as a Vector3.
func (n Normal3) Vector() Vector3 {
	return Vector3{n.X, n.Y, n.Z}
}

// Normalise returns n scaled to unit length.
func (n Normal3) Normalise() Normal3 {
	v := n.Vector().Normalise()
	return Normal3{v.X, v.Y, v.Z}
}

// Transform applies the linear part of m to n.
func (n Normal3) Transform(m Matrix4) Normal3 {
	v := m.transformLinear(n.Vector())
	return Normal3{v.X, v.Y, v.Z}
}

// Negate returns -n.
func (n Normal3) Negate() Normal3 {
	return Normal3{-n.X, -n.Y, -n.Z}
}
