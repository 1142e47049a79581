package geom

// Matrix4 is a 4x4 affine transform: m[row][col], with the translation in
// column 3 and the bottom row implicitly (0,0,0,1).
type Matrix4 struct {
	m [4][4]float64
}

// Identity returns the identity transform.
func Identity() Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		out.m[i][i] = 1
	}
	return out
}

// Translation returns a pure-translation transform.
func Translation(v Vector3) Matrix4 {
	out := Identity()
	out.m[0][3] = v.X
	out.m[1][3] = v.Y
	out.m[2][3] = v.Z
	return out
}

func (m Matrix4) transformLinear(v Vector3) Vector3 {
	return Vector3{
		X: m.m[0][0]*v.X + m.m[0][1]*v.Y + m.m[0][2]*v.Z,
		Y: m.m[1][0]*v.X + m.m[1][1]*v.Y + m.m[1][2]*v.Z,
		Z: m.m[2][0]*v.X + m.m[2][1]*v.Y + m.m[2][2]*v.Z,
	}
}

func (m Matrix4) transformAffine(p Point3) Point3 {
	v := m.transformLinear(Vector3{p.X, p.Y, p.Z})
	return Point3{
		X: v.X + m.m[0][3],
		Y: v.Y + m.m[1][3],
		Z: v.Z + m.m[2][3],
	}
}

// Multiply returns m applied after o (m * o, so p.Transform(m.Multiply(o)) == p.Transform(o).Transform(m)).
func (m Matrix4) Multiply(o Matrix4) Matrix4 {
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m.m[r][k] * o.m[k][c]
			}
			out.m[r][c] = sum
		}
	}
	return out
}

// Inverse returns the inverse of an affine transform built purely from
// Translation/Identity/Multiply compositions of those two (i.e. orthonormal
// rotation + translation, no scale/shear). That covers every use in this
// module (local<->world frames around a hit point); a general 4x4 inverse
// is not needed and not implemented.
func (m Matrix4) Inverse() Matrix4 {
	var out Matrix4
	// Transpose the 3x3 rotation part (valid for orthonormal rotations).
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out.m[r][c] = m.m[c][r]
		}
	}
	t := Vector3{m.m[0][3], m.m[1][3], m.m[2][3]}
	inv := out.transformLinear(t.Negate())
	out.m[0][3] = inv.X
	out.m[1][3] = inv.Y
	out.m[2][3] = inv.Z
	out.m[3][3] = 1
	return out
}
