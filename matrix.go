package cpurender

import "math"

// DegenerateInverseScale is the inverse determinant used by [Matrix.Invert]
// when the matrix is singular. It keeps every drawing call defined: the
// resulting huge local coordinates fall outside any shape and are clipped away.
const DegenerateInverseScale = 1e9

// Matrix represents a 2D affine transformation in canvas order:
//
//	| A  C  E |
//	| B  D  F |
//
// This represents the transformation:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, D: 1, E: x, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, D: y}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// MatrixFromArray builds a matrix from its six coefficients (a, b, c, d, e, f).
func MatrixFromArray(v [6]float64) Matrix {
	return Matrix{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]}
}

// Array returns the six coefficients (a, b, c, d, e, f).
func (m Matrix) Array() [6]float64 {
	return [6]float64{m.A, m.B, m.C, m.D, m.E, m.F}
}

// Multiply multiplies two matrices (m * other).
// Points are transformed by other first, then by m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.C*other.B,
		B: m.B*other.A + m.D*other.B,
		C: m.A*other.C + m.C*other.D,
		D: m.B*other.C + m.D*other.D,
		E: m.A*other.E + m.C*other.F + m.E,
		F: m.B*other.E + m.D*other.F + m.F,
	}
}

// TransformPoint applies the transformation to the point (x, y).
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Apply applies the transformation to a point.
func (m Matrix) Apply(p Point) Point {
	x, y := m.TransformPoint(p.X, p.Y)
	return Point{X: x, Y: y}
}

// TransformVector applies the transformation to a vector (no translation).
func (m Matrix) TransformVector(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y,
		Y: m.B*p.X + m.D*p.Y,
	}
}

// Determinant returns A*D - B*C.
func (m Matrix) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse matrix.
//
// A singular matrix does not fail: its inverse is computed with
// [DegenerateInverseScale] in place of 1/det. The result is not a true
// inverse; callers that care should check [Matrix.Determinant] first.
func (m Matrix) Invert() Matrix {
	det := m.Determinant()
	invDet := DegenerateInverseScale
	if det != 0 {
		invDet = 1 / det
	}

	return Matrix{
		A: m.D * invDet,
		B: -m.B * invDet,
		C: -m.C * invDet,
		D: m.A * invDet,
		E: (m.C*m.F - m.D*m.E) * invDet,
		F: (m.B*m.E - m.A*m.F) * invDet,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1
}
