package cpurender

import (
	"math"
	"testing"
)

func matrixNear(a, b Matrix, eps float64) bool {
	av, bv := a.Array(), b.Array()
	for i := range av {
		if math.Abs(av[i]-bv[i]) > eps {
			return false
		}
	}
	return true
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Scale(2,1) then Translate(3,0): the translation is applied to points
	// first, so (1,1) -> (4,1) -> (8,1).
	m := Identity().Multiply(Scale(2, 1)).Multiply(Translate(3, 0))
	x, y := m.TransformPoint(1, 1)
	if x != 8 || y != 1 {
		t.Errorf("TransformPoint(1,1) = (%v, %v), want (8, 1)", x, y)
	}

	want := Matrix{A: 2, B: 0, C: 0, D: 1, E: 6, F: 0}
	if m != want {
		t.Errorf("composed matrix = %+v, want %+v", m, want)
	}
}

func TestMatrixMultiplyFormula(t *testing.T) {
	old := Matrix{A: 1.5, B: -0.25, C: 0.75, D: 2, E: 10, F: -4}
	a, b, c, d, e, f := 0.5, 0.3, -1.2, 0.9, 7.0, 3.0

	got := old.Multiply(Matrix{A: a, B: b, C: c, D: d, E: e, F: f})
	want := Matrix{
		A: old.A*a + old.C*b,
		B: old.B*a + old.D*b,
		C: old.A*c + old.C*d,
		D: old.B*c + old.D*d,
		E: old.A*e + old.C*f + old.E,
		F: old.B*e + old.D*f + old.F,
	}
	if got != want {
		t.Errorf("Multiply = %+v, want %+v", got, want)
	}
}

func TestRotateMatrix(t *testing.T) {
	m := Rotate(math.Pi / 2)
	x, y := m.TransformPoint(1, 0)
	if math.Abs(x) > 1e-12 || math.Abs(y-1) > 1e-12 {
		t.Errorf("Rotate(pi/2) maps (1,0) to (%v, %v), want (0, 1)", x, y)
	}
	s, c := math.Sincos(0.3)
	want := Matrix{A: c, B: s, C: -s, D: c}
	if got := Rotate(0.3); got != want {
		t.Errorf("Rotate(0.3) = %+v, want %+v", got, want)
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"identity", Identity()},
		{"translate", Translate(12, -7)},
		{"scale", Scale(3, 0.25)},
		{"rotate", Rotate(1.1)},
		{"composed", Translate(40, 30).Multiply(Rotate(-0.7)).Multiply(Scale(2, 5))},
		{"shear", Matrix{A: 1, B: 0.4, C: -0.6, D: 1.3, E: 5, F: 9}},
	}
	points := []Point{{0, 0}, {1, 1}, {-13.5, 42}, {1000, -0.001}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.m.Invert()
			for _, p := range points {
				q := inv.Apply(tt.m.Apply(p))
				if math.Abs(q.X-p.X) > 1e-9 || math.Abs(q.Y-p.Y) > 1e-9 {
					t.Errorf("inv(m(%v)) = %v", p, q)
				}
			}
			if !matrixNear(tt.m.Multiply(inv), Identity(), 1e-9) {
				t.Errorf("m * inv = %+v, want identity", tt.m.Multiply(inv))
			}
		})
	}
}

func TestMatrixInvertDegenerate(t *testing.T) {
	m := Matrix{A: 2, B: 4, C: 1, D: 2, E: 3, F: 5} // det = 0
	got := m.Invert()
	k := DegenerateInverseScale
	want := Matrix{
		A: 2 * k,
		B: -4 * k,
		C: -1 * k,
		D: 2 * k,
		E: (1*5 - 2*3) * k,
		F: (4*3 - 2*5) * k,
	}
	if got != want {
		t.Errorf("Invert() of singular matrix = %+v, want %+v", got, want)
	}
}

func TestMatrixArrayRoundTrip(t *testing.T) {
	v := [6]float64{1, 2, 3, 4, 5, 6}
	m := MatrixFromArray(v)
	if m.Array() != v {
		t.Errorf("Array() = %v, want %v", m.Array(), v)
	}
	x, y := m.TransformPoint(1, 1)
	if x != 1+3+5 || y != 2+4+6 {
		t.Errorf("TransformPoint(1,1) = (%v, %v), want (9, 12)", x, y)
	}
}

func TestMatrixPredicates(t *testing.T) {
	tests := []struct {
		name        string
		m           Matrix
		identity    bool
		translation bool
	}{
		{"identity", Identity(), true, true},
		{"translate", Translate(1, 2), false, true},
		{"scale", Scale(2, 2), false, false},
		{"rotate", Rotate(0.5), false, false},
		{"zero matrix", Matrix{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsIdentity(); got != tt.identity {
				t.Errorf("IsIdentity() = %v, want %v", got, tt.identity)
			}
			if got := tt.m.IsTranslation(); got != tt.translation {
				t.Errorf("IsTranslation() = %v, want %v", got, tt.translation)
			}
		})
	}
}
