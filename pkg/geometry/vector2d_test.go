package geometry

import (
	"math"
	"testing"
)

func TestFromPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"unit along x", 1, 0, Vector2D{1, 0}},
		{"unit along y", 1, math.Pi / 2, Vector2D{0, 1}},
		{"negative x", 2, math.Pi, Vector2D{-2, 0}},
		{"45 degrees", math.Sqrt2, math.Pi / 4, Vector2D{1, 1}},
		{"zero radius", 0, 1.234, Vector2D{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("FromPolar(%v, %v) = %v, want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := Vector2D{3, 4}
	b := Vector2D{-1, 2}

	if got := a.Add(b); !got.Eq(Vector2D{2, 6}) {
		t.Errorf("Add = %v, want (2, 6)", got)
	}
	if got := a.Sub(b); !got.Eq(Vector2D{4, 2}) {
		t.Errorf("Sub = %v, want (4, 2)", got)
	}
	if got := a.Mul(2); !got.Eq(Vector2D{6, 8}) {
		t.Errorf("Mul = %v, want (6, 8)", got)
	}
	if got := a.Dot(b); got != 5 {
		t.Errorf("Dot = %v, want 5", got)
	}
}

func TestLenAndNormalize(t *testing.T) {
	v := Vector2D{3, 4}

	if got := v.Len(); math.Abs(got-5) > Epsilon {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := v.LenSqr(); math.Abs(got-25) > Epsilon {
		t.Errorf("LenSqr = %v, want 25", got)
	}

	n := v.Normalize()
	if math.Abs(n.Len()-1) > Epsilon {
		t.Errorf("Normalize length = %v, want 1", n.Len())
	}
	if !n.Eq(Vector2D{0.6, 0.8}) {
		t.Errorf("Normalize = %v, want (0.6, 0.8)", n)
	}

	// Degenerate case: normalizing a zero vector must not produce NaN.
	z := Vector2D{}.Normalize()
	if !z.Eq(Vector2D{}) {
		t.Errorf("Normalize of zero vector = %v, want (0, 0)", z)
	}
}

func TestDistances(t *testing.T) {
	a := Vector2D{0, 0}
	b := Vector2D{3, 4}

	if got := a.DistanceTo(b); math.Abs(got-5) > Epsilon {
		t.Errorf("DistanceTo = %v, want 5", got)
	}
	if got := a.DistanceSquaredTo(b); math.Abs(got-25) > Epsilon {
		t.Errorf("DistanceSquaredTo = %v, want 25", got)
	}
}

func TestAngles(t *testing.T) {
	if got := (Vector2D{0, 1}).Angle(); math.Abs(got-math.Pi/2) > Epsilon {
		t.Errorf("Angle = %v, want Pi/2", got)
	}
	if got := (Vector2D{1, 1}).AngleTo(Vector2D{2, 2}); math.Abs(got-math.Pi/4) > Epsilon {
		t.Errorf("AngleTo = %v, want Pi/4", got)
	}
}

func TestRotate(t *testing.T) {
	v := Vector2D{1, 0}

	// Quarter turn counter-clockwise lands on the Y axis.
	if got := v.Rotate(math.Pi / 2); !got.Eq(Vector2D{0, 1}) {
		t.Errorf("Rotate Pi/2 = %v, want (0, 1)", got)
	}
	// Full turn is the identity.
	if got := v.Rotate(2 * math.Pi); !got.Eq(v) {
		t.Errorf("Rotate 2Pi = %v, want %v", got, v)
	}
}
