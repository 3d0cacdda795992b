package noise

import (
	"math"
	"math/rand"
	"testing"
)

func newTestLattice(seed int64, scale, magnitude float64) *Lattice {
	return NewLattice(scale, magnitude, rand.New(rand.NewSource(seed)))
}

func TestLatticeIdempotent(t *testing.T) {
	l := newTestLattice(1, 10, 8)
	first := l.Calculate(12.5, -3.25)
	for i := 0; i < 50; i++ {
		l.Calculate(float64(i)*7.3, float64(-i)*4.1)
	}
	if again := l.Calculate(12.5, -3.25); again != first {
		t.Fatalf("Calculate not idempotent: %v then %v", first, again)
	}
}

func TestLatticeRange(t *testing.T) {
	l := newTestLattice(2, 10, 8)
	for x := -100.0; x < 100; x += 3.7 {
		for z := -100.0; z < 100; z += 5.3 {
			v := l.Calculate(x, z)
			if v < 0 || v > 8 {
				t.Fatalf("Calculate(%v, %v) = %v, out of [0, 8]", x, z, v)
			}
		}
	}
}

func TestLatticeAtLatticePoint(t *testing.T) {
	l := newTestLattice(3, 1, 1)
	v := l.Calculate(4, -2)
	want := (l.values[latticeKey{axisX, 4}] + l.values[latticeKey{axisZ, -2}]) / 2
	if v != want {
		t.Fatalf("Calculate at lattice point = %v, want %v", v, want)
	}
}

func TestLatticeAxesDoNotShareMemo(t *testing.T) {
	l := newTestLattice(4, 1, 1)
	l.Calculate(5, 5)
	if _, ok := l.values[latticeKey{axisX, 5}]; !ok {
		t.Fatalf("missing x memo entry")
	}
	if _, ok := l.values[latticeKey{axisZ, 5}]; !ok {
		t.Fatalf("missing z memo entry")
	}
	if len(l.values) != 4 {
		t.Fatalf("expected 4 memo entries, got %d", len(l.values))
	}
}

func TestLatticeContinuousAcrossZero(t *testing.T) {
	l := newTestLattice(5, 1, 1)
	a := l.Calculate(-1e-9, 0.5)
	b := l.Calculate(1e-9, 0.5)
	if math.Abs(a-b) > 1e-6 {
		t.Fatalf("discontinuity at x=0: %v vs %v", a, b)
	}
}

func TestFract(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1.25, 0.25},
		{-0.25, 0.75},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := Fract(tt.in); got != tt.want {
			t.Fatalf("Fract(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := Fract(-1e-20); got >= 1 || got < 0 {
		t.Fatalf("Fract(-1e-20) = %v, want [0, 1)", got)
	}
}

func TestLayersInRange(t *testing.T) {
	layers := []Layer{
		NewSimplex(7, 40, 10),
		NewPerlin(7, 32, 4),
		NewFractal(7, 50, 10, 4, 2, 0.5),
		Constant(3),
	}
	for _, l := range layers {
		for x := -50.0; x < 50; x += 6.1 {
			v := l.Calculate(x, x*0.5)
			if v < 0 || v > 10 {
				t.Fatalf("%T.Calculate(%v) = %v", l, x, v)
			}
		}
	}
	if got := Sum([]Layer{Constant(2), Constant(3.5)}, 0, 0); got != 5.5 {
		t.Fatalf("Sum = %v, want 5.5", got)
	}
}

func TestFractalSingleOctaveMatchesSimplex(t *testing.T) {
	f := NewFractal(3, 20, 5, 1, 2, 0.5)
	s := NewSimplex(3, 20, 5)
	for x := -30.0; x < 30; x += 4.3 {
		if a, b := f.Calculate(x, -x), s.Calculate(x, -x); a != b {
			t.Fatalf("Calculate(%v) = %v, simplex gives %v", x, a, b)
		}
	}
}
