// Package noise provides the height layers that biomes sum into a terrain
// surface.
package noise

import (
	"math"
	"math/rand"
	"sync"
)

// Layer is a 2D height contribution sampled at world column coordinates.
type Layer interface {
	Calculate(x, z float64) float64
}

type axis uint8

const (
	axisX axis = iota
	axisZ
)

type latticeKey struct {
	axis axis
	n    int64
}

// Lattice is memoised value noise. Each integer lattice point on an axis gets
// one random value the first time it is visited, and that value is kept for
// the life of the instance. Samples between points are linearly interpolated
// per axis and the two axes are averaged.
type Lattice struct {
	scale     float64
	magnitude float64

	mu     sync.Mutex
	rng    *rand.Rand
	values map[latticeKey]float64
}

// NewLattice returns a lattice layer drawing from rng. Callers that want
// distinct layers should give each one its own source.
func NewLattice(scale, magnitude float64, rng *rand.Rand) *Lattice {
	if scale == 0 {
		scale = 1
	}
	return &Lattice{
		scale:     scale,
		magnitude: magnitude,
		rng:       rng,
		values:    make(map[latticeKey]float64),
	}
}

// Calculate returns the layer height at (x, z), in [0, magnitude].
func (l *Lattice) Calculate(x, z float64) float64 {
	return l.unmapped(x/l.scale, z/l.scale) * l.magnitude
}

func (l *Lattice) unmapped(x, z float64) float64 {
	fx, fz := Fract(x), Fract(z)
	ix, iz := int64(math.Floor(x)), int64(math.Floor(z))

	l.mu.Lock()
	x0, x1 := l.at(axisX, ix), l.at(axisX, ix+1)
	z0, z1 := l.at(axisZ, iz), l.at(axisZ, iz+1)
	l.mu.Unlock()

	return (lerp(x0, x1, fx) + lerp(z0, z1, fz)) / 2
}

// at must be called with mu held.
func (l *Lattice) at(a axis, n int64) float64 {
	key := latticeKey{a, n}
	if v, ok := l.values[key]; ok {
		return v
	}
	v := l.rng.Float64()
	l.values[key] = v
	return v
}

// Fract returns the fractional part of v folded into [0, 1), so negative
// inputs wrap the same way positive ones do.
func Fract(v float64) float64 {
	f := v - math.Floor(v)
	if f >= 1 {
		// -tiny - floor(-tiny) rounds up to 1.
		return math.Nextafter(1, 0)
	}
	return f
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
