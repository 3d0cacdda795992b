package noise

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Constant is a flat layer.
type Constant float64

func (c Constant) Calculate(x, z float64) float64 { return float64(c) }

// Simplex is an OpenSimplex layer normalised to [0, magnitude].
type Simplex struct {
	noise     opensimplex.Noise
	scale     float64
	magnitude float64
}

func NewSimplex(seed int64, scale, magnitude float64) *Simplex {
	if scale == 0 {
		scale = 1
	}
	return &Simplex{
		noise:     opensimplex.NewNormalized(seed),
		scale:     scale,
		magnitude: magnitude,
	}
}

func (s *Simplex) Calculate(x, z float64) float64 {
	return s.noise.Eval2(x/s.scale, z/s.scale) * s.magnitude
}

// Perlin is a classic Perlin layer remapped to [0, magnitude].
type Perlin struct {
	noise     *perlin.Perlin
	scale     float64
	magnitude float64
}

const (
	perlinAlpha  = 2
	perlinBeta   = 2
	perlinOctave = 3
)

func NewPerlin(seed int64, scale, magnitude float64) *Perlin {
	if scale == 0 {
		scale = 1
	}
	return &Perlin{
		noise:     perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctave, seed),
		scale:     scale,
		magnitude: magnitude,
	}
}

func (p *Perlin) Calculate(x, z float64) float64 {
	v := (p.noise.Noise2D(x/p.scale, z/p.scale) + 1) / 2
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return v * p.magnitude
}

// Sum adds the contributions of every layer at (x, z).
func Sum(layers []Layer, x, z float64) float64 {
	var h float64
	for _, l := range layers {
		h += l.Calculate(x, z)
	}
	return h
}

// Fractal sums octaves of OpenSimplex noise. Each octave multiplies the
// frequency by lacunarity and the amplitude by persistence; the total is
// normalised back to [0, magnitude].
type Fractal struct {
	noise       opensimplex.Noise
	scale       float64
	magnitude   float64
	octaves     int
	lacunarity  float64
	persistence float64
}

func NewFractal(seed int64, scale, magnitude float64, octaves int, lacunarity, persistence float64) *Fractal {
	if scale == 0 {
		scale = 1
	}
	if octaves < 1 {
		octaves = 1
	}
	return &Fractal{
		noise:       opensimplex.NewNormalized(seed),
		scale:       scale,
		magnitude:   magnitude,
		octaves:     octaves,
		lacunarity:  lacunarity,
		persistence: persistence,
	}
}

func (f *Fractal) Calculate(x, z float64) float64 {
	var sum, total float64
	amp, freq := 1.0, 1.0
	for i := 0; i < f.octaves; i++ {
		sum += f.noise.Eval2(x*freq/f.scale, z*freq/f.scale) * amp
		total += amp
		freq *= f.lacunarity
		amp *= f.persistence
	}
	if total == 0 {
		return 0
	}
	return sum / total * f.magnitude
}
