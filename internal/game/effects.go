package game

import (
	"fmt"
	"math/rand"
)

// Particle is a purely visual spark
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   int
	Size   float64
	Color  string
}

// Update drifts the particle and reports whether it is still alive
func (p *Particle) Update() bool {
	p.X += p.VX
	p.Y += p.VY
	p.Life--
	return p.Life > 0
}

// FloatingText is a short-lived label such as a damage number
type FloatingText struct {
	X, Y  float64
	Text  string
	Color string
	Life  int
}

// Update lifts the text and reports whether it is still alive
func (f *FloatingText) Update() bool {
	f.Y -= 0.5
	f.Life--
	return f.Life > 0
}

func (r *Run) burst(x, y float64, n int, spread float64, life int, color string, size float64) {
	for i := 0; i < n; i++ {
		r.particles = append(r.particles, &Particle{
			X:     x,
			Y:     y,
			VX:    (r.rng.Float64() - 0.5) * spread,
			VY:    (r.rng.Float64() - 0.5) * spread,
			Life:  life,
			Size:  size,
			Color: color,
		})
	}
}

func (r *Run) floatText(x, y float64, text, color string) {
	r.texts = append(r.texts, &FloatingText{X: x, Y: y, Text: text, Color: color, Life: 40})
}

func (r *Run) damageText(x, y, amount float64, color string) {
	r.floatText(x, y, fmt.Sprintf("%.0f", amount), color)
}

// ambient adds engine trail and rain particles
func (r *Run) ambient(rng *rand.Rand) {
	if r.tick%2 == 0 {
		r.particles = append(r.particles, &Particle{
			X:     r.x + (rng.Float64()-0.5)*10,
			Y:     r.y + 20,
			VY:    2 + r.speed*0.5,
			Life:  15,
			Size:  2,
			Color: "#0af",
		})
	}
	for i := 0.0; i < r.weather.Rain; i++ {
		r.particles = append(r.particles, &Particle{
			X:     rng.Float64() * FieldWidth,
			Y:     -10,
			VX:    r.weather.Wind,
			VY:    8 + r.speed,
			Life:  80,
			Size:  1,
			Color: "#8ac",
		})
	}
}
