package game

import (
	"fmt"
	"math"
	"math/rand"

	"gopkg.in/yaml.v3"
)

// AnglePolicy decides where each shot of an enemy volley goes
type AnglePolicy string

const (
	AngleAim    AnglePolicy = "aim"
	AngleFan    AnglePolicy = "fan"
	AngleSpray  AnglePolicy = "spray"
	AngleSpiral AnglePolicy = "spiral"
	AngleDown   AnglePolicy = "down"
)

const (
	FanArc               = math.Pi / 4
	EnemyShotLife        = 300
	DefaultEnemyCooldown = 60
)

// UnmarshalYAML accepts the known policies; "homing" is an alias of aim
func (p *AnglePolicy) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	switch AnglePolicy(s) {
	case AngleAim, AngleFan, AngleSpray, AngleSpiral, AngleDown:
		*p = AnglePolicy(s)
	case "homing", "":
		*p = AngleAim
	default:
		return fmt.Errorf("unknown angle policy %q", s)
	}
	return nil
}

// volleyAngles returns one heading per shot; 0 points right, pi/2 points down
func volleyAngles(w *EnemyWeapon, e *Enemy, px, py float64, rng *rand.Rand) []float64 {
	n := w.Shots
	if n < 1 {
		n = 1
	}
	aim := math.Atan2(py-e.Y, px-e.X)
	out := make([]float64, n)
	for i := range out {
		switch w.Angle {
		case AngleFan:
			if n == 1 {
				out[i] = aim
				continue
			}
			out[i] = aim - FanArc/2 + FanArc*float64(i)/float64(n-1)
		case AngleSpray:
			out[i] = aim + (rng.Float64() - 0.5)
		case AngleSpiral:
			out[i] = math.Pi/2 + float64(e.Age)*0.2 + float64(i)*0.2
		case AngleDown:
			out[i] = math.Pi / 2
		default:
			out[i] = aim
		}
	}
	return out
}

// fire emits a volley when the cooldown has run out
func (e *Enemy) fire(px, py float64, rng *rand.Rand) []*EnemyShot {
	if e.Weapon == nil {
		return nil
	}
	if e.Cooldown > 0 {
		e.Cooldown--
		return nil
	}
	w := e.Weapon
	shots := make([]*EnemyShot, 0, w.Shots)
	for _, a := range volleyAngles(w, e, px, py, rng) {
		shots = append(shots, &EnemyShot{
			X:      e.X,
			Y:      e.Y,
			VX:     math.Cos(a) * w.Speed,
			VY:     math.Sin(a) * w.Speed,
			Damage: w.Damage,
			Life:   EnemyShotLife,
		})
	}
	e.Cooldown = w.Cooldown
	if e.Cooldown <= 0 {
		e.Cooldown = DefaultEnemyCooldown
	}
	return shots
}
