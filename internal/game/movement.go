package game

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// MovementKind selects an enemy locomotion behavior
type MovementKind string

const (
	MoveStraight MovementKind = "straight"
	MoveZigzag   MovementKind = "zigzag"
	MoveHoming   MovementKind = "homing"
	MoveReflect  MovementKind = "reflect"
	MoveWave     MovementKind = "wave"
)

// Heading is the primary travel direction of a pattern
type Heading string

const (
	HeadDown  Heading = "down"
	HeadUp    Heading = "up"
	HeadLeft  Heading = "left"
	HeadRight Heading = "right"
)

func (h Heading) vector() (float64, float64) {
	switch h {
	case HeadUp:
		return 0, -1
	case HeadLeft:
		return -1, 0
	case HeadRight:
		return 1, 0
	}
	return 0, 1
}

// MovementPattern is the tagged variant resolved once at spawn
type MovementPattern struct {
	Kind    MovementKind `yaml:"kind"`
	Heading Heading      `yaml:"dir"`
}

// UnmarshalYAML rejects unknown movement kinds at load time
func (k *MovementKind) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	kind := MovementKind(s)
	if _, ok := movers[kind]; !ok {
		return fmt.Errorf("unknown movement kind %q", s)
	}
	*k = kind
	return nil
}

// mover advances one enemy by one tick toward/around the player at (px, py)
type mover func(e *Enemy, px, py float64)

var movers = map[MovementKind]mover{
	MoveStraight: moveStraight,
	MoveZigzag:   moveZigzag,
	MoveHoming:   moveHoming,
	MoveReflect:  moveReflect,
	MoveWave:     moveWave,
}

// straightDown is used for unknown patterns
var straightDown = MovementPattern{Kind: MoveStraight, Heading: HeadDown}

func moveStraight(e *Enemy, _, _ float64) {
	dx, dy := e.Movement.Heading.vector()
	e.X += dx * e.Speed
	e.Y += dy * e.Speed
}

// moveZigzag travels along the heading while oscillating across it
func moveZigzag(e *Enemy, _, _ float64) {
	dx, dy := e.Movement.Heading.vector()
	e.X += dx * e.Speed
	e.Y += dy * e.Speed
	sway := math.Sin(float64(e.Age)*0.05) * e.Turn
	if dx == 0 {
		e.X += sway
	} else {
		e.Y += sway
	}
}

func moveHoming(e *Enemy, px, py float64) {
	a := math.Atan2(py-e.Y, px-e.X)
	e.X += math.Cos(a) * e.Speed * 0.5
	e.Y += math.Sin(a) * e.Speed * 0.5
}

// moveReflect bounces off the side walls
func moveReflect(e *Enemy, _, _ float64) {
	if e.Age == 1 {
		e.VX = e.Turn
		e.VY = e.Speed
	}
	e.X += e.VX
	e.Y += e.VY
	if e.X < 0 || e.X > FieldWidth {
		e.VX = -e.VX
	}
}

func moveWave(e *Enemy, _, _ float64) {
	e.Y += e.Speed
	e.X += math.Cos(float64(e.Age)*0.1) * e.Turn * 2
}
