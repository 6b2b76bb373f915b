package game

import (
	"math"
	"math/rand"
)

const (
	ItemLife        = 900 // ticks
	ItemGravity     = 0.1
	ItemFallCap     = 3.0
	ItemDrag        = 0.98
	MagnetRange     = 250.0
	MagnetPull      = 0.005
	MagnetDamping   = 0.95
	ItemPopVelocity = -3.0
	DropJitter      = 40.0 // drops scatter +-20 px around the wreck
)

// Item is a pickup floating in the playfield
type Item struct {
	ID         int
	Def        *ItemDef
	X, Y       float64
	VX, VY     float64
	Life       int
	Magnetized bool
	Dead       bool
}

func newItem(id int, def *ItemDef, x, y float64, rng *rand.Rand) *Item {
	return &Item{
		ID:   id,
		Def:  def,
		X:    x,
		Y:    y,
		VX:   (rng.Float64() - 0.5) * 2,
		VY:   ItemPopVelocity,
		Life: ItemLife,
	}
}

// Update applies gravity, or the collector pull once the ship is close enough
func (it *Item) Update(px, py float64, collector bool) {
	it.Life--
	if it.Life <= 0 || it.Y > FieldHeight+300 {
		it.Dead = true
		return
	}
	if collector {
		dx, dy := px-it.X, py-it.Y
		if math.Sqrt(dx*dx+dy*dy) < MagnetRange {
			it.Magnetized = true
			it.VX += dx * MagnetPull
			it.VY += dy * MagnetPull
		}
	}
	if !it.Magnetized {
		it.VY = math.Min(it.VY+ItemGravity, ItemFallCap)
		it.X += it.VX
		it.Y += it.VY
		it.VX *= ItemDrag
		return
	}
	it.X += it.VX
	it.Y += it.VY
	it.VX *= MagnetDamping
	it.VY *= MagnetDamping
}

// Loot is what a run has collected for the player's progression
type Loot struct {
	Money     int                `json:"money"`
	Materials map[string]int     `json:"materials,omitempty"`
	Stats     map[string]float64 `json:"stats,omitempty"`
}

func newLoot() Loot {
	return Loot{Materials: make(map[string]int), Stats: make(map[string]float64)}
}
