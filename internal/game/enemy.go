package game

import (
	"math"
	"math/rand"
)

const (
	EnemyRadius     = 20.0
	EnemyGraceTicks = 600   // ticks an enemy may linger outside the despawn margin
	DespawnMargin   = 200.0 // px beyond the playfield before an enemy counts as gone
	DefaultScore    = 100
)

// Enemy is a spawned hostile ship
type Enemy struct {
	ID        int
	Tier      *EnemyTier
	X, Y      float64
	VX, VY    float64
	HP        float64
	MaxHP     float64
	Shield    float64
	MaxShield float64
	Speed     float64
	Turn      float64
	Movement  MovementPattern
	Weapon    *EnemyWeapon
	Cooldown  int
	Age       int
	Dead      bool

	move mover
}

// newEnemy instantiates a tier at (x, y) with mission hp/shield scaling applied
func newEnemy(cat *Catalog, id int, tier *EnemyTier, x, y, shieldMod, hpMod float64) *Enemy {
	e := &Enemy{
		ID:    id,
		Tier:  tier,
		X:     x,
		Y:     y,
		Speed: tier.Speed,
		Turn:  tier.Turn,
	}
	if e.Speed == 0 {
		e.Speed = 2
	}
	if e.Turn == 0 {
		e.Turn = 2
	}
	hp := tier.HP
	if hp <= 0 {
		hp = 10
	}
	if shieldMod == 0 {
		shieldMod = 1
	}
	if hpMod == 0 {
		hpMod = 1
	}
	e.MaxShield = math.Floor(tier.Shield * shieldMod)
	e.Shield = e.MaxShield
	e.MaxHP = math.Floor(hp * hpMod)
	e.HP = e.MaxHP

	pattern, ok := cat.Movement(tier.Movement)
	if !ok {
		pattern = straightDown
	}
	e.Movement = pattern
	e.move = movers[pattern.Kind]
	if e.move == nil {
		e.Movement = straightDown
		e.move = moveStraight
	}
	if tier.Weapon != "" {
		e.Weapon, _ = cat.EnemyWeapon(tier.Weapon)
	}
	return e
}

// TakeDamage drains the shield first, then hp. Returns true on the killing blow.
func (e *Enemy) TakeDamage(amount float64) bool {
	if e.Dead {
		return false
	}
	if e.Shield > 0 {
		if e.Shield >= amount {
			e.Shield -= amount
			return false
		}
		amount -= e.Shield
		e.Shield = 0
	}
	e.HP -= amount
	if e.HP <= 0 {
		e.HP = 0
		e.Dead = true
		return true
	}
	return false
}

// Update moves the enemy, fires its weapon and returns any new shots
func (e *Enemy) Update(px, py float64, rng *rand.Rand) []*EnemyShot {
	e.Age++
	e.move(e, px, py)
	shots := e.fire(px, py, rng)

	if e.Y > FieldHeight+300 || e.Y < -DespawnMargin ||
		e.X < -DespawnMargin/2 || e.X > FieldWidth+DespawnMargin/2 {
		if e.Age > EnemyGraceTicks {
			e.Dead = true
		}
	}
	return shots
}

// Score returns the kill score of the enemy's tier
func (e *Enemy) Score() int {
	if e.Tier.Score > 0 {
		return e.Tier.Score
	}
	return DefaultScore
}

// ToState converts an enemy to its snapshot form
func (e *Enemy) ToState() EnemyState {
	return EnemyState{
		ID:        e.ID,
		Tier:      e.Tier.ID,
		X:         e.X,
		Y:         e.Y,
		HP:        e.HP,
		MaxHP:     e.MaxHP,
		Shield:    e.Shield,
		MaxShield: e.MaxShield,
	}
}
