package game

import "math"

const (
	MissileSpeed     = 5.0
	MissileLife      = 180
	MissileSpread    = 0.3   // radians either side of straight up
	MissileSeekRange = 300.0 // px
	MissileSteer     = 0.2
	MissileDrag      = 0.95
	MissileHitRange  = 30.0
	BombSpeed        = 3.0
	BombHitRange     = 40.0
	DefaultBombRange = 100.0
	DefaultSubDamage = 20.0
)

// Missile is a sub-weapon projectile: a homing missile or an area bomb
type Missile struct {
	X, Y     float64
	VX, VY   float64
	Ordnance Ordnance
	Damage   float64
	Range    float64
	Life     int
	Dead     bool
}

// launchOrdnance builds the volley of a sub weapon from the ship position
func launchOrdnance(mount *WeaponMount, x, y float64) []*Missile {
	dmg := mount.Damage
	if dmg <= 0 {
		dmg = DefaultSubDamage
	}
	if mount.Template.Ordnance == OrdnanceBomb {
		r := mount.Template.Range
		if r <= 0 {
			r = DefaultBombRange
		}
		return []*Missile{{
			X: x, Y: y, VY: -BombSpeed,
			Ordnance: OrdnanceBomb,
			Damage:   dmg,
			Range:    r,
			Life:     MissileLife,
		}}
	}
	out := make([]*Missile, 0, 2)
	for _, a := range []float64{-MissileSpread, MissileSpread} {
		out = append(out, &Missile{
			X:        x,
			Y:        y,
			VX:       math.Sin(a) * MissileSpeed,
			VY:       -math.Cos(a) * MissileSpeed,
			Ordnance: OrdnanceMissile,
			Damage:   dmg,
			Life:     MissileLife,
		})
	}
	return out
}

// Update steers missiles toward the nearest live enemy and advances the projectile
func (m *Missile) Update(enemies []*Enemy) {
	m.Life--
	if m.Life <= 0 {
		m.Dead = true
		return
	}
	if m.Ordnance == OrdnanceBomb {
		m.Y += m.VY
	} else {
		if target := nearestEnemy(enemies, m.X, m.Y, MissileSeekRange); target != nil {
			m.VX += sign(target.X-m.X) * MissileSteer
		}
		m.X += m.VX
		m.Y += m.VY
		m.VX *= MissileDrag
	}
	if m.Y < -OffscreenPadding*2 {
		m.Dead = true
	}
}

// HitRange is the trigger distance against an enemy center
func (m *Missile) HitRange() float64 {
	if m.Ordnance == OrdnanceBomb {
		return BombHitRange
	}
	return MissileHitRange
}

func nearestEnemy(enemies []*Enemy, x, y, within float64) *Enemy {
	var best *Enemy
	bestD := within
	for _, e := range enemies {
		if e.Dead {
			continue
		}
		if d := Distance(x, y, e.X, e.Y); d < bestD {
			best, bestD = e, d
		}
	}
	return best
}
