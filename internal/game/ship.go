package game

import (
	"math"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/sirupsen/logrus"
)

const (
	SpeedCeiling    = 30.0
	LerpFactor      = 0.1
	BoostMultiplier = 1.5
	SpawnX          = FieldWidth / 2
	SpawnY          = FieldHeight - 100
	FallbackSpeed   = 5.0
	FallbackAccel   = 0.03
	WeightPerClass  = 10.0 // mission weight class to cargo mass
)

// ShipStats are the flight parameters fixed at launch
type ShipStats struct {
	MaxSpeed     float64 `json:"max_speed"`
	Accel        float64 `json:"accel"`
	Brake        float64 `json:"brake"`
	MaxHP        float64 `json:"max_hp"`
	HP           float64 `json:"hp"`
	Cargo        float64 `json:"cargo"`
	WeaponDamage float64 `json:"weapon_damage"`
}

// LaunchStats derives flight parameters from progression, equipment and the
// mission's cargo weight. Engine power is shared between ship mass and cargo.
func LaunchStats(cat *Catalog, p *Progression, b Bonuses, m Mission) ShipStats {
	lv := func(key string) float64 { return cat.UpgradeValue(key, p.Upgrades[key]) }

	engine := cat.Player.Engine + lv("ENGINE")
	penalty := engine / (engine + b.TotalWeight + float64(m.Weight)*WeightPerClass)
	if !finite(penalty) || penalty <= 0 {
		penalty = 1
	}

	ph := cat.Physics
	s := ShipStats{
		MaxSpeed:     (ph.BaseMaxSpeed + lv("SPEED")*0.01) * penalty,
		Accel:        (ph.BaseAccel + lv("ACCEL")*0.0001 + b.AccelBoost) * penalty,
		Brake:        ph.BrakeForce + lv("BRAKE")*0.001 + b.BrakeBoost,
		MaxHP:        cat.Player.HP + lv("HP") + p.StatBonuses["HP"],
		Cargo:        ph.CargoHP,
		WeaponDamage: b.WeaponDamage + lv("WEAPON_OS"),
	}
	if !finite(s.MaxSpeed) || s.MaxSpeed <= 0 {
		s.MaxSpeed = FallbackSpeed
	}
	if !finite(s.Accel) || s.Accel <= 0 {
		s.Accel = FallbackAccel
	}
	if s.Cargo <= 0 {
		s.Cargo = 100
	}
	s.HP = math.Max(1, s.MaxHP-p.HullDamage)
	return s
}

// zoneFactor scales top speed by the ship's vertical band
func zoneFactor(y float64) float64 {
	band := FieldHeight / 3
	switch {
	case y < band:
		return 1.0
	case y < band*2:
		return 0.8
	}
	return 0.5
}

// integrateSpeed applies brake, acceleration or friction toward the zone target
func (r *Run) integrateSpeed() {
	target := r.stats.MaxSpeed * zoneFactor(r.y)
	target *= r.buffs.Magnitude(BuffSpeed, 1)
	if r.boost > 0 {
		target *= BoostMultiplier
	}

	switch {
	case r.input.Brake:
		r.speed = math.Max(r.cat.Physics.MinSpeed, r.speed-r.stats.Brake)
	case r.speed < target:
		r.speed += r.stats.Accel
	default:
		r.speed *= r.cat.Physics.Friction
	}

	if !finite(r.speed) {
		logger.Log.WithFields(logrus.Fields{
			"tick":   r.tick,
			"target": target,
		}).Warn("Non-finite speed, resetting")
		r.speed = 0
	}
	r.speed = Clamp(r.speed, 0, SpeedCeiling)
}

// steer eases the ship toward the pointer
func (r *Run) steer() {
	if !finite(r.x) || !finite(r.y) {
		logger.Log.WithField("tick", r.tick).Warn("Non-finite position, resetting")
		r.x, r.y = SpawnX, SpawnY
	}
	tx, ty := r.input.X, r.input.Y
	if !finite(tx) || !finite(ty) {
		tx, ty = r.x, r.y
		r.input.X, r.input.Y = tx, ty
	}
	r.x += (tx - r.x) * LerpFactor
	r.y += (ty - r.y) * LerpFactor
}

// fireMain emits the main weapon volley whenever the cooldown runs out
func (r *Run) fireMain() {
	if r.fireCD > 0 {
		r.fireCD--
	}
	if r.fireCD > 0 {
		return
	}
	mount := r.bonuses.MainWeapon
	interval := float64(r.cat.Physics.FireInterval)
	var shots []ShotSpec
	if mount != nil {
		if mount.Template.Interval > 0 {
			interval = float64(mount.Template.Interval)
		}
		shots = mount.Template.Shots
	}
	if len(shots) == 0 {
		shots = []ShotSpec{{OffsetY: -10, Speed: 7, Scroll: 0.5, Damage: 1}}
	}

	r.fireCD = interval * (1 + float64(r.mission.Weight)*0.05) * r.bonuses.FireRateFactor *
		r.buffs.Magnitude(BuffCooldown, 1)
	dmg := r.stats.WeaponDamage * (1 + r.buffs.Magnitude(BuffPower, 0))
	for _, s := range shots {
		r.bullets = append(r.bullets, newBullet(r.x, r.y, s, dmg))
	}
	r.emit(CueShoot)
}

// fireSub launches sub-weapon ordnance on its own cooldown
func (r *Run) fireSub() {
	mount := r.bonuses.SubWeapon
	if mount == nil {
		return
	}
	if r.subCD > 0 {
		r.subCD--
	}
	if r.subCD > 0 {
		return
	}
	r.missiles = append(r.missiles, launchOrdnance(mount, r.x, r.y)...)
	r.subCD = mount.Template.Interval
	if r.subCD <= 0 {
		r.subCD = r.cat.Physics.MissileCooldown
	}
	r.emit(CueMissile)
}

// hitPlayer applies an enemy shot to the hull unless invincibility blocks it
func (r *Run) hitPlayer(dmg float64) {
	if r.buffs.Active(BuffInvincible) {
		r.floatText(r.x, r.y, "BLOCK", "#0ff")
		r.emit(CueBlock)
		return
	}
	dmg *= 1 - r.bonuses.DamageReduction
	r.hp -= dmg
	r.damageText(r.x, r.y, dmg, "#f55")
	r.emit(CueHit)
}
