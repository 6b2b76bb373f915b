package game

import "math"

const (
	BulletRadius     = 5.0
	EnemyShotRadius  = 4.0
	PlayerHitRadius  = 10.0
	OffscreenPadding = 50.0
)

// Bullet is a main-weapon projectile fired by the player
type Bullet struct {
	X, Y   float64
	PrevY  float64
	Angle  float64
	Speed  float64
	Scroll float64
	Damage float64
	Radius float64
	Pierce bool
	Dead   bool

	hits map[int]bool // enemies already struck by a piercing bullet
}

func newBullet(x, y float64, s ShotSpec, damage float64) *Bullet {
	b := &Bullet{
		X:      x + s.OffsetX,
		Y:      y + s.OffsetY,
		Angle:  s.Angle,
		Speed:  s.Speed,
		Scroll: s.Scroll,
		Damage: damage * s.Damage,
		Radius: s.Radius,
		Pierce: s.Pierce,
	}
	if b.Speed == 0 {
		b.Speed = 7
	}
	if b.Damage == 0 {
		b.Damage = damage
	}
	if b.Radius == 0 {
		b.Radius = BulletRadius
	}
	if b.Pierce {
		b.hits = make(map[int]bool)
	}
	b.PrevY = b.Y
	return b
}

// Update advances the bullet; faster ships fire faster-moving bullets
func (b *Bullet) Update(shipSpeed float64) {
	v := b.Speed + b.Scroll*shipSpeed
	b.PrevY = b.Y
	b.X += math.Sin(b.Angle) * v
	b.Y -= math.Cos(b.Angle) * v
	if b.Y < -OffscreenPadding || b.X < -OffscreenPadding || b.X > FieldWidth+OffscreenPadding {
		b.Dead = true
	}
}

// strike records a hit and reports whether it should deal damage
func (b *Bullet) strike(enemyID int) bool {
	if !b.Pierce {
		b.Dead = true
		return true
	}
	if b.hits[enemyID] {
		return false
	}
	b.hits[enemyID] = true
	return true
}

// EnemyShot is a projectile fired at the player
type EnemyShot struct {
	X, Y   float64
	VX, VY float64
	Damage float64
	Life   int
	Dead   bool
}

// Update advances the shot and expires it at the end of its life
func (s *EnemyShot) Update() {
	s.X += s.VX
	s.Y += s.VY
	s.Life--
	if s.Life <= 0 || s.Y > FieldHeight+OffscreenPadding || s.Y < -OffscreenPadding*4 ||
		s.X < -OffscreenPadding || s.X > FieldWidth+OffscreenPadding {
		s.Dead = true
	}
}
