package game

import "math"

// CheckCollision checks if two circles overlap
func CheckCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	radSum := r1 + r2
	return dx*dx+dy*dy <= radSum*radSum
}

// segmentCircleIntersect checks if the segment (x1,y1)-(x2,y2) touches a circle
func segmentCircleIntersect(x1, y1, x2, y2, cx, cy, r float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	fx := x1 - cx
	fy := y1 - cy
	a := dx*dx + dy*dy
	c := fx*fx + fy*fy - r*r
	if a == 0 {
		return c <= 0
	}
	b := 2 * (fx*dx + fy*dy)
	disc := b*b - 4*a*c
	if disc < 0 {
		return false
	}
	disc = math.Sqrt(disc)
	t1 := (-b - disc) / (2 * a)
	t2 := (-b + disc) / (2 * a)
	return (t1 >= 0 && t1 <= 1) || (t2 >= 0 && t2 <= 1) || (t1 < 0 && t2 > 1)
}

// resolveCollisions runs every hit test of the tick against live entities
func (r *Run) resolveCollisions() {
	r.spatial.Clear()
	for i, e := range r.enemies {
		if !e.Dead {
			r.spatial.Insert(e.X, e.Y, i)
		}
	}

	r.bulletHits()
	r.missileHits()
	r.shotHits()
	r.ramHits()
	r.pickups()
}

func (r *Run) bulletHits() {
	for _, b := range r.bullets {
		if b.Dead {
			continue
		}
		reach := b.Radius + EnemyRadius + math.Abs(b.Y-b.PrevY)
		r.queryBuf = r.spatial.QueryBuf(b.X, b.Y, reach, r.queryBuf[:0])
		for _, idx := range r.queryBuf {
			e := r.enemies[idx]
			if e.Dead {
				continue
			}
			hit := CheckCollision(b.X, b.Y, b.Radius, e.X, e.Y, EnemyRadius)
			if !hit && b.Pierce {
				hit = segmentCircleIntersect(b.X, b.PrevY, b.X, b.Y, e.X, e.Y, EnemyRadius+b.Radius)
			}
			if !hit || !b.strike(e.ID) {
				continue
			}
			r.damageEnemy(e, b.Damage)
			if b.Dead {
				break
			}
		}
	}
}

func (r *Run) missileHits() {
	for _, m := range r.missiles {
		if m.Dead {
			continue
		}
		r.queryBuf = r.spatial.QueryBuf(m.X, m.Y, m.HitRange(), r.queryBuf[:0])
		for _, idx := range r.queryBuf {
			e := r.enemies[idx]
			if e.Dead || Distance(m.X, m.Y, e.X, e.Y) >= m.HitRange() {
				continue
			}
			m.Dead = true
			if m.Ordnance == OrdnanceBomb {
				r.detonate(m.X, m.Y, m.Range, m.Damage)
			} else {
				r.damageEnemy(e, m.Damage)
			}
			r.emit(CueExplosion)
			r.burst(m.X, m.Y, 8, 6, 15, "#f55", 3)
			break
		}
	}
}

// detonate applies area damage to every live enemy within radius
func (r *Run) detonate(x, y, radius, damage float64) {
	r.particles = append(r.particles, &Particle{X: x, Y: y, Life: 30, Size: radius / 10, Color: "#fff"})
	for _, idx := range r.spatial.QueryBuf(x, y, radius, nil) {
		e := r.enemies[idx]
		if !e.Dead && Distance(x, y, e.X, e.Y) < radius {
			r.damageEnemy(e, damage)
		}
	}
}

func (r *Run) shotHits() {
	for _, s := range r.shots {
		if s.Dead || !CheckCollision(s.X, s.Y, EnemyShotRadius, r.x, r.y, PlayerHitRadius) {
			continue
		}
		s.Dead = true
		r.hitPlayer(s.Damage)
	}
}

// ramHits lets enemy hulls that reach the ship smash into the cargo
func (r *Run) ramHits() {
	for _, e := range r.enemies {
		if e.Dead || !CheckCollision(e.X, e.Y, EnemyRadius, r.x, r.y, PlayerHitRadius) {
			continue
		}
		e.Dead = true
		r.cargo = math.Max(0, r.cargo-e.Tier.Damage)
		r.damageText(r.x, r.y-20, e.Tier.Damage, "#fa0")
		r.emit(CueExplosion)
		r.burst(e.X, e.Y, 12, 6, 20, "#fa0", 3)
	}
}

func (r *Run) pickups() {
	for _, it := range r.items {
		if it.Dead || Distance(it.X, it.Y, r.x, r.y) >= r.bonuses.LootRange {
			continue
		}
		it.Dead = true
		r.collect(it)
	}
}
