package game

// EnemyState is the render view of an enemy
type EnemyState struct {
	ID        int     `json:"id" msgpack:"id"`
	Tier      string  `json:"t" msgpack:"t"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	HP        float64 `json:"hp" msgpack:"hp"`
	MaxHP     float64 `json:"mhp" msgpack:"mhp"`
	Shield    float64 `json:"sh" msgpack:"sh"`
	MaxShield float64 `json:"msh" msgpack:"msh"`
}

// ProjectileState is the render view of any projectile
type ProjectileState struct {
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Kind string  `json:"k" msgpack:"k"` // beam, laser, shot, missile, bomb
}

// ItemState is the render view of a pickup
type ItemState struct {
	ID       int          `json:"id" msgpack:"id"`
	Item     string       `json:"i" msgpack:"i"`
	Category ItemCategory `json:"c" msgpack:"c"`
	X        float64      `json:"x" msgpack:"x"`
	Y        float64      `json:"y" msgpack:"y"`
	Color    string       `json:"col" msgpack:"col"`
}

// ParticleState is the render view of a particle
type ParticleState struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Size  float64 `json:"s" msgpack:"s"`
	Color string  `json:"c" msgpack:"c"`
}

// TextState is the render view of a floating text
type TextState struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Text  string  `json:"t" msgpack:"t"`
	Color string  `json:"c" msgpack:"c"`
}

// Snapshot is an immutable copy of a run for rendering
type Snapshot struct {
	Tick      uint64            `json:"tick" msgpack:"tick"`
	Outcome   Outcome           `json:"o" msgpack:"o"`
	X         float64           `json:"x" msgpack:"x"`
	Y         float64           `json:"y" msgpack:"y"`
	Speed     float64           `json:"spd" msgpack:"spd"`
	HP        float64           `json:"hp" msgpack:"hp"`
	MaxHP     float64           `json:"mhp" msgpack:"mhp"`
	Cargo     float64           `json:"cg" msgpack:"cg"`
	MaxCargo  float64           `json:"mcg" msgpack:"mcg"`
	Distance  float64           `json:"d" msgpack:"d"`
	BgOffset  float64           `json:"bg" msgpack:"bg"`
	Elapsed   float64           `json:"el" msgpack:"el"`
	Score     int               `json:"sc" msgpack:"sc"`
	Destroyed int               `json:"kd" msgpack:"kd"`
	Money     int               `json:"$" msgpack:"$"`
	Weather   string            `json:"w" msgpack:"w"`
	Boost     int               `json:"bst" msgpack:"bst"`
	Buffs     map[BuffKind]Buff `json:"bf" msgpack:"bf"`
	Enemies   []EnemyState      `json:"e" msgpack:"e"`
	Bullets   []ProjectileState `json:"b" msgpack:"b"`
	Shots     []ProjectileState `json:"es" msgpack:"es"`
	Missiles  []ProjectileState `json:"ms" msgpack:"ms"`
	Items     []ItemState       `json:"it" msgpack:"it"`
	Particles []ParticleState   `json:"pt" msgpack:"pt"`
	Texts     []TextState       `json:"tx" msgpack:"tx"`
}

// Snapshot copies the run state for rendering
func (r *Run) Snapshot() Snapshot {
	s := Snapshot{
		Tick:      r.tick,
		Outcome:   r.outcome,
		X:         r.x,
		Y:         r.y,
		Speed:     r.speed,
		HP:        r.hp,
		MaxHP:     r.maxHP,
		Cargo:     r.cargo,
		MaxCargo:  r.maxCargo,
		Distance:  r.distance,
		BgOffset:  r.bgOffset,
		Elapsed:   r.elapsed,
		Score:     r.score,
		Destroyed: r.destroyed,
		Money:     r.loot.Money,
		Weather:   r.weather.ID,
		Boost:     r.boost,
		Buffs:     make(map[BuffKind]Buff, len(r.buffs)),
		Enemies:   make([]EnemyState, 0, len(r.enemies)),
		Bullets:   make([]ProjectileState, 0, len(r.bullets)),
		Shots:     make([]ProjectileState, 0, len(r.shots)),
		Missiles:  make([]ProjectileState, 0, len(r.missiles)),
		Items:     make([]ItemState, 0, len(r.items)),
		Particles: make([]ParticleState, 0, len(r.particles)),
		Texts:     make([]TextState, 0, len(r.texts)),
	}
	for k, b := range r.buffs {
		s.Buffs[k] = b
	}
	for _, e := range r.enemies {
		s.Enemies = append(s.Enemies, e.ToState())
	}
	for _, b := range r.bullets {
		kind := "beam"
		if b.Pierce {
			kind = "laser"
		}
		s.Bullets = append(s.Bullets, ProjectileState{X: b.X, Y: b.Y, Kind: kind})
	}
	for _, sh := range r.shots {
		s.Shots = append(s.Shots, ProjectileState{X: sh.X, Y: sh.Y, Kind: "shot"})
	}
	for _, m := range r.missiles {
		s.Missiles = append(s.Missiles, ProjectileState{X: m.X, Y: m.Y, Kind: string(m.Ordnance)})
	}
	for _, it := range r.items {
		s.Items = append(s.Items, ItemState{ID: it.ID, Item: it.Def.ID, Category: it.Def.Category, X: it.X, Y: it.Y, Color: it.Def.Color})
	}
	for _, p := range r.particles {
		s.Particles = append(s.Particles, ParticleState{X: p.X, Y: p.Y, Size: p.Size, Color: p.Color})
	}
	for _, t := range r.texts {
		s.Texts = append(s.Texts, TextState{X: t.X, Y: t.Y, Text: t.Text, Color: t.Color})
	}
	return s
}
