package game

import (
	"fmt"
	"math"
	"math/rand"
	"runtime/debug"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/sirupsen/logrus"
)

const (
	FieldWidth     = 800.0
	FieldHeight    = 600.0
	TicksPerSecond = 60
	BoostTicks     = 180 // fallback when a boost item has no duration
)

// Outcome is the terminal state of a run
type Outcome string

const (
	OutcomeRunning Outcome = "running"
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeFault   Outcome = "fault"
)

// Failure causes
const (
	CauseShotDown  = "shot down"
	CauseCargoLost = "cargo destroyed"
	CauseRetired   = "mission abandoned"
	CauseDelivered = "delivered"
)

// Input is the pilot's control state: pointer target and the brake button
type Input struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Brake bool    `json:"brake"`
}

// RunConfig carries everything fixed at launch
type RunConfig struct {
	Mission Mission
	Bonuses Bonuses
	Stats   ShipStats
	Seed    int64
}

// Run is one mission in flight. It is owned by a single goroutine; other
// readers use Snapshot.
type Run struct {
	cat     *Catalog
	rng     *rand.Rand
	drops   *DropResolver
	spatial SpatialGrid

	mission Mission
	bonuses Bonuses
	stats   ShipStats

	x, y     float64
	input    Input
	speed    float64
	hp       float64
	maxHP    float64
	cargo    float64
	maxCargo float64
	distance float64
	bgOffset float64

	buffs Buffs
	boost int

	weather           *Weather
	lastWeatherChange float64

	fireCD float64
	subCD  int

	enemies   []*Enemy
	bullets   []*Bullet
	shots     []*EnemyShot
	missiles  []*Missile
	items     []*Item
	particles []*Particle
	texts     []*FloatingText
	queryBuf  []int

	tick      uint64
	elapsed   float64
	nextID    int
	score     int
	destroyed int
	loot      Loot

	outcome Outcome
	result  *Result
	events  []Cue
}

// NewRun launches a mission
func NewRun(cat *Catalog, cfg RunConfig) *Run {
	rng := NewRand(cfg.Seed)
	r := &Run{
		cat:      cat,
		rng:      rng,
		drops:    NewDropResolver(cat, rng),
		mission:  cfg.Mission,
		bonuses:  cfg.Bonuses,
		stats:    cfg.Stats,
		x:        SpawnX,
		y:        SpawnY,
		input:    Input{X: SpawnX, Y: SpawnY},
		hp:       cfg.Stats.HP,
		maxHP:    cfg.Stats.MaxHP,
		cargo:    cfg.Stats.Cargo,
		maxCargo: cfg.Stats.Cargo,
		distance: float64(cfg.Mission.Distance),
		buffs:    make(Buffs),
		loot:     newLoot(),
		outcome:  OutcomeRunning,
	}
	if r.maxHP <= 0 {
		r.maxHP = r.hp
	}
	r.weather = RollWeather(cat, cfg.Mission.WeatherTable, rng)
	return r
}

// SetInput replaces the pilot's control state
func (r *Run) SetInput(in Input) {
	r.input = in
}

// Outcome reports the current run state
func (r *Run) Outcome() Outcome {
	return r.outcome
}

// Done reports whether the run has reached a terminal state
func (r *Run) Done() bool {
	return r.outcome != OutcomeRunning
}

// Result returns the terminal result, nil while running
func (r *Run) Result() *Result {
	return r.result
}

// Mission returns the mission being flown
func (r *Run) Mission() Mission {
	return r.mission
}

// Retire abandons the run as a failure
func (r *Run) Retire() {
	if r.Done() {
		return
	}
	r.finish(OutcomeFailure, CauseRetired)
}

// Tick advances the simulation one fixed step. A panic inside the step ends
// the run with a fault outcome; later ticks do nothing.
func (r *Run) Tick() {
	if r.Done() {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.Log.WithFields(logrus.Fields{
				"tick":    r.tick,
				"mission": r.mission.ID,
				"panic":   rec,
				"stack":   string(debug.Stack()),
			}).Error("Run tick fault")
			r.finish(OutcomeFault, fmt.Sprintf("fault: %v", rec))
		}
	}()

	r.tick++
	r.elapsed = float64(r.tick) / TicksPerSecond

	r.integrateSpeed()
	r.x += r.weather.Wind
	r.steer()
	if r.advance() {
		return
	}
	r.updateWeather()
	r.fireMain()
	r.fireSub()
	r.updateEntities()
	if interval := r.cat.Physics.SpawnInterval; interval > 0 && r.tick%uint64(interval) == 0 {
		r.spawnEnemy()
	}
	r.resolveCollisions()
	r.compact()

	r.buffs.Tick()
	if r.boost > 0 {
		r.boost--
	}

	switch {
	case r.hp <= 0:
		r.hp = 0
		r.finish(OutcomeFailure, CauseShotDown)
	case r.cargo <= 0:
		r.cargo = 0
		r.finish(OutcomeFailure, CauseCargoLost)
	}
}

// advance scrolls the background and reduces the remaining distance.
// Returns true when the destination is reached.
func (r *Run) advance() bool {
	r.bgOffset = math.Mod(r.bgOffset+r.speed, FieldHeight)
	div := r.cat.Physics.MissionDivisor
	if div <= 0 {
		div = 2000
	}
	r.distance -= r.speed * r.cat.Physics.MissionScale / div
	if r.distance <= 0 {
		r.distance = 0
		r.finish(OutcomeSuccess, CauseDelivered)
		return true
	}
	return false
}

// updateEntities moves every collection once, in a fixed order
func (r *Run) updateEntities() {
	for _, b := range r.bullets {
		b.Update(r.speed)
	}
	for _, s := range r.shots {
		s.Update()
	}
	for _, m := range r.missiles {
		m.Update(r.enemies)
	}
	for _, it := range r.items {
		it.Update(r.x, r.y, r.bonuses.HasCollector)
	}
	// shots fired this tick start moving next tick
	for _, e := range r.enemies {
		r.shots = append(r.shots, e.Update(r.x, r.y, r.rng)...)
	}

	alive := r.particles[:0]
	for _, p := range r.particles {
		if p.Update() {
			alive = append(alive, p)
		}
	}
	r.particles = alive
	texts := r.texts[:0]
	for _, f := range r.texts {
		if f.Update() {
			texts = append(texts, f)
		}
	}
	r.texts = texts
	r.ambient(r.rng)
}

// spawnEnemy brings in a random tier matching the mission's tier tag
func (r *Run) spawnEnemy() {
	tiers := r.cat.Tiers(r.mission.EnemyTier)
	if len(tiers) == 0 {
		return
	}
	tier := tiers[r.rng.Intn(len(tiers))]
	x := r.rng.Float64()*(FieldWidth-40) + 20
	r.nextID++
	r.enemies = append(r.enemies, newEnemy(r.cat, r.nextID, tier, x, -50, r.mission.ShieldMod, r.mission.HPMod))
}

// damageEnemy applies damage and handles the kill
func (r *Run) damageEnemy(e *Enemy, dmg float64) {
	killed := e.TakeDamage(dmg)
	r.damageText(e.X, e.Y, dmg, "#fff")
	if !killed {
		r.emit(CueHit)
		return
	}
	r.destroyed++
	r.score += e.Score()
	r.emit(CueExplosion)
	r.burst(e.X, e.Y, 15, 8, 25, "#e74c3c", 3)

	rolls := e.Tier.DropCount
	if rolls <= 0 {
		rolls = 1
	}
	for _, spawn := range r.drops.Resolve(e.Tier.DropTable, rolls) {
		def, ok := r.cat.Item(spawn.ItemID)
		if !ok {
			logger.Log.WithField("item", spawn.ItemID).Warn("Drop table names unknown item")
			continue
		}
		x := e.X + (r.rng.Float64()-0.5)*DropJitter
		y := e.Y + (r.rng.Float64()-0.5)*DropJitter
		r.nextID++
		r.items = append(r.items, newItem(r.nextID, def, x, y, r.rng))
	}
}

// collect applies a picked-up item
func (r *Run) collect(it *Item) {
	d := it.Def
	r.emit(CueCollect)
	switch d.Category {
	case ItemMaterial:
		r.loot.Materials[d.ID]++
		r.floatText(it.X, it.Y, d.Name, d.Color)
	case ItemBuff:
		ticks := int(d.Duration * TicksPerSecond * (1 + r.bonuses.ItemEfficiency/100))
		if BuffKind(d.Sub) == BuffBoost {
			if ticks <= 0 {
				ticks = BoostTicks
			}
			if ticks > r.boost {
				r.boost = ticks
			}
		} else {
			r.buffs.Apply(BuffKind(d.Sub), d.Value, ticks)
		}
		r.floatText(it.X, it.Y, fmt.Sprintf("%s (%.0fs)", d.Name, d.Duration), d.Color)
	case ItemHeal:
		heal := math.Floor(r.maxHP * d.Value)
		r.hp = math.Min(r.maxHP, r.hp+heal)
		r.floatText(it.X, it.Y, fmt.Sprintf("HP +%.0f", heal), "#2ecc71")
	case ItemMoney:
		r.loot.Money += int(d.Value)
		r.floatText(it.X, it.Y, fmt.Sprintf("$%.0f", d.Value), "#f1c40f")
	case ItemStat:
		r.loot.Stats[d.Sub] += d.Value
		r.floatText(it.X, it.Y, d.Name, d.Color)
	}
}

// compact drops every dead entity in a single sweep
func (r *Run) compact() {
	r.enemies = compactSlice(r.enemies, func(e *Enemy) bool { return e.Dead })
	r.bullets = compactSlice(r.bullets, func(b *Bullet) bool { return b.Dead })
	r.shots = compactSlice(r.shots, func(s *EnemyShot) bool { return s.Dead })
	r.missiles = compactSlice(r.missiles, func(m *Missile) bool { return m.Dead })
	r.items = compactSlice(r.items, func(it *Item) bool { return it.Dead })
}

func compactSlice[T any](s []T, dead func(T) bool) []T {
	out := s[:0]
	for _, v := range s {
		if !dead(v) {
			out = append(out, v)
		}
	}
	var zero T
	for i := len(out); i < len(s); i++ {
		s[i] = zero
	}
	return out
}
