package game

// BuffKind names a timed modifier
type BuffKind string

const (
	BuffPower      BuffKind = "POWER"      // damage multiplier is 1 + magnitude
	BuffCooldown   BuffKind = "COOLDOWN"   // fire cooldown multiplier
	BuffSpeed      BuffKind = "SPEED"      // max speed multiplier
	BuffInvincible BuffKind = "INVINCIBLE" // blocks enemy shots
	BuffBoost      BuffKind = "BOOST"      // not stored; drives the boost timer
)

// Buff is one active modifier
type Buff struct {
	Remaining int     `json:"remaining" msgpack:"t"`
	Magnitude float64 `json:"magnitude" msgpack:"m"`
}

// Buffs maps each kind to at most one active buff
type Buffs map[BuffKind]Buff

// Apply merges a buff: the larger magnitude wins and the duration becomes the
// larger of the current and new durations.
func (b Buffs) Apply(kind BuffKind, magnitude float64, ticks int) {
	if ticks <= 0 {
		return
	}
	cur, ok := b[kind]
	if !ok {
		b[kind] = Buff{Remaining: ticks, Magnitude: magnitude}
		return
	}
	if magnitude > cur.Magnitude {
		cur.Magnitude = magnitude
	}
	if ticks > cur.Remaining {
		cur.Remaining = ticks
	}
	b[kind] = cur
}

// Active reports whether a buff of kind is running
func (b Buffs) Active(kind BuffKind) bool {
	_, ok := b[kind]
	return ok
}

// Magnitude returns the active magnitude of kind, or def when absent
func (b Buffs) Magnitude(kind BuffKind, def float64) float64 {
	if cur, ok := b[kind]; ok {
		return cur.Magnitude
	}
	return def
}

// Tick counts every buff down one tick and drops expired ones
func (b Buffs) Tick() {
	for k, cur := range b {
		cur.Remaining--
		if cur.Remaining <= 0 {
			delete(b, k)
			continue
		}
		b[k] = cur
	}
}
