package game

import (
	"fmt"
	"math"
	"math/rand"
)

// Mission is one delivery contract. Immutable once a run starts.
type Mission struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Stars        int     `json:"stars"`
	Distance     int     `json:"distance"`
	Weight       int     `json:"weight"`
	Reward       int     `json:"reward"`
	Penalty      int     `json:"penalty"`
	TargetTime   int     `json:"target_time"` // seconds
	WeatherTable string  `json:"weather_table"`
	EnemyTier    string  `json:"enemy_tier"`
	ShieldMod    float64 `json:"shield_mod"`
	HPMod        float64 `json:"hp_mod"`
}

// MissionGenerator produces mission offers from player progression
type MissionGenerator struct {
	cat *Catalog
	rng *rand.Rand
}

// NewMissionGenerator creates a generator drawing from rng
func NewMissionGenerator(cat *Catalog, rng *rand.Rand) *MissionGenerator {
	return &MissionGenerator{cat: cat, rng: rng}
}

// oddsFor returns the star odds of the highest scaling row not above statSum
func (g *MissionGenerator) oddsFor(statSum int) []int {
	rows := g.cat.Missions.Scaling
	if len(rows) == 0 {
		return []int{100}
	}
	// Rows may be listed in any order. Below every threshold the lowest row applies.
	best, lowest := -1, 0
	for i, row := range rows {
		if row.MinStat < rows[lowest].MinStat {
			lowest = i
		}
		if statSum >= row.MinStat && (best < 0 || row.MinStat > rows[best].MinStat) {
			best = i
		}
	}
	if best < 0 {
		best = lowest
	}
	return rows[best].Odds
}

// RollStars picks a star rating; a roll past the listed odds is one star
func (g *MissionGenerator) RollStars(statSum int) int {
	roll := g.rng.Intn(100)
	cum := 0
	for i, p := range g.oddsFor(statSum) {
		cum += p
		if roll < cum {
			return i + 1
		}
	}
	return 1
}

// Generate returns a fresh batch of offers for a player whose upgrade levels sum to statSum
func (g *MissionGenerator) Generate(statSum int) []Mission {
	cfg := g.cat.Missions
	n := cfg.Count
	if n <= 0 {
		n = 3
	}
	batch := newID("m")
	out := make([]Mission, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.build(fmt.Sprintf("%s-%d", batch, i), g.RollStars(statSum)))
	}
	return out
}

func (g *MissionGenerator) build(id string, stars int) Mission {
	cfg := g.cat.Missions
	params, ok := cfg.Difficulty[stars]
	if !ok {
		params = cfg.Difficulty[1]
	}
	span := params.MaxDistance - params.MinDistance
	dist := params.MinDistance
	if span > 0 {
		dist += int(math.Floor(g.rng.Float64() * float64(span)))
	}
	maxWeight := cfg.MaxWeight
	if maxWeight <= 0 {
		maxWeight = 5
	}
	avg := cfg.AverageSpeed
	if avg <= 0 {
		avg = 12
	}
	reward := int(math.Floor(float64(dist) * cfg.BaseRate * params.RewardMod))
	return Mission{
		ID:           id,
		Title:        fmt.Sprintf("Cargo Run Lv.%d", stars),
		Stars:        stars,
		Distance:     dist,
		Weight:       g.rng.Intn(maxWeight) + 1,
		Reward:       reward,
		Penalty:      int(math.Floor(float64(reward) * 0.5)),
		TargetTime:   int(math.Floor(float64(dist)/avg)) + cfg.TimeBuffer,
		WeatherTable: params.WeatherTable,
		EnemyTier:    params.EnemyTier,
		ShieldMod:    params.ShieldMod,
		HPMod:        params.HPMod,
	}
}

// Reroll charges the reroll cost and generates a new batch
func (g *MissionGenerator) Reroll(funds, statSum int) ([]Mission, int, error) {
	cost := g.cat.Missions.RerollCost
	if funds < cost {
		return nil, 0, ErrInsufficientFunds
	}
	return g.Generate(statSum), cost, nil
}
