package game

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
)

const (
	ProgressionVersion = 6
	RepairCostPerHP    = 5.0
	MinLaunchHull      = 1.0
)

// UpgradeKeys are the player stat tracks every record carries
var UpgradeKeys = []string{"HP", "ENGINE", "ACCEL", "SPEED", "BRAKE", "WEAPON_OS"}

var legacyUpgradeKeys = map[string]string{
	"health":       "HP",
	"speed":        "SPEED",
	"accel":        "ACCEL",
	"engine_power": "ENGINE",
}

var droppedUpgradeKeys = []string{"health", "speed", "accel", "engine_power", "cargo_cap", "weapon"}

// CareerStats are lifetime counters
type CareerStats struct {
	Started   int `json:"started"`
	Cleared   int `json:"cleared"`
	Failed    int `json:"failed"`
	Destroyed int `json:"totalDebrisDestroyed"`
}

// Progression is the persisted player record
type Progression struct {
	Version     int                `json:"version"`
	Money       int                `json:"money"`
	Upgrades    map[string]int     `json:"upgradeLevels"`
	Inventory   map[string]int     `json:"inventory"`
	StatBonuses map[string]float64 `json:"statBonuses"`
	Career      CareerStats        `json:"careerStats"`
	Grid        *ShipGrid          `json:"gridData"`
	HullDamage  float64            `json:"hullDamage"`
}

// NewProgression returns a fresh record
func NewProgression(cat *Catalog) *Progression {
	p := &Progression{
		Version:     ProgressionVersion,
		Money:       cat.Player.Money,
		Upgrades:    make(map[string]int, len(UpgradeKeys)),
		Inventory:   make(map[string]int),
		StatBonuses: make(map[string]float64),
		Grid:        NewGridEngine(cat).NewGrid(),
	}
	for _, k := range UpgradeKeys {
		p.Upgrades[k] = 0
	}
	return p
}

// DecodeProgression loads a stored record, filling missing fields, renaming
// legacy upgrade keys and resetting a grid that no longer fits the layout.
// An unreadable record yields a fresh one.
func DecodeProgression(cat *Catalog, data []byte) *Progression {
	if len(data) == 0 {
		return NewProgression(cat)
	}
	// decode over a fresh record so absent fields keep their defaults
	p := NewProgression(cat)
	p.Upgrades = nil
	if err := json.Unmarshal(data, p); err != nil {
		logger.Log.WithError(err).Warn("Unreadable progression, starting fresh")
		return NewProgression(cat)
	}
	fresh := NewProgression(cat)

	levels := make(map[string]int, len(UpgradeKeys))
	for _, k := range UpgradeKeys {
		levels[k] = 0
	}
	for old, key := range legacyUpgradeKeys {
		if v, ok := p.Upgrades[old]; ok {
			levels[key] = v
		}
	}
	for k, v := range p.Upgrades {
		levels[k] = v
	}
	for _, k := range droppedUpgradeKeys {
		delete(levels, k)
	}
	p.Upgrades = levels

	if p.Inventory == nil {
		p.Inventory = make(map[string]int)
	}
	if p.StatBonuses == nil {
		p.StatBonuses = make(map[string]float64)
	}

	eng := NewGridEngine(cat)
	if p.Grid == nil {
		p.Grid = fresh.Grid
	}
	if p.Grid.Unlocked == nil {
		p.Grid.Unlocked = fresh.Grid.Unlocked
	}
	if p.Grid.Equipped == nil {
		p.Grid.Equipped = []PartInstance{}
	}
	if p.Grid.Warehouse == nil {
		p.Grid.Warehouse = []PartInstance{}
	}
	if !eng.Validate(p.Grid) {
		logger.Log.WithField("version", p.Version).Warn("Grid incompatible with layout, resetting")
		warehouse := p.Grid.Warehouse
		p.Grid = fresh.Grid
		p.Grid.Warehouse = warehouse
	}
	p.Version = ProgressionVersion
	return p
}

// Encode serializes the record for storage
func (p *Progression) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode progression: %w", err)
	}
	return data, nil
}

// UpgradeLevelSum totals every stat track level
func (p *Progression) UpgradeLevelSum() int {
	sum := 0
	for _, v := range p.Upgrades {
		sum += v
	}
	return sum
}

// RepairCost is the price of restoring the hull fully
func (p *Progression) RepairCost() int {
	return int(math.Ceil(p.HullDamage * RepairCostPerHP))
}

// Repair restores the hull and returns the price paid
func (p *Progression) Repair() (int, error) {
	if p.HullDamage <= 0 {
		return 0, ErrNothingToRepair
	}
	cost := p.RepairCost()
	if p.Money < cost {
		return 0, ErrInsufficientFunds
	}
	p.Money -= cost
	p.HullDamage = 0
	return cost, nil
}

// Launch checks the hull, counts the start and returns the run configuration
func (p *Progression) Launch(cat *Catalog, m Mission, seed int64) (RunConfig, error) {
	b := NewGridEngine(cat).CalculateBonuses(p.Grid.Equipped)
	for _, w := range b.Warnings {
		logger.Log.WithField("mission", m.ID).Warn(w)
	}
	stats := LaunchStats(cat, p, b, m)
	if stats.HP <= MinLaunchHull {
		return RunConfig{}, ErrHullWrecked
	}
	p.Career.Started++
	return RunConfig{Mission: m, Bonuses: b, Stats: stats, Seed: seed}, nil
}

// ApplyResult commits a finished run. Loot is kept on every outcome; a
// fault changes nothing.
func (p *Progression) ApplyResult(res *Result) {
	if res == nil || res.Outcome == OutcomeFault || res.Outcome == OutcomeRunning {
		return
	}
	p.Money += res.Loot.Money
	for id, n := range res.Loot.Materials {
		p.Inventory[id] += n
	}
	for k, v := range res.Loot.Stats {
		p.StatBonuses[k] += v
	}
	p.HullDamage = res.HullDamage

	switch res.Outcome {
	case OutcomeSuccess:
		p.Money += res.Payout
		p.Career.Cleared++
		p.Career.Destroyed += res.Destroyed
	case OutcomeFailure:
		p.Money = max(0, p.Money-res.Penalty)
		p.Career.Failed++
	}
}
