package game

import (
	"fmt"
	"math"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLootRange    = 40.0
	DefaultWeaponDamage = 10.0
	MinFireRateFactor   = 0.2
	MaxDamageReduction  = 0.8
)

// WeaponMount is the weapon a ship fires, resolved from an equipped part
type WeaponMount struct {
	Template *PartTemplate
	Level    int
	Damage   float64
}

// Bonuses aggregates the effects of every equipped part
type Bonuses struct {
	TotalWeight     float64      `json:"total_weight"`
	FireRateFactor  float64      `json:"fire_rate_factor"`
	LootRange       float64      `json:"loot_range"`
	HasCollector    bool         `json:"has_collector"`
	AccelBoost      float64      `json:"accel_boost"`
	BrakeBoost      float64      `json:"brake_boost"`
	HasSubWeapon    bool         `json:"has_sub_weapon"`
	WeaponDamage    float64      `json:"weapon_damage"`
	DamageReduction float64      `json:"damage_reduction"`
	ItemEfficiency  float64      `json:"item_efficiency"`
	MainWeapon      *WeaponMount `json:"-"`
	SubWeapon       *WeaponMount `json:"-"`
	Warnings        []string     `json:"warnings,omitempty"`
}

// CalculateBonuses folds equipped parts into a bonus set. Unknown template ids
// are skipped. When several Main (or Sub) parts are equipped the last one wins
// and a warning is recorded.
func (e *GridEngine) CalculateBonuses(parts []PartInstance) Bonuses {
	b := Bonuses{
		FireRateFactor: 1.0,
		LootRange:      DefaultLootRange,
	}
	var mains, subs int
	osDamage := 0.0

	for _, p := range parts {
		t, ok := e.cat.Part(p.TemplateID)
		if !ok {
			logger.Log.WithFields(logrus.Fields{
				"part":     p.ID,
				"template": p.TemplateID,
			}).Warn("Skipping unknown part template")
			continue
		}
		val := 0.0
		if row, ok := e.cat.PartStat(t.ID, p.Level); ok {
			val = row.Value
		}

		b.TotalWeight += t.Weight
		if t.FireRate > 0 {
			b.FireRateFactor *= t.FireRate
		}

		switch t.Effect {
		case EffectWeaponOS:
			osDamage += val
		case EffectCollector:
			b.LootRange = val
			b.HasCollector = true
		case EffectShield:
			b.DamageReduction = math.Min(MaxDamageReduction, b.DamageReduction+val/100)
		case EffectItemEff:
			b.ItemEfficiency += val
		case EffectAccelBooster:
			b.AccelBoost += t.Boost + float64(p.Level)*0.002
		case EffectBrakeBooster:
			b.BrakeBoost += t.Boost + float64(p.Level)*0.02
		}

		switch t.Category {
		case CategoryMain:
			mains++
			b.MainWeapon = &WeaponMount{Template: t, Level: p.Level, Damage: val}
		case CategorySub:
			subs++
			b.HasSubWeapon = true
			b.SubWeapon = &WeaponMount{Template: t, Level: p.Level, Damage: val}
		}
	}

	b.FireRateFactor = math.Max(MinFireRateFactor, b.FireRateFactor)
	if mains > 1 {
		b.Warnings = append(b.Warnings, fmt.Sprintf("%d main weapons equipped, firing %s", mains, b.MainWeapon.Template.ID))
	}
	if subs > 1 {
		b.Warnings = append(b.Warnings, fmt.Sprintf("%d sub weapons equipped, firing %s", subs, b.SubWeapon.Template.ID))
	}

	b.WeaponDamage = DefaultWeaponDamage
	if b.MainWeapon != nil && b.MainWeapon.Damage > 0 {
		b.WeaponDamage = b.MainWeapon.Damage
	}
	b.WeaponDamage += osDamage
	return b
}

// GridView is the editor's read-only view of a ship
type GridView struct {
	Layout  [][]int   `json:"layout"`
	Grid    *ShipGrid `json:"grid"`
	Bonuses Bonuses   `json:"bonuses"`
}

// View bundles the static layout, the grid and its bonuses
func (e *GridEngine) View(g *ShipGrid) GridView {
	return GridView{Layout: e.cat.Grid.Layout, Grid: g, Bonuses: e.CalculateBonuses(g.Equipped)}
}
