package game

import (
	"math"
	"testing"
)

func TestCalculateBonusesDefaults(t *testing.T) {
	e := NewGridEngine(testCatalog(t))
	b := e.CalculateBonuses(nil)

	if b.FireRateFactor != 1 || b.LootRange != DefaultLootRange {
		t.Errorf("unexpected defaults %+v", b)
	}
	if b.WeaponDamage != DefaultWeaponDamage {
		t.Errorf("expected weapon damage %.0f, got %.0f", DefaultWeaponDamage, b.WeaponDamage)
	}
	if b.MainWeapon != nil || b.HasSubWeapon || b.HasCollector {
		t.Error("empty grid should carry no weapons or collector")
	}
}

func TestCollectorLastWins(t *testing.T) {
	e := NewGridEngine(testCatalog(t))
	b := e.CalculateBonuses([]PartInstance{
		{ID: "a", TemplateID: "Collector", Level: MaxUpgradeLevel},
		{ID: "b", TemplateID: "Collector", Level: 0},
	})
	if !b.HasCollector {
		t.Fatal("expected collector")
	}
	if b.LootRange != 66 {
		t.Errorf("expected loot range of the last collector (66), got %.0f", b.LootRange)
	}
}

func TestMainWeaponLastWinsWithWarning(t *testing.T) {
	e := NewGridEngine(testCatalog(t))
	b := e.CalculateBonuses([]PartInstance{
		{ID: "a", TemplateID: "BeamGun", Level: 1},
		{ID: "b", TemplateID: "Laser", Level: 1},
	})
	if b.MainWeapon == nil || b.MainWeapon.Template.ID != "Laser" {
		t.Fatalf("expected Laser as main weapon, got %+v", b.MainWeapon)
	}
	if len(b.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", b.Warnings)
	}
	if b.TotalWeight != 20 {
		t.Errorf("expected weight 20, got %.0f", b.TotalWeight)
	}
}

func TestWeaponDamageAddsWeaponOS(t *testing.T) {
	e := NewGridEngine(testCatalog(t))
	b := e.CalculateBonuses([]PartInstance{
		{ID: "a", TemplateID: "BeamGun", Level: 1},
		{ID: "b", TemplateID: "WeaponOS", Level: 0},
	})
	if b.WeaponDamage != 15 {
		t.Errorf("expected 10 + 5, got %.0f", b.WeaponDamage)
	}
}

func TestFireRateFactorFloor(t *testing.T) {
	e := NewGridEngine(testCatalog(t))
	var parts []PartInstance
	for i := 0; i < 8; i++ {
		parts = append(parts, PartInstance{ID: NewPartID(), TemplateID: "RapidCore", Level: 1})
	}
	b := e.CalculateBonuses(parts)
	if b.FireRateFactor != MinFireRateFactor {
		t.Errorf("expected floor %.1f, got %.3f", MinFireRateFactor, b.FireRateFactor)
	}

	one := e.CalculateBonuses(parts[:1])
	if math.Abs(one.FireRateFactor-0.8) > 1e-9 {
		t.Errorf("expected 0.8, got %.3f", one.FireRateFactor)
	}
}

func TestShieldReductionCapped(t *testing.T) {
	e := NewGridEngine(testCatalog(t))
	one := e.CalculateBonuses([]PartInstance{{ID: "s", TemplateID: "Shield", Level: 0}})
	if math.Abs(one.DamageReduction-0.05) > 1e-9 {
		t.Errorf("expected 0.05, got %.3f", one.DamageReduction)
	}

	var parts []PartInstance
	for i := 0; i < 5; i++ {
		parts = append(parts, PartInstance{ID: NewPartID(), TemplateID: "Shield", Level: MaxUpgradeLevel})
	}
	many := e.CalculateBonuses(parts)
	if many.DamageReduction != MaxDamageReduction {
		t.Errorf("expected cap %.1f, got %.3f", MaxDamageReduction, many.DamageReduction)
	}
}

func TestBoosters(t *testing.T) {
	e := NewGridEngine(testCatalog(t))
	b := e.CalculateBonuses([]PartInstance{
		{ID: "a", TemplateID: "AccelBooster", Level: 10},
		{ID: "b", TemplateID: "BrakeBooster", Level: 1},
		{ID: "c", TemplateID: "Missile", Level: 1},
	})
	if math.Abs(b.AccelBoost-0.03) > 1e-9 {
		t.Errorf("expected accel boost 0.03, got %.4f", b.AccelBoost)
	}
	if math.Abs(b.BrakeBoost-0.12) > 1e-9 {
		t.Errorf("expected brake boost 0.12, got %.4f", b.BrakeBoost)
	}
	if !b.HasSubWeapon || b.SubWeapon.Template.Ordnance != OrdnanceMissile {
		t.Errorf("expected missile sub weapon, got %+v", b.SubWeapon)
	}
}

func TestUnknownTemplateSkipped(t *testing.T) {
	e := NewGridEngine(testCatalog(t))
	b := e.CalculateBonuses([]PartInstance{
		{ID: "x", TemplateID: "Retired", Level: 3},
		{ID: "a", TemplateID: "BeamGun", Level: 1},
	})
	if b.TotalWeight != 5 {
		t.Errorf("unknown part should add nothing, weight %.0f", b.TotalWeight)
	}
}
