package game

import (
	"errors"
	"math"
	"testing"
)

func TestBuyPart(t *testing.T) {
	e, g := testGrid(t)

	if _, _, err := e.BuyPart(g, 1000, "Collector"); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	p, cost, err := e.BuyPart(g, 5000, "Collector")
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if cost != 2000 || p.Level != 1 || len(g.Warehouse) != 1 {
		t.Errorf("unexpected purchase cost=%d part=%+v", cost, p)
	}
	if _, _, err := e.BuyPart(g, 5000, "Collector"); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("expected ErrAlreadyOwned for a stored part, got %v", err)
	}
	if _, _, err := e.BuyPart(g, 5000, "BeamGun"); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("expected ErrAlreadyOwned for an equipped part, got %v", err)
	}
	if _, _, err := e.BuyPart(g, 5000, "Railgun"); !errors.Is(err, ErrUnknownPart) {
		t.Errorf("expected ErrUnknownPart, got %v", err)
	}
}

func TestSellPart(t *testing.T) {
	e, g := testGrid(t)
	p, _, _ := e.BuyPart(g, 1<<30, "Collector")
	g.Warehouse[0].Level = 3

	refund, err := e.SellPart(g, p.ID)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if refund != 3000 {
		t.Errorf("expected floor(2000*0.5*3)=3000, got %d", refund)
	}

	refund, err = e.SellPart(g, "part-init-1")
	if err != nil {
		t.Fatalf("sell equipped: %v", err)
	}
	if refund != 500 || len(g.Equipped) != 0 {
		t.Errorf("expected refund 500 and an empty grid, got %d and %d parts", refund, len(g.Equipped))
	}
	if _, err := e.SellPart(g, p.ID); !errors.Is(err, ErrPartNotFound) {
		t.Errorf("expected ErrPartNotFound, got %v", err)
	}
}

func TestUpgradePart(t *testing.T) {
	e, g := testGrid(t)
	inv := map[string]int{}
	want, _ := e.cat.PartStat("BeamGun", 2)

	if _, err := e.UpgradePart(g, inv, 0, "part-init-1"); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	cost, err := e.UpgradePart(g, inv, 1<<30, "part-init-1")
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if cost != want.Cost || g.Equipped[0].Level != 2 {
		t.Errorf("expected cost %d and level 2, got %d and %d", want.Cost, cost, g.Equipped[0].Level)
	}

	g.Equipped[0].Level = 9
	if _, err := e.UpgradePart(g, inv, 1<<30, "part-init-1"); !errors.Is(err, ErrMissingMaterial) {
		t.Errorf("expected ErrMissingMaterial, got %v", err)
	}
	if g.Equipped[0].Level != 9 {
		t.Error("failed upgrade must not change the level")
	}
	inv["ItemG"] = 2
	if _, err := e.UpgradePart(g, inv, 1<<30, "part-init-1"); err != nil {
		t.Fatalf("upgrade with material: %v", err)
	}
	if inv["ItemG"] != 1 || g.Equipped[0].Level != 10 {
		t.Errorf("expected one ItemG left and level 10, got %d and %d", inv["ItemG"], g.Equipped[0].Level)
	}

	g.Equipped[0].Level = MaxUpgradeLevel
	if _, err := e.UpgradePart(g, inv, 1<<30, "part-init-1"); !errors.Is(err, ErrMaxLevel) {
		t.Errorf("expected ErrMaxLevel, got %v", err)
	}
}

func TestProgressionShopWrappers(t *testing.T) {
	cat := testCatalog(t)
	e := NewGridEngine(cat)
	p := NewProgression(cat)

	part, err := p.BuyPart(e, "Collector")
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if p.Money != 3000 {
		t.Errorf("expected 3000 left, got %d", p.Money)
	}
	if _, err := p.SellPart(e, part.ID); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if p.Money != 4000 {
		t.Errorf("expected 4000 after refund, got %d", p.Money)
	}

	if _, err := p.UnlockCell(e, 2, 4); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	res := p.ResetGrid(e)
	if res.Refund != 250 || p.Money != 3750 {
		t.Errorf("expected refund 250 and 3750, got %d and %d", res.Refund, p.Money)
	}
}

func TestListingMarksOwned(t *testing.T) {
	e, g := testGrid(t)
	for _, entry := range e.Listing(g) {
		if entry.Owned != (entry.Template.ID == "BeamGun") {
			t.Errorf("%s: owned=%v", entry.Template.ID, entry.Owned)
		}
	}
}

func TestResetThenSellDoesNotMintMoney(t *testing.T) {
	cat := testCatalog(t)
	e := NewGridEngine(cat)
	p := NewProgression(cat)
	start := p.Money

	var starterValue int
	for _, part := range p.Grid.Equipped {
		tmpl, _ := cat.Part(part.TemplateID)
		starterValue += int(math.Floor(float64(tmpl.Price) * 0.5 * float64(part.Level)))
	}

	for cycle := 0; cycle < 10; cycle++ {
		p.ResetGrid(e)
		for _, part := range append([]PartInstance(nil), p.Grid.Warehouse...) {
			if _, err := p.SellPart(e, part.ID); err != nil {
				t.Fatalf("cycle %d: sell %s: %v", cycle, part.ID, err)
			}
		}
		if p.Money > start+starterValue {
			t.Fatalf("cycle %d: money %d exceeds %d plus the starter resale value %d", cycle, p.Money, start, starterValue)
		}
	}
	for _, part := range p.Grid.Equipped {
		if !part.Reissued {
			t.Errorf("part %s equipped by a reset should be marked reissued", part.ID)
		}
	}
}
