package main

import (
	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
)

// edit runs a hangar operation under the pilot lock, saves the record and
// pushes the new hangar view. Failed operations change nothing.
func (p *Pilot) edit(cue game.Cue, evt string, meta map[string]interface{}, op func(*game.Progression) error) error {
	p.mu.Lock()
	if !p.phase.CanEdit() {
		p.mu.Unlock()
		return ErrInFlight
	}
	if err := op(p.prog); err != nil {
		p.mu.Unlock()
		return err
	}
	p.phase = p.phase.Next(MsgHangar)
	p.persistLocked()
	p.mu.Unlock()

	if evt != "" {
		p.sm.analytics.Track(evt, p.ID, "", meta)
	}
	p.SendJSON(Envelope{T: MsgCue, Data: CueMsg{Cues: []game.Cue{cue}}})
	p.SendJSON(Envelope{T: MsgHangar, Data: p.Hangar()})
	return nil
}

// BuyPart buys a part template into the warehouse
func (p *Pilot) BuyPart(templateID string) error {
	return p.edit(game.CueBuy, EvtPurchase, map[string]interface{}{"part": templateID}, func(pr *game.Progression) error {
		_, err := pr.BuyPart(p.sm.engine, templateID)
		return err
	})
}

// SellPart sells an owned part
func (p *Pilot) SellPart(partID string) error {
	return p.edit(game.CueSell, EvtSale, map[string]interface{}{"part": partID}, func(pr *game.Progression) error {
		_, err := pr.SellPart(p.sm.engine, partID)
		return err
	})
}

// UpgradePart raises an owned part one level
func (p *Pilot) UpgradePart(partID string) error {
	return p.edit(game.CueUpgrade, EvtUpgrade, map[string]interface{}{"part": partID}, func(pr *game.Progression) error {
		_, err := pr.UpgradePart(p.sm.engine, partID)
		return err
	})
}

// Place equips a warehouse part at an anchor cell
func (p *Pilot) Place(partID string, row, col int) error {
	return p.edit(game.CuePlace, "", nil, func(pr *game.Progression) error {
		return p.sm.engine.Place(pr.Grid, partID, row, col)
	})
}

// Move repositions an equipped part
func (p *Pilot) Move(partID string, row, col int) error {
	return p.edit(game.CuePlace, "", nil, func(pr *game.Progression) error {
		return p.sm.engine.Move(pr.Grid, partID, row, col)
	})
}

// Unequip returns an equipped part to the warehouse
func (p *Pilot) Unequip(partID string) error {
	return p.edit(game.CueClick, "", nil, func(pr *game.Progression) error {
		return p.sm.engine.Unequip(pr.Grid, partID)
	})
}

// UnlockCell buys a purchasable grid cell
func (p *Pilot) UnlockCell(row, col int) error {
	return p.edit(game.CueUnlock, EvtUnlock, map[string]interface{}{"r": row, "c": col}, func(pr *game.Progression) error {
		_, err := pr.UnlockCell(p.sm.engine, row, col)
		return err
	})
}

// ResetGrid reverts the grid layout with a partial refund
func (p *Pilot) ResetGrid() error {
	return p.edit(game.CueClick, "", nil, func(pr *game.Progression) error {
		pr.ResetGrid(p.sm.engine)
		return nil
	})
}

// BuyUpgrade raises a stat track one level
func (p *Pilot) BuyUpgrade(key string) error {
	return p.edit(game.CueUpgrade, EvtUpgrade, map[string]interface{}{"stat": key}, func(pr *game.Progression) error {
		_, err := pr.BuyUpgrade(p.sm.cat, key)
		return err
	})
}

// Repair pays to restore the hull
func (p *Pilot) Repair() error {
	return p.edit(game.CueBuy, EvtRepair, nil, func(pr *game.Progression) error {
		_, err := pr.Repair()
		return err
	})
}

// Reroll pays for a fresh set of mission offers
func (p *Pilot) Reroll() error {
	return p.edit(game.CueBuy, "", nil, func(pr *game.Progression) error {
		missions, cost, err := p.gen.Reroll(pr.Money, pr.UpgradeLevelSum())
		if err != nil {
			return err
		}
		pr.Money -= cost
		p.missions = missions
		return nil
	})
}

// Shop lists every part template with an ownership flag
func (p *Pilot) Shop() []game.ShopEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sm.engine.Listing(p.prog.Grid)
}

// Hangar builds a detached copy of the pilot's between-missions view
func (p *Pilot) Hangar() HangarMsg {
	p.mu.Lock()
	defer p.mu.Unlock()

	pr := p.prog
	grid := cloneGrid(pr.Grid)
	return HangarMsg{
		Phase:       p.phase.String(),
		Money:       pr.Money,
		HullDamage:  pr.HullDamage,
		RepairCost:  pr.RepairCost(),
		Inventory:   cloneMap(pr.Inventory),
		StatBonuses: cloneMap(pr.StatBonuses),
		Career:      pr.Career,
		Upgrades:    pr.UpgradeSpecs(p.sm.cat),
		Ship:        p.sm.engine.View(grid),
		Missions:    append([]game.Mission(nil), p.missions...),
		RerollCost:  p.sm.cat.Missions.RerollCost,
	}
}

// Profile returns the pilot's money and career counters
func (p *Pilot) Profile() (int, game.CareerStats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prog.Money, p.prog.Career
}

func cloneGrid(g *game.ShipGrid) *game.ShipGrid {
	c := *g
	c.Unlocked = append([]game.Cell(nil), g.Unlocked...)
	c.Equipped = append([]game.PartInstance(nil), g.Equipped...)
	c.Warehouse = append([]game.PartInstance(nil), g.Warehouse...)
	return &c
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
