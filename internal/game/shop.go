package game

import "math"

// ShopEntry is a part template as offered in the shop
type ShopEntry struct {
	Template *PartTemplate `json:"template"`
	Owned    bool          `json:"owned"`
}

// Listing returns every catalog part with its ownership flag
func (e *GridEngine) Listing(g *ShipGrid) []ShopEntry {
	parts := e.cat.Parts()
	out := make([]ShopEntry, 0, len(parts))
	for _, t := range parts {
		out = append(out, ShopEntry{Template: t, Owned: g.Owns(t.ID)})
	}
	return out
}

// BuyPart adds a level 1 instance to the warehouse and returns the price.
// A ship owns at most one part of each type.
func (e *GridEngine) BuyPart(g *ShipGrid, funds int, templateID string) (PartInstance, int, error) {
	t, ok := e.cat.Part(templateID)
	if !ok {
		return PartInstance{}, 0, ErrUnknownPart
	}
	if funds < t.Price {
		return PartInstance{}, 0, ErrInsufficientFunds
	}
	if g.Owns(templateID) {
		return PartInstance{}, 0, ErrAlreadyOwned
	}
	p := PartInstance{ID: NewPartID(), TemplateID: templateID, Level: 1}
	g.Warehouse = append(g.Warehouse, p)
	return p, t.Price, nil
}

// SellPart removes a stored or equipped part and returns floor(price*0.5*level).
// Seed parts re-issued by ResetGrid sell for nothing.
func (e *GridEngine) SellPart(g *ShipGrid, partID string) (int, error) {
	p, equipped, ok := g.Find(partID)
	if !ok {
		return 0, ErrPartNotFound
	}
	t, ok := e.cat.Part(p.TemplateID)
	if !ok {
		return 0, ErrUnknownPart
	}
	if equipped {
		g.Equipped = removePart(g.Equipped, partID)
	} else {
		g.Warehouse = removePart(g.Warehouse, partID)
	}
	if p.Reissued {
		return 0, nil
	}
	return int(math.Floor(float64(t.Price) * 0.5 * float64(p.Level))), nil
}

// UpgradeQuote returns the row describing the next level of a part
func (e *GridEngine) UpgradeQuote(g *ShipGrid, partID string) (StatRow, error) {
	p, _, ok := g.Find(partID)
	if !ok {
		return StatRow{}, ErrPartNotFound
	}
	if p.Level >= MaxUpgradeLevel {
		return StatRow{}, ErrMaxLevel
	}
	row, ok := e.cat.PartStat(p.TemplateID, p.Level+1)
	if !ok {
		return StatRow{}, ErrUnknownPart
	}
	return row, nil
}

// UpgradePart raises a part one level, consuming materials from inv, and
// returns the money cost. Nothing changes on error.
func (e *GridEngine) UpgradePart(g *ShipGrid, inv map[string]int, funds int, partID string) (int, error) {
	row, err := e.UpgradeQuote(g, partID)
	if err != nil {
		return 0, err
	}
	if funds < row.Cost {
		return 0, ErrInsufficientFunds
	}
	if row.Material != "" && inv[row.Material] < row.MaterialCount {
		return 0, ErrMissingMaterial
	}
	if row.Material != "" {
		inv[row.Material] -= row.MaterialCount
	}
	bumpLevel(g.Equipped, partID)
	bumpLevel(g.Warehouse, partID)
	return row.Cost, nil
}

func bumpLevel(parts []PartInstance, id string) {
	for i := range parts {
		if parts[i].ID == id {
			parts[i].Level++
		}
	}
}

func removePart(parts []PartInstance, id string) []PartInstance {
	out := parts[:0]
	for _, p := range parts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
