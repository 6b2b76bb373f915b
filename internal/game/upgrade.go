package game

// UpgradeSpec describes the next purchasable level of a stat track
type UpgradeSpec struct {
	Key           string  `json:"id"`
	Name          string  `json:"name"`
	Level         int     `json:"level"`
	Max           bool    `json:"is_max"`
	Cost          int     `json:"cost,omitempty"`
	NextValue     float64 `json:"next_value,omitempty"`
	Material      string  `json:"material_id,omitempty"`
	MaterialCount int     `json:"material_count,omitempty"`
}

// UpgradeSpecs lists every stat track with the price of its next level
func (p *Progression) UpgradeSpecs(cat *Catalog) []UpgradeSpec {
	tracks := cat.StatUpgrades()
	out := make([]UpgradeSpec, 0, len(tracks))
	for _, t := range tracks {
		lv := p.Upgrades[t.Key]
		spec := UpgradeSpec{Key: t.Key, Name: t.Name, Level: lv}
		if lv >= MaxUpgradeLevel {
			spec.Max = true
			out = append(out, spec)
			continue
		}
		row, _ := cat.UpgradeStat(t.Key, lv+1)
		spec.Cost = row.Cost
		spec.NextValue = row.Value
		spec.Material = row.Material
		spec.MaterialCount = row.MaterialCount
		out = append(out, spec)
	}
	return out
}

// BuyUpgrade raises a stat track one level, paying money and materials
func (p *Progression) BuyUpgrade(cat *Catalog, key string) (int, error) {
	if _, known := cat.UpgradeStat(key, 0); !known {
		return 0, ErrUnknownUpgrade
	}
	lv := p.Upgrades[key]
	if lv >= MaxUpgradeLevel {
		return 0, ErrMaxLevel
	}
	row, _ := cat.UpgradeStat(key, lv+1)
	if p.Money < row.Cost {
		return 0, ErrInsufficientFunds
	}
	if row.Material != "" && p.Inventory[row.Material] < row.MaterialCount {
		return 0, ErrMissingMaterial
	}
	if row.Material != "" {
		p.Inventory[row.Material] -= row.MaterialCount
	}
	p.Money -= row.Cost
	p.Upgrades[key] = lv + 1
	return row.Cost, nil
}

// BuyPart purchases a part into the warehouse
func (p *Progression) BuyPart(e *GridEngine, templateID string) (PartInstance, error) {
	part, cost, err := e.BuyPart(p.Grid, p.Money, templateID)
	if err != nil {
		return PartInstance{}, err
	}
	p.Money -= cost
	return part, nil
}

// SellPart sells an owned part and returns the refund
func (p *Progression) SellPart(e *GridEngine, partID string) (int, error) {
	refund, err := e.SellPart(p.Grid, partID)
	if err != nil {
		return 0, err
	}
	p.Money += refund
	return refund, nil
}

// UpgradePart raises an owned part one level
func (p *Progression) UpgradePart(e *GridEngine, partID string) (int, error) {
	cost, err := e.UpgradePart(p.Grid, p.Inventory, p.Money, partID)
	if err != nil {
		return 0, err
	}
	p.Money -= cost
	return cost, nil
}

// UnlockCell buys a grid cell
func (p *Progression) UnlockCell(e *GridEngine, row, col int) (int, error) {
	cost, err := e.UnlockCell(p.Grid, p.Money, row, col)
	if err != nil {
		return 0, err
	}
	p.Money -= cost
	return cost, nil
}

// ResetGrid reverts the grid and refunds half the expansion spend
func (p *Progression) ResetGrid(e *GridEngine) ResetResult {
	res := e.ResetGrid(p.Grid)
	p.Money += res.Refund
	return res
}
