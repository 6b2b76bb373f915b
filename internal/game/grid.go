package game

import (
	"fmt"
	"math"
)

// Cell addresses one square of the ship grid
type Cell struct {
	Row int `json:"r" msgpack:"r"`
	Col int `json:"c" msgpack:"c"`
}

// PartInstance is an owned copy of a part template
type PartInstance struct {
	ID         string `json:"id" msgpack:"id"`
	TemplateID string `json:"type" msgpack:"type"`
	Level      int    `json:"level" msgpack:"lv"`
	Row        int    `json:"r" msgpack:"r"`
	Col        int    `json:"c" msgpack:"c"`
	Reissued   bool   `json:"reissued,omitempty" msgpack:"ri,omitempty"` // replacement seed from a reset; no resale value
}

// ShipGrid is the mutable part layout of one ship
type ShipGrid struct {
	Unlocked       []Cell         `json:"unlockedCells"`
	Equipped       []PartInstance `json:"equippedParts"`
	Warehouse      []PartInstance `json:"warehouse"`
	ExpansionSpend int            `json:"gridExpansionCostTotal"`
}

// ResetResult reports what a grid reset returned to the player
type ResetResult struct {
	Refund    int            `json:"refund"`
	Displaced []PartInstance `json:"displaced"`
}

// GridEngine validates and applies ship layout changes against the catalog layout
type GridEngine struct {
	cat *Catalog
}

// NewGridEngine creates a grid engine bound to a catalog
func NewGridEngine(cat *Catalog) *GridEngine {
	return &GridEngine{cat: cat}
}

// NewPartID returns a random part instance id
func NewPartID() string {
	return newID("part")
}

// NewGrid returns the initial layout: Initial cells unlocked, seed parts equipped
func (e *GridEngine) NewGrid() *ShipGrid {
	g := &ShipGrid{
		Unlocked:  e.cat.InitialCells(),
		Warehouse: []PartInstance{},
	}
	g.Equipped = e.seedParts(true)
	return g
}

// seedParts builds the seed equipment; a fresh grid uses stable ids
func (e *GridEngine) seedParts(fresh bool) []PartInstance {
	parts := make([]PartInstance, 0, len(e.cat.Grid.Seed))
	for i, s := range e.cat.Grid.Seed {
		id := NewPartID()
		if fresh {
			id = fmt.Sprintf("part-init-%d", i+1)
		}
		parts = append(parts, PartInstance{
			ID:         id,
			TemplateID: s.Part,
			Level:      s.Level,
			Row:        s.Row,
			Col:        s.Col,
			Reissued:   !fresh,
		})
	}
	return parts
}

// IsUnlocked reports whether (row, col) is in the unlocked set
func (g *ShipGrid) IsUnlocked(row, col int) bool {
	for _, c := range g.Unlocked {
		if c.Row == row && c.Col == col {
			return true
		}
	}
	return false
}

// Find returns the part with id and whether it is equipped
func (g *ShipGrid) Find(id string) (PartInstance, bool, bool) {
	for _, p := range g.Equipped {
		if p.ID == id {
			return p, true, true
		}
	}
	for _, p := range g.Warehouse {
		if p.ID == id {
			return p, false, true
		}
	}
	return PartInstance{}, false, false
}

// Owns reports whether a part of the template is equipped or stored
func (g *ShipGrid) Owns(templateID string) bool {
	for _, p := range g.Equipped {
		if p.TemplateID == templateID {
			return true
		}
	}
	for _, p := range g.Warehouse {
		if p.TemplateID == templateID {
			return true
		}
	}
	return false
}

// Occupancy maps every covered cell to the id of the equipped part covering it
func (e *GridEngine) Occupancy(g *ShipGrid, excludeID string) map[Cell]string {
	occ := make(map[Cell]string)
	for _, p := range g.Equipped {
		if p.ID == excludeID {
			continue
		}
		t, ok := e.cat.Part(p.TemplateID)
		if !ok {
			continue
		}
		for _, c := range t.Footprint(p.Row, p.Col) {
			occ[c] = p.ID
		}
	}
	return occ
}

// IsValidPlacement checks that every occupied cell of the template anchored at
// (row, col) is in bounds, unlocked and free of other parts. excludeID names a
// part being moved, which does not block itself.
func (e *GridEngine) IsValidPlacement(g *ShipGrid, templateID string, row, col int, excludeID string) bool {
	t, ok := e.cat.Part(templateID)
	if !ok {
		return false
	}
	occ := e.Occupancy(g, excludeID)
	for _, c := range t.Footprint(row, col) {
		if c.Row < 0 || c.Row >= GridSize || c.Col < 0 || c.Col >= GridSize {
			return false
		}
		if !g.IsUnlocked(c.Row, c.Col) {
			return false
		}
		if _, taken := occ[c]; taken {
			return false
		}
	}
	return true
}

// UnlockCell buys a purchasable cell and returns the price paid
func (e *GridEngine) UnlockCell(g *ShipGrid, funds, row, col int) (int, error) {
	price := e.cat.Grid.UnlockPrice
	if funds < price {
		return 0, ErrInsufficientFunds
	}
	if e.cat.LayoutClass(row, col) != LayoutPurchasable {
		return 0, ErrNotUnlockable
	}
	if g.IsUnlocked(row, col) {
		return 0, ErrAlreadyUnlocked
	}
	g.Unlocked = append(g.Unlocked, Cell{Row: row, Col: col})
	g.ExpansionSpend += price
	return price, nil
}

// ResetGrid reverts to the initial layout. Every equipped part moves to the
// warehouse and the seed parts are re-equipped as fresh instances.
func (e *GridEngine) ResetGrid(g *ShipGrid) ResetResult {
	res := ResetResult{
		Refund:    int(math.Floor(float64(g.ExpansionSpend) * 0.5)),
		Displaced: append([]PartInstance(nil), g.Equipped...),
	}
	g.Warehouse = append(g.Warehouse, res.Displaced...)
	g.Unlocked = e.cat.InitialCells()
	g.Equipped = e.seedParts(false)
	g.ExpansionSpend = 0
	return res
}

// Place moves a warehouse part onto the grid
func (e *GridEngine) Place(g *ShipGrid, partID string, row, col int) error {
	idx := -1
	for i, p := range g.Warehouse {
		if p.ID == partID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrPartNotFound
	}
	p := g.Warehouse[idx]
	if !e.IsValidPlacement(g, p.TemplateID, row, col, "") {
		return ErrInvalidPlacement
	}
	g.Warehouse = append(g.Warehouse[:idx], g.Warehouse[idx+1:]...)
	p.Row, p.Col = row, col
	g.Equipped = append(g.Equipped, p)
	return nil
}

// Move repositions an equipped part
func (e *GridEngine) Move(g *ShipGrid, partID string, row, col int) error {
	for i, p := range g.Equipped {
		if p.ID != partID {
			continue
		}
		if !e.IsValidPlacement(g, p.TemplateID, row, col, partID) {
			return ErrInvalidPlacement
		}
		g.Equipped[i].Row, g.Equipped[i].Col = row, col
		return nil
	}
	return ErrPartNotFound
}

// Unequip returns an equipped part to the warehouse
func (e *GridEngine) Unequip(g *ShipGrid, partID string) error {
	for i, p := range g.Equipped {
		if p.ID == partID {
			g.Equipped = append(g.Equipped[:i], g.Equipped[i+1:]...)
			g.Warehouse = append(g.Warehouse, p)
			return nil
		}
	}
	return ErrPartNotFound
}

// Validate reports whether every unlocked cell is a non-void layout cell
// and every equipped part sits in a legal position.
func (e *GridEngine) Validate(g *ShipGrid) bool {
	for _, c := range g.Unlocked {
		if e.cat.LayoutClass(c.Row, c.Col) == LayoutVoid {
			return false
		}
	}
	for _, p := range g.Equipped {
		if !e.IsValidPlacement(g, p.TemplateID, p.Row, p.Col, p.ID) {
			return false
		}
	}
	return true
}
