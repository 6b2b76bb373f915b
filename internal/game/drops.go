package game

import (
	"math/rand"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
)

// ItemSpawn is one item produced by a drop roll
type ItemSpawn struct {
	ItemID string
}

// DropResolver evaluates drop tables against a random source
type DropResolver struct {
	cat *Catalog
	rng *rand.Rand
}

// NewDropResolver creates a resolver drawing from rng
func NewDropResolver(cat *Catalog, rng *rand.Rand) *DropResolver {
	return &DropResolver{cat: cat, rng: rng}
}

// Resolve rolls the named table rolls times. Every entry is an independent
// trial on every roll, so one roll may yield several items. An unknown table
// yields nothing.
func (d *DropResolver) Resolve(tableID string, rolls int) []ItemSpawn {
	table, ok := d.cat.DropTable(tableID)
	if !ok {
		if tableID != "" {
			logger.Log.WithField("table", tableID).Warn("Unknown drop table")
		}
		return nil
	}
	var out []ItemSpawn
	for i := 0; i < rolls; i++ {
		for _, e := range table {
			if d.rng.Float64() < e.Rate {
				out = append(out, ItemSpawn{ItemID: e.Item})
			}
		}
	}
	return out
}
