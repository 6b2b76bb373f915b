package game

import (
	crand "crypto/rand"
	"encoding/hex"
	"math"
	"math/rand"
)

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Distance returns the distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// finite reports whether v is neither NaN nor infinite
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// sign returns -1, 0 or 1
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// NewRand returns a deterministic source for one run or generator
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// newID returns prefix-<12 hex chars>
func newID(prefix string) string {
	b := make([]byte, 6)
	crand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
