package game

const (
	SpatialCellSize = 80.0 // 2x the largest hit range (bomb trigger)
	spatialOriginX  = -DespawnMargin
	spatialOriginY  = -2 * DespawnMargin
	SpatialCols     = 16 // (800 + 2*200) / 80 + 1
	SpatialRows     = 19 // ceil((600 + 4*200) / 80) + 1
)

// SpatialGrid buckets enemy indexes for broad-phase hit tests. Positions
// outside the covered area clamp to the border cells.
type SpatialGrid struct {
	cells [SpatialCols * SpatialRows][]int
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func clampCell(v, origin float64, n int) int {
	c := int((v - origin) / SpatialCellSize)
	if v < origin {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	return c
}

// Insert adds an index at the given position
func (g *SpatialGrid) Insert(x, y float64, idx int) {
	cx := clampCell(x, spatialOriginX, SpatialCols)
	cy := clampCell(y, spatialOriginY, SpatialRows)
	i := cy*SpatialCols + cx
	g.cells[i] = append(g.cells[i], idx)
}

// QueryBuf appends the indexes of every cell overlapping the box around (x, y)
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []int) []int {
	minCX := clampCell(x-radius, spatialOriginX, SpatialCols)
	maxCX := clampCell(x+radius, spatialOriginX, SpatialCols)
	minCY := clampCell(y-radius, spatialOriginY, SpatialRows)
	maxCY := clampCell(y+radius, spatialOriginY, SpatialRows)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*SpatialCols+cx]...)
		}
	}
	return buf
}
