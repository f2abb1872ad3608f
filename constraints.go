package xwsolve

// An Overlap records that position I of one slot and position J of its
// neighbor refer to the same grid cell.
type Overlap struct {
	I, J int
}

// An arc is one directed edge of the constraint graph: the neighboring
// slot's index plus the overlap index pairs, oriented from the owning
// slot to the neighbor.
type arc struct {
	neighbor int
	overlaps []Overlap
}

// buildConstraints inverts the slot set into per-cell coverage and
// emits a directed arc for every ordered pair of slots sharing a cell.
// neighbors[a] and neighbors[b] always mirror each other with I and J
// swapped. A pair sharing several cells gets several overlaps on one
// arc.
func buildConstraints(slots []Slot) [][]arc {
	type coverage struct {
		slot int
		idx  int
	}
	byCell := make(map[Pos][]coverage)
	for si, slot := range slots {
		for i, pos := range slot.Cells {
			byCell[pos] = append(byCell[pos], coverage{slot: si, idx: i})
		}
	}

	// arcIndex[a][b] is the position of b's arc in neighbors[a].
	neighbors := make([][]arc, len(slots))
	arcIndex := make([]map[int]int, len(slots))
	for i := range arcIndex {
		arcIndex[i] = make(map[int]int)
	}

	addOverlap := func(a, b, i, j int) {
		ai, ok := arcIndex[a][b]
		if !ok {
			ai = len(neighbors[a])
			arcIndex[a][b] = ai
			neighbors[a] = append(neighbors[a], arc{neighbor: b})
		}
		neighbors[a][ai].overlaps = append(neighbors[a][ai].overlaps, Overlap{I: i, J: j})
	}

	// Iterate slots rather than the cell map so arc order is stable.
	for si, slot := range slots {
		for i, pos := range slot.Cells {
			for _, cov := range byCell[pos] {
				if cov.slot == si {
					continue
				}
				addOverlap(si, cov.slot, i, cov.idx)
			}
		}
	}
	return neighbors
}

// findArc returns the arc from slot a to slot b, if any.
func findArc(neighbors [][]arc, a, b int) *arc {
	for i := range neighbors[a] {
		if neighbors[a][i].neighbor == b {
			return &neighbors[a][i]
		}
	}
	return nil
}
