package xwsolve

import (
	"fmt"

	"crosswarped.com/xwsolve/pkg/primitives"
)

// Direction is an enum representing the direction of a slot in a grid,
// either 'Across' or 'Down'.
type Direction int

const (
	DirectionAcross Direction = iota
	DirectionDown
)

func (d Direction) String() string {
	if d == DirectionAcross {
		return "ACROSS"
	}
	return "DOWN"
}

// A Slot is a maximal run of letter cells in one direction, starting
// at a numbered cell. Its name is "<number><ACROSS|DOWN>".
type Slot struct {
	Name   string
	Number int
	Dir    Direction
	Cells  []Pos
}

func (s Slot) Length() int {
	return len(s.Cells)
}

// Slots scans the grid in row-major order and emits every across and
// down slot of length at least 2. A numbered cell opens an across slot
// when its left neighbor is a boundary or block, and a down slot when
// its up neighbor is; runs of length 1 are dropped.
func Slots(g Grid) []Slot {
	var slots []Slot
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			cell := g.At(r, c)
			if cell.Kind != CellNumber {
				continue
			}

			if g.isBlock(r, c-1) {
				cells := scanRun(g, r, c, 0, 1)
				if len(cells) >= 2 {
					slots = append(slots, Slot{
						Name:   fmt.Sprintf("%d%s", cell.Number, DirectionAcross),
						Number: cell.Number,
						Dir:    DirectionAcross,
						Cells:  cells,
					})
				}
			}

			if g.isBlock(r-1, c) {
				cells := scanRun(g, r, c, 1, 0)
				if len(cells) >= 2 {
					slots = append(slots, Slot{
						Name:   fmt.Sprintf("%d%s", cell.Number, DirectionDown),
						Number: cell.Number,
						Dir:    DirectionDown,
						Cells:  cells,
					})
				}
			}
		}
	}
	return slots
}

// scanRun collects positions from (r, c) in steps of (dr, dc) until a
// boundary or block.
func scanRun(g Grid, r, c, dr, dc int) []Pos {
	var cells []Pos
	for !g.isBlock(r, c) {
		cells = append(cells, Pos{Row: r, Col: c})
		r += dr
		c += dc
	}
	return cells
}

// Prefilled returns the fixed letters of the grid keyed by position,
// including solved letters carried on numbered cells.
func Prefilled(g Grid) map[Pos]rune {
	letters := make(map[Pos]rune)
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			if cell := g.At(r, c); cell.Letter != 0 {
				letters[Pos{Row: r, Col: c}] = cell.Letter
			}
		}
	}
	return letters
}

// slotPattern builds the slot's per-position constraint from the
// grid's pre-filled letters.
func slotPattern(g Grid, s Slot) primitives.Pattern {
	pattern := primitives.NewPattern(s.Length())
	for i, pos := range s.Cells {
		if cell := g.At(pos.Row, pos.Col); cell.Letter != 0 {
			pattern[i] = cell.Letter
		}
	}
	return pattern
}
