package xwsolve

import (
	"slices"
	"strings"
)

// An Entry is one solved slot in the across or down listing.
type Entry struct {
	Number int    `json:"number"`
	Word   string `json:"word"`
}

// A Solution is the immutable result of a solve: the slot assignment,
// the across and down listings sorted by number, and solve stats.
type Solution struct {
	Assignment map[string]string `json:"assignment"`
	Across     []Entry           `json:"across"`
	Down       []Entry           `json:"down"`
	Stats      Stats             `json:"stats"`

	grid     Grid
	slots    []Slot
	assigned []string
}

func newSolution(g Grid, slots []Slot, assigned []string, stats Stats) *Solution {
	sol := &Solution{
		Assignment: make(map[string]string, len(slots)),
		Stats:      stats,
		grid:       g,
		slots:      slots,
		assigned:   assigned,
	}
	for i, slot := range slots {
		sol.Assignment[slot.Name] = assigned[i]
		entry := Entry{Number: slot.Number, Word: assigned[i]}
		if slot.Dir == DirectionAcross {
			sol.Across = append(sol.Across, entry)
		} else {
			sol.Down = append(sol.Down, entry)
		}
	}
	byNumber := func(a, b Entry) int { return a.Number - b.Number }
	slices.SortStableFunc(sol.Across, byNumber)
	slices.SortStableFunc(sol.Down, byNumber)
	return sol
}

// Letters back-projects the assigned words onto the grid. Every cell
// covered by a slot maps to its letter; crossing slots agree by
// construction.
func (sol *Solution) Letters() map[Pos]rune {
	letters := make(map[Pos]rune)
	for i, slot := range sol.slots {
		word := sol.assigned[i]
		for j, pos := range slot.Cells {
			letters[pos] = rune(word[j])
		}
	}
	return letters
}

// Apply returns a copy of the puzzle grid with the solution's letters
// written into every covered cell. Number labels keep their label and
// carry the solved letter alongside it, so the result analyzes to the
// same slot set with every position fixed.
func (sol *Solution) Apply() Grid {
	letters := sol.Letters()
	cells := make([][]Cell, sol.grid.Height())
	for r := range cells {
		cells[r] = make([]Cell, sol.grid.Width())
		for c := range cells[r] {
			cell := sol.grid.At(r, c)
			if letter, ok := letters[Pos{Row: r, Col: c}]; ok {
				if cell.Kind == CellNumber {
					cell.Letter = letter
				} else {
					cell = Cell{Kind: CellLetter, Letter: letter}
				}
			}
			cells[r][c] = cell
		}
	}
	out, _ := NewGrid(cells)
	return out
}

// Render draws the fully lettered grid: '#' for blocks, the solved
// letter for every slot cell (numbered cells included), '.' elsewhere.
func (sol *Solution) Render() string {
	letters := sol.Letters()
	lines := make([]string, sol.grid.Height())
	for r := range lines {
		var b strings.Builder
		for c := 0; c < sol.grid.Width(); c++ {
			if letter, ok := letters[Pos{Row: r, Col: c}]; ok {
				b.WriteRune(letter)
				continue
			}
			if sol.grid.At(r, c).Kind == CellBlock {
				b.WriteByte('#')
				continue
			}
			b.WriteByte('.')
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}
