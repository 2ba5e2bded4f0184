// Command analyze prints quick placement statistics for the fleet: how many
// legal positions each ship has on an empty grid, and a heat map counting how
// many of those positions cover each cell. High counts mark the cells most
// likely to hold a ship before any shot is fired.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/wricardo/battleship-online/game/engine"
)

// ShipStats counts the legal placements of one ship class on an empty grid.
type ShipStats struct {
	Class      engine.ShipClass
	Horizontal int
	Vertical   int
}

// Total returns the number of placements in both orientations.
func (s ShipStats) Total() int {
	return s.Horizontal + s.Vertical
}

func main() {
	stats, heat := analyzeFleet(engine.Fleet)
	report(os.Stdout, stats, heat)
}

// placements lists every legal position of class on an empty grid.
func placements(class engine.ShipClass) []engine.Ship {
	return engine.Placements(class, nil)
}

func analyzeFleet(fleet []engine.ShipClass) ([]ShipStats, [][]int) {
	heat := make([][]int, engine.GridSize)
	for i := range heat {
		heat[i] = make([]int, engine.GridSize)
	}

	stats := make([]ShipStats, 0, len(fleet))
	for _, class := range fleet {
		s := ShipStats{Class: class}
		for _, ship := range placements(class) {
			if ship.Horizontal {
				s.Horizontal++
			} else {
				s.Vertical++
			}
			for _, c := range ship.Cells {
				heat[c.Row][c.Col]++
			}
		}
		stats = append(stats, s)
	}

	return stats, heat
}

// hottest returns the cells with the highest coverage and that coverage.
func hottest(heat [][]int) ([]engine.Cell, int) {
	best := -1
	var cells []engine.Cell
	for row, line := range heat {
		for col, count := range line {
			switch {
			case count > best:
				best = count
				cells = []engine.Cell{{Row: row, Col: col}}
			case count == best:
				cells = append(cells, engine.Cell{Row: row, Col: col})
			}
		}
	}
	return cells, best
}

func report(w io.Writer, stats []ShipStats, heat [][]int) {
	fmt.Fprintf(w, "=== Fleet on a %dx%d grid ===\n", engine.GridSize, engine.GridSize)

	cells := 0
	for _, s := range stats {
		cells += s.Class.Length
		fmt.Fprintf(w, "%-10s len %d: %3d placements (%d horizontal, %d vertical)\n",
			s.Class.Name, s.Class.Length, s.Total(), s.Horizontal, s.Vertical)
		if s.Total() == 0 {
			fmt.Fprintf(w, "⚠️  WARNING: %s cannot be placed anywhere\n", s.Class.Name)
		}
	}
	fmt.Fprintf(w, "Ship cells: %d of %d (%.0f%% of the grid)\n",
		cells, engine.GridSize*engine.GridSize, 100*float64(cells)/float64(engine.GridSize*engine.GridSize))

	fmt.Fprintf(w, "\n=== Coverage heat map ===\n")
	fmt.Fprint(w, "    ")
	for col := 0; col < len(heat); col++ {
		fmt.Fprintf(w, "%4d", col)
	}
	fmt.Fprintln(w)
	for row, line := range heat {
		fmt.Fprintf(w, "%4d", row)
		for _, count := range line {
			fmt.Fprintf(w, "%4d", count)
		}
		fmt.Fprintln(w)
	}

	top, count := hottest(heat)
	fmt.Fprintf(w, "\nHottest cells (%d placements each):", count)
	for _, c := range top {
		fmt.Fprintf(w, " %s", c)
	}
	fmt.Fprintln(w)
}
