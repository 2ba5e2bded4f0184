package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrOutOfBounds      = errors.New("cell out of bounds")
	ErrOverlap          = errors.New("ship overlaps another ship")
)

// CellsOf returns the length cells starting at anchor, walking columns when
// horizontal and rows otherwise.
func CellsOf(length int, anchor Cell, horizontal bool) []Cell {
	cells := make([]Cell, 0, length)
	for i := 0; i < length; i++ {
		if horizontal {
			cells = append(cells, Cell{Row: anchor.Row, Col: anchor.Col + i})
		} else {
			cells = append(cells, Cell{Row: anchor.Row + i, Col: anchor.Col})
		}
	}
	return cells
}

// InBounds reports whether cell lies on a size x size grid
func InBounds(cell Cell, size int) bool {
	return cell.Row >= 0 && cell.Row < size && cell.Col >= 0 && cell.Col < size
}

// Overlaps reports whether the two cell sets intersect
func Overlaps(a, b []Cell) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	seen := make(map[Cell]struct{}, len(a))
	for _, c := range a {
		seen[c] = struct{}{}
	}
	for _, c := range b {
		if _, ok := seen[c]; ok {
			return true
		}
	}
	return false
}

// Place builds a ship of the given class anchored at anchor and checks it
// against the grid and the ships already placed by the same player.
func Place(class ShipClass, anchor Cell, horizontal bool, placed []Ship) (Ship, error) {
	cells := CellsOf(class.Length, anchor, horizontal)
	for _, c := range cells {
		if !InBounds(c, GridSize) {
			return Ship{}, fmt.Errorf("%w: %s at %s: %w", ErrInvalidPlacement, class.Name, c, ErrOutOfBounds)
		}
	}

	for _, other := range placed {
		if Overlaps(cells, other.Cells) {
			return Ship{}, fmt.Errorf("%w: %s overlaps %s: %w", ErrInvalidPlacement, class.Name, other.Name, ErrOverlap)
		}
	}

	return Ship{
		ShipClass:  class,
		Anchor:     anchor,
		Horizontal: horizontal,
		Cells:      cells,
	}, nil
}

// ShipAt returns the ship occupying cell, if any
func ShipAt(ships []Ship, cell Cell) (Ship, bool) {
	for _, ship := range ships {
		for _, c := range ship.Cells {
			if c == cell {
				return ship, true
			}
		}
	}
	return Ship{}, false
}

// FleetCells returns the union of all cells occupied by ships
func FleetCells(ships []Ship) []Cell {
	var cells []Cell
	for _, ship := range ships {
		cells = append(cells, ship.Cells...)
	}
	return cells
}

// Placements lists every legal position of class given the ships already
// placed, horizontal positions first.
func Placements(class ShipClass, placed []Ship) []Ship {
	var ships []Ship
	for _, horizontal := range []bool{true, false} {
		for row := 0; row < GridSize; row++ {
			for col := 0; col < GridSize; col++ {
				ship, err := Place(class, Cell{Row: row, Col: col}, horizontal, placed)
				if err != nil {
					continue
				}
				ships = append(ships, ship)
			}
		}
	}
	return ships
}
