// Package engine provides the grid and ship geometry for Battleship Online.
//
// The engine package implements:
//   - The fixed 10x10 grid and cell coordinates
//   - The fleet catalog (Carrier, Battleship, Cruiser, Submarine, Destroyer)
//   - Occupied-cell computation for an anchored ship
//   - Bounds and overlap checks for ship placement
//   - Hit classification against a placed fleet
//   - Game rules (turn policy, optional win detection) and their validation
//
// Everything in this package is stateless. Callers own the placed ships and
// pass them in; Place never mutates its input.
//
// Usage:
//
//	class, _ := engine.ClassByID(5) // Destroyer
//	ship, err := engine.Place(class, engine.Cell{Row: 3, Col: 4}, true, placed)
//	if err != nil {
//		// errors.Is(err, engine.ErrInvalidPlacement) is true
//	}
package engine
