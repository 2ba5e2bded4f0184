package engine

import "fmt"

const (
	// GridSize is the width and height of every board.
	GridSize = 10

	// FleetSize is the number of ships each player places.
	FleetSize = 5
)

// Cell is a zero-based (row, col) coordinate on the grid
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// ShipClass is a catalog entry
type ShipClass struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// Ship is a placed ship with its derived cells
type Ship struct {
	ShipClass
	Anchor     Cell   `json:"anchor"`
	Horizontal bool   `json:"horizontal"`
	Cells      []Cell `json:"cells"`
}

// Fleet is the fixed ship catalog, ordered by id.
var Fleet = []ShipClass{
	{ID: 1, Name: "Carrier", Length: 5},
	{ID: 2, Name: "Battleship", Length: 4},
	{ID: 3, Name: "Cruiser", Length: 3},
	{ID: 4, Name: "Submarine", Length: 3},
	{ID: 5, Name: "Destroyer", Length: 2},
}

// ClassByID looks up a catalog entry
func ClassByID(id int) (ShipClass, bool) {
	for _, class := range Fleet {
		if class.ID == id {
			return class, true
		}
	}
	return ShipClass{}, false
}
