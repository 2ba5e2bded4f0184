package session

import (
	"time"

	"github.com/wricardo/battleship-online/game/engine"
)

// Shot is a fired cell and its outcome
type Shot struct {
	Cell engine.Cell `json:"cell"`
	Hit  bool        `json:"hit"`
}

// Player is the per-connection game record. All fields are guarded by the
// owning Session's lock.
type Player struct {
	ID       string
	Name     string
	Ships    []engine.Ship
	Shots    []Shot
	Turn     bool
	JoinedAt time.Time

	fired map[engine.Cell]bool
}

func newPlayer(id, name string) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Ships:    []engine.Ship{},
		Shots:    []Shot{},
		JoinedAt: time.Now(),
		fired:    make(map[engine.Cell]bool),
	}
}

// HasShip reports whether the catalog ship id has been placed
func (p *Player) HasShip(id int) bool {
	for _, s := range p.Ships {
		if s.ID == id {
			return true
		}
	}
	return false
}

// ShipCount returns the number of placed ships
func (p *Player) ShipCount() int {
	return len(p.Ships)
}

// FleetPlaced reports whether every catalog ship has been placed
func (p *Player) FleetPlaced() bool {
	return len(p.Ships) == len(engine.Fleet)
}

// AddShip appends a validated ship
func (p *Player) AddShip(ship engine.Ship) {
	p.Ships = append(p.Ships, ship)
}

// HasFired reports whether the player already fired at cell
func (p *Player) HasFired(cell engine.Cell) bool {
	return p.fired[cell]
}

// RecordShot stores the outcome of a shot. It returns false, leaving the
// history untouched, when the cell was already fired at.
func (p *Player) RecordShot(cell engine.Cell, hit bool) bool {
	if p.fired[cell] {
		return false
	}
	p.fired[cell] = true
	p.Shots = append(p.Shots, Shot{Cell: cell, Hit: hit})
	return true
}

// Hits returns the fired cells that hit, in firing order
func (p *Player) Hits() []engine.Cell {
	return p.filterShots(true)
}

// Misses returns the fired cells that missed, in firing order
func (p *Player) Misses() []engine.Cell {
	return p.filterShots(false)
}

// ResetShots clears the shot history, used when a new opponent is paired in.
func (p *Player) ResetShots() {
	p.Shots = []Shot{}
	p.fired = make(map[engine.Cell]bool)
}

func (p *Player) filterShots(hit bool) []engine.Cell {
	cells := []engine.Cell{}
	for _, s := range p.Shots {
		if s.Hit == hit {
			cells = append(cells, s.Cell)
		}
	}
	return cells
}
