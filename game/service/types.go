package service

import (
	"time"

	"github.com/wricardo/battleship-online/game/engine"
)

// Outbound event names
const (
	EventPlayerList   = "PlayerList"
	EventYourTurn     = "YourTurn"
	EventOpponentTurn = "OpponentTurn"
	EventShipPlaced   = "ShipPlaced"
	EventGameStarted  = "GameStarted"
	EventOpponentMove = "OpponentMove"
	EventMoveResult   = "MoveResult"
	EventGameOver     = "GameOver"
)

// Event is an outbound message. Data is nil for signal-only events.
type Event struct {
	Name string
	Data any
}

// PlaceShipRequest carries a PlaceShip action. ShipName and Size are echoed
// by clients but the catalog entry for ShipID is authoritative.
type PlaceShipRequest struct {
	ShipID     int    `json:"ship_id"`
	ShipName   string `json:"ship_name"`
	Size       int    `json:"size"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Horizontal bool   `json:"horizontal"`
}

// PlayerListData is the roster broadcast payload
type PlayerListData struct {
	Names      []string       `json:"names"`
	ShipCounts map[string]int `json:"ship_counts"`
}

// ShipPlacedData confirms a placement to the placer
type ShipPlacedData struct {
	ShipID int `json:"ship_id"`
	// Cells is only set for server-chosen placements.
	Cells []engine.Cell `json:"cells,omitempty"`
}

// OpponentMoveData tells a player where the opponent fired
type OpponentMoveData struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveResultData tells the shooter the outcome of a shot
type MoveResultData struct {
	Row   int  `json:"row"`
	Col   int  `json:"col"`
	IsHit bool `json:"is_hit"`
}

// GameOverData is sent to each player when a fleet is sunk
type GameOverData struct {
	Win bool `json:"win"`
}

// SessionInfo is a read-only view of a session. It never carries ship
// positions.
type SessionInfo struct {
	ID             string        `json:"id"`
	Phase          string        `json:"phase"`
	CreatedAt      time.Time     `json:"created_at"`
	LastActivityAt time.Time     `json:"last_activity_at"`
	Players        []*PlayerInfo `json:"players"`
}

// PlayerInfo is a read-only view of a player
type PlayerInfo struct {
	Name      string        `json:"name"`
	ShipCount int           `json:"ship_count"`
	Turn      bool          `json:"turn"`
	Hits      []engine.Cell `json:"hits"`
	Misses    []engine.Cell `json:"misses"`
}

// RulesInfo provides information about a rule preset
type RulesInfo struct {
	Filename         string `json:"filename"`
	RulesID          string `json:"rules_id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	TurnRule         string `json:"turn_rule"`
	EndWhenFleetSunk bool   `json:"end_when_fleet_sunk"`
}
