package service

import (
	"context"

	"github.com/wricardo/battleship-online/game/engine"
	"github.com/wricardo/battleship-online/game/session"
)

// GameService defines all game-related operations
type GameService interface {
	// Player actions
	JoinGame(ctx context.Context, connID, displayName string) error
	PlaceShip(ctx context.Context, connID string, req PlaceShipRequest) error
	AutoPlaceFleet(ctx context.Context, connID string) error
	MakeMove(ctx context.Context, connID string, row, col int) error
	Disconnect(ctx context.Context, connID string)

	// Introspection
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)

	// Rules
	ActiveRules(ctx context.Context) *engine.Rules
	ListRules(ctx context.Context) ([]*RulesInfo, error)
}

// Gateway delivers outbound events to connections. Deliver must not block
// and must not call back into the GameService.
type Gateway interface {
	Deliver(connIDs []string, event Event)
}

// SessionRegistry defines session storage operations
type SessionRegistry interface {
	Join(connID, name string) (*session.Session, *session.Player, error)
	Leave(connID string) (*session.Session, *session.Player, bool)
	Lookup(connID string) (*session.Session, error)
	Get(id string) (*session.Session, error)
	List() []*session.Session
}

// RulesManager handles rule preset loading
type RulesManager interface {
	ListRules() ([]*RulesInfo, error)
	GetDefault() *engine.Rules
}
