// Package service provides the turn and placement state machine for
// Battleship Online.
//
// The service package implements:
//   - Pairing players into sessions through the session registry
//   - Ship placement with geometry validation and idempotent re-placement
//   - Random placement of the ships a player has not placed yet
//   - Turn assignment, resolved by a single StartingPlayer rule
//   - Move resolution into hit or miss against the opponent's fleet
//   - Disconnect handling and roster broadcasts
//
// Core Interfaces:
//
// GameService is the API the transport layer calls for every inbound player
// action. Gateway is the outbound side: the service hands it events addressed
// to one or more connections and never waits for delivery.
// SessionRegistry and RulesManager are the storage and configuration
// collaborators, satisfied by session.Registry and config.Manager.
//
// Lifecycle:
//
// A session moves Waiting -> Placing when a second player joins, Placing ->
// Playing when both players have placed the whole fleet, and Playing ->
// Finished only when the active rules enable fleet-sunk detection. A
// disconnect sends the session back to Waiting.
//
// Usage:
//
//	registry := session.NewRegistry()
//	configs, _ := config.NewManager("rules")
//	svc := service.NewGameService(registry, configs, hub)
//
//	if err := svc.JoinGame(ctx, connID, "Alice"); err != nil {
//		return err
//	}
//	err := svc.PlaceShip(ctx, connID, service.PlaceShipRequest{ShipID: 5, Row: 3, Col: 4, Horizontal: true})
//
// Concurrency:
//
// Every transition runs inside the session's lock, so turn exclusivity and
// the placement-completion check are observed atomically by both players.
// Gateway.Deliver is called with that lock held and must not block.
package service
