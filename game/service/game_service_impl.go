package service

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/wricardo/battleship-online/game/engine"
	"github.com/wricardo/battleship-online/game/session"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionRegistry
	configs  RulesManager
	gateway  Gateway
	rules    *engine.Rules
}

// NewGameService creates a new game service playing by the rules manager's
// default preset.
func NewGameService(sessions SessionRegistry, configs RulesManager, gateway Gateway) GameService {
	rules := configs.GetDefault()
	if rules == nil {
		rules = engine.DefaultRules()
	}

	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		gateway:  gateway,
		rules:    rules,
	}
}

// JoinGame registers the caller and pairs it into a session
func (s *gameServiceImpl) JoinGame(ctx context.Context, connID, displayName string) error {
	sess, player, err := s.sessions.Join(connID, displayName)
	if err != nil {
		return fmt.Errorf("join game: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()

	// A disconnect may have raced in between the registry insert and here.
	if sess.Closed() {
		return nil
	}
	if _, ok := sess.Player(connID); !ok {
		return nil
	}

	log.Printf("Player %q joined session %s (%d/%d)", player.Name, sess.ID, sess.Size(), session.Capacity)

	if sess.Full() {
		// Two joins can race into the same session; only the one that pairs
		// it announces turns and the roster.
		if sess.Phase() != session.PhaseWaiting {
			return nil
		}
		sess.SetPhase(session.PhasePlacing)
		// Shots are tracked per opponent; a survivor starts fresh against the newcomer.
		if opponent, ok := sess.Opponent(connID); ok {
			opponent.ResetShots()
		}
	}
	s.assignTurns(sess)
	s.broadcastRoster(sess)

	return nil
}

// PlaceShip validates and records a ship for the caller
func (s *gameServiceImpl) PlaceShip(ctx context.Context, connID string, req PlaceShipRequest) error {
	sess, err := s.sessions.Lookup(connID)
	if err != nil {
		return fmt.Errorf("place ship: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()

	player, ok := sess.Player(connID)
	if !ok {
		return fmt.Errorf("place ship: %w", session.ErrNotJoined)
	}

	class, known := engine.ClassByID(req.ShipID)
	if !known || player.HasShip(req.ShipID) {
		s.send(connID, Event{Name: EventShipPlaced, Data: ShipPlacedData{ShipID: req.ShipID}})
		s.broadcastRoster(sess)
		return nil
	}

	if req.Size != 0 && req.Size != class.Length {
		log.Printf("Player %q sent size %d for %s, using catalog length %d", player.Name, req.Size, class.Name, class.Length)
	}

	ship, err := engine.Place(class, engine.Cell{Row: req.Row, Col: req.Col}, req.Horizontal, player.Ships)
	if err != nil {
		return fmt.Errorf("place ship %d: %w", req.ShipID, err)
	}

	player.AddShip(ship)
	sess.Touch()

	s.send(connID, Event{Name: EventShipPlaced, Data: ShipPlacedData{ShipID: ship.ID}})
	s.broadcastRoster(sess)
	s.startIfReady(sess)

	return nil
}

// AutoPlaceFleet places every ship the caller has not placed yet at a random
// legal position.
func (s *gameServiceImpl) AutoPlaceFleet(ctx context.Context, connID string) error {
	sess, err := s.sessions.Lookup(connID)
	if err != nil {
		return fmt.Errorf("auto place: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()

	player, ok := sess.Player(connID)
	if !ok {
		return fmt.Errorf("auto place: %w", session.ErrNotJoined)
	}

	for _, class := range engine.Fleet {
		if player.HasShip(class.ID) {
			continue
		}
		options := engine.Placements(class, player.Ships)
		if len(options) == 0 {
			return fmt.Errorf("auto place %s: %w", class.Name, engine.ErrInvalidPlacement)
		}
		ship := options[rand.IntN(len(options))]
		player.AddShip(ship)
		s.send(connID, Event{Name: EventShipPlaced, Data: ShipPlacedData{ShipID: ship.ID, Cells: ship.Cells}})
	}
	sess.Touch()

	s.broadcastRoster(sess)
	s.startIfReady(sess)

	return nil
}

// MakeMove fires at (row, col) on the opponent's grid
func (s *gameServiceImpl) MakeMove(ctx context.Context, connID string, row, col int) error {
	sess, err := s.sessions.Lookup(connID)
	if err != nil {
		return fmt.Errorf("make move: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Phase() != session.PhasePlaying {
		return nil
	}

	player, ok := sess.Player(connID)
	if !ok || !player.Turn {
		// Stale or racing message after a turn flip.
		return nil
	}

	opponent, ok := sess.Opponent(connID)
	if !ok {
		return nil
	}

	cell := engine.Cell{Row: row, Col: col}
	if !engine.InBounds(cell, engine.GridSize) {
		return fmt.Errorf("make move %s: %w", cell, engine.ErrOutOfBounds)
	}
	if player.HasFired(cell) {
		return nil
	}

	_, hit := engine.ShipAt(opponent.Ships, cell)
	player.RecordShot(cell, hit)
	sess.Touch()

	s.send(opponent.ID, Event{Name: EventOpponentMove, Data: OpponentMoveData{Row: row, Col: col}})
	s.send(player.ID, Event{Name: EventMoveResult, Data: MoveResultData{Row: row, Col: col, IsHit: hit}})

	if hit && s.rules.EndWhenFleetSunk && fleetSunk(player, opponent) {
		s.finish(sess, player, opponent)
		return nil
	}

	if s.rules.PassesTurn(hit) {
		player.Turn = false
		opponent.Turn = true
		s.announceTurn(sess, opponent.ID)
	}

	return nil
}

// Disconnect removes the caller and tells the survivor, if any
func (s *gameServiceImpl) Disconnect(ctx context.Context, connID string) {
	sess, player, ok := s.sessions.Leave(connID)
	if !ok {
		return
	}

	log.Printf("Player %q left session %s", player.Name, sess.ID)

	sess.Lock()
	defer sess.Unlock()

	if sess.Closed() {
		return
	}

	s.assignTurns(sess)
	s.broadcastRoster(sess)
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, snapshot(sess))
	}

	return result, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return snapshot(sess), nil
}

// ActiveRules returns the rules sessions are played by
func (s *gameServiceImpl) ActiveRules(ctx context.Context) *engine.Rules {
	return s.rules
}

// ListRules returns the available rule presets
func (s *gameServiceImpl) ListRules(ctx context.Context) ([]*RulesInfo, error) {
	return s.configs.ListRules()
}

// startIfReady moves Placing -> Playing once both players placed the fleet.
func (s *gameServiceImpl) startIfReady(sess *session.Session) {
	if sess.Phase() != session.PhasePlacing || !sess.Full() {
		return
	}
	for _, p := range sess.Players() {
		if !p.FleetPlaced() {
			return
		}
	}

	sess.SetPhase(session.PhasePlaying)
	s.assignTurns(sess)
	s.deliver(sess.Members(), Event{Name: EventGameStarted})

	log.Printf("Session %s started, %s moves first", sess.ID, StartingPlayer(sess))
}

func (s *gameServiceImpl) finish(sess *session.Session, winner, loser *session.Player) {
	sess.SetPhase(session.PhaseFinished)
	winner.Turn = false
	loser.Turn = false

	s.send(winner.ID, Event{Name: EventGameOver, Data: GameOverData{Win: true}})
	s.send(loser.ID, Event{Name: EventGameOver, Data: GameOverData{Win: false}})

	log.Printf("Session %s finished, %q sank the fleet", sess.ID, winner.Name)
}

func (s *gameServiceImpl) broadcastRoster(sess *session.Session) {
	data := PlayerListData{
		Names:      []string{},
		ShipCounts: map[string]int{},
	}
	for _, p := range sess.Players() {
		data.Names = append(data.Names, p.Name)
		data.ShipCounts[p.Name] = p.ShipCount()
	}
	s.deliver(sess.Members(), Event{Name: EventPlayerList, Data: data})
}

func (s *gameServiceImpl) send(connID string, event Event) {
	s.deliver([]string{connID}, event)
}

func (s *gameServiceImpl) deliver(connIDs []string, event Event) {
	if s.gateway == nil || len(connIDs) == 0 {
		return
	}
	s.gateway.Deliver(connIDs, event)
}

// fleetSunk reports whether shooter has hit every cell of target's fleet.
func fleetSunk(shooter, target *session.Player) bool {
	cells := engine.FleetCells(target.Ships)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !shooter.HasFired(c) {
			return false
		}
	}
	return true
}

func snapshot(sess *session.Session) *SessionInfo {
	sess.Lock()
	defer sess.Unlock()

	info := &SessionInfo{
		ID:             sess.ID,
		Phase:          string(sess.Phase()),
		CreatedAt:      sess.CreatedAt,
		LastActivityAt: sess.LastActivityAt(),
		Players:        []*PlayerInfo{},
	}
	for _, p := range sess.Players() {
		info.Players = append(info.Players, &PlayerInfo{
			Name:      p.Name,
			ShipCount: p.ShipCount(),
			Turn:      p.Turn,
			Hits:      p.Hits(),
			Misses:    p.Misses(),
		})
	}
	return info
}
