package session

import (
	"fmt"
	"sync"
	"time"
)

// Phase is the lifecycle stage of a session
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlacing  Phase = "placing"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"

	// Capacity is the number of players a session pairs.
	Capacity = 2
)

// Session is a room pairing at most two players.
//
// Accessors other than ID and CreatedAt must be called with the session
// locked; the registry and the coordinator share this one lock so compound
// transitions are observed atomically.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu             sync.Mutex
	members        []string
	players        map[string]*Player
	phase          Phase
	lastActivityAt time.Time
	closed         bool
}

func newSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		CreatedAt:      now,
		players:        make(map[string]*Player),
		phase:          PhaseWaiting,
		lastActivityAt: now,
	}
}

// Lock acquires the session's exclusive scope
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's exclusive scope
func (s *Session) Unlock() { s.mu.Unlock() }

// Members returns connection ids in join order
func (s *Session) Members() []string {
	out := make([]string, len(s.members))
	copy(out, s.members)
	return out
}

// Players returns the players in join order
func (s *Session) Players() []*Player {
	out := make([]*Player, 0, len(s.members))
	for _, id := range s.members {
		out = append(out, s.players[id])
	}
	return out
}

// Player returns the member with the given connection id
func (s *Session) Player(id string) (*Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// Opponent returns the other member, if any
func (s *Session) Opponent(id string) (*Player, bool) {
	for _, memberID := range s.members {
		if memberID != id {
			return s.players[memberID], true
		}
	}
	return nil, false
}

// Size returns the number of members
func (s *Session) Size() int {
	return len(s.members)
}

// Full reports whether the session has reached Capacity
func (s *Session) Full() bool {
	return len(s.members) >= Capacity
}

// Phase returns the lifecycle phase
func (s *Session) Phase() Phase {
	return s.phase
}

// SetPhase moves the session to phase
func (s *Session) SetPhase(phase Phase) {
	s.phase = phase
}

// Closed reports whether the registry has discarded the session
func (s *Session) Closed() bool {
	return s.closed
}

// Touch records activity on the session
func (s *Session) Touch() {
	s.lastActivityAt = time.Now()
}

// LastActivityAt returns the time of the last recorded activity
func (s *Session) LastActivityAt() time.Time {
	return s.lastActivityAt
}

func (s *Session) add(p *Player) {
	s.members = append(s.members, p.ID)
	s.players[p.ID] = p
	s.lastActivityAt = time.Now()
}

func (s *Session) remove(id string) (*Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return nil, false
	}
	delete(s.players, id)
	for i, memberID := range s.members {
		if memberID == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			break
		}
	}
	s.lastActivityAt = time.Now()
	return p, true
}

// uniqueName returns name, suffixed with a counter when another member
// already uses it. Rosters are keyed by display name.
func (s *Session) uniqueName(name string) string {
	taken := make(map[string]bool, len(s.players))
	for _, p := range s.players {
		taken[p.Name] = true
	}
	candidate := name
	for n := 2; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s (%d)", name, n)
	}
	return candidate
}
