package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrAlreadyJoined   = errors.New("connection already joined a session")
	ErrInvalidName     = errors.New("display name must not be empty")
	ErrNotJoined       = errors.New("connection has not joined a session")
	ErrRegistryClosed  = errors.New("registry closed")
)

// Registry maps connections to sessions and pairs new joiners.
//
// Lock order is registry first, then session. Callers holding a session lock
// must not call back into the registry.
type Registry struct {
	mu       sync.Mutex
	sessions []*Session
	byConn   map[string]*Session
	closed   bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*Session),
	}
}

// Join places the connection into the first session with a free slot,
// creating a new session when every existing one is full.
func (r *Registry) Join(connID, name string) (*Session, *Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, nil, ErrRegistryClosed
	}
	if _, exists := r.byConn[connID]; exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrAlreadyJoined, connID)
	}

	player := newPlayer(connID, name)

	for _, s := range r.sessions {
		s.Lock()
		if !s.Full() {
			player.Name = s.uniqueName(name)
			s.add(player)
			s.Unlock()
			r.byConn[connID] = s
			return s, player, nil
		}
		s.Unlock()
	}

	s := newSession(r.generateSessionID())
	s.add(player)
	r.sessions = append(r.sessions, s)
	r.byConn[connID] = s

	return s, player, nil
}

// Leave removes the connection from its session. An emptied session is
// discarded; a session left with one member reverts to PhaseWaiting. The
// second call for the same connection reports ok=false.
func (r *Registry) Leave(connID string) (sess *Session, player *Player, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.byConn[connID]
	if !exists {
		return nil, nil, false
	}
	delete(r.byConn, connID)

	s.Lock()
	defer s.Unlock()

	p, removed := s.remove(connID)
	if !removed {
		return s, nil, false
	}

	if s.Size() == 0 {
		s.closed = true
		r.dropSession(s.ID)
	} else {
		s.phase = PhaseWaiting
	}

	return s, p, true
}

// Lookup returns the session the connection belongs to
func (r *Registry) Lookup(connID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byConn[connID]
	if !ok {
		return nil, ErrNotJoined
	}
	return s, nil
}

// Get retrieves a session by ID (case-insensitive)
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if strings.EqualFold(s.ID, id) {
			return s, nil
		}
	}
	return nil, ErrSessionNotFound
}

// List returns all live sessions in creation order
func (r *Registry) List() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*Session, len(r.sessions))
	copy(result, r.sessions)
	return result
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close discards every session. Subsequent joins fail with ErrRegistryClosed.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		s.Lock()
		s.closed = true
		s.Unlock()
	}
	r.sessions = nil
	r.byConn = make(map[string]*Session)
	r.closed = true
}

func (r *Registry) dropSession(id string) {
	for i, s := range r.sessions {
		if s.ID == id {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return
		}
	}
}

// generateSessionID generates a random 8-character session ID, retrying on
// the rare collision with a live session.
func (r *Registry) generateSessionID() string {
	for {
		bytes := make([]byte, 4)
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)
		if !r.sessionExists(id) {
			return id
		}
	}
}

func (r *Registry) sessionExists(id string) bool {
	for _, s := range r.sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}
