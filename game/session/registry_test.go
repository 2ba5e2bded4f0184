package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/battleship-online/game/engine"
)

func TestRegistry_Join(t *testing.T) {
	registry := NewRegistry()

	t.Run("first joiner creates a session", func(t *testing.T) {
		sess, player, err := registry.Join("conn-a", "Alice")
		if err != nil {
			t.Fatalf("Failed to join: %v", err)
		}
		if player.Name != "Alice" {
			t.Errorf("Expected name 'Alice', got '%s'", player.Name)
		}
		if len(sess.ID) != 8 {
			t.Errorf("Expected 8-character session ID, got %d characters", len(sess.ID))
		}
		if registry.Count() != 1 {
			t.Errorf("Expected 1 session, got %d", registry.Count())
		}
	})

	t.Run("second joiner is paired into the same session", func(t *testing.T) {
		first, _ := registry.Lookup("conn-a")
		sess, _, err := registry.Join("conn-b", "Bob")
		if err != nil {
			t.Fatalf("Failed to join: %v", err)
		}
		if sess != first {
			t.Error("Expected second joiner to share the first session")
		}

		sess.Lock()
		members := sess.Members()
		sess.Unlock()
		if len(members) != 2 || members[0] != "conn-a" || members[1] != "conn-b" {
			t.Errorf("Expected members in join order [conn-a conn-b], got %v", members)
		}
	})

	t.Run("third joiner opens a new session", func(t *testing.T) {
		sess, _, err := registry.Join("conn-c", "Carol")
		if err != nil {
			t.Fatalf("Failed to join: %v", err)
		}
		first, _ := registry.Lookup("conn-a")
		if sess == first {
			t.Error("Expected a new session for the third joiner")
		}
		if registry.Count() != 2 {
			t.Errorf("Expected 2 sessions, got %d", registry.Count())
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, _, err := registry.Join("conn-d", "   ")
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("Expected ErrInvalidName, got %v", err)
		}
	})

	t.Run("double join rejected", func(t *testing.T) {
		_, _, err := registry.Join("conn-a", "Alice again")
		if !errors.Is(err, ErrAlreadyJoined) {
			t.Errorf("Expected ErrAlreadyJoined, got %v", err)
		}
	})

	t.Run("name is trimmed", func(t *testing.T) {
		_, player, err := registry.Join("conn-e", "  Eve ")
		if err != nil {
			t.Fatalf("Failed to join: %v", err)
		}
		if player.Name != "Eve" {
			t.Errorf("Expected trimmed name 'Eve', got '%s'", player.Name)
		}
	})
}

func TestRegistry_JoinDisambiguatesNames(t *testing.T) {
	registry := NewRegistry()

	if _, _, err := registry.Join("conn-a", "Sam"); err != nil {
		t.Fatalf("Failed to join: %v", err)
	}
	_, second, err := registry.Join("conn-b", "Sam")
	if err != nil {
		t.Fatalf("Failed to join: %v", err)
	}
	if second.Name != "Sam (2)" {
		t.Errorf("Expected 'Sam (2)', got '%s'", second.Name)
	}

	// A name is only unique within its own session.
	_, third, err := registry.Join("conn-c", "Sam")
	if err != nil {
		t.Fatalf("Failed to join: %v", err)
	}
	if third.Name != "Sam" {
		t.Errorf("Expected 'Sam' in a new session, got '%s'", third.Name)
	}
}

func TestRegistry_Leave(t *testing.T) {
	registry := NewRegistry()
	sess, _, _ := registry.Join("a", "Alice")
	registry.Join("b", "Bob")

	sess.Lock()
	sess.SetPhase(PhasePlaying)
	sess.Unlock()

	t.Run("survivor reverts to waiting", func(t *testing.T) {
		got, player, ok := registry.Leave("b")
		if !ok {
			t.Fatal("Expected leave to succeed")
		}
		if got != sess || player.ID != "b" {
			t.Error("Leave returned the wrong session or player")
		}

		sess.Lock()
		defer sess.Unlock()
		if sess.Phase() != PhaseWaiting {
			t.Errorf("Expected phase waiting, got %s", sess.Phase())
		}
		if sess.Size() != 1 {
			t.Errorf("Expected 1 member remaining, got %d", sess.Size())
		}
		if sess.Closed() {
			t.Error("Session with a survivor must stay open")
		}
	})

	t.Run("leave is idempotent", func(t *testing.T) {
		if _, _, ok := registry.Leave("b"); ok {
			t.Error("Second leave should report ok=false")
		}
	})

	t.Run("survivor is not re-paired elsewhere", func(t *testing.T) {
		got, err := registry.Lookup("a")
		if err != nil || got != sess {
			t.Errorf("Expected survivor to remain in original session, got %v", err)
		}
	})

	t.Run("new joiner fills the survivor's session", func(t *testing.T) {
		got, _, err := registry.Join("c", "Carol")
		if err != nil {
			t.Fatalf("Failed to join: %v", err)
		}
		if got != sess {
			t.Error("Expected new joiner to be paired with the survivor")
		}
	})

	t.Run("last member leaving discards the session", func(t *testing.T) {
		registry.Leave("a")
		registry.Leave("c")
		if registry.Count() != 0 {
			t.Errorf("Expected 0 sessions, got %d", registry.Count())
		}
		sess.Lock()
		closed := sess.Closed()
		sess.Unlock()
		if !closed {
			t.Error("Expected discarded session to be marked closed")
		}
		if _, err := registry.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestRegistry_GetCaseInsensitive(t *testing.T) {
	registry := NewRegistry()
	sess, _, _ := registry.Join("a", "Alice")

	got, err := registry.Get(strings.ToUpper(sess.ID))
	if err != nil || got != sess {
		t.Errorf("Expected to find session %s, got %v", sess.ID, err)
	}
}

func TestRegistry_Close(t *testing.T) {
	registry := NewRegistry()
	registry.Join("a", "Alice")
	registry.Close()

	if registry.Count() != 0 {
		t.Errorf("Expected 0 sessions after close, got %d", registry.Count())
	}
	if _, _, err := registry.Join("b", "Bob"); !errors.Is(err, ErrRegistryClosed) {
		t.Errorf("Expected ErrRegistryClosed, got %v", err)
	}
}

func TestRegistry_ConcurrentJoinNeverOverfills(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, _, err := registry.Join(fmt.Sprintf("conn-%d", id), fmt.Sprintf("P%d", id)); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent join: %v", err)
	}

	if registry.Count() != 50 {
		t.Errorf("Expected 50 sessions for 100 joiners, got %d", registry.Count())
	}
	for _, s := range registry.List() {
		s.Lock()
		size := s.Size()
		s.Unlock()
		if size != Capacity {
			t.Errorf("Session %s has %d members, want %d", s.ID, size, Capacity)
		}
	}
}

func TestPlayer_RecordShot(t *testing.T) {
	p := newPlayer("a", "Alice")
	cell := engine.Cell{Row: 3, Col: 4}

	if !p.RecordShot(cell, true) {
		t.Fatal("First shot should be recorded")
	}
	if p.RecordShot(cell, true) {
		t.Error("Re-fired cell must not be recorded twice")
	}
	if len(p.Hits()) != 1 {
		t.Errorf("Expected 1 hit, got %d", len(p.Hits()))
	}

	p.RecordShot(engine.Cell{Row: 0, Col: 0}, false)
	if len(p.Misses()) != 1 {
		t.Errorf("Expected 1 miss, got %d", len(p.Misses()))
	}

	p.ResetShots()
	if p.HasFired(cell) || len(p.Shots) != 0 {
		t.Error("ResetShots should clear the history")
	}
}

func TestPlayer_Ships(t *testing.T) {
	p := newPlayer("a", "Alice")
	destroyer, _ := engine.ClassByID(5)
	ship, err := engine.Place(destroyer, engine.Cell{Row: 0, Col: 0}, true, nil)
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	p.AddShip(ship)
	if !p.HasShip(5) || p.HasShip(1) {
		t.Error("HasShip reported wrong ids")
	}
	if p.ShipCount() != 1 || p.FleetPlaced() {
		t.Error("Fleet should not be complete after one ship")
	}
}
