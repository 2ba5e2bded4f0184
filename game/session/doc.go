// Package session provides player and session state for Battleship Online.
//
// The session package implements:
//   - Per-connection Player records (name, placed ships, shots, turn flag)
//   - Sessions pairing at most two players in join order
//   - The Registry mapping connections to sessions
//   - Two-slot pairing: a joiner enters the first session with a free slot
//
// Core Types:
//
// Registry is an explicit object created at process start and torn down with
// Close; nothing in this package is global, so tests build isolated
// instances. Session carries a single mutex that guards every field of the
// session and of its players.
//
// Concurrency:
//
// The registry lock protects the connection index and the session list. Each
// session lock protects that session's members, phase, and player records.
// The registry always takes its own lock before a session lock.
//
// Usage:
//
//	registry := session.NewRegistry()
//	defer registry.Close()
//
//	sess, player, err := registry.Join(connID, "Alice")
//	if err != nil {
//		return err
//	}
//
//	sess.Lock()
//	opponent, ok := sess.Opponent(player.ID)
//	sess.Unlock()
//
// Cleanup:
//
// A session is discarded as soon as its last member leaves. A survivor stays
// in its session, which reverts to the waiting phase until a new player is
// paired in.
package session
