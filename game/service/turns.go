package service

import "github.com/wricardo/battleship-online/game/session"

// StartingPlayer returns the connection id that owns the first turn: the
// earliest member in join order, or "" for an empty session. The caller must
// hold the session lock.
func StartingPlayer(sess *session.Session) string {
	members := sess.Members()
	if len(members) == 0 {
		return ""
	}
	return members[0]
}

// assignTurns gives the turn to StartingPlayer and takes it from everyone
// else. Once the session is paired both players are told the outcome.
func (s *gameServiceImpl) assignTurns(sess *session.Session) {
	starter := StartingPlayer(sess)
	for _, p := range sess.Players() {
		p.Turn = p.ID == starter
	}

	if sess.Full() {
		s.announceTurn(sess, starter)
	}
}

// announceTurn sends YourTurn to owner and OpponentTurn to the other member.
func (s *gameServiceImpl) announceTurn(sess *session.Session, owner string) {
	s.send(owner, Event{Name: EventYourTurn})
	for _, id := range sess.Members() {
		if id != owner {
			s.send(id, Event{Name: EventOpponentTurn})
		}
	}
}
