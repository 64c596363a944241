package core

import (
	"time"

	"github.com/benbjohnson/clock"
)

type graceKind int

const (
	graceAdmin graceKind = iota
	graceParticipant
)

// graceEntry preserves a disconnected identity's state until it reconnects or
// its timer fires. The timer handle lives with the state it protects.
type graceEntry struct {
	key    IdentityKey
	kind   graceKind
	state  FloorState
	peerID string
	coords *Coord

	gen   uint64
	timer *clock.Timer
}

// GraceExpiry identifies one armed grace timer. Gen distinguishes it from any
// later timer armed for the same identity.
type GraceExpiry struct {
	Key IdentityKey
	Gen uint64
}

// Disconnect handles an unexpected loss of conn. The admin and participants
// holding a hand or the floor are kept in a grace window; everyone else is
// dropped right away.
func (s *SessionStore) Disconnect(conn ConnID) error {
	if s.isAdmin(conn) {
		key := *s.session.Admin
		s.session.AdminConn = ""
		if s.cfg.AdminGrace <= 0 {
			s.endSession()
			return nil
		}
		s.startGrace(&graceEntry{key: key, kind: graceAdmin, peerID: s.session.AdminPeerID}, s.cfg.AdminGrace)
		return nil
	}
	if p := s.removeParticipant(conn); p != nil {
		if (p.OnAir || p.HandRaised) && s.cfg.ParticipantGrace > 0 {
			s.startGrace(&graceEntry{
				key:    p.Key,
				kind:   graceParticipant,
				state:  p.FloorState,
				peerID: p.PeerID,
				coords: p.Coords,
			}, s.cfg.ParticipantGrace)
		}
		return nil
	}
	if s.removePending(Target{ConnID: conn}) != nil {
		return nil
	}
	return ErrNotBound
}

// ExpireGrace applies a fired grace timer. Expiries for reclaimed or re-armed
// entries are reported as ErrStaleTimer and change nothing.
func (s *SessionStore) ExpireGrace(x GraceExpiry) error {
	e, ok := s.grace[x.Key]
	if !ok || e.gen != x.Gen {
		return ErrStaleTimer
	}
	delete(s.grace, x.Key)
	if e.kind == graceAdmin {
		s.endSession()
	}
	return nil
}

// InGrace reports whether key is currently held in a grace window.
func (s *SessionStore) InGrace(key IdentityKey) bool {
	_, ok := s.grace[key]
	return ok
}

func (s *SessionStore) startGrace(e *graceEntry, d time.Duration) {
	if old, ok := s.grace[e.key]; ok {
		old.timer.Stop()
	}
	s.gen++
	e.gen = s.gen
	x := GraceExpiry{Key: e.key, Gen: e.gen}
	e.timer = s.clock.AfterFunc(d, func() { s.onExpire(x) })
	s.grace[e.key] = e
}

func (s *SessionStore) cancelGrace(key IdentityKey) {
	if e, ok := s.grace[key]; ok {
		e.timer.Stop()
		delete(s.grace, key)
	}
}
