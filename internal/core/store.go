package core

import (
	"time"

	"github.com/benbjohnson/clock"
)

// StoreConfig tunes the reconnect and admission policy of a SessionStore.
type StoreConfig struct {
	AdminGrace       time.Duration
	ParticipantGrace time.Duration
	RequireApproval  bool
}

// Delivery is an event addressed to one connection, or to everyone when To is empty.
type Delivery struct {
	To    ConnID
	Event *Event
}

// SessionStore owns the whole coordination state: the session, the participant
// table, the pending queue, grace entries and the approved set.
//
// It is not safe for concurrent use; the Hub is its only caller. Operations are
// total: they either mutate and return nil, or leave state untouched and return a
// sentinel error. Directed notifications are queued and collected with Drain.
type SessionStore struct {
	cfg   StoreConfig
	clock clock.Clock

	session      Session
	participants map[ConnID]*Participant
	byIdentity   map[IdentityKey]ConnID
	pending      []*PendingRequest
	grace        map[IdentityKey]*graceEntry
	approved     map[IdentityKey]struct{}

	onExpire func(GraceExpiry)
	outbox   []Delivery
	seq      uint64
	gen      uint64
}

// NewSessionStore builds an empty store. onExpire is invoked from timer goroutines
// when a grace window elapses and must hand the expiry back to the single writer.
func NewSessionStore(cfg StoreConfig, clk clock.Clock, onExpire func(GraceExpiry)) *SessionStore {
	if clk == nil {
		clk = clock.New()
	}
	if onExpire == nil {
		onExpire = func(GraceExpiry) {}
	}
	return &SessionStore{
		cfg:          cfg,
		clock:        clk,
		participants: make(map[ConnID]*Participant),
		byIdentity:   make(map[IdentityKey]ConnID),
		grace:        make(map[IdentityKey]*graceEntry),
		approved:     make(map[IdentityKey]struct{}),
		onExpire:     onExpire,
	}
}

// Drain returns and clears the queued deliveries.
func (s *SessionStore) Drain() []Delivery {
	out := s.outbox
	s.outbox = nil
	return out
}

// AdminConn returns the live admin connection, if any.
func (s *SessionStore) AdminConn() (ConnID, bool) {
	return s.session.AdminConn, s.session.AdminConn != ""
}

// Participant returns a copy of the live participant bound to conn.
func (s *SessionStore) Participant(conn ConnID) (Participant, bool) {
	p, ok := s.participants[conn]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

// Close stops every pending grace timer.
func (s *SessionStore) Close() {
	for key, e := range s.grace {
		e.timer.Stop()
		delete(s.grace, key)
	}
}

// Leave releases whatever conn is bound to, immediately and without grace.
func (s *SessionStore) Leave(conn ConnID) error {
	if !s.release(conn) {
		return ErrNotBound
	}
	return nil
}

// identityOf returns the identity bound to conn.
func (s *SessionStore) identityOf(conn ConnID) (IdentityKey, bool) {
	if s.isAdmin(conn) {
		return *s.session.Admin, true
	}
	if p, ok := s.participants[conn]; ok {
		return p.Key, true
	}
	if i := s.pendingIndex(Target{ConnID: conn}); i >= 0 {
		return s.pending[i].Key, true
	}
	return IdentityKey{}, false
}

// release drops conn's binding as an explicit departure. Reports whether
// anything was bound.
func (s *SessionStore) release(conn ConnID) bool {
	switch {
	case s.isAdmin(conn):
		s.endSession()
		return true
	case s.participants[conn] != nil:
		s.removeParticipant(conn)
		return true
	default:
		return s.removePending(Target{ConnID: conn}) != nil
	}
}

func (s *SessionStore) isAdmin(conn ConnID) bool {
	return conn != "" && s.session.AdminConn == conn
}

func (s *SessionStore) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func (s *SessionStore) emit(to ConnID, ev *Event) {
	s.outbox = append(s.outbox, Delivery{To: to, Event: ev})
}
