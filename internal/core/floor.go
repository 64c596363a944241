package core

// RaiseHand moves a participant from idle to hand-raised.
func (s *SessionStore) RaiseHand(conn ConnID) error {
	p, ok := s.participants[conn]
	if !ok {
		return ErrNotParticipant
	}
	if p.HandRaised || p.OnAir {
		return ErrInvalidTransition
	}
	p.HandRaised = true
	return nil
}

// GrantFloor gives the microphone to the target. Any other holder, live or
// preserved in a grace entry, loses it first. Admin only.
func (s *SessionStore) GrantFloor(conn ConnID, t Target) error {
	if !s.isAdmin(conn) {
		return ErrNotAdmin
	}
	p := s.resolveParticipant(t)
	if p == nil {
		return ErrUnknownTarget
	}
	if p.OnAir {
		return nil
	}
	if cur := s.liveHolder(); cur != nil {
		cur.OnAir = false
		s.announceRevoke(cur, RevokeReasonReassigned)
	}
	for _, e := range s.grace {
		e.state.OnAir = false
	}
	p.OnAir = true
	p.HandRaised = false
	s.announceGrant(p)
	return nil
}

// RevokeFloor takes the microphone back. Revoking an idle participant succeeds
// without effect. Admin only.
func (s *SessionStore) RevokeFloor(conn ConnID, t Target) error {
	if !s.isAdmin(conn) {
		return ErrNotAdmin
	}
	p := s.resolveParticipant(t)
	if p == nil {
		return ErrUnknownTarget
	}
	if !p.OnAir {
		return nil
	}
	p.OnAir = false
	s.announceRevoke(p, RevokeReasonAdmin)
	return nil
}

// MediaFailed rolls the caller back to idle after it failed to open a microphone.
func (s *SessionStore) MediaFailed(conn ConnID) error {
	p, ok := s.participants[conn]
	if !ok {
		return ErrNotParticipant
	}
	if !p.OnAir {
		return ErrInvalidTransition
	}
	p.OnAir = false
	s.announceRevoke(p, RevokeReasonMedia)
	return nil
}

// liveHolder returns the live participant currently on air.
func (s *SessionStore) liveHolder() *Participant {
	for _, p := range s.participants {
		if p.OnAir {
			return p
		}
	}
	return nil
}

// floorTaken reports whether someone other than key holds the floor.
func (s *SessionStore) floorTaken(key IdentityKey) bool {
	if p := s.liveHolder(); p != nil && p.Key != key {
		return true
	}
	for k, e := range s.grace {
		if k != key && e.state.OnAir {
			return true
		}
	}
	return false
}

// announceGrant tells everyone who speaks and which admin peer to call. Without
// a known admin peer there is nobody to call yet; setAdmin re-announces later.
func (s *SessionStore) announceGrant(p *Participant) {
	if s.session.AdminPeerID == "" {
		return
	}
	s.emit("", &Event{
		Kind: EventMicGranted,
		Floor: &FloorNotice{
			ConnID:      p.ConnID,
			Name:        p.Key.Name,
			PeerID:      p.PeerID,
			AdminPeerID: s.session.AdminPeerID,
		},
	})
}

func (s *SessionStore) announceRevoke(p *Participant, reason string) {
	s.emit("", &Event{
		Kind: EventMicRevoked,
		Floor: &FloorNotice{
			ConnID: p.ConnID,
			Name:   p.Key.Name,
			PeerID: p.PeerID,
			Reason: reason,
		},
	})
}
