package core

// setAdmin binds conn as the session admin. Only one admin identity may exist
// at a time; while the current admin is within its grace window the slot stays
// reserved for the same identity.
func (s *SessionStore) setAdmin(conn ConnID, key IdentityKey, peerID string) error {
	if s.adminTaken(key) {
		return ErrSessionTaken
	}
	if e, ok := s.grace[key]; ok && e.kind == graceAdmin {
		s.cancelGrace(key)
	}
	s.removePending(Target{ConnID: conn})

	peerChanged := s.session.AdminPeerID != peerID
	s.session.Admin = &key
	s.session.AdminConn = conn
	s.session.AdminPeerID = peerID
	s.session.Active = true

	// A reload changes the admin's peer id; the speaker must call the new one.
	if peerChanged {
		if p := s.liveHolder(); p != nil {
			s.announceGrant(p)
		}
	}
	return nil
}

// adminTaken reports whether another identity holds or reserves the admin slot.
func (s *SessionStore) adminTaken(key IdentityKey) bool {
	cur := s.session.Admin
	return cur != nil && *cur != key
}

// SetZone defines the geofence. Admin only.
func (s *SessionStore) SetZone(conn ConnID, zone Zone) error {
	if !s.isAdmin(conn) {
		return ErrNotAdmin
	}
	if !zone.Valid() {
		return ErrBadZone
	}
	s.session.Zone = &zone
	return nil
}

// ClearZone removes the geofence. Admin only.
func (s *SessionStore) ClearZone(conn ConnID) error {
	if !s.isAdmin(conn) {
		return ErrNotAdmin
	}
	s.session.Zone = nil
	return nil
}

// EndSession evicts everyone and clears the session. Admin only.
func (s *SessionStore) EndSession(conn ConnID) error {
	if !s.isAdmin(conn) {
		return ErrNotAdmin
	}
	s.endSession()
	return nil
}

func (s *SessionStore) endSession() {
	s.Close()
	clear(s.participants)
	clear(s.byIdentity)
	clear(s.approved)
	s.pending = nil
	s.session = Session{}
	s.emit("", &Event{Kind: EventSessionEnded})
}
