package core

// Join binds conn to key. An admin key goes through setAdmin; a user key is
// reconciled against any live or graced entry of the same identity so that a
// reload keeps the raised hand or the floor.
func (s *SessionStore) Join(conn ConnID, key IdentityKey, peerID string, claimed FloorState) error {
	if !key.Valid() {
		return ErrBadIdentity
	}
	if key.Role == RoleAdmin && s.adminTaken(key) {
		return ErrSessionTaken
	}
	if bound, ok := s.identityOf(conn); ok && bound != key {
		s.release(conn)
	}
	if key.Role == RoleAdmin {
		return s.setAdmin(conn, key, peerID)
	}
	return s.joinParticipant(conn, key, peerID, claimed)
}

func (s *SessionStore) joinParticipant(conn ConnID, key IdentityKey, peerID string, claimed FloorState) error {
	var (
		prior  *FloorState
		coords *Coord
	)
	if old, ok := s.byIdentity[key]; ok {
		p := s.participants[old]
		state := p.FloorState
		prior, coords = &state, p.Coords
		s.removeParticipant(old)
	}
	if e, ok := s.grace[key]; ok && e.kind == graceParticipant {
		if prior == nil {
			state := e.state
			prior, coords = &state, e.coords
		}
		s.cancelGrace(key)
	}

	if prior == nil && s.cfg.RequireApproval {
		if _, ok := s.approved[key]; !ok {
			return s.RequestJoin(conn, key, peerID)
		}
	}
	s.removePending(Target{ConnID: conn})
	s.removePending(Target{Name: key.Name})

	state := claimed
	if prior != nil {
		state = *prior
	}
	state = state.normalized()
	if state.OnAir && s.floorTaken(key) {
		state.OnAir = false
	}

	p := s.addParticipant(conn, key, peerID, state)
	p.Coords = coords
	if p.OnAir {
		s.announceGrant(p)
	}
	return nil
}

// UpdateCoords stores the participant's last known position.
func (s *SessionStore) UpdateCoords(conn ConnID, c Coord) error {
	p, ok := s.participants[conn]
	if !ok {
		return ErrNotParticipant
	}
	if !c.Valid() {
		return ErrBadCoords
	}
	p.Coords = &c
	return nil
}

func (s *SessionStore) addParticipant(conn ConnID, key IdentityKey, peerID string, state FloorState) *Participant {
	p := &Participant{
		ConnID:     conn,
		Key:        key,
		PeerID:     peerID,
		FloorState: state,
		seq:        s.nextSeq(),
	}
	s.participants[conn] = p
	s.byIdentity[key] = conn
	return p
}

func (s *SessionStore) removeParticipant(conn ConnID) *Participant {
	p, ok := s.participants[conn]
	if !ok {
		return nil
	}
	delete(s.participants, conn)
	if s.byIdentity[p.Key] == conn {
		delete(s.byIdentity, p.Key)
	}
	return p
}

// resolveParticipant finds a live participant by connection id, then by name.
func (s *SessionStore) resolveParticipant(t Target) *Participant {
	if t.ConnID != "" {
		if p, ok := s.participants[t.ConnID]; ok {
			return p
		}
	}
	if t.Name != "" {
		if conn, ok := s.byIdentity[IdentityKey{Role: RoleUser, Name: t.Name}]; ok {
			return s.participants[conn]
		}
	}
	return nil
}
