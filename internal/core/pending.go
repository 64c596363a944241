package core

// RequestJoin queues a request for admission, deduplicated by identity. Requests
// are accepted before an admin exists and shown to it once it binds.
func (s *SessionStore) RequestJoin(conn ConnID, key IdentityKey, peerID string) error {
	if !key.Valid() || key.Role != RoleUser {
		return ErrBadIdentity
	}
	if _, ok := s.byIdentity[key]; ok {
		return ErrAlreadyJoined
	}
	if bound, ok := s.identityOf(conn); ok && bound != key {
		s.release(conn)
	}
	if i := s.pendingIndex(Target{Name: key.Name}); i >= 0 {
		s.pending[i].ConnID = conn
		s.pending[i].PeerID = peerID
		return nil
	}
	s.pending = append(s.pending, &PendingRequest{
		ConnID: conn,
		Key:    key,
		PeerID: peerID,
	})
	return nil
}

// Approve admits a pending requester as an idle participant. Admin only.
func (s *SessionStore) Approve(conn ConnID, t Target) error {
	if !s.isAdmin(conn) {
		return ErrNotAdmin
	}
	req := s.removePending(t)
	if req == nil {
		return ErrUnknownTarget
	}
	if old, ok := s.byIdentity[req.Key]; ok {
		s.removeParticipant(old)
	}
	// Approval admits idle; a preserved hand or floor from an earlier drop is gone.
	if e, ok := s.grace[req.Key]; ok && e.kind == graceParticipant {
		s.cancelGrace(req.Key)
	}
	s.addParticipant(req.ConnID, req.Key, req.PeerID, FloorState{})
	s.approved[req.Key] = struct{}{}
	s.emit(req.ConnID, &Event{
		Kind: EventJoinApproved,
		Approval: &ApprovalNotice{
			AdminName:   s.session.Admin.Name,
			AdminPeerID: s.session.AdminPeerID,
		},
	})
	return nil
}

// Reject drops a pending request and tells the requester. Admin only.
func (s *SessionStore) Reject(conn ConnID, t Target) error {
	if !s.isAdmin(conn) {
		return ErrNotAdmin
	}
	req := s.removePending(t)
	if req == nil {
		return ErrUnknownTarget
	}
	s.emit(req.ConnID, &Event{Kind: EventJoinRejected})
	return nil
}

func (s *SessionStore) pendingIndex(t Target) int {
	for i, req := range s.pending {
		if t.ConnID != "" && req.ConnID == t.ConnID {
			return i
		}
		if t.ConnID == "" && t.Name != "" && req.Key.Name == t.Name {
			return i
		}
	}
	if t.ConnID != "" && t.Name != "" {
		return s.pendingIndex(Target{Name: t.Name})
	}
	return -1
}

func (s *SessionStore) removePending(t Target) *PendingRequest {
	i := s.pendingIndex(t)
	if i < 0 {
		return nil
	}
	req := s.pending[i]
	s.pending = append(s.pending[:i], s.pending[i+1:]...)
	return req
}
