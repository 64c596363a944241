package core

import "sort"

// ParticipantView is the broadcast form of a participant.
type ParticipantView struct {
	ConnID     ConnID
	Name       string
	PeerID     string
	HandRaised bool
	OnAir      bool
	Coords     *Coord
}

// AdminView is the broadcast form of the admin. Online is false during grace.
type AdminView struct {
	Name   string
	PeerID string
	Online bool
}

// RequestView is the admin-facing form of a pending request.
type RequestView struct {
	ConnID ConnID
	Name   string
	PeerID string
}

// Snapshot is the full derived state pushed to clients.
type Snapshot struct {
	Active       bool
	Admin        *AdminView
	Zone         *Zone
	Participants []ParticipantView
	Requests     []RequestView
}

// Snapshot derives the current views. Participants and requests are ordered by
// arrival. Identities held in a grace window are not listed.
func (s *SessionStore) Snapshot() Snapshot {
	snap := Snapshot{
		Active:       s.session.Active,
		Participants: make([]ParticipantView, 0, len(s.participants)),
		Requests:     make([]RequestView, 0, len(s.pending)),
	}
	if a := s.session.Admin; a != nil {
		snap.Admin = &AdminView{
			Name:   a.Name,
			PeerID: s.session.AdminPeerID,
			Online: s.session.AdminConn != "",
		}
	}
	if z := s.session.Zone; z != nil {
		zone := *z
		snap.Zone = &zone
	}

	ps := make([]*Participant, 0, len(s.participants))
	for _, p := range s.participants {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].seq < ps[j].seq })
	for _, p := range ps {
		v := ParticipantView{
			ConnID:     p.ConnID,
			Name:       p.Key.Name,
			PeerID:     p.PeerID,
			HandRaised: p.HandRaised,
			OnAir:      p.OnAir,
		}
		if p.Coords != nil {
			c := *p.Coords
			v.Coords = &c
		}
		snap.Participants = append(snap.Participants, v)
	}

	for _, req := range s.pending {
		snap.Requests = append(snap.Requests, RequestView{
			ConnID: req.ConnID,
			Name:   req.Key.Name,
			PeerID: req.PeerID,
		})
	}
	return snap
}

// Participant looks a participant up by name in the snapshot.
func (snap Snapshot) Participant(name string) (ParticipantView, bool) {
	for _, p := range snap.Participants {
		if p.Name == name {
			return p, true
		}
	}
	return ParticipantView{}, false
}

// stateEvents turns a snapshot into the broadcast events every connection receives.
func stateEvents(snap Snapshot) []*Event {
	return []*Event{
		{Kind: EventParticipantsList, Participants: snap.Participants},
		{Kind: EventAdminUpdated, Admin: snap.Admin},
		{Kind: EventZoneUpdated, Zone: snap.Zone},
	}
}
