package core

// Coord is a WGS84 position.
type Coord struct {
	Lat float64
	Lng float64
}

// Valid reports whether the coordinate lies within latitude/longitude bounds.
func (c Coord) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Zone is the circular geofence an admin defines for the session.
type Zone struct {
	Center Coord
	Radius float64 // meters
}

// Valid reports whether the zone has a sane center and a positive radius.
func (z Zone) Valid() bool {
	return z.Center.Valid() && z.Radius > 0
}

// FloorState is the hand/microphone state of a participant.
type FloorState struct {
	HandRaised bool
	OnAir      bool
}

// normalized enforces that a participant is never both on air and waiting.
func (f FloorState) normalized() FloorState {
	if f.OnAir {
		f.HandRaised = false
	}
	return f
}

// Session is the singleton moderated session.
type Session struct {
	Admin       *IdentityKey
	AdminConn   ConnID // empty while the admin is within its grace window
	AdminPeerID string
	Zone        *Zone
	Active      bool
}

// Participant is a live non-admin member.
type Participant struct {
	ConnID ConnID
	Key    IdentityKey
	PeerID string
	FloorState
	Coords *Coord

	seq uint64
}

// PendingRequest is a join request waiting for the admin.
type PendingRequest struct {
	ConnID ConnID
	Key    IdentityKey
	PeerID string
}
