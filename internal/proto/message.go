package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoin         = "join"
	InboundTypeSetZone      = "set-zone"
	InboundTypeClearZone    = "clear-zone"
	InboundTypeStopEvent    = "stop-event"
	InboundTypeAdminExit    = "admin-exit"
	InboundTypeRequestJoin  = "request-join"
	InboundTypeApproveUser  = "approve-user"
	InboundTypeRejectUser   = "reject-user"
	InboundTypeRaiseHand    = "raise-hand"
	InboundTypeGiveMic      = "give-mic"
	InboundTypeRevokeMic    = "revoke-mic"
	InboundTypeMicError     = "mic-error"
	InboundTypeUpdateCoords = "update-coords"
	InboundTypeLeave        = "leave"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventParticipantsList = "participants-list"
	EventAdminUpdated     = "admin-updated"
	EventZoneUpdated      = "zone-updated"
	EventNewRequest       = "new-request"
	EventJoinApproved     = "join-approved"
	EventJoinRejected     = "join-rejected"
	EventMicGranted       = "mic-granted"
	EventMicRevoked       = "mic-revoked"
	EventEnded            = "event-ended"
)

// LatLng is a [lat, lng] pair as the browser map library sends it.
type LatLng [2]float64

// JoinData binds the connection to an identity. HandRaised and OnAir are the
// state the client remembers from before a reload.
type JoinData struct {
	Role       string `json:"role"`
	Name       string `json:"name"`
	PeerID     string `json:"peerId"`
	HandRaised bool   `json:"handRaised,omitempty"`
	OnAir      bool   `json:"onAir,omitempty"`
	Protocol   int    `json:"protocol,omitempty"`
}

// ZoneData defines the session geofence. Radius is in meters.
type ZoneData struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

// RequestJoinData asks the admin for admission.
type RequestJoinData struct {
	Name   string `json:"name"`
	PeerID string `json:"peerId"`
}

// TargetData addresses a participant or requester by connection id or name.
type TargetData struct {
	ConnectionID string `json:"connectionId,omitempty"`
	Name         string `json:"name,omitempty"`
	// AdminPeerID is sent by older clients with give-mic and is ignored.
	AdminPeerID string `json:"adminPeerId,omitempty"`
}

// CoordsData reports the client's position.
type CoordsData struct {
	Coords LatLng `json:"coords"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Participant is one row of participants-list.
type Participant struct {
	ConnectionID string  `json:"connectionId"`
	Name         string  `json:"name"`
	PeerID       string  `json:"peerId"`
	HandRaised   bool    `json:"handRaised"`
	OnAir        bool    `json:"onAir"`
	Coords       *LatLng `json:"coords,omitempty"`
}

// Admin is the payload of admin-updated.
type Admin struct {
	Name   string `json:"name"`
	PeerID string `json:"peerId"`
	Online bool   `json:"online"`
}

// Zone is the payload of zone-updated.
type Zone struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

// Request is one row of new-request.
type Request struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
	PeerID       string `json:"peerId"`
}

// JoinApproved carries what an admitted client needs to reach the admin.
type JoinApproved struct {
	AdminName   string `json:"adminName"`
	AdminPeerID string `json:"adminPeerId"`
}

// MicGranted names the speaker and the admin peer it must call.
type MicGranted struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
	PeerID       string `json:"peerId"`
	AdminPeerID  string `json:"adminPeerId"`
}

// MicRevoked names the participant that lost the floor.
type MicRevoked struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
	Reason       string `json:"reason"`
}

// Session is the discovery document served over plain HTTP.
type Session struct {
	Active       bool          `json:"active"`
	Admin        *Admin        `json:"admin"`
	Zone         *Zone         `json:"zone"`
	Participants []Participant `json:"participants"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
