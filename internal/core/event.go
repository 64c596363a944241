package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventParticipantsList carries the full participant table.
	EventParticipantsList EventKind = iota
	// EventAdminUpdated announces the current admin (or its absence).
	EventAdminUpdated
	// EventZoneUpdated carries the current geofence (or its absence).
	EventZoneUpdated
	// EventPendingRequests delivers the pending join list to the admin.
	EventPendingRequests
	// EventJoinApproved tells a requester it has been admitted.
	EventJoinApproved
	// EventJoinRejected tells a requester it has been turned away.
	EventJoinRejected
	// EventMicGranted tells everyone who holds the floor and which peer to call.
	EventMicGranted
	// EventMicRevoked tells everyone the floor was taken back.
	EventMicRevoked
	// EventSessionEnded notifies clients that the admin closed the session.
	EventSessionEnded
	// EventError notifies a client about a domain error.
	EventError
)

// Revocation reasons carried by EventMicRevoked.
const (
	RevokeReasonAdmin      = "revoked"
	RevokeReasonReassigned = "reassigned"
	RevokeReasonMedia      = "media_error"
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind         EventKind
	Participants []ParticipantView
	Admin        *AdminView
	Zone         *Zone
	Requests     []RequestView
	Floor        *FloorNotice
	Approval     *ApprovalNotice
	Error        *CoreError
}

// FloorNotice describes a grant or revocation.
type FloorNotice struct {
	ConnID      ConnID
	Name        string
	PeerID      string
	AdminPeerID string
	Reason      string
}

// ApprovalNotice is delivered to an admitted requester so it can later call the admin.
type ApprovalNotice struct {
	AdminName   string
	AdminPeerID string
}
