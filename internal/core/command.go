package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin binds the connection to an identity (admin or participant).
	CommandJoin CommandKind = iota
	// CommandSetZone defines the session geofence.
	CommandSetZone
	// CommandClearZone removes the geofence.
	CommandClearZone
	// CommandEndSession stops the event and evicts everyone.
	CommandEndSession
	// CommandRequestJoin asks the admin for admission.
	CommandRequestJoin
	// CommandApprove admits a pending requester.
	CommandApprove
	// CommandReject turns a pending requester away.
	CommandReject
	// CommandRaiseHand asks for the floor.
	CommandRaiseHand
	// CommandGrantFloor gives the microphone to a participant.
	CommandGrantFloor
	// CommandRevokeFloor takes the microphone back.
	CommandRevokeFloor
	// CommandMediaFailed reports that the granted participant could not open a microphone.
	CommandMediaFailed
	// CommandUpdateCoords stores the participant's last known position.
	CommandUpdateCoords
	// CommandLeave releases the connection's binding without a grace window.
	CommandLeave
)

var commandNames = [...]string{
	CommandJoin:         "join",
	CommandSetZone:      "set_zone",
	CommandClearZone:    "clear_zone",
	CommandEndSession:   "end_session",
	CommandRequestJoin:  "request_join",
	CommandApprove:      "approve",
	CommandReject:       "reject",
	CommandRaiseHand:    "raise_hand",
	CommandGrantFloor:   "grant_floor",
	CommandRevokeFloor:  "revoke_floor",
	CommandMediaFailed:  "media_failed",
	CommandUpdateCoords: "update_coords",
	CommandLeave:        "leave",
}

func (k CommandKind) String() string {
	if k >= 0 && int(k) < len(commandNames) {
		return commandNames[k]
	}
	return "unknown"
}

// Target selects another member, by connection id or display name.
type Target struct {
	ConnID ConnID
	Name   string
}

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Identity IdentityKey
	PeerID   string
	Claimed  FloorState
	Zone     Zone
	Target   Target
	Coords   Coord
}
