package core

import "errors"

// Error codes surfaced to clients.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeInvalidMessage     = "invalid_message"
	ErrCodeUnsupportedVersion = "unsupported_version"
	ErrCodeSessionTaken       = "session_taken"
	ErrCodeRateLimited        = "rate_limited"
)

var (
	// ErrSessionTaken is returned when a second admin identity tries to bind.
	ErrSessionTaken = errors.New("session already has an admin")
	// ErrNotAdmin is returned when an admin-only command comes from another connection.
	ErrNotAdmin = errors.New("not the session admin")
	// ErrNotParticipant is returned when the connection is not a participant.
	ErrNotParticipant = errors.New("not a participant")
	// ErrNotBound is returned when the connection holds no identity.
	ErrNotBound = errors.New("connection not bound")
	// ErrUnknownTarget is returned when the addressed member is not present.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrInvalidTransition is returned when the floor state machine refuses a move.
	ErrInvalidTransition = errors.New("invalid floor transition")
	// ErrAlreadyJoined is returned for a join request from an admitted identity.
	ErrAlreadyJoined = errors.New("already joined")
	// ErrBadIdentity is returned for an empty, oversized or wrongly-roled identity.
	ErrBadIdentity = errors.New("bad identity")
	// ErrBadZone is returned for an out-of-range center or non-positive radius.
	ErrBadZone = errors.New("bad zone")
	// ErrBadCoords is returned for out-of-range coordinates.
	ErrBadCoords = errors.New("bad coordinates")
	// ErrStaleTimer is returned when a grace expiry no longer matches its entry.
	ErrStaleTimer = errors.New("stale grace timer")
	// ErrUnknownCommand is returned for a command kind the hub does not handle.
	ErrUnknownCommand = errors.New("unknown command")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
