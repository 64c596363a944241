package core

// Role is the part a connection plays in the session.
type Role string

const (
	// RoleAdmin moderates the session and hands out the floor.
	RoleAdmin Role = "admin"
	// RoleUser is a participant who may ask to speak.
	RoleUser Role = "user"
)

// MaxNameLen bounds self-reported display names.
const MaxNameLen = 36

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// IdentityKey identifies a human across reconnects. Two connections carrying the
// same key are treated as the same person (e.g. a page reload).
type IdentityKey struct {
	Role Role
	Name string
}

// Valid reports whether the key can be bound to a connection.
func (k IdentityKey) Valid() bool {
	return k.Role.Valid() && k.Name != "" && len(k.Name) <= MaxNameLen
}

func (k IdentityKey) String() string {
	return string(k.Role) + ":" + k.Name
}
