package domain

import (
	"encoding/json"
	"strings"
)

// Role is the coarse-grained job function attached to an authenticated user.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSalesRep Role = "SALES_REP"
	RoleAnalyst  Role = "ANALYST"
)

// AllRoles lists every role the console knows about.
var AllRoles = [...]Role{RoleAdmin, RoleSalesRep, RoleAnalyst}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Identity is the authenticated user of a console session. It is replaced
// wholesale on login and cleared wholesale on logout, never edited in place.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Registration is a sign-up request forwarded to the CRM API, which owns user
// accounts.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// EncodeIdentity serializes an identity into the single value held by a
// session store.
func EncodeIdentity(id Identity) ([]byte, error) {
	return json.Marshal(id)
}

// DecodeIdentity parses a persisted session value. Anything that is not a
// complete identity with a known role yields ok=false; callers treat that as
// an anonymous session.
func DecodeIdentity(raw []byte) (id Identity, ok bool) {
	if len(raw) == 0 {
		return Identity{}, false
	}
	if err := json.Unmarshal(raw, &id); err != nil {
		return Identity{}, false
	}
	id.Username = strings.TrimSpace(id.Username)
	if id.Username == "" || !id.Role.Valid() {
		return Identity{}, false
	}
	return id, true
}
