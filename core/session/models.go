package session

import "encoding/json"

// Role is the enumerated role stored on the ledger. The numeric values mirror
// the contract's role indexes and must not be reordered.
type Role uint8

const (
	RoleAdmin Role = iota
	RoleTeacher
	RoleStudent
	RoleGradeManager

	// RoleUnknown is never stored on the ledger; it is what an account without
	// an assigned role resolves to.
	RoleUnknown Role = 255
)

var roleNames = map[Role]string{
	RoleAdmin:        "admin",
	RoleTeacher:      "teacher",
	RoleStudent:      "student",
	RoleGradeManager: "grade_manager",
	RoleUnknown:      "unknown",
}

// ParseRole maps a raw ledger role index to a Role.
func ParseRole(v uint8) Role {
	if v <= uint8(RoleGradeManager) {
		return Role(v)
	}
	return RoleUnknown
}

// ParseRoleName maps a role name back to its Role; RoleUnknown when unmatched.
func ParseRoleName(name string) Role {
	for role, n := range roleNames {
		if n == name {
			return role
		}
	}
	return RoleUnknown
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleUnknown]
}

func (r Role) Known() bool { return r != RoleUnknown }

// MarshalJSON emits the role name; raw contract indexes stay internal.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*r = ParseRoleName(name)
	return nil
}

// Profile is the user row kept on the ledger. Read-only from the client's
// perspective except via the registration workflow.
type Profile struct {
	IsRegistered  bool   `json:"is_registered"`
	Name          string `json:"name"`
	StudentID     string `json:"student_id"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
}

// Session bundles everything derived from the active account. It is replaced
// wholesale on every account change, never field-mutated, so a consumer can
// never observe a role without its matching profile. It carries only
// ledger-derived state: resolving the same account twice yields equal Sessions.
type Session struct {
	Account string  `json:"account"`
	Role    Role    `json:"role"`
	Profile Profile `json:"profile"`
}

// Registered reports whether the session may leave the registration screen.
// An Admin has no student-style profile row and counts as registered; everyone
// else follows the ledger's profile flag.
func (s Session) Registered() bool {
	return s.Role == RoleAdmin || s.Profile.IsRegistered
}

// State tells where the session currently is in its lifecycle.
type State int

const (
	StateDisconnected State = iota
	StateResolving
	StateReady
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateReady:
		return "ready"
	default:
		return "disconnected"
	}
}

// Snapshot is an atomically-taken view of the session lifecycle. Session is
// only non-nil in StateReady; navigation decisions made before that must not
// rely on partial data.
type Snapshot struct {
	State   State    `json:"state"`
	Account string   `json:"account,omitempty"`
	Session *Session `json:"session,omitempty"`
}
