package identity

// Role is a fixed application role. Role storage and assignment live in the
// identity provider; documents only ever see the role names carried by the
// authenticated actor.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
)

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsElevated returns true for roles allowed to perform privileged document
// operations such as reopening a refunded invoice
func (r Role) IsElevated() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// RoleSet is the set of roles carried by an authenticated actor
type RoleSet []Role

// NewRoleSet builds a RoleSet from raw role names, dropping unknown values
func NewRoleSet(names ...string) RoleSet {
	roles := make(RoleSet, 0, len(names))
	for _, n := range names {
		r := Role(n)
		if r.IsValid() {
			roles = append(roles, r)
		}
	}
	return roles
}

// Contains returns true if the set carries the given role
func (s RoleSet) Contains(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// HasElevated returns true if any role in the set is elevated
func (s RoleSet) HasElevated() bool {
	for _, r := range s {
		if r.IsElevated() {
			return true
		}
	}
	return false
}

// Strings returns the role names
func (s RoleSet) Strings() []string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = string(r)
	}
	return names
}
