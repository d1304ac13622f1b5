package rbac

// Role names an access level carried in token claims and stored on the user
// record. The set is open for extension; user and admin are the two levels
// the API ships with.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultRole is assigned at registration.
const DefaultRole = RoleUser

// ParseRole maps a claim string onto a known Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrUnknownRole
	}
}

// String returns the role name.
func (r Role) String() string { return string(r) }

// In reports whether the role is a member of the given set.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
