package domain

// The three account roles. Guests browsing verified villas carry no
// principal at all; everything else requires one of these.
const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool {
	switch s {
	case RoleUser, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated actor performing an operation.
// A nil *Principal means an anonymous request.
type Principal struct {
	UserID string
	Role   string
}
