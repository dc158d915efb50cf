package constants

const (
	Guide    = "guide"
	Operator = "operator"
)

// ValidRoles is the set of roles a session can carry.
var ValidRoles = []string{Guide, Operator}

// IsValidRole returns true if role is one of ValidRoles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
