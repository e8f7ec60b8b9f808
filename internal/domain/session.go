package domain

// Role is the label attached to the current session.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// ValidRoles returns the set of known roles.
func ValidRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleViewer}
}

// IsValidRole checks whether r is a known role.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles() {
		if v == r {
			return true
		}
	}
	return false
}

// Session is the persisted "user" record. It carries a label only, no credentials.
type Session struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Storage keys of the durable layout.
const (
	KeyProducts   = "products"
	KeyCategories = "categories"
	KeyDarkMode   = "darkMode"
	KeyUser       = "user"
)
