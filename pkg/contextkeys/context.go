package contextkeys

// Custom key type to avoid collisions between packages.
type contextKey string

const (
	// UserIDContextKey is the gin.Context key holding the authenticated user ID.
	UserIDContextKey = contextKey("userID")

	// RoleContextKey is the gin.Context key holding the authenticated user role.
	RoleContextKey = contextKey("role")
)
