package contextkeys

// Keys used on the gin context. Gin keys are plain strings; keep them
// centralized here so handlers and middleware stay in sync.
const (
	// DBContextKey holds the request-scoped *gorm.DB.
	DBContextKey = "db"

	// UserIDContextKey holds the authenticated user's id.
	UserIDContextKey = "userID"

	// UserRoleContextKey holds the authenticated user's role.
	UserRoleContextKey = "userRole"

	// UserEmailContextKey holds the authenticated user's email.
	UserEmailContextKey = "userEmail"
)
