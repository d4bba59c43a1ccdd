package contextkeys

type contextKey string

// DBContextKey is where DBMiddleware puts the *gorm.DB (pool or transaction).
const DBContextKey = contextKey("db")

// Keys under which AuthMiddleware stores the verified caller in gin.Context.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)
