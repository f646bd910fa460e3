package contextkeys

// Custom key type to avoid collisions with other context users.
type contextKey string

// DBContextKey is the key under which middleware stores the *gorm.DB
// (connection pool or an enclosing transaction) for the request.
const DBContextKey = contextKey("db")
