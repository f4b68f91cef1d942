// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, environment). AppConfig is everything specific to the portal:
// which storage backend to run, its connection details, the session
// cookie, and the admin secret.
type AppConfig struct {
	// Storage backend selection: "sqlite" for single-box installs,
	// "mongo" for multi-client deployments.
	StoreBackend string

	// MongoDB connection configuration (StoreBackend "mongo")
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// SQLite configuration (StoreBackend "sqlite")
	SQLitePath string // Database file path (e.g., ./biportal.db)

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: biportal-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Admin access. The bcrypt hash is what the access engine compares
	// against; the plaintext variant is a dev-only fallback that gets
	// hashed during LoadConfig and never leaves this struct.
	AdminPasswordHash string
	AdminPassword     string
}
