// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// appConfigKeys defines the configuration keys for the portal.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: store_backend, session_name, etc.
//   - Environment variables: BIPORTAL_STORE_BACKEND, BIPORTAL_SESSION_NAME, etc.
//   - Command-line flags: --store_backend, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: "sqlite", Desc: "Storage backend: 'sqlite' or 'mongo'"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "bi_portal", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "sqlite_path", Default: "./biportal.db", Desc: "SQLite database file path"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "biportal-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "admin_password_hash", Default: "", Desc: "bcrypt hash of the admin password"},
	{Name: "admin_password", Default: "", Desc: "Plaintext admin password (dev fallback, hashed at startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// BIPORTAL_* environment variables, and command-line flags, merged with
// precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "BIPORTAL", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend: appValues.String("store_backend"),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SQLitePath: appValues.String("sqlite_path"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		AdminPasswordHash: appValues.String("admin_password_hash"),
		AdminPassword:     appValues.String("admin_password"),
	}

	// Dev fallback: a plaintext admin password gets hashed here so the
	// rest of the app only ever sees the hash.
	if appCfg.AdminPasswordHash == "" && appCfg.AdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, AppConfig{}, fmt.Errorf("hash admin password: %w", err)
		}
		appCfg.AdminPasswordHash = string(hash)
		logger.Warn("admin_password is set in plaintext; prefer admin_password_hash in production")
	}
	appCfg.AdminPassword = ""

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case "sqlite":
		if appCfg.SQLitePath == "" {
			return fmt.Errorf("sqlite backend requires sqlite_path")
		}
	case "mongo":
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	default:
		return fmt.Errorf("unknown store_backend %q (want 'sqlite' or 'mongo')", appCfg.StoreBackend)
	}

	if appCfg.AdminPasswordHash == "" {
		return fmt.Errorf("no admin credential configured: set admin_password_hash (or admin_password in dev)")
	}

	return nil
}
