// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/templates"
	adminfeature "github.com/edsonjmoreira/bi-portal/internal/app/features/admin"
	dashboardfeature "github.com/edsonjmoreira/bi-portal/internal/app/features/dashboard"
	errorsfeature "github.com/edsonjmoreira/bi-portal/internal/app/features/errors"
	healthfeature "github.com/edsonjmoreira/bi-portal/internal/app/features/health"
	homefeature "github.com/edsonjmoreira/bi-portal/internal/app/features/home"
	loginfeature "github.com/edsonjmoreira/bi-portal/internal/app/features/login"
	logoutfeature "github.com/edsonjmoreira/bi-portal/internal/app/features/logout"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/access"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/reportreg"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. The portal mounts the public pages,
// the member dashboard, and the admin console off one chi router, with
// the session middleware applied globally.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Re-fetch the member on every request so status changes (an admin
	// suspending an account) take effect immediately.
	sessionMgr.SetUserFetcher(deps.Store.Users().GetByID)

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	// Business engines shared by the feature handlers.
	accessEngine := access.New(deps.Store.Users(), appCfg.AdminPasswordHash, logger)
	registry := reportreg.New(deps.Store.Reports(), deps.Store.Users(), logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the member and admin flag into context.
	r.Use(sessionMgr.LoadSession)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Store, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Public pages
	homeHandler := homefeature.NewHandler(deps.Store.Theme(), logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.Store.Theme(), accessEngine, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/register", loginfeature.RegisterRoutes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Member dashboard
	dashboardHandler := dashboardfeature.NewHandler(deps.Store, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Admin console
	adminHandler := adminfeature.NewHandler(deps.Store, accessEngine, registry, sessionMgr, errLog, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler))

	return r, nil
}
