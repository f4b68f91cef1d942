// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.ServeDashboard)
	r.Get("/reports/{reportID}", h.ServeReport)
	return r
}
