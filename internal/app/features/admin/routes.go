// internal/app/features/admin/routes.go
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public: admin sign-in.
	r.Get("/login", h.ServeLogin)
	r.Post("/login", h.HandleLoginPost)
	r.Get("/logout", h.HandleLogout)
	r.Post("/logout", h.HandleLogout)

	// Everything else needs the admin session.
	r.Group(func(r chi.Router) {
		r.Use(h.SessionMgr.RequireAdmin)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/reports", http.StatusSeeOther)
		})

		r.Get("/reports", h.ServeReports)
		r.Post("/reports", h.HandlePublishPost)
		r.Post("/reports/{reportID}/visibility", h.HandleVisibilityPost)
		r.Post("/reports/{reportID}/delete", h.HandleReportDeletePost)

		r.Get("/users", h.ServeUsers)
		r.Post("/users/{userID}/status", h.HandleStatusPost)
		r.Post("/users/{userID}/delete", h.HandleUserDeletePost)
		r.Post("/users/{userID}/grants", h.HandleGrantsPost)

		r.Get("/theme", h.ServeTheme)
		r.Post("/theme", h.HandleThemePost)
	})

	return r
}
