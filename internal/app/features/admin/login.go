// internal/app/features/admin/login.go
package admin

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type adminLoginData struct {
	viewdata.BaseVM
	Error string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/login – admin password form                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if auth.IsAdmin(r) {
		http.Redirect(w, r, "/admin/reports", http.StatusSeeOther)
		return
	}

	data := adminLoginData{
		BaseVM: viewdata.NewBaseVM(r, h.Theme, "Admin sign in"),
	}
	templates.Render(w, r, "admin_login", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/login – verify the shared admin secret                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse admin login form failed", err, "Invalid form data.", "/admin/login")
		return
	}

	if !h.Access.VerifyAdminSecret(r.PostFormValue("password")) {
		h.Log.Warn("admin sign-in rejected", zap.String("remote", r.RemoteAddr))
		data := adminLoginData{
			BaseVM: viewdata.NewBaseVM(r, h.Theme, "Admin sign in"),
			Error:  "Incorrect admin password.",
		}
		templates.Render(w, r, "admin_login", data)
		return
	}

	// Signing in as admin replaces any member session in this browser.
	if err := h.SessionMgr.SignInAdmin(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "save admin session failed", err, "Could not sign you in.", "/admin/login")
		return
	}

	h.Log.Info("admin signed in", zap.String("remote", r.RemoteAddr))
	http.Redirect(w, r, "/admin/reports", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET|POST /admin/logout – end the admin session                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOutAdmin(w, r); err != nil {
		h.Log.Warn("clear admin session failed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
