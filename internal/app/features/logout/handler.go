// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sessionMgr,
		Log:        logger,
	}
}

// HandleLogout ends the member session and returns to the landing page.
// Signing out a member leaves an admin session, if any, untouched.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOutUser(w, r); err != nil {
		h.Log.Warn("clear member session failed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
