// internal/app/features/admin/handler.go
package admin

import (
	uierrors "github.com/edsonjmoreira/bi-portal/internal/app/features/errors"
	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/access"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/reportreg"
	"go.uber.org/zap"
)

// Handler holds everything the admin console needs: both engines, all
// three stores, and the session manager for the admin sign-in flow.
type Handler struct {
	Users      store.UserStore
	Reports    store.ReportStore
	Theme      store.ThemeStore
	Access     *access.Engine
	Registry   *reportreg.Registry
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(
	st store.Store,
	engine *access.Engine,
	registry *reportreg.Registry,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:      st.Users(),
		Reports:    st.Reports(),
		Theme:      st.Theme(),
		Access:     engine,
		Registry:   registry,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}
