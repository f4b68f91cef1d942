// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/edsonjmoreira/bi-portal/internal/app/features/errors"
	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/timeouts"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/viewdata"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/visibility"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Users   store.UserStore
	Reports store.ReportStore
	Theme   store.ThemeStore
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(st store.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   st.Users(),
		Reports: st.Reports(),
		Theme:   st.Theme(),
		ErrLog:  errLog,
		Log:     logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type dashboardData struct {
	viewdata.BaseVM
	Reports []models.Report
}

type viewerData struct {
	viewdata.BaseVM
	Report models.Report
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard – report grid                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, reports, ok := h.loadUserAndReports(w, r, "/dashboard")
	if !ok {
		return
	}

	data := dashboardData{
		BaseVM:  viewdata.NewBaseVM(r, h.Theme, "My reports"),
		Reports: visibility.VisibleReports(u, reports),
	}
	templates.Render(w, r, "dashboard", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/reports/{reportID} – embedded viewer                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeReport(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, su.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", "/dashboard")
		return
	}

	reportID := chi.URLParam(r, "reportID")
	rep, err := h.Reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.ErrLog.LogServerError(w, r, "load report failed", err, "A database error occurred.", "/dashboard")
		return
	}

	// Hidden reports and reports outside the grant set look identical to
	// missing ones. Members cannot probe which reports exist.
	if !visibility.CanOpen(u, rep) {
		http.NotFound(w, r)
		return
	}

	data := viewerData{
		BaseVM: viewdata.NewBaseVM(r, h.Theme, rep.Title),
		Report: *rep,
	}
	templates.Render(w, r, "dashboard_viewer", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) loadUserAndReports(w http.ResponseWriter, r *http.Request, backURL string) (*models.User, []models.Report, bool) {
	su, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, su.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", backURL)
		return nil, nil, false
	}
	reports, err := h.Reports.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reports failed", err, "A database error occurred.", backURL)
		return nil, nil, false
	}
	return u, reports, true
}
