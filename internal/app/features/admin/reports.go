// internal/app/features/admin/reports.go
package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/reportreg"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/timeouts"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/viewdata"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type reportsTabData struct {
	viewdata.BaseVM
	Reports []models.Report
	Error   string
	// Sticky form values on a failed publish
	FormTitle string
	FormEmbed string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/reports – publish form + report table                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeReports(w http.ResponseWriter, r *http.Request) {
	h.renderReports(w, r, "", "", "")
}

func (h *Handler) renderReports(w http.ResponseWriter, r *http.Request, formErr, title, embed string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reports, err := h.Reports.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reports failed", err, "A database error occurred.", "/admin")
		return
	}

	data := reportsTabData{
		BaseVM:    viewdata.NewBaseVM(r, h.Theme, "Reports"),
		Reports:   reports,
		Error:     formErr,
		FormTitle: title,
		FormEmbed: embed,
	}
	templates.Render(w, r, "admin_reports", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/reports – publish from embed input                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandlePublishPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse publish form failed", err, "Invalid form data.", "/admin/reports")
		return
	}

	title := r.PostFormValue("title")
	embed := r.PostFormValue("embed")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rep, err := h.Registry.Publish(ctx, title, embed)
	if err != nil {
		if msg, known := publishMessage(err); known {
			h.renderReports(w, r, msg, title, embed)
			return
		}
		h.ErrLog.LogServerError(w, r, "publish report failed", err, "A database error occurred.", "/admin/reports")
		return
	}

	h.Log.Info("admin published report", zap.String("report_id", rep.ID))
	http.Redirect(w, r, "/admin/reports", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/reports/{reportID}/visibility – toggle publish flag             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleVisibilityPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse visibility form failed", err, "Invalid form data.", "/admin/reports")
		return
	}

	reportID := chi.URLParam(r, "reportID")
	visible := r.PostFormValue("visible") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Registry.SetVisibility(ctx, reportID, visible); err != nil {
		h.ErrLog.LogServerError(w, r, "set report visibility failed", err, "A database error occurred.", "/admin/reports")
		return
	}
	http.Redirect(w, r, "/admin/reports", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/reports/{reportID}/delete – delete + cascade grants             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleReportDeletePost(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Registry.Delete(ctx, reportID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete report failed", err, "A database error occurred.", "/admin/reports")
		return
	}
	http.Redirect(w, r, "/admin/reports", http.StatusSeeOther)
}

// publishMessage maps publish-time sentinel errors to form text.
func publishMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, reportreg.ErrEmptyTitle),
		errors.Is(err, reportreg.ErrMissingSrc),
		errors.Is(err, reportreg.ErrUnrecognizedInput),
		errors.Is(err, reportreg.ErrInvalidURL):
		return err.Error(), true
	}
	return "", false
}
