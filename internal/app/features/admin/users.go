// internal/app/features/admin/users.go
package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/access"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/timeouts"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/viewdata"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// userRow pairs a user with per-report grant checkboxes for the table.
type userRow struct {
	User   models.User
	Grants []grantCell
}

type grantCell struct {
	Report  models.Report
	Granted bool
}

type usersTabData struct {
	viewdata.BaseVM
	Rows     []userRow
	Reports  []models.Report
	Statuses []string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users – accounts table with status + grant controls              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "A database error occurred.", "/admin")
		return
	}
	reports, err := h.Reports.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reports failed", err, "A database error occurred.", "/admin")
		return
	}

	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		row := userRow{User: u}
		for _, rep := range reports {
			row.Grants = append(row.Grants, grantCell{Report: rep, Granted: u.HasGrant(rep.ID)})
		}
		rows = append(rows, row)
	}

	data := usersTabData{
		BaseVM:   viewdata.NewBaseVM(r, h.Theme, "Users"),
		Rows:     rows,
		Reports:  reports,
		Statuses: []string{models.StatusPending, models.StatusApproved, models.StatusSuspended},
	}
	templates.Render(w, r, "admin_users", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{userID}/status – approve / suspend / reset               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleStatusPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse status form failed", err, "Invalid form data.", "/admin/users")
		return
	}

	userID := chi.URLParam(r, "userID")
	status := r.PostFormValue("status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Access.SetUserStatus(ctx, userID, status); err != nil {
		switch {
		case errors.Is(err, access.ErrBadStatus):
			h.ErrLog.LogBadRequest(w, r, "bad status value", err, "Unknown account status.", "/admin/users")
		case errors.Is(err, store.ErrNotFound):
			h.ErrLog.LogBadRequest(w, r, "status for missing user", err, "That user no longer exists.", "/admin/users")
		default:
			h.ErrLog.LogServerError(w, r, "set user status failed", err, "A database error occurred.", "/admin/users")
		}
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{userID}/delete – remove the account                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUserDeletePost(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Access.DeleteUser(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "delete user failed", err, "A database error occurred.", "/admin/users")
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{userID}/grants – overwrite the grant set                 |
*─────────────────────────────────────────────────────────────────────────────*/

// The form posts one "grants" value per checked report. Every published
// report is reconciled against that set, so unchecking revokes.
func (h *Handler) HandleGrantsPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse grants form failed", err, "Invalid form data.", "/admin/users")
		return
	}

	userID := chi.URLParam(r, "userID")
	checked := make(map[string]bool, len(r.PostForm["grants"]))
	for _, id := range r.PostForm["grants"] {
		checked[id] = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	reports, err := h.Reports.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reports failed", err, "A database error occurred.", "/admin/users")
		return
	}

	for _, rep := range reports {
		if err := h.Registry.SetGrant(ctx, userID, rep.ID, checked[rep.ID]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				h.ErrLog.LogBadRequest(w, r, "grants for missing user", err, "That user no longer exists.", "/admin/users")
				return
			}
			h.ErrLog.LogServerError(w, r, "set grant failed", err, "A database error occurred.", "/admin/users")
			return
		}
	}

	h.Log.Info("admin updated grants",
		zap.String("user_id", userID), zap.Int("granted", len(checked)))
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
