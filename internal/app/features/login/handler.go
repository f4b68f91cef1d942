// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/edsonjmoreira/bi-portal/internal/app/features/errors"
	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/access"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/timeouts"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type Handler struct {
	Theme      store.ThemeStore
	Access     *access.Engine
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(
	theme store.ThemeStore,
	engine *access.Engine,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Theme:      theme,
		Access:     engine,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Username  string
	ReturnURL string
}

type registerFormData struct {
	viewdata.BaseVM
	Error    string
	Username string
	Done     bool // account created, awaiting approval
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login – sign-in form                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, h.Theme, "Sign in"),
		ReturnURL: safeReturnURL(r.URL.Query().Get("return")),
	}
	templates.Render(w, r, "login", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login – authenticate                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	returnURL := safeReturnURL(r.PostFormValue("return"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Access.Authenticate(ctx, username, password)
	if err != nil {
		msg, known := formMessage(err)
		if !known {
			h.ErrLog.LogServerError(w, r, "authenticate failed", err, "A database error occurred.", "/login")
			return
		}
		data := loginFormData{
			BaseVM:    viewdata.NewBaseVM(r, h.Theme, "Sign in"),
			Error:     msg,
			Username:  username,
			ReturnURL: returnURL,
		}
		templates.Render(w, r, "login", data)
		return
	}

	if err := h.SessionMgr.SignInUser(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Could not sign you in.", "/login")
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID))
	if returnURL == "" {
		returnURL = "/dashboard"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register – self-registration form                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	data := registerFormData{
		BaseVM: viewdata.NewBaseVM(r, h.Theme, "Request access"),
	}
	templates.Render(w, r, "register", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register – create PENDING account                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse register form failed", err, "Invalid form data.", "/register")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err := h.Access.Register(ctx, username, password)
	if err != nil {
		msg, known := formMessage(err)
		if !known {
			h.ErrLog.LogServerError(w, r, "register failed", err, "A database error occurred.", "/register")
			return
		}
		data := registerFormData{
			BaseVM:   viewdata.NewBaseVM(r, h.Theme, "Request access"),
			Error:    msg,
			Username: username,
		}
		templates.Render(w, r, "register", data)
		return
	}

	// New accounts wait for approval; nobody gets signed in here.
	data := registerFormData{
		BaseVM: viewdata.NewBaseVM(r, h.Theme, "Request access"),
		Done:   true,
	}
	templates.Render(w, r, "register", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// formMessage maps the access engine's sentinel errors to form text. The
// second return is false for unexpected errors that should 500 instead.
func formMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, access.ErrInvalidCredentials),
		errors.Is(err, access.ErrAccountPending),
		errors.Is(err, access.ErrAccountSuspended),
		errors.Is(err, access.ErrUsernameTaken),
		errors.Is(err, access.ErrEmptyCredentials):
		return err.Error(), true
	}
	return "", false
}

// safeReturnURL keeps redirects on-site. Anything that is not a local
// path is dropped.
func safeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return ""
	}
	return raw
}
