// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	IsAdmin    bool
	UserName   string
	Message    string
	BackURL    string
}

// Handler is the errors feature handler.
// No store needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	data := newPageData(r, "Access denied", "You don't have permission to view this page.", "/")
	templates.Render(w, r, "error_page", data)
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	data := newPageData(r, "Sign in required", "Please sign in to continue.", "/login")
	templates.Render(w, r, "error_page", data)
}

func newPageData(r *http.Request, title, msg, backURL string) pageData {
	name := ""
	u, signed := auth.CurrentUser(r)
	if signed && u != nil {
		name = u.Username
	}
	return pageData{
		Title:      title,
		IsLoggedIn: signed,
		IsAdmin:    auth.IsAdmin(r),
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	}
}
