// Package viewdata builds the view-model fields shared by every page:
// branding from the theme store and the identity from the session.
package viewdata

import (
	"context"
	"html/template"
	"net/http"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/auth"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/htmlsanitize"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/timeouts"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
)

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models:
//
//	type loginVM struct {
//	    viewdata.BaseVM
//	    Error string
//	}
type BaseVM struct {
	// Branding (from the theme store, with defaults filled in)
	PrimaryColor   string
	SecondaryColor string
	HeaderTitle    string
	HeaderSubtitle string
	LogoURL        string
	HasLogo        bool
	FooterText     template.HTML

	// Identity (from the session middleware)
	IsLoggedIn bool
	IsAdmin    bool
	UserName   string

	// Page context
	Title string
}

// NewBaseVM loads the theme and session identity for a page render.
// themes may be nil (error pages before the store is up): defaults apply.
func NewBaseVM(r *http.Request, themes store.ThemeStore, title string) BaseVM {
	theme := models.DefaultTheme()
	if themes != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if t, err := themes.Get(ctx); err == nil {
			theme = t.WithDefaults()
		}
	}

	vm := BaseVM{
		PrimaryColor:   theme.PrimaryColor,
		SecondaryColor: theme.SecondaryColor,
		HeaderTitle:    theme.HeaderTitle,
		HeaderSubtitle: theme.HeaderSubtitle,
		LogoURL:        theme.LogoURL,
		HasLogo:        theme.HasLogo(),
		FooterText:     htmlsanitize.SanitizeHTML(theme.FooterText),
		IsAdmin:        auth.IsAdmin(r),
		Title:          title,
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserName = u.Username
	}
	return vm
}
