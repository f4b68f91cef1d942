// internal/app/features/admin/theme.go
package admin

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/htmlsanitize"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/timeouts"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/viewdata"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
)

type themeTabData struct {
	viewdata.BaseVM
	Theme models.ThemeSettings
	Saved bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/theme – branding form                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeTheme(w http.ResponseWriter, r *http.Request) {
	h.renderTheme(w, r, false)
}

func (h *Handler) renderTheme(w http.ResponseWriter, r *http.Request, saved bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	theme, err := h.Theme.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load theme failed", err, "A database error occurred.", "/admin")
		return
	}

	data := themeTabData{
		BaseVM: viewdata.NewBaseVM(r, h.Theme, "Appearance"),
		Theme:  theme.WithDefaults(),
		Saved:  saved,
	}
	templates.Render(w, r, "admin_theme", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/theme – save branding                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleThemePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse theme form failed", err, "Invalid form data.", "/admin/theme")
		return
	}

	// Footer text may carry markup; sanitize before it is ever stored.
	t := models.ThemeSettings{
		PrimaryColor:   r.PostFormValue("primary_color"),
		SecondaryColor: r.PostFormValue("secondary_color"),
		HeaderTitle:    r.PostFormValue("header_title"),
		HeaderSubtitle: r.PostFormValue("header_subtitle"),
		LogoURL:        r.PostFormValue("logo_url"),
		FooterText:     htmlsanitize.Sanitize(r.PostFormValue("footer_text")),
	}.WithDefaults()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Theme.Save(ctx, t); err != nil {
		h.ErrLog.LogServerError(w, r, "save theme failed", err, "A database error occurred.", "/admin/theme")
		return
	}
	h.renderTheme(w, r, true)
}
