// internal/app/store/sqlitestore/theme.go
package sqlitestore

import (
	"context"
	"database/sql"

	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
)

// Theme persists the singleton branding row (id is always 1).
type Theme struct {
	db *sql.DB
}

// Get returns the saved theme, or the defaults when none was saved yet.
func (s *Theme) Get(ctx context.Context) (models.ThemeSettings, error) {
	var t models.ThemeSettings
	err := s.db.QueryRowContext(ctx,
		"SELECT primary_color, secondary_color, header_title, header_subtitle, logo_url, footer_text FROM theme WHERE id = 1").
		Scan(&t.PrimaryColor, &t.SecondaryColor, &t.HeaderTitle, &t.HeaderSubtitle, &t.LogoURL, &t.FooterText)
	if err == sql.ErrNoRows {
		return models.DefaultTheme(), nil
	}
	if err != nil {
		return models.ThemeSettings{}, err
	}
	return t.WithDefaults(), nil
}

// Save upserts the theme row.
func (s *Theme) Save(ctx context.Context, t models.ThemeSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO theme (id, primary_color, secondary_color, header_title, header_subtitle, logo_url, footer_text)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			primary_color   = excluded.primary_color,
			secondary_color = excluded.secondary_color,
			header_title    = excluded.header_title,
			header_subtitle = excluded.header_subtitle,
			logo_url        = excluded.logo_url,
			footer_text     = excluded.footer_text`,
		t.PrimaryColor, t.SecondaryColor, t.HeaderTitle, t.HeaderSubtitle, t.LogoURL, t.FooterText)
	return err
}
