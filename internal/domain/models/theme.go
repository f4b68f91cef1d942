// internal/domain/models/theme.go
package models

// ThemeSettings holds the portal branding editable by administrators.
// A single record is stored; missing fields fall back to the defaults
// below at render time.
type ThemeSettings struct {
	PrimaryColor   string `bson:"primary_color" json:"primary_color"`
	SecondaryColor string `bson:"secondary_color" json:"secondary_color"`
	HeaderTitle    string `bson:"header_title" json:"header_title"`
	HeaderSubtitle string `bson:"header_subtitle" json:"header_subtitle"`
	LogoURL        string `bson:"logo_url" json:"logo_url"`
	FooterText     string `bson:"footer_text" json:"footer_text"`
}

// Default branding used when a field has never been saved.
const (
	DefaultPrimaryColor   = "#0b3d66"
	DefaultSecondaryColor = "#00a859"
	DefaultHeaderTitle    = "BI Portal"
	DefaultHeaderSubtitle = "Management Reports"
	DefaultFooterText     = "BI Report Portal"
)

// DefaultTheme returns the branding used before an administrator has saved
// any settings.
func DefaultTheme() ThemeSettings {
	return ThemeSettings{
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		HeaderTitle:    DefaultHeaderTitle,
		HeaderSubtitle: DefaultHeaderSubtitle,
		FooterText:     DefaultFooterText,
	}
}

// WithDefaults fills any unset field with its default so templates never
// see an empty color or title.
func (t ThemeSettings) WithDefaults() ThemeSettings {
	if t.PrimaryColor == "" {
		t.PrimaryColor = DefaultPrimaryColor
	}
	if t.SecondaryColor == "" {
		t.SecondaryColor = DefaultSecondaryColor
	}
	if t.HeaderTitle == "" {
		t.HeaderTitle = DefaultHeaderTitle
	}
	if t.HeaderSubtitle == "" {
		t.HeaderSubtitle = DefaultHeaderSubtitle
	}
	if t.FooterText == "" {
		t.FooterText = DefaultFooterText
	}
	return t
}

// HasLogo reports whether a logo URL has been configured.
func (t *ThemeSettings) HasLogo() bool {
	return t.LogoURL != ""
}
