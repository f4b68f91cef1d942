// internal/app/store/mongostore/theme.go
package mongostore

import (
	"context"

	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// themeDocID is the fixed _id of the singleton branding record.
const themeDocID = "theme"

// Theme provides access to the theme collection (a single record).
type Theme struct {
	c *mongo.Collection
}

// Get returns the saved theme, or the defaults when none was saved yet.
func (s *Theme) Get(ctx context.Context) (models.ThemeSettings, error) {
	var t models.ThemeSettings
	err := s.c.FindOne(ctx, bson.M{"_id": themeDocID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.DefaultTheme(), nil
	}
	if err != nil {
		return models.ThemeSettings{}, err
	}
	return t.WithDefaults(), nil
}

// Save upserts the theme record.
func (s *Theme) Save(ctx context.Context, t models.ThemeSettings) error {
	update := bson.M{"$set": bson.M{
		"primary_color":   t.PrimaryColor,
		"secondary_color": t.SecondaryColor,
		"header_title":    t.HeaderTitle,
		"header_subtitle": t.HeaderSubtitle,
		"logo_url":        t.LogoURL,
		"footer_text":     t.FooterText,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": themeDocID}, update, opts)
	return err
}
