// Package reportreg owns the report registry: publishing embed input as a
// canonical report URL, toggling global visibility, and deleting a report
// together with every grant that references it.
package reportreg

import (
	"context"
	"errors"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"go.uber.org/zap"
)

// ErrEmptyTitle is returned when publishing with a blank title.
var ErrEmptyTitle = errors.New("report title is required")

// Registry owns report state. Grant changes go through the user store so
// both backends keep the set semantics in one place.
type Registry struct {
	reports store.ReportStore
	users   store.UserStore
	log     *zap.Logger
}

func New(reports store.ReportStore, users store.UserStore, logger *zap.Logger) *Registry {
	return &Registry{
		reports: reports,
		users:   users,
		log:     logger,
	}
}

// Publish parses rawInput (an <iframe> embed snippet or a bare link) into
// a canonical URL and creates a visible report. A parse failure creates
// nothing.
func (g *Registry) Publish(ctx context.Context, title, rawInput string) (models.Report, error) {
	if isBlank(title) {
		return models.Report{}, ErrEmptyTitle
	}
	src, err := ParseEmbedInput(rawInput)
	if err != nil {
		return models.Report{}, err
	}

	r, err := g.reports.Create(ctx, models.Report{
		Title:     title,
		Src:       src,
		IsVisible: true,
	})
	if err != nil {
		return models.Report{}, err
	}

	g.log.Info("report published", zap.String("report_id", r.ID), zap.String("src", r.Src))
	return r, nil
}

// SetVisibility overwrites the publish flag. No-op for unknown ids.
func (g *Registry) SetVisibility(ctx context.Context, id string, visible bool) error {
	return g.reports.SetVisibility(ctx, id, visible)
}

// Delete removes a report. The store prunes the id from every user's
// grant set as part of the same operation, so no grant dangles afterwards.
func (g *Registry) Delete(ctx context.Context, id string) error {
	if err := g.reports.Delete(ctx, id); err != nil {
		return err
	}
	g.log.Info("report deleted", zap.String("report_id", id))
	return nil
}

// SetGrant grants (or revokes) one user's access to one report.
// Idempotent in both directions.
func (g *Registry) SetGrant(ctx context.Context, userID, reportID string, grant bool) error {
	return g.users.SetGrant(ctx, userID, reportID, grant)
}
