// Package store defines the persistence contract the portal's business
// logic is written against. Two backends implement it: mongostore for
// multi-client deployments and sqlitestore for single-box installs. The
// backend is chosen once at startup (see bootstrap.ConnectDB); nothing
// above this package knows which one is running.
package store

import (
	"context"
	"errors"

	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
)

var (
	// ErrNotFound is returned when a lookup by id matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned when creating a user whose username
	// already exists (case-insensitive).
	ErrDuplicateUsername = errors.New("a user with this username already exists")
)

// UserStore persists portal accounts and their report grants.
type UserStore interface {
	// GetByID loads a user by id. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByUsername loads a user by case-insensitive username.
	// Returns ErrNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// List returns all users in registration order.
	List(ctx context.Context) ([]models.User, error)
	// Create inserts a new user after normalizing the username.
	// Returns ErrDuplicateUsername on a case-insensitive collision.
	Create(ctx context.Context, u models.User) (models.User, error)
	// SetStatus overwrites the user's status. ErrNotFound if absent.
	SetStatus(ctx context.Context, id, status string) error
	// SetGrant adds (grant=true) or removes (grant=false) reportID in the
	// user's grant set. Both directions are idempotent. ErrNotFound if the
	// user is absent.
	SetGrant(ctx context.Context, id, reportID string, grant bool) error
	// Delete removes the user. ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}

// ReportStore persists published reports.
type ReportStore interface {
	// GetByID loads a report by id. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*models.Report, error)
	// List returns all reports in publish order.
	List(ctx context.Context) ([]models.Report, error)
	// Create inserts a new report.
	Create(ctx context.Context, r models.Report) (models.Report, error)
	// SetVisibility overwrites the publish flag. No-op if the report does
	// not exist.
	SetVisibility(ctx context.Context, id string, visible bool) error
	// Delete removes the report and prunes its id from every user's grant
	// set. The cascade is a single logical operation: callers never observe
	// the report gone while grants still point at it within one backend
	// connection. No-op if the report does not exist.
	Delete(ctx context.Context, id string) error
}

// ThemeStore persists the singleton branding record.
type ThemeStore interface {
	// Get returns the saved theme, or the defaults when none was saved.
	Get(ctx context.Context) (models.ThemeSettings, error)
	// Save overwrites the theme record.
	Save(ctx context.Context, t models.ThemeSettings) error
}

// Store bundles the collection stores of one backend.
type Store interface {
	Users() UserStore
	Reports() ReportStore
	Theme() ThemeStore

	// EnsureSchema creates indexes/tables as needed. Idempotent.
	EnsureSchema(ctx context.Context) error
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend connection.
	Close(ctx context.Context) error
}
