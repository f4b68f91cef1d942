// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	st store.Store
	t  *testing.T
}

// NewFixtures creates a Fixtures instance over the given store.
func NewFixtures(t *testing.T, st store.Store) *Fixtures {
	t.Helper()
	return &Fixtures{st: st, t: t}
}

// Store returns the underlying store for direct access in tests.
func (f *Fixtures) Store() store.Store { return f.st }

// CreateUser creates a user with the given username, password, and status.
// The password is bcrypt-hashed the way registration does it.
func (f *Fixtures) CreateUser(ctx context.Context, username, password, status string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash test password: %v", err)
	}
	u, err := f.st.Users().Create(ctx, models.User{
		Username:     username,
		PasswordHash: string(hash),
		Status:       status,
	})
	if err != nil {
		f.t.Fatalf("create test user: %v", err)
	}
	return u
}

// CreateReport creates a report with the given title and source URL.
func (f *Fixtures) CreateReport(ctx context.Context, title, src string, visible bool) models.Report {
	f.t.Helper()

	r, err := f.st.Reports().Create(ctx, models.Report{
		Title:     title,
		Src:       src,
		IsVisible: visible,
	})
	if err != nil {
		f.t.Fatalf("create test report: %v", err)
	}
	return r
}

// Grant adds reportID to the user's grant set.
func (f *Fixtures) Grant(ctx context.Context, userID, reportID string) {
	f.t.Helper()

	if err := f.st.Users().SetGrant(ctx, userID, reportID, true); err != nil {
		f.t.Fatalf("grant report: %v", err)
	}
}
