// internal/app/system/access/access_test.go
package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/access"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/edsonjmoreira/bi-portal/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newEngine(t *testing.T) (*access.Engine, store.Store) {
	t.Helper()
	st := testutil.SetupTestStore(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin secret: %v", err)
	}
	return access.New(st.Users(), string(hash), zap.NewNop()), st
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	eng, st := newEngine(t)
	ctx := context.Background()

	u, err := eng.Register(ctx, "  Maria ", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Status != models.StatusPending {
		t.Errorf("status = %s, want PENDING", u.Status)
	}
	if u.Username != "Maria" {
		t.Errorf("username = %q, want trimmed original casing", u.Username)
	}
	if u.PasswordHash == "hunter2" || u.PasswordHash == "" {
		t.Error("password stored without hashing")
	}

	stored, err := st.Users().GetByUsername(ctx, "maria")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2")) != nil {
		t.Error("stored hash does not verify against the password")
	}
}

func TestRegisterEmptyCredentials(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	cases := []struct{ username, password string }{
		{"", "pw"},
		{"   ", "pw"},
		{"maria", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := eng.Register(ctx, tc.username, tc.password); !errors.Is(err, access.ErrEmptyCredentials) {
			t.Errorf("Register(%q, %q) err = %v, want ErrEmptyCredentials", tc.username, tc.password, err)
		}
	}
}

func TestRegisterDuplicateCaseInsensitive(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.Register(ctx, "Carlos", "pw"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := eng.Register(ctx, "cARLOs", "pw"); !errors.Is(err, access.ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestAuthenticateStatusGating(t *testing.T) {
	eng, st := newEngine(t)
	ctx := context.Background()
	fx := testutil.NewFixtures(t, st)

	fx.CreateUser(ctx, "pending", "pw", models.StatusPending)
	fx.CreateUser(ctx, "approved", "pw", models.StatusApproved)
	fx.CreateUser(ctx, "suspended", "pw", models.StatusSuspended)

	if _, err := eng.Authenticate(ctx, "pending", "pw"); !errors.Is(err, access.ErrAccountPending) {
		t.Errorf("pending err = %v, want ErrAccountPending", err)
	}
	if _, err := eng.Authenticate(ctx, "suspended", "pw"); !errors.Is(err, access.ErrAccountSuspended) {
		t.Errorf("suspended err = %v, want ErrAccountSuspended", err)
	}

	u, err := eng.Authenticate(ctx, "approved", "pw")
	if err != nil {
		t.Fatalf("approved: %v", err)
	}
	if u.Username != "approved" {
		t.Errorf("authenticated user = %s", u.Username)
	}

	// Username matching is case-insensitive.
	if _, err := eng.Authenticate(ctx, "APPROVED", "pw"); err != nil {
		t.Errorf("case-insensitive login: %v", err)
	}
}

func TestAuthenticateBadCredentials(t *testing.T) {
	eng, st := newEngine(t)
	ctx := context.Background()
	testutil.NewFixtures(t, st).CreateUser(ctx, "ana", "right", models.StatusApproved)

	// Wrong password and unknown user are indistinguishable.
	if _, err := eng.Authenticate(ctx, "ana", "wrong"); !errors.Is(err, access.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := eng.Authenticate(ctx, "nobody", "right"); !errors.Is(err, access.ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestVerifyAdminSecret(t *testing.T) {
	eng, _ := newEngine(t)

	if !eng.VerifyAdminSecret("admin-secret") {
		t.Error("correct secret rejected")
	}
	if eng.VerifyAdminSecret("wrong") {
		t.Error("wrong secret accepted")
	}
	if eng.VerifyAdminSecret("") {
		t.Error("empty secret accepted")
	}
}

func TestSetUserStatus(t *testing.T) {
	eng, st := newEngine(t)
	ctx := context.Background()
	u := testutil.NewFixtures(t, st).CreateUser(ctx, "ana", "pw", models.StatusPending)

	// Every transition is allowed, including back to PENDING.
	for _, status := range []string{models.StatusApproved, models.StatusSuspended, models.StatusPending} {
		if err := eng.SetUserStatus(ctx, u.ID, status); err != nil {
			t.Fatalf("set status %s: %v", status, err)
		}
		got, _ := st.Users().GetByID(ctx, u.ID)
		if got.Status != status {
			t.Errorf("status = %s, want %s", got.Status, status)
		}
	}

	if err := eng.SetUserStatus(ctx, u.ID, "BANNED"); !errors.Is(err, access.ErrBadStatus) {
		t.Errorf("bad status err = %v, want ErrBadStatus", err)
	}
	if err := eng.SetUserStatus(ctx, "nope", models.StatusApproved); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestDeleteUser(t *testing.T) {
	eng, st := newEngine(t)
	ctx := context.Background()
	u := testutil.NewFixtures(t, st).CreateUser(ctx, "ana", "pw", models.StatusApproved)

	if err := eng.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Users().GetByID(ctx, u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("user still present after delete: %v", err)
	}
}
