// Package access implements account authentication, self-registration, and
// the administrative account operations. All failures are sentinel errors
// meant to surface as form messages; none of them is fatal.
package access

import (
	"context"
	"errors"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/normalize"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when no account matches the
	// username/password pair. Deliberately silent about which half failed.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrAccountPending is returned for correct credentials on an account
	// still awaiting administrator approval.
	ErrAccountPending = errors.New("your account is still pending approval")
	// ErrAccountSuspended is returned for correct credentials on a
	// suspended account.
	ErrAccountSuspended = errors.New("your account has been suspended")
	// ErrUsernameTaken is returned when registering a username that
	// already exists, compared case-insensitively.
	ErrUsernameTaken = errors.New("this username is already taken")
	// ErrEmptyCredentials is returned when registering with a blank
	// username or password.
	ErrEmptyCredentials = errors.New("username and password are required")
	// ErrBadStatus is returned for a status value outside the known set.
	ErrBadStatus = errors.New(`status must be "PENDING"|"APPROVED"|"SUSPENDED"`)
)

// Engine owns account state transitions. The admin secret is injected as a
// bcrypt hash at startup; it is never read from source or stored alongside
// user records.
type Engine struct {
	users           store.UserStore
	adminSecretHash []byte
	log             *zap.Logger
}

func New(users store.UserStore, adminSecretHash string, logger *zap.Logger) *Engine {
	return &Engine{
		users:           users,
		adminSecretHash: []byte(adminSecretHash),
		log:             logger,
	}
}

// Authenticate verifies a username/password pair and gates on account
// status. Only APPROVED accounts may sign in; pending and suspended
// accounts get distinct errors so the page can say which state blocks
// them. It never mutates the store.
func (e *Engine) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := e.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	switch u.Status {
	case models.StatusApproved:
		return u, nil
	case models.StatusSuspended:
		return nil, ErrAccountSuspended
	default:
		return nil, ErrAccountPending
	}
}

// Register creates a PENDING account. It does not sign the user in:
// pending accounts cannot authenticate until approved.
func (e *Engine) Register(ctx context.Context, username, password string) (models.User, error) {
	username = normalize.Username(username)
	if username == "" || password == "" {
		return models.User{}, ErrEmptyCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	u, err := e.users.Create(ctx, models.User{
		Username:     username,
		PasswordHash: string(hash),
		Status:       models.StatusPending,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}

	e.log.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// VerifyAdminSecret checks a candidate admin password against the
// configured hash. bcrypt comparison is constant time for equal-cost
// hashes, so a wrong guess leaks nothing about the secret.
func (e *Engine) VerifyAdminSecret(password string) bool {
	return bcrypt.CompareHashAndPassword(e.adminSecretHash, []byte(password)) == nil
}

// SetUserStatus overwrites an account's status. Any status is reachable
// from any other, including a no-op overwrite.
func (e *Engine) SetUserStatus(ctx context.Context, id, status string) error {
	if !models.ValidStatus(status) {
		return ErrBadStatus
	}
	if err := e.users.SetStatus(ctx, id, status); err != nil {
		return err
	}
	e.log.Info("user status changed", zap.String("user_id", id), zap.String("status", status))
	return nil
}

// DeleteUser removes an account entirely. Confirmation is the caller's
// concern; the engine deletes unconditionally.
func (e *Engine) DeleteUser(ctx context.Context, id string) error {
	if err := e.users.Delete(ctx, id); err != nil {
		return err
	}
	e.log.Info("user deleted", zap.String("user_id", id))
	return nil
}
