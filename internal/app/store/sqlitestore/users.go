// internal/app/store/sqlitestore/users.go
package sqlitestore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/app/system/normalize"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// Users persists accounts in the users table and their grants in
// user_grants.
type Users struct {
	db *sql.DB
}

const userColumns = "id, username, username_ci, password_hash, status, created_at, updated_at"

func (s *Users) scanUser(ctx context.Context, row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.UsernameCI, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadGrants(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Users) loadGrants(ctx context.Context, u *models.User) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT report_id FROM user_grants WHERE user_id = ? ORDER BY report_id", u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	u.VisibleReportIDs = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		u.VisibleReportIDs = append(u.VisibleReportIDs, id)
	}
	return rows.Err()
}

func (s *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return s.scanUser(ctx, row)
}

func (s *Users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username_ci = ?",
		normalize.UsernameCI(username))
	return s.scanUser(ctx, row)
}

// List returns every user in registration order.
func (s *Users) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.UsernameCI, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range users {
		if err := s.loadGrants(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Create inserts a new user after normalizing the username. The UNIQUE
// constraint on username_ci turns collisions into ErrDuplicateUsername.
func (s *Users) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Username = normalize.Username(u.Username)
	u.UsernameCI = normalize.UsernameCI(u.Username)
	if u.VisibleReportIDs == nil {
		u.VisibleReportIDs = []string{}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.Username, u.UsernameCI, u.PasswordHash, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, store.ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Users) SetStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireMatch(res)
}

// SetGrant adds or removes one grant. INSERT OR IGNORE and a keyed DELETE
// give the set semantics.
func (s *Users) SetGrant(ctx context.Context, id, reportID string, grant bool) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}

	if grant {
		_, err = s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO user_grants (user_id, report_id) VALUES (?, ?)",
			id, reportID)
	} else {
		_, err = s.db.ExecContext(ctx,
			"DELETE FROM user_grants WHERE user_id = ? AND report_id = ?",
			id, reportID)
	}
	return err
}

func (s *Users) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireMatch(res)
}

func requireMatch(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
