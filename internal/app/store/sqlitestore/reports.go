// internal/app/store/sqlitestore/reports.go
package sqlitestore

import (
	"context"
	"database/sql"
	"time"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	"github.com/edsonjmoreira/bi-portal/internal/domain/models"
	"github.com/google/uuid"
)

// Reports persists published reports.
type Reports struct {
	db *sql.DB
}

const reportColumns = "id, title, src, is_visible, created_at, updated_at"

func (s *Reports) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var r models.Report
	err := s.db.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE id = ?", id).
		Scan(&r.ID, &r.Title, &r.Src, &r.IsVisible, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns every report in publish order.
func (s *Reports) List(ctx context.Context) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+reportColumns+" FROM reports ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.Title, &r.Src, &r.IsVisible, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *Reports) Create(ctx context.Context, r models.Report) (models.Report, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reports ("+reportColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		r.ID, r.Title, r.Src, r.IsVisible, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return models.Report{}, err
	}
	return r, nil
}

func (s *Reports) SetVisibility(ctx context.Context, id string, visible bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE reports SET is_visible = ?, updated_at = ? WHERE id = ?",
		visible, time.Now().UTC(), id)
	return err
}

// Delete removes the report and its grants in one transaction, so no
// reader ever sees the report gone while grants still reference it.
func (s *Reports) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_grants WHERE report_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
