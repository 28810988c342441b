package planstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// SQL stores plans in the meal_plans table of a SQLite database.
// Days are kept as a JSON document.
type SQL struct {
	db *sql.DB
}

// NewSQL wraps an opened and migrated SQLite database
func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Create(ctx context.Context, plan *domain.MealPlan) error {
	days, err := json.Marshal(plan.Days)
	if err != nil {
		return fmt.Errorf("encode days: %w", err)
	}

	const query = `
		INSERT INTO meal_plans (id, user_id, name, description, days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		plan.ID,
		plan.UserID,
		plan.Name,
		plan.Description,
		string(days),
		formatTime(plan.CreatedAt),
		formatTime(plan.UpdatedAt),
	)
	return err
}

func (s *SQL) List(ctx context.Context, userID string) ([]domain.MealPlan, error) {
	const query = `
		SELECT id, user_id, name, description, days, created_at, updated_at
		FROM meal_plans
		WHERE user_id = ?
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []domain.MealPlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

func (s *SQL) Get(ctx context.Context, userID, id string) (*domain.MealPlan, error) {
	const query = `
		SELECT id, user_id, name, description, days, created_at, updated_at
		FROM meal_plans
		WHERE id = ? AND user_id = ?
	`
	plan, err := scanPlan(s.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlanNotFound
	}
	return plan, err
}

func (s *SQL) Update(ctx context.Context, userID, id string, update domain.PlanUpdate, updatedAt time.Time) (bool, error) {
	const query = `
		UPDATE meal_plans
		SET name = COALESCE(?, name),
		    description = COALESCE(?, description),
		    updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		nullString(update.Name),
		nullString(update.Description),
		formatTime(updatedAt),
		id,
		userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *SQL) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meal_plans WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*domain.MealPlan, error) {
	var (
		plan                 domain.MealPlan
		days                 string
		createdAt, updatedAt string
	)
	if err := row.Scan(&plan.ID, &plan.UserID, &plan.Name, &plan.Description, &days, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(days), &plan.Days); err != nil {
		return nil, fmt.Errorf("decode days of plan %s: %w", plan.ID, err)
	}

	var err error
	if plan.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if plan.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &plan, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
