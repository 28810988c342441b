package planstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// Postgres stores plans in the meal_plans table with days as JSONB
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps a connected pool
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Create(ctx context.Context, plan *domain.MealPlan) error {
	days, err := json.Marshal(plan.Days)
	if err != nil {
		return fmt.Errorf("encode days: %w", err)
	}

	const query = `
		INSERT INTO meal_plans (id, user_id, name, description, days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.pool.Exec(ctx, query,
		plan.ID,
		plan.UserID,
		plan.Name,
		plan.Description,
		days,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	return err
}

func (s *Postgres) List(ctx context.Context, userID string) ([]domain.MealPlan, error) {
	const query = `
		SELECT id::text, user_id, name, description, days, created_at, updated_at
		FROM meal_plans
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []domain.MealPlan{}
	for rows.Next() {
		plan, err := scanPgPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

func (s *Postgres) Get(ctx context.Context, userID, id string) (*domain.MealPlan, error) {
	const query = `
		SELECT id::text, user_id, name, description, days, created_at, updated_at
		FROM meal_plans
		WHERE id::text = $1 AND user_id = $2
	`
	plan, err := scanPgPlan(s.pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlanNotFound
	}
	return plan, err
}

func (s *Postgres) Update(ctx context.Context, userID, id string, update domain.PlanUpdate, updatedAt time.Time) (bool, error) {
	const query = `
		UPDATE meal_plans
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    updated_at = $3
		WHERE id::text = $4 AND user_id = $5
	`
	tag, err := s.pool.Exec(ctx, query, update.Name, update.Description, updatedAt, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Postgres) Delete(ctx context.Context, userID, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM meal_plans WHERE id::text = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanPgPlan(row pgx.Row) (*domain.MealPlan, error) {
	var (
		plan domain.MealPlan
		days []byte
	)
	if err := row.Scan(&plan.ID, &plan.UserID, &plan.Name, &plan.Description, &days, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(days, &plan.Days); err != nil {
		return nil, fmt.Errorf("decode days of plan %s: %w", plan.ID, err)
	}
	return &plan, nil
}
