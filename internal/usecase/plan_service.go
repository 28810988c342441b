package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// MaxPlanNameLength bounds plan names in runes
const MaxPlanNameLength = 120

// PlanService validates and persists named meal plans
type PlanService struct {
	repo  domain.PlanRepository
	now   func() time.Time
	newID func() string
}

// NewPlanService creates a new plan service
func NewPlanService(repo domain.PlanRepository) *PlanService {
	return &PlanService{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// SavePlan stores a new plan and returns its id. Days are stored sorted by date.
func (s *PlanService) SavePlan(ctx context.Context, userID, name string, days []domain.MealPlanDay, description string) (string, error) {
	name, err := validatePlanName(name)
	if err != nil {
		return "", err
	}

	sorted, err := normalizePlanDays(days)
	if err != nil {
		return "", err
	}

	now := s.now()
	plan := &domain.MealPlan{
		ID:          s.newID(),
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Days:        sorted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		return "", fmt.Errorf("%w: save plan: %v", domain.ErrStorageFailure, err)
	}
	return plan.ID, nil
}

// LoadPlans returns the user's plans, newest first
func (s *PlanService) LoadPlans(ctx context.Context, userID string) ([]domain.MealPlan, error) {
	plans, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load plans: %v", domain.ErrStorageFailure, err)
	}
	if plans == nil {
		plans = []domain.MealPlan{}
	}

	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

// GetPlan returns one plan or domain.ErrPlanNotFound
func (s *PlanService) GetPlan(ctx context.Context, userID, id string) (*domain.MealPlan, error) {
	plan, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get plan: %v", domain.ErrStorageFailure, err)
	}
	return plan, nil
}

// UpdatePlan changes the name and/or description. It reports false when the plan does not exist.
func (s *PlanService) UpdatePlan(ctx context.Context, userID, id string, update domain.PlanUpdate) (bool, error) {
	if update.Empty() {
		return false, fmt.Errorf("%w: nothing to update", domain.ErrInvalidRequest)
	}

	if update.Name != nil {
		name, err := validatePlanName(*update.Name)
		if err != nil {
			return false, err
		}
		update.Name = &name
	}
	if update.Description != nil {
		desc := strings.TrimSpace(*update.Description)
		update.Description = &desc
	}

	ok, err := s.repo.Update(ctx, userID, id, update, s.now())
	if err != nil {
		return false, fmt.Errorf("%w: update plan: %v", domain.ErrStorageFailure, err)
	}
	return ok, nil
}

// DeletePlan removes a plan and reports whether it existed
func (s *PlanService) DeletePlan(ctx context.Context, userID, id string) (bool, error) {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return false, fmt.Errorf("%w: delete plan: %v", domain.ErrStorageFailure, err)
	}
	return ok, nil
}

func validatePlanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: plan name is required", domain.ErrInvalidRequest)
	}
	if utf8.RuneCountInString(name) > MaxPlanNameLength {
		return "", fmt.Errorf("%w: plan name exceeds %d characters", domain.ErrInvalidRequest, MaxPlanNameLength)
	}
	return name, nil
}

// normalizePlanDays checks dates are valid and unique and returns a date-sorted copy
func normalizePlanDays(days []domain.MealPlanDay) ([]domain.MealPlanDay, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: a plan needs at least one day", domain.ErrInvalidRequest)
	}
	if len(days) > DaysPerWeek {
		return nil, fmt.Errorf("%w: a plan holds at most %d days", domain.ErrInvalidRequest, DaysPerWeek)
	}

	seen := make(map[string]bool, len(days))
	for _, day := range days {
		if _, err := time.Parse(domain.DateLayout, day.Date); err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidRequest, day.Date)
		}
		if seen[day.Date] {
			return nil, fmt.Errorf("%w: duplicate date %s", domain.ErrInvalidRequest, day.Date)
		}
		seen[day.Date] = true
	}

	sorted := make([]domain.MealPlanDay, len(days))
	copy(sorted, days)
	// ISO dates sort lexically
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	return sorted, nil
}
