// Package planstore persists named meal plans.
package planstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// Memory keeps plans in process memory
type Memory struct {
	mu     sync.RWMutex
	plans  map[string]*domain.MealPlan // key: plan id
	byUser map[string][]string         // key: user id -> plan ids in insertion order
}

// NewMemory creates an empty in-memory plan store
func NewMemory() *Memory {
	return &Memory{
		plans:  make(map[string]*domain.MealPlan),
		byUser: make(map[string][]string),
	}
}

func (s *Memory) Create(ctx context.Context, plan *domain.MealPlan) error {
	if plan == nil || plan.ID == "" {
		return fmt.Errorf("plan id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plans[plan.ID]; exists {
		return fmt.Errorf("plan %s already exists", plan.ID)
	}
	s.plans[plan.ID] = clonePlan(plan)
	s.byUser[plan.UserID] = append(s.byUser[plan.UserID], plan.ID)
	return nil
}

func (s *Memory) List(ctx context.Context, userID string) ([]domain.MealPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	plans := make([]domain.MealPlan, 0, len(ids))
	for _, id := range ids {
		if plan, ok := s.plans[id]; ok {
			plans = append(plans, *clonePlan(plan))
		}
	}
	return plans, nil
}

func (s *Memory) Get(ctx context.Context, userID, id string) (*domain.MealPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok || plan.UserID != userID {
		return nil, domain.ErrPlanNotFound
	}
	return clonePlan(plan), nil
}

func (s *Memory) Update(ctx context.Context, userID, id string, update domain.PlanUpdate, updatedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[id]
	if !ok || plan.UserID != userID {
		return false, nil
	}

	if update.Name != nil {
		plan.Name = *update.Name
	}
	if update.Description != nil {
		plan.Description = *update.Description
	}
	plan.UpdatedAt = updatedAt
	return true, nil
}

func (s *Memory) Delete(ctx context.Context, userID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[id]
	if !ok || plan.UserID != userID {
		return false, nil
	}

	delete(s.plans, id)
	ids := s.byUser[userID]
	for i, planID := range ids {
		if planID == id {
			s.byUser[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return true, nil
}

// clonePlan copies the plan and its slot slices; recipes are shared read-only
func clonePlan(plan *domain.MealPlan) *domain.MealPlan {
	out := *plan
	out.Days = make([]domain.MealPlanDay, len(plan.Days))
	for i, day := range plan.Days {
		out.Days[i] = domain.MealPlanDay{
			Date: day.Date,
			Meals: domain.DaySlots{
				Breakfast: append(domain.Slot(nil), day.Meals.Breakfast...),
				Lunch:     append(domain.Slot(nil), day.Meals.Lunch...),
				Dinner:    append(domain.Slot(nil), day.Meals.Dinner...),
				Snacks:    append(domain.SnackSlot(nil), day.Meals.Snacks...),
			},
		}
	}
	return &out
}
