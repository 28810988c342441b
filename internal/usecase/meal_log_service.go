package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// MaxStreakDays caps how far back Streak looks
const MaxStreakDays = 365

// MealLogService records eaten meals per user and date in the key-value store
type MealLogService struct {
	mu         sync.Mutex
	store      domain.KeyValueStore
	aggregator *NutritionAggregator
	now        func() time.Time
	newID      func() string
}

// NewMealLogService creates a new meal log service
func NewMealLogService(store domain.KeyValueStore, aggregator *NutritionAggregator) *MealLogService {
	if aggregator == nil {
		aggregator = NewNutritionAggregator(NutritionAggregatorConfig{})
	}
	return &MealLogService{
		store:      store,
		aggregator: aggregator,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

func mealLogKey(userID, date string) string {
	return domain.UserKey(userID, domain.MealLogKeyPrefix+date)
}

func parseLogDate(date string) error {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return fmt.Errorf("%w: invalid date %q", domain.ErrInvalidRequest, date)
	}
	return nil
}

// LogMeal appends a recipe to the date's log
func (s *MealLogService) LogMeal(ctx context.Context, userID, date string, slot domain.SlotKind, recipe domain.Recipe) (domain.MealLogEntry, error) {
	if err := parseLogDate(date); err != nil {
		return domain.MealLogEntry{}, err
	}
	kind, err := domain.ParseSlotKind(string(slot))
	if err != nil {
		return domain.MealLogEntry{}, err
	}
	if recipe.Name == "" {
		return domain.MealLogEntry{}, fmt.Errorf("%w: recipe name is required", domain.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.Day(ctx, userID, date)
	if err != nil {
		return domain.MealLogEntry{}, err
	}

	entry := domain.MealLogEntry{
		ID:       s.newID(),
		Date:     date,
		Slot:     kind,
		Recipe:   recipe,
		LoggedAt: s.now(),
	}
	entries = append(entries, entry)

	if err := storeJSON(ctx, s.store, mealLogKey(userID, date), entries, 0); err != nil {
		return domain.MealLogEntry{}, err
	}
	return entry, nil
}

// Day returns the entries logged on date in logging order
func (s *MealLogService) Day(ctx context.Context, userID, date string) ([]domain.MealLogEntry, error) {
	if err := parseLogDate(date); err != nil {
		return nil, err
	}

	entries := []domain.MealLogEntry{}
	if _, err := loadJSON(ctx, s.store, mealLogKey(userID, date), &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.MealLogEntry{}
	}
	return entries, nil
}

// RemoveEntry deletes one logged meal
func (s *MealLogService) RemoveEntry(ctx context.Context, userID, date, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.Day(ctx, userID, date)
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].ID != entryID {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		if len(entries) == 0 {
			if err := s.store.Delete(ctx, mealLogKey(userID, date)); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
			}
			return nil
		}
		return storeJSON(ctx, s.store, mealLogKey(userID, date), entries, 0)
	}
	return fmt.Errorf("%w: %s", domain.ErrMealLogEntryNotFound, entryID)
}

// Summary aggregates the logged meals of a date against goals
func (s *MealLogService) Summary(ctx context.Context, userID, date string, goals domain.NutritionGoals) (DaySummary, error) {
	entries, err := s.Day(ctx, userID, date)
	if err != nil {
		return DaySummary{}, err
	}
	return s.aggregator.SummarizeDay(slotsFromEntries(entries), goals), nil
}

// Streak counts consecutive days ending at asOf that have at least one logged meal
func (s *MealLogService) Streak(ctx context.Context, userID string, asOf time.Time) (int, error) {
	streak := 0
	for i := 0; i < MaxStreakDays; i++ {
		date := asOf.AddDate(0, 0, -i).Format(domain.DateLayout)
		entries, err := s.Day(ctx, userID, date)
		if err != nil {
			return 0, err
		}
		if len(entries) == 0 {
			break
		}
		streak++
	}
	return streak, nil
}

func slotsFromEntries(entries []domain.MealLogEntry) domain.DaySlots {
	var slots domain.DaySlots
	for i := range entries {
		recipe := entries[i].Recipe
		switch entries[i].Slot {
		case domain.SlotBreakfast:
			slots.Breakfast = append(slots.Breakfast, &recipe)
		case domain.SlotLunch:
			slots.Lunch = append(slots.Lunch, &recipe)
		case domain.SlotDinner:
			slots.Dinner = append(slots.Dinner, &recipe)
		default:
			slots.Snacks = append(slots.Snacks, &recipe)
		}
	}
	return slots
}
