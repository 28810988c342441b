package usecase

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// DefaultSnackCapacity is the number of snack positions per day
const DefaultSnackCapacity = 2

// DaysPerWeek is the length of a generated plan
const DaysPerWeek = 7

// RandomSource picks a uniform index in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// lockedSource serializes access to a *rand.Rand, which is not safe for concurrent use
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// NewRandomSource returns a time-seeded source safe for concurrent use
func NewRandomSource() RandomSource {
	return &lockedSource{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// PlanRegeneratorConfig holds configuration for the plan regenerator
type PlanRegeneratorConfig struct {
	SnackCapacity int
	// Delay simulates generation latency before results are returned
	Delay time.Duration
}

// PlanRegenerator refills unlocked slots of a day with random catalog recipes
type PlanRegenerator struct {
	catalog       domain.RecipeCatalog
	random        RandomSource
	snackCapacity int
	delay         time.Duration
}

// NewPlanRegenerator creates a regenerator. A nil random source gets a time-seeded one.
func NewPlanRegenerator(
	catalog domain.RecipeCatalog,
	random RandomSource,
	config PlanRegeneratorConfig,
) *PlanRegenerator {
	if random == nil {
		random = NewRandomSource()
	}

	snackCapacity := config.SnackCapacity
	if snackCapacity <= 0 {
		snackCapacity = DefaultSnackCapacity
	}

	return &PlanRegenerator{
		catalog:       catalog,
		random:        random,
		snackCapacity: snackCapacity,
		delay:         config.Delay,
	}
}

// SnackCapacity returns the configured number of snack positions
func (g *PlanRegenerator) SnackCapacity() int {
	return g.snackCapacity
}

// RegenerateDay returns a new day in which every locked position keeps its
// occupant and every unlocked position holds a fresh random draw from the
// catalog, or is left unfilled when the category has no recipes.
// The input day and locks are not modified. Catalog failures are logged and
// treated as empty categories; the only error is ctx cancellation during the
// configured delay.
func (g *PlanRegenerator) RegenerateDay(
	ctx context.Context,
	current domain.MealPlanDay,
	locks domain.LockMap,
	dayIndex int,
) (domain.MealPlanDay, error) {
	pools := make(map[string][]domain.Recipe)

	next := domain.MealPlanDay{Date: current.Date}
	next.Meals.Breakfast = g.fillSlot(ctx, pools, current.Meals.Breakfast, locks, dayIndex, domain.SlotBreakfast)
	next.Meals.Lunch = g.fillSlot(ctx, pools, current.Meals.Lunch, locks, dayIndex, domain.SlotLunch)
	next.Meals.Dinner = g.fillSlot(ctx, pools, current.Meals.Dinner, locks, dayIndex, domain.SlotDinner)
	next.Meals.Snacks = g.fillSnacks(ctx, pools, current.Meals.Snacks, locks, dayIndex)

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.MealPlanDay{}, ctx.Err()
		case <-timer.C:
		}
	}

	return next, nil
}

// GenerateWeek builds seven consecutive days starting at start, each filled
// from an empty day with nothing locked
func (g *PlanRegenerator) GenerateWeek(ctx context.Context, start time.Time) ([]domain.MealPlanDay, error) {
	days := make([]domain.MealPlanDay, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		empty := domain.MealPlanDay{Date: start.AddDate(0, 0, i).Format(domain.DateLayout)}
		day, err := g.RegenerateDay(ctx, empty, nil, i)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

func (g *PlanRegenerator) fillSlot(
	ctx context.Context,
	pools map[string][]domain.Recipe,
	current domain.Slot,
	locks domain.LockMap,
	dayIndex int,
	kind domain.SlotKind,
) domain.Slot {
	if locks.IsLocked(dayIndex, kind, 0) {
		if current == nil {
			return nil
		}
		kept := make(domain.Slot, len(current))
		copy(kept, current)
		return kept
	}

	if pick := g.draw(ctx, pools, kind.RecipeType()); pick != nil {
		return domain.Slot{pick}
	}
	return nil
}

func (g *PlanRegenerator) fillSnacks(
	ctx context.Context,
	pools map[string][]domain.Recipe,
	current domain.SnackSlot,
	locks domain.LockMap,
	dayIndex int,
) domain.SnackSlot {
	snacks := make(domain.SnackSlot, g.snackCapacity)
	for pos := range snacks {
		if locks.IsLocked(dayIndex, domain.SlotSnacks, pos) {
			if pos < len(current) {
				snacks[pos] = current[pos]
			}
			continue
		}
		snacks[pos] = g.draw(ctx, pools, domain.RecipeTypeSnack)
	}
	return snacks
}

// draw picks a uniform random recipe of the given type, or nil when none exist
func (g *PlanRegenerator) draw(ctx context.Context, pools map[string][]domain.Recipe, recipeType string) *domain.Recipe {
	pool, ok := pools[recipeType]
	if !ok {
		var err error
		pool, err = g.catalog.GetRecipesByType(ctx, recipeType)
		if err != nil {
			log.Printf("[Planner] Catalog lookup failed for type %q: %v", recipeType, err)
			pool = nil
		}
		pools[recipeType] = pool
	}

	if len(pool) == 0 {
		return nil
	}

	pick := pool[g.random.Intn(len(pool))]
	return &pick
}
