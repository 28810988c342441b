package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

func testCatalog() *MockRecipeCatalog {
	return NewMockRecipeCatalog(
		recipe("oats", domain.RecipeTypeBreakfast, 300, 10, 50, 5),
		recipe("pancakes", domain.RecipeTypeBreakfast, 450, 8, 70, 12),
		recipe("salad", domain.RecipeTypeLunch, 400, 25, 20, 15),
		recipe("curry", domain.RecipeTypeDinner, 650, 35, 60, 25),
		recipe("apple", domain.RecipeTypeSnack, 95, 0, 25, 0),
		recipe("almonds", "Snack", 160, 6, 6, 14),
	)
}

func TestNewPlanRegenerator(t *testing.T) {
	g := NewPlanRegenerator(testCatalog(), nil, PlanRegeneratorConfig{})
	assert.NotNil(t, g.random)
	assert.Equal(t, DefaultSnackCapacity, g.SnackCapacity())

	g = NewPlanRegenerator(testCatalog(), nil, PlanRegeneratorConfig{SnackCapacity: 4})
	assert.Equal(t, 4, g.SnackCapacity())
}

func TestRegenerateDay_FillsUnlockedSlots(t *testing.T) {
	ctx := context.Background()
	g := NewPlanRegenerator(testCatalog(), &fixedSource{picks: []int{1, 0, 0, 0, 1}}, PlanRegeneratorConfig{})

	day, err := g.RegenerateDay(ctx, domain.MealPlanDay{Date: "2024-03-04"}, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", day.Date)
	require.Len(t, day.Meals.Breakfast, 1)
	assert.Equal(t, "pancakes", day.Meals.Breakfast[0].ID)
	require.Len(t, day.Meals.Lunch, 1)
	assert.Equal(t, "salad", day.Meals.Lunch[0].ID)
	require.Len(t, day.Meals.Dinner, 1)
	assert.Equal(t, "curry", day.Meals.Dinner[0].ID)
	require.Len(t, day.Meals.Snacks, 2)
	assert.Equal(t, "apple", day.Meals.Snacks[0].ID)
	// type match is case-insensitive
	assert.Equal(t, "almonds", day.Meals.Snacks[1].ID)
}

func TestRegenerateDay_LockedSlotsKeepOccupants(t *testing.T) {
	ctx := context.Background()
	g := NewPlanRegenerator(testCatalog(), &fixedSource{picks: []int{0}}, PlanRegeneratorConfig{})

	custom := recipe("grandmas-stew", domain.RecipeTypeCustom, 700, 40, 50, 30)
	current := domain.MealPlanDay{
		Date: "2024-03-05",
		Meals: domain.DaySlots{
			Breakfast: domain.Slot{ptr(recipe("pancakes", domain.RecipeTypeBreakfast, 450, 8, 70, 12))},
			Lunch:     domain.Slot{ptr(recipe("salad", domain.RecipeTypeLunch, 400, 25, 20, 15))},
			Dinner:    domain.Slot{&custom, ptr(recipe("bread", domain.RecipeTypeCustom, 200, 6, 40, 2))},
			Snacks:    domain.SnackSlot{nil, ptr(recipe("almonds", "Snack", 160, 6, 6, 14))},
		},
	}
	locks := domain.LockMap{}.
		Toggle(1, domain.SlotDinner, 0).
		Toggle(1, domain.SlotSnacks, 1)

	day, err := g.RegenerateDay(ctx, current, locks, 1)
	require.NoError(t, err)

	require.Len(t, day.Meals.Dinner, 2, "locked slot keeps all of its recipes")
	assert.Equal(t, "grandmas-stew", day.Meals.Dinner[0].ID)
	assert.Equal(t, "bread", day.Meals.Dinner[1].ID)
	assert.Equal(t, "almonds", day.Meals.Snacks[1].ID)

	assert.Equal(t, "oats", day.Meals.Breakfast[0].ID)
	assert.Equal(t, "apple", day.Meals.Snacks[0].ID)

	// input is not modified
	assert.Equal(t, "pancakes", current.Meals.Breakfast[0].ID)
	assert.Nil(t, current.Meals.Snacks[0])
}

func TestRegenerateDay_AllLockedIsIdentity(t *testing.T) {
	ctx := context.Background()
	source := &fixedSource{picks: []int{0}}
	g := NewPlanRegenerator(testCatalog(), source, PlanRegeneratorConfig{})

	current := domain.MealPlanDay{
		Date: "2024-03-06",
		Meals: domain.DaySlots{
			Breakfast: domain.Slot{ptr(recipe("pancakes", domain.RecipeTypeBreakfast, 450, 8, 70, 12))},
			Lunch:     nil,
			Dinner:    domain.Slot{ptr(recipe("curry", domain.RecipeTypeDinner, 650, 35, 60, 25))},
			Snacks:    domain.SnackSlot{ptr(recipe("apple", domain.RecipeTypeSnack, 95, 0, 25, 0)), nil},
		},
	}
	locks := domain.LockMap{
		domain.LockKey(2, domain.SlotBreakfast, 0): true,
		domain.LockKey(2, domain.SlotLunch, 0):     true,
		domain.LockKey(2, domain.SlotDinner, 0):    true,
		domain.LockKey(2, domain.SlotSnacks, 0):    true,
		domain.LockKey(2, domain.SlotSnacks, 1):    true,
	}

	day, err := g.RegenerateDay(ctx, current, locks, 2)
	require.NoError(t, err)

	assert.Equal(t, current, day)
	assert.Zero(t, source.calls, "no draws when everything is locked")
}

func TestRegenerateDay_LocksForOtherDaysIgnored(t *testing.T) {
	g := NewPlanRegenerator(testCatalog(), &fixedSource{picks: []int{0}}, PlanRegeneratorConfig{})
	current := domain.MealPlanDay{
		Meals: domain.DaySlots{Breakfast: domain.Slot{ptr(recipe("pancakes", domain.RecipeTypeBreakfast, 450, 8, 70, 12))}},
	}
	locks := domain.LockMap{domain.LockKey(0, domain.SlotBreakfast, 0): true}

	day, err := g.RegenerateDay(context.Background(), current, locks, 3)
	require.NoError(t, err)
	assert.Equal(t, "oats", day.Meals.Breakfast[0].ID)
}

func TestRegenerateDay_EmptyCategory(t *testing.T) {
	catalog := NewMockRecipeCatalog(recipe("oats", domain.RecipeTypeBreakfast, 300, 10, 50, 5))
	g := NewPlanRegenerator(catalog, &fixedSource{}, PlanRegeneratorConfig{})

	day, err := g.RegenerateDay(context.Background(), domain.MealPlanDay{}, nil, 0)
	require.NoError(t, err)

	assert.Len(t, day.Meals.Breakfast, 1)
	assert.Nil(t, day.Meals.Lunch)
	assert.Nil(t, day.Meals.Dinner)
	assert.Equal(t, domain.SnackSlot{nil, nil}, day.Meals.Snacks)
}

func TestRegenerateDay_CatalogFailureLeavesSlotsEmpty(t *testing.T) {
	catalog := NewMockRecipeCatalog()
	catalog.err = errBoom
	g := NewPlanRegenerator(catalog, &fixedSource{}, PlanRegeneratorConfig{})

	day, err := g.RegenerateDay(context.Background(), domain.MealPlanDay{Date: "2024-03-04"}, nil, 0)

	require.NoError(t, err)
	assert.Empty(t, day.Meals.Recipes())
}

func TestRegenerateDay_FetchesEachTypeOnce(t *testing.T) {
	catalog := testCatalog()
	g := NewPlanRegenerator(catalog, &fixedSource{}, PlanRegeneratorConfig{SnackCapacity: 3})

	_, err := g.RegenerateDay(context.Background(), domain.MealPlanDay{}, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, catalog.typeCalls[domain.RecipeTypeSnack])
	assert.Equal(t, 1, catalog.typeCalls[domain.RecipeTypeBreakfast])
}

func TestRegenerateDay_SnackCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		current  domain.SnackSlot
		locks    domain.LockMap
	}{
		{name: "pads short list", capacity: 3, current: domain.SnackSlot{ptr(recipe("apple", domain.RecipeTypeSnack, 95, 0, 25, 0))}},
		{name: "truncates long list", capacity: 1, current: domain.SnackSlot{nil, nil, nil, nil}},
		{
			name:     "lock beyond current length stays empty",
			capacity: 2,
			current:  domain.SnackSlot{},
			locks:    domain.LockMap{domain.LockKey(0, domain.SlotSnacks, 1): true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewPlanRegenerator(testCatalog(), &fixedSource{}, PlanRegeneratorConfig{SnackCapacity: tt.capacity})
			day, err := g.RegenerateDay(context.Background(), domain.MealPlanDay{Meals: domain.DaySlots{Snacks: tt.current}}, tt.locks, 0)
			require.NoError(t, err)
			assert.Len(t, day.Meals.Snacks, tt.capacity)
		})
	}
}

func TestRegenerateDay_DelayHonoursContext(t *testing.T) {
	g := NewPlanRegenerator(testCatalog(), &fixedSource{}, PlanRegeneratorConfig{Delay: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := g.RegenerateDay(ctx, domain.MealPlanDay{}, nil, 0)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRegenerateDay_RandomDistributionStaysInPool(t *testing.T) {
	g := NewPlanRegenerator(testCatalog(), NewRandomSource(), PlanRegeneratorConfig{})

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		day, err := g.RegenerateDay(context.Background(), domain.MealPlanDay{}, nil, 0)
		require.NoError(t, err)
		seen[day.Meals.Breakfast[0].ID] = true
	}
	for id := range seen {
		assert.Contains(t, []string{"oats", "pancakes"}, id)
	}
}

func TestGenerateWeek(t *testing.T) {
	g := NewPlanRegenerator(testCatalog(), &fixedSource{}, PlanRegeneratorConfig{})
	start := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)

	days, err := g.GenerateWeek(context.Background(), start)
	require.NoError(t, err)

	require.Len(t, days, DaysPerWeek)
	assert.Equal(t, "2024-12-30", days[0].Date)
	assert.Equal(t, "2025-01-05", days[6].Date)
	for _, day := range days {
		assert.Len(t, day.Meals.Breakfast, 1)
		assert.Len(t, day.Meals.Snacks, DefaultSnackCapacity)
	}
}
