package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// sequentialIDs returns a generator yielding item-1, item-2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func TestMergeIngredients_AddsNewItemsWithDefaults(t *testing.T) {
	m := NewGroceryMerger(sequentialIDs())

	items, err := m.MergeIngredients(nil, []domain.IngredientLine{
		{Name: "Eggs", Quantity: "2", Unit: "large", Category: "Dairy"},
		{Name: "  Salt  "},
	})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, domain.GroceryItem{ID: "item-1", Name: "Eggs", Category: "Dairy", Quantity: "2", Unit: "large"}, items[0])
	assert.Equal(t, domain.GroceryItem{
		ID:       "item-2",
		Name:     "Salt",
		Category: domain.DefaultGroceryCategory,
		Quantity: domain.DefaultGroceryQuantity,
		Unit:     domain.DefaultGroceryUnit,
	}, items[1])
}

func TestMergeIngredients_CombinesByNormalizedName(t *testing.T) {
	m := NewGroceryMerger(sequentialIDs())
	existing := []domain.GroceryItem{
		{ID: "a", Name: "Eggs", Category: "Dairy", Quantity: "2", Unit: "large", Checked: true},
	}

	items, stats, err := m.MergeIngredientsWithStats(existing, []domain.IngredientLine{
		{Name: " eggs ", Quantity: "3", Unit: "dozen", Category: "Produce"},
	})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "5", items[0].Quantity)
	// the existing row keeps its identity and attributes
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "Eggs", items[0].Name)
	assert.Equal(t, "large", items[0].Unit)
	assert.Equal(t, "Dairy", items[0].Category)
	assert.True(t, items[0].Checked)
	assert.Equal(t, MergeStats{Updated: 1}, stats)

	// input untouched
	assert.Equal(t, "2", existing[0].Quantity)
}

func TestMergeIngredients_DuplicatesWithinBatch(t *testing.T) {
	m := NewGroceryMerger(sequentialIDs())

	items, stats, err := m.MergeIngredientsWithStats(nil, []domain.IngredientLine{
		{Name: "Milk", Quantity: "1"},
		{Name: "MILK", Quantity: "2"},
		{Name: "Bread"},
	})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, "3", items[0].Quantity)
	assert.Equal(t, "Bread", items[1].Name)
	assert.Equal(t, MergeStats{Added: 2, Updated: 1}, stats)
}

func TestMergeIngredients_NothingToMerge(t *testing.T) {
	m := NewGroceryMerger(sequentialIDs())
	existing := []domain.GroceryItem{{ID: "a", Name: "Rice", Quantity: "1"}}

	tests := []struct {
		name     string
		incoming []domain.IngredientLine
	}{
		{name: "nil batch", incoming: nil},
		{name: "empty batch", incoming: []domain.IngredientLine{}},
		{name: "only blank names", incoming: []domain.IngredientLine{{Name: ""}, {Name: "   ", Quantity: "2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := m.MergeIngredients(existing, tt.incoming)

			assert.ErrorIs(t, err, domain.ErrNothingToMerge)
			assert.True(t, IsNothingToMerge(err))
			assert.Equal(t, existing, items)
		})
	}
}

func TestMergeIngredients_IsAdditive(t *testing.T) {
	m := NewGroceryMerger(sequentialIDs())
	batch := []domain.IngredientLine{{Name: "Chicken breast", Quantity: "2", Unit: "lb"}}

	once, err := m.MergeIngredients(nil, batch)
	require.NoError(t, err)
	twice, err := m.MergeIngredients(once, batch)
	require.NoError(t, err)

	require.Len(t, twice, 1)
	assert.Equal(t, "4", twice[0].Quantity)
}

func TestCombineQuantities(t *testing.T) {
	tests := []struct {
		existing string
		incoming string
		want     string
	}{
		{"2", "3", "5"},
		{"2 cups", "1", "3"},
		{"1.5", "2", "3"},
		{"  4", "-1", "3"},
		{"2", "a pinch", "3"},
		{"to taste", "2", "1"},
		{"", "", "1"},
		{"+2", "2", "4"},
		{"9223372036854775807", "1", "9223372036854775807"},
		{"9223372036854775807", "fresh", "9223372036854775807"},
		{"-9223372036854775808", "-1", "-9223372036854775808"},
	}

	for _, tt := range tests {
		t.Run(tt.existing+"+"+tt.incoming, func(t *testing.T) {
			assert.Equal(t, tt.want, combineQuantities(tt.existing, tt.incoming))
		})
	}
}

func TestParseIntPrefix(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"12", 12, true},
		{"3 large", 3, true},
		{" 7", 7, true},
		{"-2", -2, true},
		{"½", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"one", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseIntPrefix(tt.input)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestNormalizeItemName(t *testing.T) {
	assert.Equal(t, "green onion", NormalizeItemName("  Green Onion "))
	assert.Equal(t, "", NormalizeItemName("   "))
}

func TestNewGroceryMerger_DefaultIDs(t *testing.T) {
	m := NewGroceryMerger(nil)
	items, err := m.MergeIngredients(nil, []domain.IngredientLine{{Name: "Kale"}, {Name: "Leeks"}})
	require.NoError(t, err)

	assert.Len(t, items[0].ID, 36)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}
