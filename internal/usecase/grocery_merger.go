package usecase

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// IDGenerator produces unique grocery item ids
type IDGenerator func() string

// GroceryMerger folds ingredient lines into a grocery list by normalized name.
// Merging is additive: applying the same batch twice doubles quantities.
type GroceryMerger struct {
	newID IDGenerator
}

// MergeStats counts what a merge changed
type MergeStats struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// NewGroceryMerger creates a merger. A nil generator uses random UUIDs.
func NewGroceryMerger(newID IDGenerator) *GroceryMerger {
	if newID == nil {
		newID = uuid.NewString
	}
	return &GroceryMerger{newID: newID}
}

// MergeIngredients returns a new list with incoming lines merged into existing.
// When there is nothing to add it returns a copy of existing and domain.ErrNothingToMerge.
func (m *GroceryMerger) MergeIngredients(existing []domain.GroceryItem, incoming []domain.IngredientLine) ([]domain.GroceryItem, error) {
	items, _, err := m.MergeIngredientsWithStats(existing, incoming)
	return items, err
}

// MergeIngredientsWithStats is MergeIngredients that also reports counts
func (m *GroceryMerger) MergeIngredientsWithStats(existing []domain.GroceryItem, incoming []domain.IngredientLine) ([]domain.GroceryItem, MergeStats, error) {
	result := make([]domain.GroceryItem, len(existing), len(existing)+len(incoming))
	copy(result, existing)

	var stats MergeStats
	for _, line := range incoming {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			continue
		}

		if idx := findByName(result, name); idx >= 0 {
			result[idx].Quantity = combineQuantities(result[idx].Quantity, line.Quantity.String())
			stats.Updated++
			continue
		}

		result = append(result, m.newItem(name, line))
		stats.Added++
	}

	if stats.Added == 0 && stats.Updated == 0 {
		return result, stats, domain.ErrNothingToMerge
	}
	return result, stats, nil
}

func (m *GroceryMerger) newItem(name string, line domain.IngredientLine) domain.GroceryItem {
	item := domain.GroceryItem{
		ID:       m.newID(),
		Name:     name,
		Category: strings.TrimSpace(line.Category),
		Quantity: strings.TrimSpace(line.Quantity.String()),
		Unit:     strings.TrimSpace(line.Unit),
	}
	if item.Category == "" {
		item.Category = domain.DefaultGroceryCategory
	}
	if item.Quantity == "" {
		item.Quantity = domain.DefaultGroceryQuantity
	}
	if item.Unit == "" {
		item.Unit = domain.DefaultGroceryUnit
	}
	return item
}

// NormalizeItemName is the matching key: trimmed and lowercased
func NormalizeItemName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func findByName(items []domain.GroceryItem, name string) int {
	key := NormalizeItemName(name)
	for i := range items {
		if NormalizeItemName(items[i].Name) == key {
			return i
		}
	}
	return -1
}

// combineQuantities sums the integer prefixes of both quantities. If either
// has no integer prefix the existing amount is bumped by one instead.
func combineQuantities(existing, incoming string) string {
	a, okA := parseIntPrefix(existing)
	b, okB := parseIntPrefix(incoming)
	if !okA || !okB {
		// a is 0 when existing has no integer prefix
		b = 1
	}
	return strconv.Itoa(addClamped(a, b))
}

// addClamped adds without wrapping around, saturating at the int bounds
func addClamped(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

// parseIntPrefix reads an optionally signed run of leading digits after
// leading whitespace: "2 cups" is 2, "1.5" is 1, "a pinch" fails.
func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
