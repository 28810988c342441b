package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// StoreBoughtCategory is the grocery category for store-bought recipes
const StoreBoughtCategory = "Store Bought"

// GroceryService keeps each user's grocery list in the key-value store
type GroceryService struct {
	store  domain.KeyValueStore
	merger *GroceryMerger

	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

// GroceryUpdate is the outcome of adding ingredients to the list
type GroceryUpdate struct {
	Items []domain.GroceryItem `json:"items"`
	MergeStats
}

// NewGroceryService creates a new grocery service
func NewGroceryService(store domain.KeyValueStore, merger *GroceryMerger) *GroceryService {
	if merger == nil {
		merger = NewGroceryMerger(nil)
	}
	return &GroceryService{store: store, merger: merger}
}

func groceryKey(userID string) string {
	return domain.UserKey(userID, domain.GroceryItemsKey)
}

// List returns the user's grocery list; an absent list is empty
func (s *GroceryService) List(ctx context.Context, userID string) ([]domain.GroceryItem, error) {
	items := []domain.GroceryItem{}
	if _, err := loadJSON(ctx, s.store, groceryKey(userID), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.GroceryItem{}
	}
	return items, nil
}

// AddIngredients merges lines into the stored list and writes the whole list back.
// An empty batch returns the current list with domain.ErrNothingToMerge.
// If the write fails the merged list is still returned alongside the error.
func (s *GroceryService) AddIngredients(ctx context.Context, userID string, lines []domain.IngredientLine) (GroceryUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.List(ctx, userID)
	if err != nil {
		return GroceryUpdate{}, err
	}

	merged, stats, err := s.merger.MergeIngredientsWithStats(existing, lines)
	if err != nil {
		return GroceryUpdate{Items: merged}, err
	}

	update := GroceryUpdate{Items: merged, MergeStats: stats}
	if err := storeJSON(ctx, s.store, groceryKey(userID), merged, 0); err != nil {
		log.Printf("[Grocery] Failed to persist list for user %s: %v", userID, err)
		return update, err
	}

	log.Printf("[Grocery] Merged %d lines for user %s (added=%d updated=%d)", len(lines), userID, stats.Added, stats.Updated)
	return update, nil
}

// ToggleChecked flips the checked flag of one item
func (s *GroceryService) ToggleChecked(ctx context.Context, userID, itemID string) (*domain.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == itemID {
			items[i].Checked = !items[i].Checked
			if err := storeJSON(ctx, s.store, groceryKey(userID), items, 0); err != nil {
				return nil, err
			}
			item := items[i]
			return &item, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrGroceryItemNotFound, itemID)
}

// RemoveItem deletes one item from the list
func (s *GroceryService) RemoveItem(ctx context.Context, userID, itemID string) error {
	_, err := s.rewrite(ctx, userID, func(items []domain.GroceryItem) ([]domain.GroceryItem, error) {
		for i := range items {
			if items[i].ID == itemID {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrGroceryItemNotFound, itemID)
	})
	return err
}

// RemoveChecked deletes every checked item and returns how many were removed
func (s *GroceryService) RemoveChecked(ctx context.Context, userID string) (int, error) {
	removed := 0
	_, err := s.rewrite(ctx, userID, func(items []domain.GroceryItem) ([]domain.GroceryItem, error) {
		kept := items[:0]
		for _, item := range items {
			if item.Checked {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Clear empties the list
func (s *GroceryService) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, groceryKey(userID)); err != nil {
		return fmt.Errorf("%w: clear grocery list: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

// ActivatePlan adds every ingredient of the plan to the grocery list
func (s *GroceryService) ActivatePlan(ctx context.Context, userID string, plan *domain.MealPlan) (GroceryUpdate, error) {
	if plan == nil {
		return GroceryUpdate{}, domain.ErrInvalidRequest
	}
	return s.AddIngredients(ctx, userID, ExtractIngredients(plan.Days))
}

func (s *GroceryService) rewrite(
	ctx context.Context,
	userID string,
	edit func([]domain.GroceryItem) ([]domain.GroceryItem, error),
) ([]domain.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err = edit(items)
	if err != nil {
		return nil, err
	}

	if err := storeJSON(ctx, s.store, groceryKey(userID), items, 0); err != nil {
		return nil, err
	}
	return items, nil
}

// ExtractIngredients flattens the ingredients of every recipe in the days,
// in day order and then breakfast, lunch, dinner, snacks order.
// A store-bought recipe without ingredients is itself one line.
func ExtractIngredients(days []domain.MealPlanDay) []domain.IngredientLine {
	var lines []domain.IngredientLine
	for _, day := range days {
		for _, recipe := range day.Meals.Recipes() {
			if len(recipe.Ingredients) == 0 {
				if recipe.StoreBought && strings.TrimSpace(recipe.Name) != "" {
					lines = append(lines, domain.IngredientLine{
						Name:     recipe.Name,
						Quantity: domain.DefaultGroceryQuantity,
						Category: StoreBoughtCategory,
					})
				}
				continue
			}

			for _, ing := range recipe.Ingredients {
				if strings.TrimSpace(ing.Name) == "" {
					continue
				}
				lines = append(lines, domain.IngredientLine{
					Name:     ing.Name,
					Quantity: ing.Quantity,
					Unit:     ing.Unit,
				})
			}
		}
	}
	return lines
}

// IsNothingToMerge reports whether err signals an empty batch
func IsNothingToMerge(err error) bool {
	return errors.Is(err, domain.ErrNothingToMerge)
}
