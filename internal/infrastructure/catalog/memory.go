// Package catalog provides the read-only recipe catalog and its loaders.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// Memory is a recipe catalog held in memory, indexed by id and type
type Memory struct {
	mu      sync.RWMutex
	recipes []domain.Recipe
	byID    map[string]int
	byType  map[string][]int // key: lowercased type
}

// NewMemory indexes the given recipes. Recipes without an id or name are skipped.
func NewMemory(recipes []domain.Recipe) *Memory {
	m := &Memory{}
	m.Replace(recipes)
	return m
}

// Replace swaps the catalog contents
func (m *Memory) Replace(recipes []domain.Recipe) {
	kept := make([]domain.Recipe, 0, len(recipes))
	byID := make(map[string]int, len(recipes))
	byType := make(map[string][]int)

	for _, r := range recipes {
		if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.Name) == "" {
			continue
		}
		if idx, dup := byID[r.ID]; dup {
			// last definition wins
			kept[idx] = r
			continue
		}
		byID[r.ID] = len(kept)
		kept = append(kept, r)
	}

	for i, r := range kept {
		key := strings.ToLower(strings.TrimSpace(r.Type))
		byType[key] = append(byType[key], i)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes = kept
	m.byID = byID
	m.byType = byType
}

// GetRecipesByType returns copies of all recipes whose type matches case-insensitively
func (m *Memory) GetRecipesByType(ctx context.Context, recipeType string) ([]domain.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.byType[strings.ToLower(strings.TrimSpace(recipeType))]
	out := make([]domain.Recipe, 0, len(idx))
	for _, i := range idx {
		out = append(out, m.recipes[i])
	}
	return out, nil
}

// GetRecipe returns a copy of one recipe or domain.ErrRecipeNotFound
func (m *Memory) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, id)
	}
	r := m.recipes[i]
	return &r, nil
}

// All returns copies of every recipe in load order
func (m *Memory) All(ctx context.Context) ([]domain.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Recipe, len(m.recipes))
	copy(out, m.recipes)
	return out, nil
}

// Len returns the number of recipes
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.recipes)
}
