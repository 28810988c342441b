package domain

import (
	"context"
	"time"
)

// RecipeCatalog is the read-only recipe source
type RecipeCatalog interface {
	// GetRecipesByType matches the type tag case-insensitively
	GetRecipesByType(ctx context.Context, recipeType string) ([]Recipe, error)
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	All(ctx context.Context) ([]Recipe, error)
}

// PlanRepository persists named meal plans per user
type PlanRepository interface {
	Create(ctx context.Context, plan *MealPlan) error
	List(ctx context.Context, userID string) ([]MealPlan, error)
	Get(ctx context.Context, userID, id string) (*MealPlan, error)
	// Update reports false when no plan matched
	Update(ctx context.Context, userID, id string, update PlanUpdate, updatedAt time.Time) (bool, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// KeyValueStore is durable key-value storage for session data.
// A ttl of zero or less never expires.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// USDAClient defines the interface for interacting with USDA FoodData Central API
type USDAClient interface {
	SearchFoods(ctx context.Context, query string) (*USDASearchResponse, error)
	GetFoodDetails(ctx context.Context, fdcID string) (*USDAFood, error)
}
