package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

func usdaFoods(n int) *domain.USDASearchResponse {
	resp := &domain.USDASearchResponse{}
	for i := 1; i <= n; i++ {
		resp.Foods = append(resp.Foods, domain.USDAFood{
			FdcID:       1000 + i,
			Description: fmt.Sprintf("Food %d", i),
			Nutrients: []domain.USDANutrient{
				{NutrientID: 1008, Value: float64(100 * i)},
				{NutrientID: 1003, Value: 10},
			},
		})
	}
	resp.TotalHits = n
	return resp
}

func TestNewFoodSearchService(t *testing.T) {
	t.Run("creates service with default values", func(t *testing.T) {
		svc := NewFoodSearchService(NewMockKeyValueStore(), NewMockUSDAClient(), FoodSearchServiceConfig{})
		if svc.cacheTTL != 720*time.Hour {
			t.Errorf("cacheTTL = %v, want 720h", svc.cacheTTL)
		}
		if svc.maxResults != 10 {
			t.Errorf("maxResults = %d, want 10", svc.maxResults)
		}
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewFoodSearchService(NewMockKeyValueStore(), NewMockUSDAClient(), FoodSearchServiceConfig{
			CacheTTL:   time.Hour,
			MaxResults: 3,
		})
		if svc.cacheTTL != time.Hour {
			t.Errorf("cacheTTL = %v, want 1h", svc.cacheTTL)
		}
		if svc.maxResults != 3 {
			t.Errorf("maxResults = %d, want 3", svc.maxResults)
		}
	})
}

func TestSearchFoods(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for blank query", func(t *testing.T) {
		svc := NewFoodSearchService(NewMockKeyValueStore(), NewMockUSDAClient(), FoodSearchServiceConfig{})

		_, err := svc.SearchFoods(ctx, "  #!  ")
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("maps USDA results and caches them", func(t *testing.T) {
		cache := NewMockKeyValueStore()
		client := NewMockUSDAClient()
		client.searchResult = usdaFoods(2)
		svc := NewFoodSearchService(cache, client, FoodSearchServiceConfig{CacheTTL: time.Hour})

		foods, err := svc.SearchFoods(ctx, "Greek Yogurt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(foods) != 2 {
			t.Fatalf("len(foods) = %d, want 2", len(foods))
		}
		if foods[0].ID != "usda-1001" || foods[0].Type != domain.RecipeTypeFood {
			t.Errorf("foods[0] = %+v, want usda-1001 of type food", foods[0])
		}
		if foods[1].Macros.Calories != 200 {
			t.Errorf("foods[1] calories = %v, want 200", foods[1].Macros.Calories)
		}
		if !foods[0].ExternalSource {
			t.Error("expected ExternalSource to be set")
		}

		if _, ok := cache.data["food:greek yogurt"]; !ok {
			t.Error("expected results cached under food:greek yogurt")
		}
		if cache.ttls["food:greek yogurt"] != time.Hour {
			t.Errorf("cache ttl = %v, want 1h", cache.ttls["food:greek yogurt"])
		}
	})

	t.Run("serves repeated queries from cache", func(t *testing.T) {
		cache := NewMockKeyValueStore()
		client := NewMockUSDAClient()
		client.searchResult = usdaFoods(1)
		svc := NewFoodSearchService(cache, client, FoodSearchServiceConfig{})

		if _, err := svc.SearchFoods(ctx, "banana"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		foods, err := svc.SearchFoods(ctx, "  BANANA!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.searchCalls != 1 {
			t.Errorf("searchCalls = %d, want 1", client.searchCalls)
		}
		if len(foods) != 1 || foods[0].Name != "Food 1" {
			t.Errorf("cached foods = %+v", foods)
		}
	})

	t.Run("limits results", func(t *testing.T) {
		client := NewMockUSDAClient()
		client.searchResult = usdaFoods(8)
		svc := NewFoodSearchService(NewMockKeyValueStore(), client, FoodSearchServiceConfig{MaxResults: 5})

		foods, err := svc.SearchFoods(ctx, "cheese")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(foods) != 5 {
			t.Errorf("len(foods) = %d, want 5", len(foods))
		}
	})

	t.Run("cleans query before calling USDA", func(t *testing.T) {
		client := NewMockUSDAClient()
		client.searchResult = usdaFoods(1)
		svc := NewFoodSearchService(NewMockKeyValueStore(), client, FoodSearchServiceConfig{})

		if _, err := svc.SearchFoods(ctx, "mac & cheese (boxed)"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.lastQuery != "mac and cheese boxed" {
			t.Errorf("lastQuery = %q, want %q", client.lastQuery, "mac and cheese boxed")
		}
	})

	t.Run("passes through not found", func(t *testing.T) {
		client := NewMockUSDAClient()
		client.searchError = domain.ErrFoodNotFound
		svc := NewFoodSearchService(NewMockKeyValueStore(), client, FoodSearchServiceConfig{})

		_, err := svc.SearchFoods(ctx, "unobtainium")
		if !errors.Is(err, domain.ErrFoodNotFound) {
			t.Errorf("error = %v, want ErrFoodNotFound", err)
		}
	})

	t.Run("empty USDA result is not found", func(t *testing.T) {
		client := NewMockUSDAClient()
		client.searchResult = usdaFoods(0)
		svc := NewFoodSearchService(NewMockKeyValueStore(), client, FoodSearchServiceConfig{})

		_, err := svc.SearchFoods(ctx, "nothing")
		if !errors.Is(err, domain.ErrFoodNotFound) {
			t.Errorf("error = %v, want ErrFoodNotFound", err)
		}
	})

	t.Run("wraps other USDA errors as lookup failures", func(t *testing.T) {
		client := NewMockUSDAClient()
		client.searchError = errBoom
		svc := NewFoodSearchService(NewMockKeyValueStore(), client, FoodSearchServiceConfig{})

		_, err := svc.SearchFoods(ctx, "rice")
		if !errors.Is(err, domain.ErrFoodLookupFailure) {
			t.Errorf("error = %v, want ErrFoodLookupFailure", err)
		}
	})

	t.Run("cache failures do not fail the search", func(t *testing.T) {
		cache := NewMockKeyValueStore()
		cache.getError = errBoom
		cache.setError = errBoom
		client := NewMockUSDAClient()
		client.searchResult = usdaFoods(1)
		svc := NewFoodSearchService(cache, client, FoodSearchServiceConfig{})

		foods, err := svc.SearchFoods(ctx, "lentils")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(foods) != 1 {
			t.Errorf("len(foods) = %d, want 1", len(foods))
		}
	})
}

func TestNormalizeForCacheKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Greek Yogurt", "greek yogurt"},
		{"  Peanut   Butter!! ", "peanut butter"},
		{"Ben & Jerry's", "ben jerrys"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeForCacheKey(tt.input); got != tt.expected {
				t.Errorf("normalizeForCacheKey(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanFoodQuery(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"chicken & rice", "chicken and rice"},
		{"50% lean beef", "50 lean beef"},
		{"oat milk [barista]", "oat milk barista"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := cleanFoodQuery(tt.input); got != tt.expected {
				t.Errorf("cleanFoodQuery(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
