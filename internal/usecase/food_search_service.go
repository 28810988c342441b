package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
	"github.com/malcolmdjones/dishco-sub002/internal/infrastructure/usda"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)

	// specialCharsRegex removes characters that cause USDA API/nginx proxy errors
	specialCharsRegex = regexp.MustCompile(`[#%+@!^*()=\[\]{}<>|\\~` + "`" + `]`)
)

// FoodSearchServiceConfig holds configuration for the food search service
type FoodSearchServiceConfig struct {
	CacheTTL   time.Duration
	MaxResults int
}

// FoodSearchService looks up foods in USDA FoodData Central, cache first,
// and returns them as food-typed recipes that can be placed in a slot
type FoodSearchService struct {
	cache      domain.KeyValueStore
	usdaClient domain.USDAClient
	cacheTTL   time.Duration
	maxResults int
}

// NewFoodSearchService creates a new food search service with dependencies
func NewFoodSearchService(
	cache domain.KeyValueStore,
	usdaClient domain.USDAClient,
	config FoodSearchServiceConfig,
) *FoodSearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	return &FoodSearchService{
		cache:      cache,
		usdaClient: usdaClient,
		cacheTTL:   cacheTTL,
		maxResults: maxResults,
	}
}

// SearchFoods returns foods matching the query.
// Flow: check cache -> search USDA -> rank -> map to recipes -> cache -> return
func (s *FoodSearchService) SearchFoods(ctx context.Context, query string) ([]domain.Recipe, error) {
	query = stripQuantities(cleanFoodQuery(query))
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := foodCacheKey(query)

	var cached []domain.Recipe
	if found, err := loadJSON(ctx, s.cache, cacheKey, &cached); err == nil && found && len(cached) > 0 {
		return cached, nil
	} else if err != nil {
		log.Printf("[Foods] Cache read failed for %q: %v", cacheKey, err)
	}

	searchResult, err := s.usdaClient.SearchFoods(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrFoodNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFoodLookupFailure, err)
	}

	if searchResult == nil || len(searchResult.Foods) == 0 {
		return nil, domain.ErrFoodNotFound
	}

	foods := rankFoods(query, searchResult.Foods)
	if len(foods) > s.maxResults {
		foods = foods[:s.maxResults]
	}

	recipes := make([]domain.Recipe, 0, len(foods))
	for i := range foods {
		recipes = append(recipes, usda.MapToRecipe(&foods[i]))
	}

	// Log but don't fail if caching fails
	if err := storeJSON(ctx, s.cache, cacheKey, recipes, s.cacheTTL); err != nil {
		log.Printf("[Foods] Cache write failed for %q: %v", cacheKey, err)
	}

	return recipes, nil
}

// foodCacheKey creates a normalized cache key. Format: "food:{normalized_query}"
func foodCacheKey(query string) string {
	return "food:" + normalizeForCacheKey(query)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Converts to lowercase, removes special characters, and trims whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// cleanFoodQuery sanitizes characters the USDA API rejects and collapses whitespace
func cleanFoodQuery(query string) string {
	query = strings.ReplaceAll(query, "&", " and ")
	query = specialCharsRegex.ReplaceAllString(query, " ")
	query = multipleSpacesRegex.ReplaceAllString(query, " ")
	return strings.TrimSpace(query)
}
