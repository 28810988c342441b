package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNothingToMerge is returned when an ingredient batch has nothing to add.
	// It is informational; the grocery list is returned unchanged alongside it.
	ErrNothingToMerge = errors.New("nothing to add")

	// ErrPlanNotFound is returned when a saved meal plan does not exist
	ErrPlanNotFound = errors.New("meal plan not found")

	// ErrRecipeNotFound is returned when a recipe id is not in the catalog
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrGroceryItemNotFound is returned when a grocery item id is not on the list
	ErrGroceryItemNotFound = errors.New("grocery item not found")

	// ErrMealLogEntryNotFound is returned when a logged meal id is not found for a date
	ErrMealLogEntryNotFound = errors.New("meal log entry not found")

	// ErrKeyNotFound is returned by key-value stores for missing or expired keys
	ErrKeyNotFound = errors.New("key not found")

	// ErrStorageFailure is returned when a persistence collaborator fails
	ErrStorageFailure = errors.New("storage failure")

	// ErrFoodNotFound is returned when a food search has no results
	ErrFoodNotFound = errors.New("food not found in USDA database")

	// ErrFoodLookupFailure is returned when the USDA API request fails
	ErrFoodLookupFailure = errors.New("USDA API request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUnauthorized is returned when a request carries no valid identity
	ErrUnauthorized = errors.New("unauthorized")
)
