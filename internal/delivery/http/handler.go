package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
	"github.com/malcolmdjones/dishco-sub002/internal/usecase"
)

// Services are the use cases exposed over HTTP. Any of them may be nil, in
// which case its endpoints answer 501.
type Services struct {
	Catalog     domain.RecipeCatalog
	Aggregator  *usecase.NutritionAggregator
	Regenerator *usecase.PlanRegenerator
	Plans       *usecase.PlanService
	Grocery     *usecase.GroceryService
	MealLog     *usecase.MealLogService
	Foods       *usecase.FoodSearchService
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog     domain.RecipeCatalog
	aggregator  *usecase.NutritionAggregator
	regenerator *usecase.PlanRegenerator
	plans       *usecase.PlanService
	grocery     *usecase.GroceryService
	mealLog     *usecase.MealLogService
	foods       *usecase.FoodSearchService
	now         func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services) *Handler {
	aggregator := services.Aggregator
	if aggregator == nil {
		aggregator = usecase.NewNutritionAggregator(usecase.NutritionAggregatorConfig{})
	}

	return &Handler{
		catalog:     services.Catalog,
		aggregator:  aggregator,
		regenerator: services.Regenerator,
		plans:       services.Plans,
		grocery:     services.Grocery,
		mealLog:     services.MealLog,
		foods:       services.Foods,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dishco-backend",
		"version": "1.0.0",
	})
}

// configured answers 501 and returns false when a use case is missing
func configured(c *gin.Context, ok bool, name string) bool {
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": fmt.Sprintf("%s service not configured", name),
		})
	}
	return ok
}

// bindJSON decodes the request body, answering 400 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrGroceryItemNotFound),
		errors.Is(err, domain.ErrMealLogEntryNotFound),
		errors.Is(err, domain.ErrFoodNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrStorageFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrFoodLookupFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
