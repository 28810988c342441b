package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// DayNutritionRequest is a day's slots with optional goals
type DayNutritionRequest struct {
	Meals domain.DaySlots       `json:"meals"`
	Goals domain.NutritionGoals `json:"goals"`
}

// WeekNutritionRequest is a sequence of plan days
type WeekNutritionRequest struct {
	Days []domain.MealPlanDay `json:"days"`
}

// DayNutrition totals a day and classifies each macro against the goals.
// Missing goals fall back to the configured defaults.
func (h *Handler) DayNutrition(c *gin.Context) {
	var req DayNutritionRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.aggregator.SummarizeDay(req.Meals, req.Goals))
}

// WeekNutrition totals each day plus the period total and daily average
func (h *Handler) WeekNutrition(c *gin.Context) {
	var req WeekNutritionRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.aggregator.AggregateWeek(req.Days))
}
