package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// LogMealRequest records one eaten recipe
type LogMealRequest struct {
	Slot   string        `json:"slot" binding:"required"`
	Recipe domain.Recipe `json:"recipe"`
}

// GetMealLog returns the entries logged on :date
func (h *Handler) GetMealLog(c *gin.Context) {
	if !configured(c, h.mealLog != nil, "meal log") {
		return
	}

	entries, err := h.mealLog.Day(c.Request.Context(), UserID(c), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": c.Param("date"), "entries": entries})
}

// LogMeal appends an entry to :date
func (h *Handler) LogMeal(c *gin.Context) {
	if !configured(c, h.mealLog != nil, "meal log") {
		return
	}

	var req LogMealRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.mealLog.LogMeal(c.Request.Context(), UserID(c), c.Param("date"), domain.SlotKind(req.Slot), req.Recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteMealLogEntry removes one entry from :date
func (h *Handler) DeleteMealLogEntry(c *gin.Context) {
	if !configured(c, h.mealLog != nil, "meal log") {
		return
	}

	if err := h.mealLog.RemoveEntry(c.Request.Context(), UserID(c), c.Param("date"), c.Param("entryId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MealLogSummary classifies :date's intake. Goals come from the query string
// (?calories=&protein=&carbs=&fat=); missing ones use the defaults.
func (h *Handler) MealLogSummary(c *gin.Context) {
	if !configured(c, h.mealLog != nil, "meal log") {
		return
	}

	goals, err := goalsFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.mealLog.Summary(c.Request.Context(), UserID(c), c.Param("date"), goals)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// MealLogStreak counts consecutive logged days ending at ?asOf= (today by default)
func (h *Handler) MealLogStreak(c *gin.Context) {
	if !configured(c, h.mealLog != nil, "meal log") {
		return
	}

	asOf := h.now()
	if s := strings.TrimSpace(c.Query("asOf")); s != "" {
		parsed, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid asOf %q", domain.ErrInvalidRequest, s))
			return
		}
		asOf = parsed
	}

	streak, err := h.mealLog.Streak(c.Request.Context(), UserID(c), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": streak, "asOf": asOf.Format(domain.DateLayout)})
}

func goalsFromQuery(c *gin.Context) (domain.NutritionGoals, error) {
	var goals domain.NutritionGoals
	fields := []struct {
		name string
		dst  *float64
	}{
		{"calories", &goals.Calories},
		{"protein", &goals.Protein},
		{"carbs", &goals.Carbs},
		{"fat", &goals.Fat},
	}

	for _, f := range fields {
		raw := strings.TrimSpace(c.Query(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return goals, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidRequest, f.name)
		}
		*f.dst = v
	}
	return goals, nil
}
