package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// CreatePlanRequest saves a named plan
type CreatePlanRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Days        []domain.MealPlanDay `json:"days" binding:"required"`
}

// GeneratePlanRequest asks for a fresh week starting at StartDate (today when empty)
type GeneratePlanRequest struct {
	StartDate string `json:"startDate"`
}

// RegenerateRequest carries the day being edited and its locks
type RegenerateRequest struct {
	Day      domain.MealPlanDay `json:"day"`
	DayIndex int                `json:"dayIndex"`
	Locks    domain.LockMap     `json:"locks"`
}

// ListPlans returns the caller's saved plans, newest first
func (h *Handler) ListPlans(c *gin.Context) {
	if !configured(c, h.plans != nil, "plan") {
		return
	}

	plans, err := h.plans.LoadPlans(c.Request.Context(), UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans, "count": len(plans)})
}

// CreatePlan saves a new plan
func (h *Handler) CreatePlan(c *gin.Context) {
	if !configured(c, h.plans != nil, "plan") {
		return
	}

	var req CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.plans.SavePlan(c.Request.Context(), UserID(c), req.Name, req.Days, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetPlan returns one saved plan
func (h *Handler) GetPlan(c *gin.Context) {
	if !configured(c, h.plans != nil, "plan") {
		return
	}

	plan, err := h.plans.GetPlan(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UpdatePlan renames a plan or changes its description
func (h *Handler) UpdatePlan(c *gin.Context) {
	if !configured(c, h.plans != nil, "plan") {
		return
	}

	var update domain.PlanUpdate
	if !bindJSON(c, &update) {
		return
	}

	ok, err := h.plans.UpdatePlan(c.Request.Context(), UserID(c), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", domain.ErrPlanNotFound, c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeletePlan removes a saved plan
func (h *Handler) DeletePlan(c *gin.Context) {
	if !configured(c, h.plans != nil, "plan") {
		return
	}

	ok, err := h.plans.DeletePlan(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", domain.ErrPlanNotFound, c.Param("id")))
		return
	}
	c.Status(http.StatusNoContent)
}

// GeneratePlan fills a new week from the catalog without saving it
func (h *Handler) GeneratePlan(c *gin.Context) {
	if !configured(c, h.regenerator != nil, "planner") {
		return
	}

	var req GeneratePlanRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	start := h.now()
	if s := strings.TrimSpace(req.StartDate); s != "" {
		parsed, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			respondError(c, fmt.Errorf("%w: invalid startDate %q", domain.ErrInvalidRequest, s))
			return
		}
		start = parsed
	}

	days, err := h.regenerator.GenerateWeek(c.Request.Context(), start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "totals": h.aggregator.AggregateWeek(days)})
}

// RegenerateDay refills the unlocked slots of one day. The server keeps no
// plan state: the day and its locks come from the request.
func (h *Handler) RegenerateDay(c *gin.Context) {
	if !configured(c, h.regenerator != nil, "planner") {
		return
	}

	var req RegenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.DayIndex < 0 {
		respondError(c, fmt.Errorf("%w: dayIndex must not be negative", domain.ErrInvalidRequest))
		return
	}

	day, err := h.regenerator.RegenerateDay(c.Request.Context(), req.Day, req.Locks, req.DayIndex)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "totals": h.aggregator.AggregateDay(day.Meals)})
}

// ActivatePlan adds every ingredient of a saved plan to the grocery list
func (h *Handler) ActivatePlan(c *gin.Context) {
	if !configured(c, h.plans != nil, "plan") || !configured(c, h.grocery != nil, "grocery") {
		return
	}

	plan, err := h.plans.GetPlan(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	update, err := h.grocery.ActivatePlan(c.Request.Context(), UserID(c), plan)
	respondGroceryUpdate(c, update, err)
}
