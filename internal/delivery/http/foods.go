package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FoodSearchRequest is a free-text food query
type FoodSearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchFoods looks foods up in USDA FoodData Central
func (h *Handler) SearchFoods(c *gin.Context) {
	if !configured(c, h.foods != nil, "food search") {
		return
	}

	var req FoodSearchRequest
	if !bindJSON(c, &req) {
		return
	}

	foods, err := h.foods.SearchFoods(c.Request.Context(), req.Query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods, "count": len(foods)})
}
