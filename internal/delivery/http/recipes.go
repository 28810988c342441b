package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// ListRecipes returns the catalog, optionally filtered by ?type=
func (h *Handler) ListRecipes(c *gin.Context) {
	if !configured(c, h.catalog != nil, "recipe catalog") {
		return
	}

	var (
		recipes []domain.Recipe
		err     error
	)
	if recipeType := strings.TrimSpace(c.Query("type")); recipeType != "" {
		recipes, err = h.catalog.GetRecipesByType(c.Request.Context(), recipeType)
	} else {
		recipes, err = h.catalog.All(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

// GetRecipe returns one catalog recipe
func (h *Handler) GetRecipe(c *gin.Context) {
	if !configured(c, h.catalog != nil, "recipe catalog") {
		return
	}

	recipe, err := h.catalog.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}
