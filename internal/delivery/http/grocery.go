package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
	"github.com/malcolmdjones/dishco-sub002/internal/infrastructure/export"
	"github.com/malcolmdjones/dishco-sub002/internal/usecase"
)

// MergeRequest adds ingredient lines and/or the ingredients of whole days
type MergeRequest struct {
	Ingredients []domain.IngredientLine `json:"ingredients"`
	Days        []domain.MealPlanDay    `json:"days"`
}

// ListGrocery returns the caller's grocery list
func (h *Handler) ListGrocery(c *gin.Context) {
	if !configured(c, h.grocery != nil, "grocery") {
		return
	}

	items, err := h.grocery.List(c.Request.Context(), UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// MergeGrocery merges ingredients into the list
func (h *Handler) MergeGrocery(c *gin.Context) {
	if !configured(c, h.grocery != nil, "grocery") {
		return
	}

	var req MergeRequest
	if !bindJSON(c, &req) {
		return
	}

	lines := append(req.Ingredients, usecase.ExtractIngredients(req.Days)...)
	update, err := h.grocery.AddIngredients(c.Request.Context(), UserID(c), lines)
	respondGroceryUpdate(c, update, err)
}

// respondGroceryUpdate reports a merge. An empty batch is not an error for
// clients, and a failed write still returns the list that was computed.
func respondGroceryUpdate(c *gin.Context, update usecase.GroceryUpdate, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"status":  "merged",
			"items":   update.Items,
			"added":   update.Added,
			"updated": update.Updated,
		})
	case usecase.IsNothingToMerge(err):
		items := update.Items
		if items == nil {
			items = []domain.GroceryItem{}
		}
		c.JSON(http.StatusOK, gin.H{"status": "nothing_to_add", "items": items})
	case errors.Is(err, domain.ErrStorageFailure) && update.Items != nil:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": err.Error(),
			"items": update.Items,
		})
	default:
		respondError(c, err)
	}
}

// ToggleGroceryItem flips an item's checked flag
func (h *Handler) ToggleGroceryItem(c *gin.Context) {
	if !configured(c, h.grocery != nil, "grocery") {
		return
	}

	item, err := h.grocery.ToggleChecked(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteGroceryItem removes one item
func (h *Handler) DeleteGroceryItem(c *gin.Context) {
	if !configured(c, h.grocery != nil, "grocery") {
		return
	}

	if err := h.grocery.RemoveItem(c.Request.Context(), UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteCheckedGrocery removes every checked item
func (h *Handler) DeleteCheckedGrocery(c *gin.Context) {
	if !configured(c, h.grocery != nil, "grocery") {
		return
	}

	removed, err := h.grocery.RemoveChecked(c.Request.Context(), UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ClearGrocery empties the list
func (h *Handler) ClearGrocery(c *gin.Context) {
	if !configured(c, h.grocery != nil, "grocery") {
		return
	}

	if err := h.grocery.Clear(c.Request.Context(), UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportGroceryPDF renders the list as a printable PDF
func (h *Handler) ExportGroceryPDF(c *gin.Context) {
	if !configured(c, h.grocery != nil, "grocery") {
		return
	}

	items, err := h.grocery.List(c.Request.Context(), UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.now()
	doc, err := export.GroceryListPDF("Grocery List", items, now)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="grocery-list-%s.pdf"`, now.Format(domain.DateLayout)))
	c.Data(http.StatusOK, "application/pdf", doc)
}
