package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

func TestGroceryListPDF(t *testing.T) {
	items := []domain.GroceryItem{
		{ID: "1", Name: "Eggs", Category: "Dairy", Quantity: "12", Unit: "large"},
		{ID: "2", Name: "Jalapeño", Category: "Other", Quantity: "2", Unit: "item(s)", Checked: true},
		{ID: "3", Name: "Spinach", Category: "Produce", Quantity: "1", Unit: "bag"},
	}

	data, err := GroceryListPDF("Week of May 6", items, time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output should be a PDF document")
	assert.Greater(t, len(data), 500)
}

func TestGroceryListPDF_Empty(t *testing.T) {
	data, err := GroceryListPDF("", nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestGroupByCategory(t *testing.T) {
	items := []domain.GroceryItem{
		{Name: "a", Category: "Other"},
		{Name: "b", Category: "produce"},
		{Name: "c", Category: ""},
		{Name: "d", Category: "Dairy"},
		{Name: "e", Category: "produce"},
	}

	groups := groupByCategory(items)
	require.Len(t, groups, 3)

	assert.Equal(t, "Dairy", groups[0].category)
	assert.Equal(t, "produce", groups[1].category)
	assert.Equal(t, "Other", groups[2].category)

	var names []string
	for _, item := range groups[1].items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"b", "e"}, names)
	assert.Len(t, groups[2].items, 2, "blank category falls into Other")
}
