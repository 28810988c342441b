// Package export renders grocery lists as printable documents.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// GroceryListPDF renders items grouped by category, in list order within
// each category. Checked items are struck through.
func GroceryListPDF(title string, items []domain.GroceryItem, generatedAt time.Time) ([]byte, error) {
	if strings.TrimSpace(title) == "" {
		title = "Grocery List"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("dishco", true)
	// core fonts are cp1252; map UTF-8 input onto it
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.Cell(0, 6, fmt.Sprintf("%d items - generated %s", len(items), generatedAt.Format("2006-01-02 15:04")))
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(10)

	if len(items) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 8, "Your grocery list is empty.")
	}

	for _, group := range groupByCategory(items) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(235, 240, 235)
		pdf.CellFormat(0, 8, tr(group.category), "", 1, "L", true, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 11)
		for _, item := range group.items {
			drawItem(pdf, tr, item)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render grocery pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawItem(pdf *gofpdf.Fpdf, tr func(string) string, item domain.GroceryItem) {
	x, y := pdf.GetXY()

	// checkbox
	pdf.Rect(x+1, y+1.5, 4, 4, "D")
	if item.Checked {
		pdf.Line(x+1.5, y+3.5, x+2.8, y+5)
		pdf.Line(x+2.8, y+5, x+4.6, y+2)
	}
	pdf.SetX(x + 8)

	label := fmt.Sprintf("%s %s  %s", item.Quantity, item.Unit, item.Name)
	if item.Checked {
		pdf.SetTextColor(140, 140, 140)
	}
	pdf.CellFormat(0, 7, tr(label), "", 1, "L", false, 0, "")
	if item.Checked {
		w := pdf.GetStringWidth(tr(label))
		pdf.Line(x+8, y+3.5, x+8+w, y+3.5)
		pdf.SetTextColor(0, 0, 0)
	}
}

type categoryGroup struct {
	category string
	items    []domain.GroceryItem
}

// groupByCategory groups items alphabetically by category, with the default
// category last
func groupByCategory(items []domain.GroceryItem) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup

	for _, item := range items {
		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = domain.DefaultGroceryCategory
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, categoryGroup{category: category})
		}
		groups[i].items = append(groups[i].items, item)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].category, groups[j].category
		if a == domain.DefaultGroceryCategory || b == domain.DefaultGroceryCategory {
			return b == domain.DefaultGroceryCategory && a != b
		}
		return strings.ToLower(a) < strings.ToLower(b)
	})
	return groups
}
