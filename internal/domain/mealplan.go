package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SlotKind names a meal slot within a day
type SlotKind string

const (
	SlotBreakfast SlotKind = "breakfast"
	SlotLunch     SlotKind = "lunch"
	SlotDinner    SlotKind = "dinner"
	SlotSnacks    SlotKind = "snacks"
)

// SlotKinds lists the slots in aggregation order
var SlotKinds = []SlotKind{SlotBreakfast, SlotLunch, SlotDinner, SlotSnacks}

// ParseSlotKind resolves a slot name, accepting "snack" for snacks
func ParseSlotKind(s string) (SlotKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return SlotBreakfast, nil
	case "lunch":
		return SlotLunch, nil
	case "dinner":
		return SlotDinner, nil
	case "snack", "snacks":
		return SlotSnacks, nil
	}
	return "", fmt.Errorf("%w: unknown meal slot %q", ErrInvalidRequest, s)
}

// RecipeType returns the catalog category drawn for this slot
func (k SlotKind) RecipeType() string {
	if k == SlotSnacks {
		return RecipeTypeSnack
	}
	return string(k)
}

// lockName is the slot segment used in lock keys
func (k SlotKind) lockName() string {
	if k == SlotSnacks {
		return "snack"
	}
	return string(k)
}

// Slot holds the recipes assigned to breakfast, lunch or dinner.
// It is always a sequence in memory; stored data may hold null, a single
// recipe object or an array, and all three decode into a Slot.
type Slot []*Recipe

// UnmarshalJSON normalizes the legacy single-or-array shapes.
// Elements that are not recipe objects are dropped.
func (s *Slot) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = nil
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '{':
		if r := decodeRecipe(data); r != nil {
			*s = Slot{r}
		}
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil
		}
		for _, elem := range elems {
			if r := decodeRecipe(elem); r != nil {
				*s = append(*s, r)
			}
		}
	}
	return nil
}

// MarshalJSON always writes an array
func (s Slot) MarshalJSON() ([]byte, error) {
	out := make([]*Recipe, 0, len(s))
	for _, r := range s {
		if r != nil {
			out = append(out, r)
		}
	}
	return json.Marshal(out)
}

// SnackSlot holds fixed snack positions; a nil position is unfilled
type SnackSlot []*Recipe

// UnmarshalJSON keeps null positions and blanks out malformed ones
func (s *SnackSlot) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = nil
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '{':
		*s = SnackSlot{decodeRecipe(data)}
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil
		}
		out := make(SnackSlot, len(elems))
		for i, elem := range elems {
			out[i] = decodeRecipe(elem)
		}
		*s = out
	}
	return nil
}

// MarshalJSON writes an array, with null for unfilled positions
func (s SnackSlot) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]*Recipe(s))
}

func decodeRecipe(data []byte) *Recipe {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var r Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return nil
	}
	return &r
}

// DaySlots is the set of meals assigned to one day
type DaySlots struct {
	Breakfast Slot      `json:"breakfast"`
	Lunch     Slot      `json:"lunch"`
	Dinner    Slot      `json:"dinner"`
	Snacks    SnackSlot `json:"snacks"`
}

// Recipes returns every assigned recipe in breakfast, lunch, dinner, snacks order
func (d DaySlots) Recipes() []*Recipe {
	out := make([]*Recipe, 0, len(d.Breakfast)+len(d.Lunch)+len(d.Dinner)+len(d.Snacks))
	for _, group := range [][]*Recipe{d.Breakfast, d.Lunch, d.Dinner, d.Snacks} {
		for _, r := range group {
			if r != nil {
				out = append(out, r)
			}
		}
	}
	return out
}

// DateLayout is the calendar date format used for plan days and meal logs
const DateLayout = "2006-01-02"

// MealPlanDay is one calendar day of a plan
type MealPlanDay struct {
	Date  string   `json:"date"`
	Meals DaySlots `json:"meals"`
}

// MealPlan is a named, saved set of days
type MealPlan struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Days        []MealPlanDay `json:"days"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// PlanUpdate carries the editable plan fields; nil means unchanged
type PlanUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Empty reports whether the update changes nothing
func (u PlanUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil
}
