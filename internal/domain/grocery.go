package domain

import "time"

// Storage keys in the key-value store
const (
	GroceryItemsKey  = "groceryItems"
	MealLogKeyPrefix = "mealLog/"
)

// Defaults applied to grocery items created from an ingredient line
const (
	DefaultGroceryCategory = "Other"
	DefaultGroceryQuantity = "1"
	DefaultGroceryUnit     = "item(s)"
)

// UserKey scopes a storage key to one user
func UserKey(userID, key string) string {
	return "user:" + userID + ":" + key
}

// GroceryItem is one line of the persisted grocery list
type GroceryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Checked  bool   `json:"checked"`
}

// IngredientLine is an ingredient to be merged into the grocery list
type IngredientLine struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Category string   `json:"category,omitempty"`
}

// MealLogEntry is a meal the user recorded as eaten on a date
type MealLogEntry struct {
	ID       string    `json:"id"`
	Date     string    `json:"date"`
	Slot     SlotKind  `json:"slot"`
	Recipe   Recipe    `json:"recipe"`
	LoggedAt time.Time `json:"loggedAt"`
}
