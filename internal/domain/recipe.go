package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Recipe type tags used by the catalog
const (
	RecipeTypeBreakfast = "breakfast"
	RecipeTypeLunch     = "lunch"
	RecipeTypeDinner    = "dinner"
	RecipeTypeSnack     = "snack"
	RecipeTypeCustom    = "custom"
	RecipeTypeFood      = "food"
)

// Recipe is immutable reference data from the catalog
type Recipe struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           string       `json:"type"`
	Macros         Macros       `json:"macros"`
	Ingredients    []Ingredient `json:"ingredients,omitempty"`
	Instructions   string       `json:"instructions,omitempty"`
	StoreBought    bool         `json:"storeBought,omitempty"`
	ExternalSource bool         `json:"externalSource,omitempty"`
	ImageURL       string       `json:"imageUrl,omitempty"`
}

// Macros holds per-serving macronutrients
type Macros struct {
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"` // grams
	Carbs    float64  `json:"carbs"`   // grams
	Fat      float64  `json:"fat"`     // grams
	Fiber    *float64 `json:"fiber,omitempty"`
}

// Ingredient is one recipe ingredient. Catalog data carries either a plain
// string ("2 eggs") or a structured {name, quantity, unit} object.
type Ingredient struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity,omitempty"`
	Unit     string   `json:"unit,omitempty"`

	// Raw is set when the ingredient was decoded from a plain string
	Raw bool `json:"-"`
}

// UnmarshalJSON accepts a plain string or an object. Anything else, or an
// object with mistyped fields, decodes to an empty ingredient.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*i = Ingredient{}
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
		*i = Ingredient{Name: strings.TrimSpace(text), Raw: true}
	case '{':
		type plain Ingredient
		var decoded plain
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil
		}
		*i = Ingredient(decoded)
	}
	return nil
}

// MarshalJSON writes raw ingredients back as plain strings
func (i Ingredient) MarshalJSON() ([]byte, error) {
	if i.Raw {
		return json.Marshal(i.Name)
	}
	type plain Ingredient
	return json.Marshal(plain(i))
}

// Quantity is a free-form amount such as "2", "1.5" or "a pinch".
// It decodes from a JSON string or number.
type Quantity string

// UnmarshalJSON accepts a string, a number or null
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*q = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			// booleans and objects carry no amount
			*q = ""
			return nil
		}
		*q = Quantity(n.String())
	}
	return nil
}

// String returns the quantity text
func (q Quantity) String() string {
	return string(q)
}
