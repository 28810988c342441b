package usda

import (
	"strconv"
	"strings"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// USDA Nutrient IDs for key macronutrients
const (
	NutrientIDEnergy       = 1008 // Calories (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrates (g)
	NutrientIDTotalFat     = 1004 // Total Fat (g)
	NutrientIDFiber        = 1079 // Fiber, total dietary (g)
)

// RecipeIDPrefix marks catalog ids that came from USDA
const RecipeIDPrefix = "usda-"

// MapToRecipe converts a USDA food into a food-typed recipe. Values are per 100 g.
func MapToRecipe(usdaFood *domain.USDAFood) domain.Recipe {
	name := strings.TrimSpace(usdaFood.Description)
	if usdaFood.BrandOwner != "" {
		name = name + " (" + strings.TrimSpace(usdaFood.BrandOwner) + ")"
	}

	return domain.Recipe{
		ID:             RecipeIDPrefix + strconv.Itoa(usdaFood.FdcID),
		Name:           name,
		Type:           domain.RecipeTypeFood,
		Macros:         extractMacros(usdaFood.Nutrients),
		ExternalSource: true,
	}
}

// extractMacros extracts the key macronutrients from USDA nutrient list
func extractMacros(usdaNutrients []domain.USDANutrient) domain.Macros {
	macros := domain.Macros{}

	for _, nutrient := range usdaNutrients {
		switch nutrient.NutrientID {
		case NutrientIDEnergy:
			macros.Calories = nutrient.Value
		case NutrientIDProtein:
			macros.Protein = nutrient.Value
		case NutrientIDCarbohydrate:
			macros.Carbs = nutrient.Value
		case NutrientIDTotalFat:
			macros.Fat = nutrient.Value
		case NutrientIDFiber:
			fiber := nutrient.Value
			macros.Fiber = &fiber
		}
	}

	return macros
}
