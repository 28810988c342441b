package domain

// MacroTotals is the summed macronutrient intake for a day or period
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"` // grams
	Carbs    float64 `json:"carbs"`   // grams
	Fat      float64 `json:"fat"`     // grams
}

// Get returns the total for one macro
func (t MacroTotals) Get(kind MacroKind) float64 {
	switch kind {
	case MacroCalories:
		return t.Calories
	case MacroProtein:
		return t.Protein
	case MacroCarbs:
		return t.Carbs
	case MacroFat:
		return t.Fat
	}
	return 0
}

// Add returns the element-wise sum
func (t MacroTotals) Add(o MacroTotals) MacroTotals {
	return MacroTotals{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fat:      t.Fat + o.Fat,
	}
}

// NutritionGoals are the user's daily targets
type NutritionGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DefaultGoals is used when a user has no profile targets
func DefaultGoals() NutritionGoals {
	return NutritionGoals{Calories: 2200, Protein: 120, Carbs: 250, Fat: 70}
}

// WithDefaults fills non-positive targets from fallback
func (g NutritionGoals) WithDefaults(fallback NutritionGoals) NutritionGoals {
	if g.Calories <= 0 {
		g.Calories = fallback.Calories
	}
	if g.Protein <= 0 {
		g.Protein = fallback.Protein
	}
	if g.Carbs <= 0 {
		g.Carbs = fallback.Carbs
	}
	if g.Fat <= 0 {
		g.Fat = fallback.Fat
	}
	return g
}

// Get returns the target for one macro
func (g NutritionGoals) Get(kind MacroKind) float64 {
	switch kind {
	case MacroCalories:
		return g.Calories
	case MacroProtein:
		return g.Protein
	case MacroCarbs:
		return g.Carbs
	case MacroFat:
		return g.Fat
	}
	return 0
}

// MacroKind names a tracked macronutrient
type MacroKind string

const (
	MacroCalories MacroKind = "calories"
	MacroProtein  MacroKind = "protein"
	MacroCarbs    MacroKind = "carbs"
	MacroFat      MacroKind = "fat"
)

// MacroKinds lists every tracked macro
var MacroKinds = []MacroKind{MacroCalories, MacroProtein, MacroCarbs, MacroFat}

// MacroStatus is the classification of a total against its goal
type MacroStatus string

const (
	StatusTargetMet MacroStatus = "target-met"
	StatusTooHigh   MacroStatus = "too-high"
	StatusTooLow    MacroStatus = "too-low"
)

// Tolerance is the accepted band around a goal
type Tolerance struct {
	Above float64 `json:"above"`
	Below float64 `json:"below"`
}

// Tolerances holds a band per macro
type Tolerances struct {
	Calories Tolerance `json:"calories"`
	Protein  Tolerance `json:"protein"`
	Carbs    Tolerance `json:"carbs"`
	Fat      Tolerance `json:"fat"`
}

// DefaultTolerances: calories ±75, protein ±2, carbs ±5, fat ±5
func DefaultTolerances() Tolerances {
	return Tolerances{
		Calories: Tolerance{Above: 75, Below: 75},
		Protein:  Tolerance{Above: 2, Below: 2},
		Carbs:    Tolerance{Above: 5, Below: 5},
		Fat:      Tolerance{Above: 5, Below: 5},
	}
}

// For returns the band for a macro; unknown kinds get a zero band
func (t Tolerances) For(kind MacroKind) Tolerance {
	switch kind {
	case MacroCalories:
		return t.Calories
	case MacroProtein:
		return t.Protein
	case MacroCarbs:
		return t.Carbs
	case MacroFat:
		return t.Fat
	}
	return Tolerance{}
}

// USDAFood represents a food item from the USDA FoodData Central API
type USDAFood struct {
	FdcID       int            `json:"fdcId"`
	Description string         `json:"description"`
	DataType    string         `json:"dataType"`
	BrandOwner  string         `json:"brandOwner,omitempty"`
	FoodClass   string         `json:"foodClass,omitempty"`
	Nutrients   []USDANutrient `json:"foodNutrients"`
}

// USDANutrient represents a single nutrient from USDA data
type USDANutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// USDASearchResponse represents the response from USDA search API
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}
