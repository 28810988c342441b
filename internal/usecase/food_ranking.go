package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

var (
	punctuationRegex = regexp.MustCompile(`[^\w\s]`)

	// Matches amounts like "2 cups", "12 oz", "1.5 liter", "500g", "6-pack"
	quantityPattern = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(fl\s*)?(oz|ounces?|lbs?|pounds?|ml|liters?|kg|grams?|g|cups?|tbsp|tsp|cans?|bottles?)\b|\b\d+[-\s]*(pack|pk|count|ct)\b`)
)

// Scoring weights
const (
	fuzzyWeightFactor       = 0.8 // fuzzy token matches count 80%
	substringMatchBonus     = 10.0
	dataTypeFoundationBonus = 6.0
	dataTypeSurveyBonus     = 4.0
	dataTypeBrandedBonus    = 0.0
)

// rankingStopWords are dropped before comparing a query with a USDA description
var rankingStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "with": true, "for": true, "to": true,
	"oz": true, "lb": true, "lbs": true, "ml": true, "cup": true, "cups": true,
	"tbsp": true, "tsp": true, "pack": true, "can": true, "bag": true, "box": true,
	"raw": true, "nfs": true, "ns": true,
}

// scoredFood pairs a USDA food with its relevance to a query
type scoredFood struct {
	food  domain.USDAFood
	score float64
}

// rankFoods orders foods by relevance to query, best first. Ties keep the
// API's order.
func rankFoods(query string, foods []domain.USDAFood) []domain.USDAFood {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 || len(foods) < 2 {
		return foods
	}

	scored := make([]scoredFood, len(foods))
	for i := range foods {
		scored[i] = scoredFood{food: foods[i], score: matchScore(query, queryTokens, foods[i])}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	out := make([]domain.USDAFood, len(scored))
	for i := range scored {
		out[i] = scored[i].food
	}
	return out
}

// matchScore blends query coverage (70%) and description coverage (30%) into
// 0-100, then adds bonuses for substring hits and curated data types
func matchScore(query string, queryTokens []string, food domain.USDAFood) float64 {
	descTokens := tokenize(food.Description)
	if len(descTokens) == 0 {
		return 0
	}

	queryHits := coverage(queryTokens, descTokens)
	descHits := coverage(descTokens, queryTokens)

	score := (queryHits/float64(len(queryTokens))*0.70 + descHits/float64(len(descTokens))*0.30) * 100

	queryLower := strings.ToLower(strings.TrimSpace(query))
	if len(queryLower) > 3 && strings.Contains(strings.ToLower(food.Description), queryLower) {
		score += substringMatchBonus
	}

	switch food.DataType {
	case "Foundation":
		score += dataTypeFoundationBonus
	case "Survey (FNDDS)":
		score += dataTypeSurveyBonus
	case "Branded":
		score += dataTypeBrandedBonus
	}

	return score
}

// coverage counts how many of want appear in have; near misses count partially
func coverage(want, have []string) float64 {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}

	var hits float64
	for _, t := range want {
		if set[t] {
			hits++
			continue
		}
		for _, h := range have {
			if fuzzyTokenMatch(t, h) {
				hits += fuzzyWeightFactor
				break
			}
		}
	}
	return hits
}

// tokenize lowercases, strips punctuation, and drops stop words, numbers and
// single characters
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 || rankingStopWords[word] || isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch allows one edit between tokens of at least four characters,
// which catches plurals and common misspellings
func fuzzyTokenMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) < 4 || len(b) < 4 {
		return false
	}
	diff := len(a) - len(b)
	if diff < -1 || diff > 1 {
		return false
	}
	return levenshteinDistance(a, b) <= 1
}

// levenshteinDistance is the rune edit distance using two rolling rows
func levenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// stripQuantities removes amounts so an ingredient line like "2 cups oat milk"
// searches as "oat milk"
func stripQuantities(query string) string {
	stripped := strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(quantityPattern.ReplaceAllString(query, " "), " "))
	if stripped == "" {
		return strings.TrimSpace(query)
	}
	return stripped
}
