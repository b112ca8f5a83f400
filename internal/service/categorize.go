package service

import "strings"

// categoryKeywords is tested in a fixed priority order; the first category
// whose keyword set matches wins.
var categoryOrder = []string{
	"produce", "dairy", "meat", "pantry", "snacks", "beverages", "frozen", "household",
}

var categoryKeywords = map[string][]string{
	"produce":   {"apple", "banana", "orange", "lettuce", "tomato", "onion", "carrot"},
	"dairy":     {"milk", "cheese", "yogurt", "butter", "eggs", "cream"},
	"meat":      {"chicken", "beef", "pork", "fish", "turkey"},
	"pantry":    {"pasta", "rice", "bread", "flour", "sugar", "oil"},
	"snacks":    {"chips", "crackers", "cookies", "nuts"},
	"beverages": {"water", "soda", "juice", "coffee", "tea"},
	"frozen":    {"ice cream", "frozen pizza", "frozen vegetables"},
	"household": {"paper towels", "soap", "shampoo", "detergent"},
}

// Categorize maps an item name to a category by keyword containment.
// Deterministic and pure; unmatched names fall back to "misc".
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, category := range categoryOrder {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}
	return "misc"
}
