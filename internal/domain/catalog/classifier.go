package catalog

import "strings"

// DefaultBeverageKeywords is the keyword set used when none is configured
var DefaultBeverageKeywords = []string{"bebida", "refrigerante", "suco", "água", "agua", "cerveja"}

// BeverageClassifier decides whether a product counts as a beverage.
// Classification happens exactly once, at sale-item creation; the resulting
// tag is persisted with the item so display and delivery always agree.
type BeverageClassifier struct {
	keywords []string
}

// NewBeverageClassifier creates a classifier with the given keyword set.
// Falls back to DefaultBeverageKeywords when the set is empty.
func NewBeverageClassifier(keywords []string) *BeverageClassifier {
	if len(keywords) == 0 {
		keywords = DefaultBeverageKeywords
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(strings.TrimSpace(k))
	}
	return &BeverageClassifier{keywords: lowered}
}

// IsBeverage matches the product name and category name against the keyword
// set with a case-insensitive substring check.
func (c *BeverageClassifier) IsBeverage(productName, categoryName string) bool {
	product := strings.ToLower(productName)
	category := strings.ToLower(categoryName)
	for _, k := range c.keywords {
		if k == "" {
			continue
		}
		if strings.Contains(product, k) || strings.Contains(category, k) {
			return true
		}
	}
	return false
}
