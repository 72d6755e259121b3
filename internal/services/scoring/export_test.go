package scoring

import "github.com/shopspring/decimal"

// Classify exposes the bucket lookup to the external test package.
func Classify(probability float64) (Decision, Action) {
	b := classify(decimal.NewFromFloat(probability))
	return b.decision, b.action
}
