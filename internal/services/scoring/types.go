package scoring

import "strings"

// Decision is the classification label attached to a scored transaction.
type Decision string

const (
	DecisionConfirmedFraud Decision = "CONFIRMED_FRAUD"
	DecisionHighRisk       Decision = "HIGH_RISK"
	DecisionNeedsReview    Decision = "NEEDS_REVIEW"
	DecisionLegitimate     Decision = "LEGITIMATE"
)

// Action is the recommended downstream handling for a decision.
type Action string

const (
	ActionBlockAndAlert   Action = "block_and_alert"
	ActionBlockWithReview Action = "block_with_review"
	ActionManualReview    Action = "manual_review"
	ActionAllow           Action = "allow"
)

// Flagged reports whether the decision counts as fraud in reporting.
func (d Decision) Flagged() bool {
	return IsFlaggedLabel(string(d))
}

// IsFlaggedLabel applies the reporting fraud rule to a stored label: the
// label contains FRAUD or HIGH_RISK. Stored labels may carry decorations, so
// this is a substring test.
func IsFlaggedLabel(label string) bool {
	return strings.Contains(label, "FRAUD") || strings.Contains(label, "HIGH_RISK")
}

// Input holds the transaction fields the rules read.
type Input struct {
	Type            string
	Amount          float64
	OriginBefore    float64
	OriginAfter     float64
	DestBefore      float64
	DestAfter       float64
	Step            int64
	ReceiverCountry string
}

// Result is the outcome of scoring one transaction.
type Result struct {
	Probability float64  `json:"probability"`
	Decision    Decision `json:"decision"`
	Action      Action   `json:"action"`
	Reason      string   `json:"reason"`
	Explanation string   `json:"explanation"`
	Signals     []Signal `json:"signals"`
}
