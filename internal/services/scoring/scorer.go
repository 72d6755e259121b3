package scoring

import (
	"github.com/shopspring/decimal"

	"fraudgen/internal/models"
)

var (
	baseline       = decimal.RequireFromString("0.10")
	maxProbability = decimal.RequireFromString("0.95")
)

// effect is how a signal moves the probability: raise to at least floor, or add delta.
type effect struct {
	floor decimal.Decimal
	delta decimal.Decimal
}

var effects = map[SignalCode]effect{
	SignalVPN:                {floor: decimal.RequireFromString("0.70")},
	SignalProxy:              {floor: decimal.RequireFromString("0.70")},
	SignalCrossBorder:        {delta: decimal.RequireFromString("0.10")},
	SignalLargeTransfer:      {floor: decimal.RequireFromString("0.70")},
	SignalBalanceDrain:       {floor: decimal.RequireFromString("0.60")},
	SignalDormantDestination: {floor: decimal.RequireFromString("0.80")},
	SignalVelocity:           {delta: decimal.RequireFromString("0.20")},
}

type bucket struct {
	min      decimal.Decimal
	decision Decision
	action   Action
	reason   string
}

// buckets are evaluated top-down; the first inclusive lower bound that
// matches wins.
var buckets = []bucket{
	{decimal.RequireFromString("0.90"), DecisionConfirmedFraud, ActionBlockAndAlert,
		"Model predicted high fraud probability (> 90%)."},
	{decimal.RequireFromString("0.70"), DecisionHighRisk, ActionBlockWithReview,
		"Model predicted moderately high fraud probability (70%-90%)."},
	{decimal.RequireFromString("0.20"), DecisionNeedsReview, ActionManualReview,
		"Model predicted borderline probability (20%-70%)."},
	{decimal.Zero, DecisionLegitimate, ActionAllow,
		"Model predicted low probability (< 20%)."},
}

// Scorer applies the fixed rule set. It holds no state.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score evaluates in against the resolved sender location.
func (s *Scorer) Score(in Input, loc models.Location) Result {
	signals := Evaluate(in, loc)
	p := accumulate(signals)
	b := classify(p)

	return Result{
		Probability: p.InexactFloat64(),
		Decision:    b.decision,
		Action:      b.action,
		Reason:      b.reason,
		Explanation: explain(b, p, signals, loc),
		Signals:     signals,
	}
}

func accumulate(signals []Signal) decimal.Decimal {
	p := baseline
	for _, sig := range signals {
		e, ok := effects[sig.Code]
		if !ok {
			continue
		}
		if !e.floor.IsZero() {
			p = decimal.Max(p, e.floor)
		}
		p = p.Add(e.delta)
	}
	if p.GreaterThan(maxProbability) {
		p = maxProbability
	}
	if p.IsNegative() {
		p = decimal.Zero
	}
	return p
}

func classify(p decimal.Decimal) bucket {
	for _, b := range buckets {
		if p.GreaterThanOrEqual(b.min) {
			return b
		}
	}
	return buckets[len(buckets)-1]
}

// StampSender records the resolved sender country and region on the
// outgoing transaction data.
func StampSender(data models.JSON, loc models.Location) {
	data["sender_country"] = loc.Country
	data["sender_region"] = loc.Region
}
