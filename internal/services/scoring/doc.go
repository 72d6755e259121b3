/*
Package scoring classifies a transaction against fixed fraud heuristics.

Scoring is a pure function of the submitted transaction fields and the
resolved sender location. A single evaluation pass produces an ordered list of
fired signals; the probability accumulator and the explanation renderer both
consume that list, so the two can never disagree about which rules fired.

Usage:

	scorer := scoring.NewScorer()
	result := scorer.Score(input, location)

	// result.Probability is in [0, 0.95]
	// result.Decision / result.Action follow the bucket table:
	//
	//	>= 0.90  CONFIRMED_FRAUD  block_and_alert
	//	>= 0.70  HIGH_RISK        block_with_review
	//	>= 0.20  NEEDS_REVIEW     manual_review
	//	else     LEGITIMATE       allow

Rules (applied in order, each can only raise the probability):

  - baseline 0.10
  - VPN or proxy: at least 0.70
  - receiver country differs from sender country: +0.10
  - TRANSFER above 50,000: at least 0.70
  - full balance drain above 10,000: at least 0.60
  - dormant destination (under 1,000 before, over 50,000 after): at least 0.80
  - amount above 100,000 before step 100: +0.20
  - capped at 0.95

Arithmetic is exact decimal, so 0.70 + 0.20 reaches the 0.90 bucket.
*/
package scoring
