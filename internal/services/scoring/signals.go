package scoring

import (
	"fmt"
	"math"

	"fraudgen/internal/models"
)

// SignalKind says which explanation pool a signal belongs to.
type SignalKind int

const (
	KindSuspicious SignalKind = iota
	KindConfirming
	// KindScoreOnly signals move the probability but are not narrated.
	KindScoreOnly
)

func (k SignalKind) String() string {
	switch k {
	case KindSuspicious:
		return "suspicious"
	case KindConfirming:
		return "confirming"
	default:
		return "score_only"
	}
}

// MarshalText renders the kind by name in JSON responses.
func (k SignalKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type SignalCode string

const (
	SignalVPN                   SignalCode = "vpn"
	SignalProxy                 SignalCode = "proxy"
	SignalCrossBorder           SignalCode = "cross_border"
	SignalDomestic              SignalCode = "domestic"
	SignalLargeTransfer         SignalCode = "large_transfer"
	SignalLargeAmount           SignalCode = "large_amount"
	SignalNormalAmount          SignalCode = "normal_amount"
	SignalBalanceDrain          SignalCode = "balance_drain"
	SignalDormantDestination    SignalCode = "dormant_destination"
	SignalLowBalanceDestination SignalCode = "low_balance_destination"
	SignalVelocity              SignalCode = "velocity"
	SignalRiskyType             SignalCode = "risky_type"
	SignalPaymentType           SignalCode = "payment_type"
)

// Signal is one condition that held for the transaction.
type Signal struct {
	Code    SignalCode `json:"code"`
	Kind    SignalKind `json:"kind"`
	Message string     `json:"message"`
}

const (
	largeAmountThreshold    = 50000
	drainMinAmount          = 10000
	drainTolerance          = 0.01
	dormantDestBefore       = 1000
	dormantDestAfter        = 50000
	lowBalanceDestBefore    = 10000
	velocityAmountThreshold = 100000
	velocityStepLimit       = 100
)

// Evaluate runs every predicate once and returns the fired signals in rule
// order. The order matters: the accumulator applies effects in sequence and
// the explanation takes the first entries of each pool.
func Evaluate(in Input, loc models.Location) []Signal {
	signals := make([]Signal, 0, 8)
	add := func(code SignalCode, kind SignalKind, msg string) {
		signals = append(signals, Signal{Code: code, Kind: kind, Message: msg})
	}

	switch {
	case loc.IsVPN:
		add(SignalVPN, KindSuspicious, "The transaction appears to be using a VPN")
	case loc.IsProxy:
		add(SignalProxy, KindSuspicious, "The transaction appears to be using a proxy")
	}

	if in.ReceiverCountry != "" && in.ReceiverCountry != loc.Country {
		add(SignalCrossBorder, KindSuspicious,
			fmt.Sprintf("This is a cross-country transaction from %s to %s", loc.Country, in.ReceiverCountry))
	} else {
		add(SignalDomestic, KindConfirming,
			fmt.Sprintf("The transaction is domestic within %s", loc.Country))
	}

	if in.Type == models.TransactionTypeTransfer && in.Amount > largeAmountThreshold {
		add(SignalLargeTransfer, KindScoreOnly, "TRANSFER above 50,000")
	}

	if in.Amount > largeAmountThreshold {
		add(SignalLargeAmount, KindSuspicious, "The transaction amount is unusually large")
	} else {
		add(SignalNormalAmount, KindConfirming, "The transaction amount is within normal range")
	}

	if math.Abs(in.OriginBefore-in.OriginAfter-in.Amount) < drainTolerance && in.Amount > drainMinAmount {
		add(SignalBalanceDrain, KindSuspicious, "The entire amount was transferred out")
	}

	if in.DestBefore < dormantDestBefore && in.DestAfter > dormantDestAfter {
		add(SignalDormantDestination, KindScoreOnly, "Destination account went from under 1,000 to over 50,000")
	}

	if in.DestBefore < lowBalanceDestBefore && in.Type == models.TransactionTypeTransfer {
		add(SignalLowBalanceDestination, KindSuspicious, "The destination account had a low initial balance")
	}

	if in.Amount > velocityAmountThreshold && in.Step < velocityStepLimit {
		add(SignalVelocity, KindScoreOnly,
			fmt.Sprintf("Amount above 100,000 at step %d", in.Step))
	}

	switch in.Type {
	case models.TransactionTypeTransfer, models.TransactionTypeCashOut:
		add(SignalRiskyType, KindSuspicious,
			fmt.Sprintf("'%s' transactions are more commonly associated with fraud", in.Type))
	case models.TransactionTypePayment:
		add(SignalPaymentType, KindConfirming, "Payment transactions have lower fraud rates")
	}

	return signals
}

// Has reports whether code is among signals.
func Has(signals []Signal, code SignalCode) bool {
	for _, s := range signals {
		if s.Code == code {
			return true
		}
	}
	return false
}
