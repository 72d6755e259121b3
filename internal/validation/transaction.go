package validation

import (
	"math"
	"strings"

	"fraudgen/internal/models"
	"fraudgen/internal/services/scoring"
)

// RequiredTransactionFields must all be present in a prediction request.
var RequiredTransactionFields = []string{
	"type",
	"amount",
	"oldbalanceOrg",
	"newbalanceOrig",
	"oldbalanceDest",
	"newbalanceDest",
}

var transactionTypes = map[string]bool{
	models.TransactionTypeTransfer: true,
	models.TransactionTypePayment:  true,
	models.TransactionTypeCashOut:  true,
	models.TransactionTypeCashIn:   true,
	models.TransactionTypeDebit:    true,
}

const defaultStep = 1

// PredictionInput validates a prediction request and extracts the scorer
// input. It normalizes data in place: the type is upper-cased, a missing
// step is set to 1 and an empty receiver_country is dropped.
func PredictionInput(data models.JSON) (scoring.Input, error) {
	v := New()
	v.Required(data, RequiredTransactionFields...)
	if err := v.Err(); err != nil {
		return scoring.Input{}, err
	}

	in := scoring.Input{
		Type:         strings.ToUpper(v.String(data, "type")),
		Amount:       v.Number(data, "amount"),
		OriginBefore: v.Number(data, "oldbalanceOrg"),
		OriginAfter:  v.Number(data, "newbalanceOrig"),
		DestBefore:   v.Number(data, "oldbalanceDest"),
		DestAfter:    v.Number(data, "newbalanceDest"),
		Step:         defaultStep,
	}
	v.Check(transactionTypes[in.Type], "type", "must be one of TRANSFER, PAYMENT, CASH_OUT, CASH_IN, DEBIT")

	if _, ok := data["step"]; ok {
		step := math.Floor(v.Number(data, "step"))
		// float64(math.MaxInt64) is 2^63, one past the largest int64.
		inRange := step >= math.MinInt64 && step < math.MaxInt64
		v.Check(inRange, "step", "is out of range")
		if inRange {
			in.Step = int64(step)
		}
	}

	if _, ok := data["receiver_country"]; ok {
		in.ReceiverCountry = strings.ToUpper(v.String(data, "receiver_country"))
	}

	if err := v.Err(); err != nil {
		return scoring.Input{}, err
	}

	data["type"] = in.Type
	if _, ok := data["step"]; !ok {
		data["step"] = defaultStep
	}
	if in.ReceiverCountry == "" {
		delete(data, "receiver_country")
	} else {
		data["receiver_country"] = in.ReceiverCountry
	}
	return in, nil
}
