package transaction

import (
	"math/rand"

	"fraudgen/internal/models"
)

var sampleTransactions = []string{
	`{"step":132,"type":"TRANSFER","amount":85000,"oldbalanceOrg":100000,"newbalanceOrig":15000,"oldbalanceDest":5000,"newbalanceDest":90000,"receiver_country":"CA"}`,
	`{"step":210,"type":"PAYMENT","amount":125.75,"oldbalanceOrg":2000.00,"newbalanceOrig":1874.25,"oldbalanceDest":5000.00,"newbalanceDest":5125.75,"receiver_country":"US"}`,
	`{"step":88,"type":"TRANSFER","amount":240000,"oldbalanceOrg":260000,"newbalanceOrig":20000,"oldbalanceDest":10000,"newbalanceDest":250000,"receiver_country":"GB"}`,
}

// SampleTransactions returns fresh copies of the demo payloads.
func SampleTransactions() []models.JSON {
	out := make([]models.JSON, 0, len(sampleTransactions))
	for _, raw := range sampleTransactions {
		m, err := models.ParseJSONObject(raw)
		if err != nil {
			panic(err)
		}
		out = append(out, m)
	}
	return out
}

func (s *service) SampleTransaction() models.JSON {
	samples := SampleTransactions()
	return samples[s.pick(len(samples))]
}

func randomIndex(n int) int {
	return rand.Intn(n)
}
