package transaction

import (
	"time"

	"fraudgen/internal/models"
	"fraudgen/internal/services/geolocation"
	"fraudgen/internal/services/scoring"
)

// PredictRequest carries the submitted payload and the addressing details
// of the HTTP request it arrived on.
type PredictRequest struct {
	Data         models.JSON
	PeerAddress  string
	ForwardedFor string
}

// LocationSummary is the part of the resolved location echoed to clients.
type LocationSummary struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

// PredictionResult is the response to a scored transaction.
type PredictionResult struct {
	ID          uint             `json:"id"`
	Reference   string           `json:"reference"`
	Decision    scoring.Decision `json:"decision"`
	Probability float64          `json:"probability"`
	Action      scoring.Action   `json:"action"`
	Reason      string           `json:"reason"`
	Explanation string           `json:"explanation"`
	Signals     []scoring.Signal `json:"signals"`
	Location    LocationSummary  `json:"location"`
}

// ListResult is one page of stored transactions.
type ListResult struct {
	Transactions []models.TransactionView `json:"transactions"`
	Total        int64                    `json:"total"`
	Limit        int                      `json:"limit"`
	Offset       int                      `json:"offset"`
}

// TransactionConfig holds configuration for transaction processing
type TransactionConfig struct {
	GeoTimeout time.Duration
	Proxies    *geolocation.ProxyTrust
}
