package models

import (
	"time"
)

// Transaction type codes accepted for scoring.
const (
	TransactionTypeTransfer = "TRANSFER"
	TransactionTypePayment  = "PAYMENT"
	TransactionTypeCashOut  = "CASH_OUT"
	TransactionTypeCashIn   = "CASH_IN"
	TransactionTypeDebit    = "DEBIT"
)

// TimestampLayout is the wire format of Transaction.CreatedAt.
const TimestampLayout = "2006-01-02 15:04:05"

// Transaction is a scored transaction as persisted. Rows are inserted once
// and only ever removed by id.
type Transaction struct {
	ID              uint      `gorm:"primarykey"`
	Reference       string    `gorm:"type:uuid;not null"`
	TransactionData string    `gorm:"type:text"`
	Prediction      string    `gorm:"not null"`
	Probability     float64   `gorm:"not null"`
	Action          string    `gorm:"not null"`
	Explanation     string    `gorm:"type:text"`
	IPAddress       string    `gorm:"column:ip_address"`
	ForwardedFor    string    `gorm:"column:forwarded_for"`
	LocationData    *string   `gorm:"type:text"`
	LocationCountry *string   `gorm:"column:location_country"`
	CreatedAt       time.Time `gorm:"not null"`
}

// TransactionView is the API representation of a stored transaction with its
// JSON columns decoded.
type TransactionView struct {
	ID              uint    `json:"id"`
	Reference       string  `json:"reference"`
	TransactionData JSON    `json:"transaction_data"`
	Prediction      string  `json:"prediction"`
	Probability     float64 `json:"probability"`
	Action          string  `json:"action"`
	Explanation     string  `json:"explanation"`
	Timestamp       string  `json:"timestamp"`
	IPAddress       string  `json:"ip_address"`
	ForwardedFor    string  `json:"forwarded_for,omitempty"`
	LocationData    JSON    `json:"location_data"`
}

// unknownLocation is returned for rows whose location column is missing or unreadable.
func unknownLocation() JSON {
	return JSON{"country": "Unknown", "region": "Unknown", "city": "Unknown"}
}

// View decodes the stored JSON columns. Malformed transaction data becomes an
// empty object and malformed location data the Unknown placeholder.
func (t *Transaction) View() TransactionView {
	data, err := ParseJSONObject(t.TransactionData)
	if err != nil {
		data = JSON{}
	}

	location := unknownLocation()
	if t.LocationData != nil {
		if parsed, err := ParseJSONObject(*t.LocationData); err == nil {
			location = parsed
		}
	}

	return TransactionView{
		ID:              t.ID,
		Reference:       t.Reference,
		TransactionData: data,
		Prediction:      t.Prediction,
		Probability:     t.Probability,
		Action:          t.Action,
		Explanation:     t.Explanation,
		Timestamp:       t.CreatedAt.Format(TimestampLayout),
		IPAddress:       t.IPAddress,
		ForwardedFor:    t.ForwardedFor,
		LocationData:    location,
	}
}

// TransactionFilter narrows a transaction listing. Empty strings disable a filter.
type TransactionFilter struct {
	Prediction string
	Country    string
	Limit      int
	Offset     int
}
