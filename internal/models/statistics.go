package models

// DailyTrend is the per-day volume of scored transactions.
type DailyTrend struct {
	Date       string `json:"date"`
	Count      int64  `json:"count"`
	FraudCount int64  `json:"fraud_count"`
}

// Statistics is the overall summary of stored transactions.
type Statistics struct {
	TotalTransactions  int64            `json:"total_transactions"`
	PredictionCounts   map[string]int64 `json:"prediction_counts"`
	AverageProbability float64          `json:"average_probability"`
	RecentTrends       []DailyTrend     `json:"recent_trends"`
}

// CountryStat is the fraud breakdown for one sender country.
type CountryStat struct {
	Country           string  `json:"country"`
	TotalTransactions int64   `json:"total_transactions"`
	FraudTransactions int64   `json:"fraud_transactions"`
	FraudPercentage   float64 `json:"fraud_percentage"`
}

// VPNProxyStat is the fraud breakdown for one VPN/proxy usage bucket.
type VPNProxyStat struct {
	UsingVPNProxy     string  `json:"using_vpn_proxy"`
	TotalTransactions int64   `json:"total_transactions"`
	FraudTransactions int64   `json:"fraud_transactions"`
	FraudPercentage   float64 `json:"fraud_percentage"`
}

// LocationStatistics groups fraud rates by country and by VPN/proxy usage.
type LocationStatistics struct {
	CountryStatistics  []CountryStat  `json:"country_statistics"`
	VPNProxyStatistics []VPNProxyStat `json:"vpn_proxy_statistics"`
}

// LocationRow is the projection scanned when building location statistics.
type LocationRow struct {
	ID           uint
	Prediction   string
	LocationData string
}

// EmptyStatistics is the zeroed shape returned alongside errors.
func EmptyStatistics() Statistics {
	return Statistics{
		PredictionCounts: map[string]int64{},
		RecentTrends:     []DailyTrend{},
	}
}

// EmptyLocationStatistics is the zeroed shape returned alongside errors.
func EmptyLocationStatistics() LocationStatistics {
	return LocationStatistics{
		CountryStatistics:  []CountryStat{},
		VPNProxyStatistics: []VPNProxyStat{},
	}
}
