package dashboard

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fraudgen/internal/models"
	"fraudgen/internal/repositories"
	"fraudgen/internal/services/scoring"
)

const (
	// TrendDays is the number of most recent days reported in recent_trends.
	TrendDays = 5
	// TopCountries bounds country_statistics.
	TopCountries = 10
)

const (
	vpnProxyYes = "Yes"
	vpnProxyNo  = "No"
)

type Service interface {
	Statistics(ctx context.Context) (models.Statistics, error)
	LocationStatistics(ctx context.Context) (models.LocationStatistics, error)
}

type service struct {
	transactionRepo repositories.TransactionRepository
}

func NewService(transactionRepo repositories.TransactionRepository) Service {
	if transactionRepo == nil {
		panic("transactionRepo is required")
	}
	return &service{transactionRepo: transactionRepo}
}

// Statistics summarizes every stored transaction. On failure the zeroed
// shape is returned with the error.
func (s *service) Statistics(ctx context.Context) (models.Statistics, error) {
	total, err := s.transactionRepo.Count(ctx)
	if err != nil {
		return models.EmptyStatistics(), err
	}

	counts, err := s.transactionRepo.CountByPrediction(ctx)
	if err != nil {
		return models.EmptyStatistics(), err
	}

	avg, err := s.transactionRepo.AverageProbability(ctx)
	if err != nil {
		return models.EmptyStatistics(), err
	}

	trends, err := s.transactionRepo.RecentDailyTrends(ctx, TrendDays)
	if err != nil {
		return models.EmptyStatistics(), err
	}

	stats := models.EmptyStatistics()
	stats.TotalTransactions = total
	stats.AverageProbability = avg
	for label, n := range counts {
		stats.PredictionCounts[label] = n
	}
	stats.RecentTrends = append(stats.RecentTrends, trends...)
	return stats, nil
}

func (s *service) LocationStatistics(ctx context.Context) (models.LocationStatistics, error) {
	rows, err := s.transactionRepo.LocationRows(ctx)
	if err != nil {
		return models.EmptyLocationStatistics(), err
	}
	return TallyLocations(rows), nil
}

type tally struct {
	total int64
	fraud int64
}

func (t *tally) add(fraud bool) {
	t.total++
	if fraud {
		t.fraud++
	}
}

// TallyLocations groups rows by sender country and by VPN/proxy usage.
// Rows whose location cannot be decoded are skipped. Countries are ordered
// by fraud count, then total, then name, and cut to TopCountries. Both
// VPN/proxy buckets are always reported.
func TallyLocations(rows []models.LocationRow) models.LocationStatistics {
	byCountry := make(map[string]*tally)
	vpn := map[string]*tally{vpnProxyYes: {}, vpnProxyNo: {}}

	for _, row := range rows {
		loc, err := models.DecodeLocation(row.LocationData)
		if err != nil {
			zap.L().Warn("skipping transaction with unreadable location",
				zap.Uint("id", row.ID), zap.Error(err))
			continue
		}
		fraud := scoring.IsFlaggedLabel(row.Prediction)

		c, ok := byCountry[loc.Country]
		if !ok {
			c = &tally{}
			byCountry[loc.Country] = c
		}
		c.add(fraud)

		if loc.Anonymized() {
			vpn[vpnProxyYes].add(fraud)
		} else {
			vpn[vpnProxyNo].add(fraud)
		}
	}

	out := models.EmptyLocationStatistics()
	for country, t := range byCountry {
		out.CountryStatistics = append(out.CountryStatistics, models.CountryStat{
			Country:           country,
			TotalTransactions: t.total,
			FraudTransactions: t.fraud,
			FraudPercentage:   percentage(t.fraud, t.total),
		})
	}
	sort.Slice(out.CountryStatistics, func(i, j int) bool {
		a, b := out.CountryStatistics[i], out.CountryStatistics[j]
		if a.FraudTransactions != b.FraudTransactions {
			return a.FraudTransactions > b.FraudTransactions
		}
		if a.TotalTransactions != b.TotalTransactions {
			return a.TotalTransactions > b.TotalTransactions
		}
		return a.Country < b.Country
	})
	if len(out.CountryStatistics) > TopCountries {
		out.CountryStatistics = out.CountryStatistics[:TopCountries]
	}

	for _, bucket := range []string{vpnProxyYes, vpnProxyNo} {
		t := vpn[bucket]
		out.VPNProxyStatistics = append(out.VPNProxyStatistics, models.VPNProxyStat{
			UsingVPNProxy:     bucket,
			TotalTransactions: t.total,
			FraudTransactions: t.fraud,
			FraudPercentage:   percentage(t.fraud, t.total),
		})
	}
	return out
}

// percentage is fraud/total as a percent rounded to two places; 0 when total is 0.
func percentage(fraud, total int64) float64 {
	if total == 0 {
		return 0
	}
	p := decimal.NewFromInt(fraud).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(2)
	f, _ := p.Float64()
	return f
}
