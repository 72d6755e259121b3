package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fraudgen/internal/models"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int64, error) {
	args := m.Called(ctx, filter)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) CountByPrediction(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}

func (m *MockTransactionRepository) AverageProbability(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockTransactionRepository) RecentDailyTrends(ctx context.Context, days int) ([]models.DailyTrend, error) {
	args := m.Called(ctx, days)
	trends, _ := args.Get(0).([]models.DailyTrend)
	return trends, args.Error(1)
}

func (m *MockTransactionRepository) LocationRows(ctx context.Context) ([]models.LocationRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]models.LocationRow)
	return rows, args.Error(1)
}

func TestStatistics(t *testing.T) {
	repo := new(MockTransactionRepository)
	repo.On("Count", mock.Anything).Return(int64(4), nil)
	repo.On("CountByPrediction", mock.Anything).Return(map[string]int64{"LEGITIMATE": 3, "HIGH_RISK": 1}, nil)
	repo.On("AverageProbability", mock.Anything).Return(0.25, nil)
	repo.On("RecentDailyTrends", mock.Anything, TrendDays).Return([]models.DailyTrend{
		{Date: "2025-04-02", Count: 1, FraudCount: 1},
		{Date: "2025-04-01", Count: 3, FraudCount: 0},
	}, nil)

	stats, err := NewService(repo).Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalTransactions)
	assert.Equal(t, map[string]int64{"LEGITIMATE": 3, "HIGH_RISK": 1}, stats.PredictionCounts)
	assert.Equal(t, 0.25, stats.AverageProbability)
	assert.Len(t, stats.RecentTrends, 2)
	repo.AssertExpectations(t)
}

func TestStatistics_Empty(t *testing.T) {
	repo := new(MockTransactionRepository)
	repo.On("Count", mock.Anything).Return(int64(0), nil)
	repo.On("CountByPrediction", mock.Anything).Return(nil, nil)
	repo.On("AverageProbability", mock.Anything).Return(0.0, nil)
	repo.On("RecentDailyTrends", mock.Anything, TrendDays).Return(nil, nil)

	stats, err := NewService(repo).Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.EmptyStatistics(), stats)
}

func TestStatistics_ErrorReturnsZeroedShape(t *testing.T) {
	repo := new(MockTransactionRepository)
	repo.On("Count", mock.Anything).Return(int64(3), nil)
	repo.On("CountByPrediction", mock.Anything).Return(nil, errors.New("boom"))

	stats, err := NewService(repo).Statistics(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.EmptyStatistics(), stats)
	assert.NotNil(t, stats.PredictionCounts)
	assert.NotNil(t, stats.RecentTrends)
}

func row(id uint, prediction, location string) models.LocationRow {
	return models.LocationRow{ID: id, Prediction: prediction, LocationData: location}
}

func TestTallyLocations(t *testing.T) {
	rows := []models.LocationRow{
		row(1, "CONFIRMED_FRAUD", `{"country":"US","is_vpn":false}`),
		row(2, "LEGITIMATE", `{"country":"US"}`),
		row(3, "LEGITIMATE", `{"country":"US"}`),
		row(4, "HIGH_RISK", `{"country":"GB","is_proxy":true}`),
		row(5, "NEEDS_REVIEW", `{"country":"GB","is_vpn":"true"}`),
		row(6, "🚨 FRAUD", `{"region":"nowhere"}`),
		row(7, "LEGITIMATE", `{"country":FR}`),
		row(8, "LEGITIMATE", ``),
	}

	stats := TallyLocations(rows)

	// All three tie on fraud count, so larger totals come first.
	assert.Equal(t, []models.CountryStat{
		{Country: "US", TotalTransactions: 3, FraudTransactions: 1, FraudPercentage: 33.33},
		{Country: "GB", TotalTransactions: 2, FraudTransactions: 1, FraudPercentage: 50},
		{Country: "Unknown", TotalTransactions: 1, FraudTransactions: 1, FraudPercentage: 100},
	}, stats.CountryStatistics)

	assert.Equal(t, []models.VPNProxyStat{
		{UsingVPNProxy: "Yes", TotalTransactions: 2, FraudTransactions: 1, FraudPercentage: 50},
		{UsingVPNProxy: "No", TotalTransactions: 4, FraudTransactions: 2, FraudPercentage: 50},
	}, stats.VPNProxyStatistics)
}

func TestTallyLocations_NoRows(t *testing.T) {
	stats := TallyLocations(nil)
	assert.Empty(t, stats.CountryStatistics)
	assert.NotNil(t, stats.CountryStatistics)
	assert.Equal(t, []models.VPNProxyStat{
		{UsingVPNProxy: "Yes"},
		{UsingVPNProxy: "No"},
	}, stats.VPNProxyStatistics)
}

func TestTallyLocations_TopTenAndTieOrder(t *testing.T) {
	var rows []models.LocationRow
	id := uint(0)
	// Twelve countries with one legitimate transaction each, plus one fraud in "ZZ".
	for i := 0; i < 12; i++ {
		id++
		rows = append(rows, row(id, "LEGITIMATE", fmt.Sprintf(`{"country":"C%02d"}`, 11-i)))
	}
	id++
	rows = append(rows, row(id, "HIGH_RISK", `{"country":"ZZ"}`))

	stats := TallyLocations(rows)
	require.Len(t, stats.CountryStatistics, TopCountries)
	assert.Equal(t, "ZZ", stats.CountryStatistics[0].Country)
	assert.Equal(t, "C00", stats.CountryStatistics[1].Country)
	assert.Equal(t, "C08", stats.CountryStatistics[9].Country)
}

func TestLocationStatistics_Error(t *testing.T) {
	repo := new(MockTransactionRepository)
	repo.On("LocationRows", mock.Anything).Return(nil, errors.New("boom"))

	stats, err := NewService(repo).LocationStatistics(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.EmptyLocationStatistics(), stats)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, percentage(0, 0))
	assert.Equal(t, 66.67, percentage(2, 3))
	assert.Equal(t, 100.0, percentage(5, 5))
	assert.Equal(t, 14.29, percentage(1, 7))
}
