package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"

	apperrors "fraudgen/internal/errors"
	"fraudgen/internal/models"
)

// TransactionRepository persists scored transactions and answers the
// reporting queries over them.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int64, error)
	Delete(ctx context.Context, id uint) error

	// Reporting
	Count(ctx context.Context) (int64, error)
	CountByPrediction(ctx context.Context) (map[string]int64, error)
	AverageProbability(ctx context.Context) (float64, error)
	RecentDailyTrends(ctx context.Context, days int) ([]models.DailyTrend, error)
	LocationRows(ctx context.Context) ([]models.LocationRow, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return eris.Wrap(err, "repositories: create transaction")
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).First(&tx, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "repositories: get transaction %d", id)
	}
	return &tx, nil
}

// List returns one page of transactions, newest first, and the number of
// rows matching the filter regardless of pagination.
func (r *transactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, eris.Wrap(err, "repositories: count transactions")
	}

	txs := []models.Transaction{}
	err := r.filtered(ctx, filter).
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&txs).Error
	if err != nil {
		return nil, 0, eris.Wrap(err, "repositories: list transactions")
	}
	return txs, total, nil
}

func (r *transactionRepository) filtered(ctx context.Context, filter models.TransactionFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Transaction{})

	if filter.Prediction != "" {
		q = q.Where("UPPER(prediction) LIKE UPPER(?)", "%"+escapeLike(filter.Prediction)+"%")
	}

	if filter.Country != "" {
		c := escapeLike(filter.Country)
		// Case-insensitive. Rows written before location_country existed
		// are matched on either textual encoding of the country inside
		// location_data.
		q = q.Where(
			"(UPPER(location_country) = UPPER(?) OR (location_country IS NULL AND (location_data ILIKE ? OR location_data ILIKE ?)))",
			filter.Country,
			`%"country":"`+c+`"%`,
			`%"country":`+c+`%`,
		)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Delete removes a transaction in a single statement.
func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Transaction{}, id)
	if res.Error != nil {
		return eris.Wrapf(res.Error, "repositories: delete transaction %d", id)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&n).Error; err != nil {
		return 0, eris.Wrap(err, "repositories: count transactions")
	}
	return n, nil
}

func (r *transactionRepository) CountByPrediction(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Prediction string
		Count      int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("prediction, COUNT(*) AS count").
		Group("prediction").
		Scan(&rows).Error
	if err != nil {
		return nil, eris.Wrap(err, "repositories: count by prediction")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Prediction] = row.Count
	}
	return counts, nil
}

func (r *transactionRepository) AverageProbability(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(AVG(probability), 0)").
		Row().
		Scan(&avg)
	if err != nil {
		return 0, eris.Wrap(err, "repositories: average probability")
	}
	return avg, nil
}

const recentTrendsQuery = `
SELECT TO_CHAR(created_at, 'YYYY-MM-DD') AS date,
       COUNT(*) AS count,
       SUM(CASE WHEN prediction LIKE '%FRAUD%' OR prediction LIKE '%HIGH_RISK%' THEN 1 ELSE 0 END) AS fraud_count
FROM transactions
GROUP BY 1
ORDER BY 1 DESC
LIMIT ?`

// RecentDailyTrends returns per-day totals for the most recent days that
// have transactions, newest first.
func (r *transactionRepository) RecentDailyTrends(ctx context.Context, days int) ([]models.DailyTrend, error) {
	trends := []models.DailyTrend{}
	if err := r.db.WithContext(ctx).Raw(recentTrendsQuery, days).Scan(&trends).Error; err != nil {
		return nil, eris.Wrap(err, "repositories: recent daily trends")
	}
	return trends, nil
}

// LocationRows returns the id, label and raw location of every row that has
// location data.
func (r *transactionRepository) LocationRows(ctx context.Context) ([]models.LocationRow, error) {
	rows := []models.LocationRow{}
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("id, COALESCE(prediction, '') AS prediction, location_data").
		Where("location_data IS NOT NULL").
		Order("id").
		Scan(&rows).Error
	if err != nil {
		return nil, eris.Wrap(err, "repositories: location rows")
	}
	return rows, nil
}
