package transaction

import (
	"context"

	"fraudgen/internal/models"
)

// Service scores incoming transactions and serves the stored history.
type Service interface {
	Predict(ctx context.Context, req PredictRequest) (*PredictionResult, error)
	List(ctx context.Context, filter models.TransactionFilter) (*ListResult, error)
	Get(ctx context.Context, id uint) (*models.TransactionView, error)
	Delete(ctx context.Context, id uint) error
	SampleTransaction() models.JSON
}
