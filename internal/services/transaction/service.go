package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"fraudgen/internal/metrics"
	"fraudgen/internal/models"
	"fraudgen/internal/repositories"
	"fraudgen/internal/services/geolocation"
	"fraudgen/internal/services/notification"
	"fraudgen/internal/services/scoring"
	"fraudgen/internal/validation"
)

type service struct {
	repo     repositories.TransactionRepository
	resolver geolocation.Resolver
	scorer   *scoring.Scorer
	notifier notification.Service
	metrics  metrics.MetricsCollector
	config   TransactionConfig

	now  func() time.Time
	pick func(n int) int
}

// NewService creates a new transaction service
func NewService(
	repo repositories.TransactionRepository,
	resolver geolocation.Resolver,
	scorer *scoring.Scorer,
	notifier notification.Service,
	collector metrics.MetricsCollector,
	cfg TransactionConfig,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if resolver == nil {
		panic("resolver is required")
	}
	if scorer == nil {
		panic("scorer is required")
	}
	if notifier == nil {
		notifier = notification.NewNoopService()
	}
	if collector == nil {
		collector = &metrics.NoopMetricsCollector{}
	}
	if cfg.GeoTimeout <= 0 {
		cfg.GeoTimeout = DefaultGeoTimeout
	}

	return &service{
		repo:     repo,
		resolver: resolver,
		scorer:   scorer,
		notifier: notifier,
		metrics:  collector,
		config:   cfg,
		now:      time.Now,
		pick:     randomIndex,
	}
}

// Predict validates and scores one transaction, stores the outcome and
// alerts on blocked decisions. The payload is normalized in place and the
// sender location is stamped onto it before it is stored.
func (s *service) Predict(ctx context.Context, req PredictRequest) (*PredictionResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(opPredict, time.Since(start))
	}()

	in, err := validation.PredictionInput(req.Data)
	if err != nil {
		s.metrics.RecordOperationResult(opPredict, "invalid")
		return nil, err
	}

	ip := s.config.Proxies.ClientAddress(req.PeerAddress, req.ForwardedFor)
	loc := geolocation.ResolveOrDefault(ctx, s.resolver, ip, s.config.GeoTimeout)
	scoring.StampSender(req.Data, loc)

	res := s.scorer.Score(in, loc)

	tx, err := s.record(ctx, req, ip, loc, res)
	if err != nil {
		s.metrics.RecordError(opPredict, "persist")
		s.metrics.RecordOperationResult(opPredict, "failure")
		return nil, err
	}

	s.metrics.RecordPrediction(string(res.Decision), res.Probability)
	s.metrics.RecordOperationResult(opPredict, "success")

	zap.L().Info("transaction scored",
		zap.Uint("id", tx.ID),
		zap.String("reference", tx.Reference),
		zap.String("decision", string(res.Decision)),
		zap.Float64("probability", res.Probability),
		zap.String("country", loc.Country),
	)

	if res.Decision.Flagged() {
		s.publishAlert(ctx, tx, loc)
	}

	return &PredictionResult{
		ID:          tx.ID,
		Reference:   tx.Reference,
		Decision:    res.Decision,
		Probability: res.Probability,
		Action:      res.Action,
		Reason:      res.Reason,
		Explanation: res.Explanation,
		Signals:     res.Signals,
		Location: LocationSummary{
			Country: loc.Country,
			Region:  loc.Region,
			City:    loc.City,
		},
	}, nil
}

func (s *service) record(ctx context.Context, req PredictRequest, ip string, loc models.Location, res scoring.Result) (*models.Transaction, error) {
	data, err := req.Data.Encode()
	if err != nil {
		return nil, eris.Wrap(err, "transaction: encode payload")
	}
	location, err := loc.Encode()
	if err != nil {
		return nil, eris.Wrap(err, "transaction: encode location")
	}
	country := loc.Country

	tx := &models.Transaction{
		Reference:       uuid.NewString(),
		TransactionData: data,
		Prediction:      string(res.Decision),
		Probability:     res.Probability,
		Action:          string(res.Action),
		Explanation:     res.Explanation,
		IPAddress:       ip,
		ForwardedFor:    req.ForwardedFor,
		LocationData:    &location,
		LocationCountry: &country,
		CreatedAt:       s.now().UTC().Truncate(time.Second),
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// publishAlert never fails the prediction; delivery errors are logged.
func (s *service) publishAlert(ctx context.Context, tx *models.Transaction, loc models.Location) {
	alert := notification.Alert{
		Reference:     tx.Reference,
		TransactionID: tx.ID,
		Decision:      tx.Prediction,
		Action:        tx.Action,
		Probability:   tx.Probability,
		Country:       loc.Country,
		IPAddress:     tx.IPAddress,
		Timestamp:     tx.CreatedAt.Format(models.TimestampLayout),
	}
	if err := s.notifier.PublishAlert(ctx, alert); err != nil {
		s.metrics.RecordError(opAlertPublish, "publish")
		zap.L().Error("failed to publish fraud alert",
			zap.String("reference", tx.Reference),
			zap.Error(err),
		)
		return
	}
	s.metrics.RecordOperationResult(opAlertPublish, "success")
}

func (s *service) List(ctx context.Context, filter models.TransactionFilter) (*ListResult, error) {
	filter = normalizeFilter(filter)

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]models.TransactionView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].View())
	}
	return &ListResult{
		Transactions: views,
		Total:        total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}, nil
}

func normalizeFilter(f models.TransactionFilter) models.TransactionFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func (s *service) Get(ctx context.Context, id uint) (*models.TransactionView, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := tx.View()
	return &view, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("transaction deleted", zap.Uint("id", id))
	return nil
}
