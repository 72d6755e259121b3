// Package routes defines the API routing configuration.
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"fraudgen/internal/handlers"
	"fraudgen/internal/middleware"
	"fraudgen/internal/models"
	"fraudgen/internal/utils"
)

// Dependencies are the handlers and settings SetupRoutes mounts.
type Dependencies struct {
	Health       *handlers.HealthHandler
	Prediction   *handlers.PredictionHandler
	Transactions *handlers.TransactionHandler
	Dashboard    *handlers.DashboardHandler

	// Metrics serves the Prometheus exposition; nil leaves /metrics unmounted.
	Metrics fiber.Handler

	AdminJWTSecret string
	// PredictPerMin caps predictions per client per minute; 0 disables it.
	PredictPerMin int
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, d Dependencies) {
	app.Get("/", d.Health.Banner)
	app.Get("/health", d.Health.HealthCheck)
	if d.Metrics != nil {
		app.Get("/metrics", d.Metrics)
	}

	api := app.Group("/api")

	predict := []fiber.Handler{}
	if d.PredictPerMin > 0 {
		predict = append(predict, limiter.New(limiter.Config{
			Max:        d.PredictPerMin,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return utils.Respond(c, fiber.StatusTooManyRequests, fiber.Map{"error": "Too many requests"})
			},
		}))
	}
	predict = append(predict, d.Prediction.Predict)
	api.Post("/predict", predict...)
	api.Get("/test-transaction", d.Prediction.TestTransaction)

	api.Get("/transactions", d.Transactions.ListTransactions)
	api.Get("/transactions/:id", d.Transactions.GetTransaction)
	api.Delete("/transactions/:id",
		middleware.AdminAuth(d.AdminJWTSecret),
		middleware.HasPermission(models.PermissionTransactionDelete),
		d.Transactions.DeleteTransaction,
	)

	api.Get("/statistics", d.Dashboard.GetStatistics)
	api.Get("/statistics/locations", d.Dashboard.GetLocationStatistics)
}
