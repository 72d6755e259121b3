package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fraudgen/internal/services/dashboard"
	"fraudgen/internal/utils"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetStatistics returns the overall summary. On failure the zeroed summary
// is returned with an error field.
func (h *DashboardHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Statistics(c.UserContext())
	if err != nil {
		zap.L().Error("failed to compute statistics", zap.Error(err))
		return utils.Respond(c, fiber.StatusInternalServerError, fiber.Map{
			"error":               "Failed to compute statistics",
			"total_transactions":  stats.TotalTransactions,
			"prediction_counts":   stats.PredictionCounts,
			"average_probability": stats.AverageProbability,
			"recent_trends":       stats.RecentTrends,
		})
	}
	return utils.Success(c, stats)
}

func (h *DashboardHandler) GetLocationStatistics(c *fiber.Ctx) error {
	stats, err := h.dashboardService.LocationStatistics(c.UserContext())
	if err != nil {
		zap.L().Error("failed to compute location statistics", zap.Error(err))
		return utils.Respond(c, fiber.StatusInternalServerError, fiber.Map{
			"error":                "Failed to compute location statistics",
			"country_statistics":   stats.CountryStatistics,
			"vpn_proxy_statistics": stats.VPNProxyStatistics,
		})
	}
	return utils.Success(c, stats)
}
