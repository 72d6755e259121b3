package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fraudgen/internal/models"
	"fraudgen/internal/services/transaction"
	"fraudgen/internal/utils"
)

type PredictionHandler struct {
	transactionService transaction.Service
}

func NewPredictionHandler(transactionService transaction.Service) *PredictionHandler {
	return &PredictionHandler{transactionService: transactionService}
}

// Predict scores the posted transaction and stores the outcome.
func (h *PredictionHandler) Predict(c *fiber.Ctx) error {
	data, err := models.ParseJSONObject(string(c.Body()))
	if err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.transactionService.Predict(c.UserContext(), transaction.PredictRequest{
		Data:         data,
		PeerAddress:  c.Context().RemoteIP().String(),
		ForwardedFor: c.Get(fiber.HeaderXForwardedFor),
	})
	if err != nil {
		if utils.IsServerError(err) {
			zap.L().Error("prediction failed",
				zap.String("request_id", requestID(c)),
				zap.Error(err),
			)
		}
		return utils.Error(c, err)
	}

	return utils.Success(c, result)
}

// TestTransaction returns one of the built-in sample payloads.
func (h *PredictionHandler) TestTransaction(c *fiber.Ctx) error {
	return utils.Success(c, h.transactionService.SampleTransaction())
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
