package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "fraudgen/internal/errors"
	"fraudgen/internal/middleware"
	"fraudgen/internal/models"
	"fraudgen/internal/services/transaction"
	"fraudgen/internal/utils"
)

type TransactionHandler struct {
	transactionService transaction.Service
}

func NewTransactionHandler(transactionService transaction.Service) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// ListTransactions returns stored transactions newest first. On failure the
// page shape is still returned, empty, alongside the error.
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	page := utils.GetPagination(c, transaction.DefaultListLimit)
	filter := models.TransactionFilter{
		Prediction: c.Query("prediction"),
		Country:    c.Query("country"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}

	result, err := h.transactionService.List(c.UserContext(), filter)
	if err != nil {
		zap.L().Error("failed to list transactions",
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		return utils.Respond(c, fiber.StatusInternalServerError, fiber.Map{
			"error":        "Failed to retrieve transactions",
			"transactions": []models.TransactionView{},
			"total":        0,
			"limit":        page.Limit,
			"offset":       page.Offset,
		})
	}

	return utils.Success(c, result)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := transactionID(c)
	if err != nil {
		return utils.Error(c, err)
	}

	view, err := h.transactionService.Get(c.UserContext(), id)
	if err != nil {
		if utils.IsServerError(err) {
			zap.L().Error("failed to get transaction", zap.Uint("id", id), zap.Error(err))
		}
		return utils.Error(c, err)
	}
	return utils.Success(c, view)
}

func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := transactionID(c)
	if err != nil {
		return utils.Error(c, err)
	}

	if err := h.transactionService.Delete(c.UserContext(), id); err != nil {
		if utils.IsServerError(err) {
			zap.L().Error("failed to delete transaction", zap.Uint("id", id), zap.Error(err))
		}
		return utils.Error(c, err)
	}

	deletedBy := "anonymous"
	if claims, ok := middleware.Claims(c); ok {
		deletedBy = claims.Subject
	}
	zap.L().Info("transaction deleted via api", zap.Uint("id", id), zap.String("deleted_by", deletedBy))

	return utils.Success(c, fiber.Map{
		"message": "Transaction deleted successfully",
		"id":      id,
	})
}

func transactionID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidTransactionID
	}
	return uint(id), nil
}
