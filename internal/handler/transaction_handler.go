package handler

import (
	"strings"

	"cashierhub-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type TransactionHandler struct {
	service service.SaleService
}

func NewTransactionHandler(s service.SaleService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// CreateTransaction records a sale. The Idempotency-Key header wins over the
// body field when both are sent.
// POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.RecordSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if key := strings.TrimSpace(c.Get(IdempotencyKeyHeader)); key != "" {
		req.IdempotencyKey = key
	}

	receipt, err := h.service.RecordSale(c.UserContext(), &req)
	if err != nil {
		return err
	}

	status := fiber.StatusCreated
	message := "Transaction recorded"
	if receipt.Replayed {
		status = fiber.StatusOK
		message = "Transaction already recorded"
	}
	return c.Status(status).JSON(fiber.Map{
		"success":       true,
		"message":       message,
		"transactionId": receipt.TransactionID,
		"total_amount":  receipt.TotalAmount,
		"cash_amount":   receipt.CashAmount,
		"change_amount": receipt.ChangeAmount,
		"replayed":      receipt.Replayed,
	})
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.service.ListTransactions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(transactions)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid transaction ID")
	}
	transaction, err := h.service.GetTransaction(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(transaction)
}
