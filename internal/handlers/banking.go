package handlers

import (
	"time"

	"finsentry/internal/services/banking"
	"finsentry/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type BankingHandler struct {
	integrator *banking.Integrator
}

func NewBankingHandler(integrator *banking.Integrator) *BankingHandler {
	return &BankingHandler{integrator: integrator}
}

// Connections lists the configured bank integrations.
func (h *BankingHandler) Connections(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{
		"connections": h.integrator.Connections(),
	})
}

// Authenticate runs the simulated auth handshake for one bank.
func (h *BankingHandler) Authenticate(c *fiber.Ctx) error {
	result, err := h.integrator.Authenticate(c.Context(), c.Params("bank"))
	if err != nil {
		return utils.NotFound(c, err.Error())
	}
	return utils.Success(c, result)
}

// Transactions returns the simulated realtime feed for one bank.
func (h *BankingHandler) Transactions(c *fiber.Ctx) error {
	since := time.Now().Add(-24 * time.Hour)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequest(c, "since must be RFC3339")
		}
		since = parsed
	}

	minAmount := c.QueryFloat("min_amount", 0)

	txs, err := h.integrator.RealtimeTransactions(c.Context(), c.Params("bank"), since, minAmount)
	if err != nil {
		return utils.NotFound(c, err.Error())
	}

	return utils.Success(c, fiber.Map{
		"bank":         c.Params("bank"),
		"since":        since,
		"count":        len(txs),
		"transactions": txs,
	})
}

// Account returns simulated account details.
func (h *BankingHandler) Account(c *fiber.Ctx) error {
	details, err := h.integrator.Account(c.Context(), c.Params("bank"), c.Params("account"))
	if err != nil {
		return utils.NotFound(c, err.Error())
	}
	return utils.Success(c, details)
}

// RegisterAlerts registers fraud alert rules with one bank.
func (h *BankingHandler) RegisterAlerts(c *fiber.Ctx) error {
	var input struct {
		Rules []banking.AlertRule `json:"rules"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if len(input.Rules) == 0 {
		return utils.BadRequest(c, "At least one rule is required")
	}

	if err := h.integrator.RegisterAlertRules(c.Params("bank"), input.Rules); err != nil {
		return utils.NotFound(c, err.Error())
	}

	return utils.Success(c, fiber.Map{
		"bank":  c.Params("bank"),
		"rules": h.integrator.AlertRules(c.Params("bank")),
	})
}
