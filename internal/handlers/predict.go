package handlers

import (
	"time"

	"finsentry/internal/models"
	"finsentry/internal/services/classifier"
	"finsentry/internal/services/ingest"
	"finsentry/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PredictHandler struct {
	classifier *classifier.Service
}

func NewPredictHandler(svc *classifier.Service) *PredictHandler {
	return &PredictHandler{classifier: svc}
}

// Score classifies a single transaction supplied as JSON.
func (h *PredictHandler) Score(c *fiber.Ctx) error {
	var input struct {
		TransactionID    string  `json:"transaction_id"`
		CustomerID       string  `json:"customer_id"`
		MerchantCategory string  `json:"merchant_category"`
		PaymentMethod    string  `json:"payment_method"`
		Amount           float64 `json:"amount"`
		Location         string  `json:"location"`
		Timestamp        string  `json:"timestamp"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "Amount must be positive")
	}

	ts := time.Now()
	if input.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, input.Timestamp)
		if err != nil {
			return utils.BadRequest(c, "Timestamp must be RFC3339")
		}
		ts = parsed
	}

	tx := models.Transaction{
		TransactionID:    input.TransactionID,
		CustomerID:       input.CustomerID,
		MerchantCategory: input.MerchantCategory,
		PaymentMethod:    input.PaymentMethod,
		Amount:           input.Amount,
		Location:         input.Location,
		Timestamp:        ts,
	}

	prediction := h.classifier.Score(&tx)

	return utils.Success(c, fiber.Map{
		"transaction_id": tx.TransactionID,
		"prediction":     prediction,
	})
}

// ScoreBatch classifies every row of an uploaded CSV file.
func (h *PredictHandler) ScoreBatch(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "CSV file is required (multipart field 'file')")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return utils.InternalError(c, "Failed to read uploaded file")
	}
	defer f.Close()

	result, err := ingest.ParseCSV(f)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	if len(result.Transactions) == 0 {
		return utils.BadRequest(c, "No valid transactions found in file")
	}

	summary := h.classifier.ScoreBatch(result.Transactions)

	return utils.Success(c, fiber.Map{
		"rows_scored":  len(result.Transactions),
		"rows_skipped": result.Skipped,
		"summary":      summary,
	})
}
