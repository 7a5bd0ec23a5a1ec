package handlers

import (
	"encoding/json"
	"log"

	"finsentry/internal/analytics"
	"finsentry/internal/models"
	"finsentry/internal/repositories"
	"finsentry/internal/repositories/cache"
	"finsentry/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AnalyticsHandler struct {
	engine   *analytics.Engine
	datasets repositories.DatasetRepository
	reports  repositories.ReportRepository
	cache    *cache.CacheService
}

func NewAnalyticsHandler(
	engine *analytics.Engine,
	datasets repositories.DatasetRepository,
	reports repositories.ReportRepository,
	cacheService *cache.CacheService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		engine:   engine,
		datasets: datasets,
		reports:  reports,
		cache:    cacheService,
	}
}

// RunModule executes one analysis module against a stored dataset.
func (h *AnalyticsHandler) RunModule(c *fiber.Ctx) error {
	kind := analytics.Kind(c.Params("kind"))
	valid := false
	for _, k := range analytics.Kinds {
		if k == kind {
			valid = true
			break
		}
	}
	if !valid {
		return utils.BadRequest(c, "Unknown analysis type: "+string(kind))
	}

	txs, err := h.datasets.GetTransactions(c.Params("id"))
	if err != nil {
		return h.datasetError(c, err)
	}

	result, err := h.engine.Analyze(c.Context(), kind, txs)
	if err != nil {
		log.Printf("Analysis %s failed for dataset %s: %v", kind, c.Params("id"), err)
		return utils.InternalError(c, "Analysis failed: "+err.Error())
	}

	return utils.Success(c, result)
}

// RunComprehensive executes every analysis module, persists the report and
// caches it by dataset.
func (h *AnalyticsHandler) RunComprehensive(c *fiber.Ctx) error {
	datasetID := c.Params("id")

	txs, err := h.datasets.GetTransactions(datasetID)
	if err != nil {
		return h.datasetError(c, err)
	}

	report := h.engine.ComprehensiveReport(c.Context(), txs)

	body, err := reportBody(&report)
	if err != nil {
		log.Printf("Failed to serialize report for dataset %s: %v", datasetID, err)
		return utils.InternalError(c, "Failed to serialize report")
	}

	stored := &models.AnalysisReport{
		ID:               uuid.NewString(),
		DatasetID:        datasetID,
		OverallRiskLevel: string(report.Summary.OverallRiskLevel),
		OverallRiskScore: report.Summary.OverallRiskScore,
		Body:             body,
	}
	if err := h.reports.Save(stored); err != nil {
		log.Printf("Failed to persist report for dataset %s: %v", datasetID, err)
		return utils.InternalError(c, "Failed to persist report")
	}

	if err := h.cache.CacheReport(c.Context(), datasetID, &report); err != nil {
		log.Printf("Failed to cache report for dataset %s: %v", datasetID, err)
	}

	return utils.Success(c, fiber.Map{
		"report_id": stored.ID,
		"report":    report,
	})
}

// GetReport returns the latest report for a dataset, from cache when
// available.
func (h *AnalyticsHandler) GetReport(c *fiber.Ctx) error {
	datasetID := c.Params("id")

	if report, err := h.cache.GetReport(c.Context(), datasetID); err == nil {
		return utils.Success(c, fiber.Map{"report": report, "cached": true})
	}

	stored, err := h.reports.GetLatestForDataset(datasetID)
	if err != nil {
		if err == repositories.ErrReportNotFound {
			return utils.NotFound(c, "No report found for dataset")
		}
		return utils.InternalError(c, "Failed to load report")
	}

	return utils.Success(c, fiber.Map{
		"report_id":          stored.ID,
		"overall_risk_level": stored.OverallRiskLevel,
		"overall_risk_score": stored.OverallRiskScore,
		"report":             stored.Body,
		"generated_at":       stored.CreatedAt,
	})
}

// ListReports returns all stored reports for a dataset, newest first.
func (h *AnalyticsHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.reports.ListForDataset(c.Params("id"))
	if err != nil {
		return utils.InternalError(c, "Failed to list reports")
	}
	return utils.Success(c, fiber.Map{"reports": reports})
}

func (h *AnalyticsHandler) datasetError(c *fiber.Ctx, err error) error {
	if err == repositories.ErrDatasetNotFound {
		return utils.NotFound(c, "Dataset not found")
	}
	return utils.InternalError(c, "Failed to load dataset transactions")
}

// reportBody converts a report into the jsonb map stored on AnalysisReport.
func reportBody(report *analytics.Report) (models.JSON, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	var body models.JSON
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}
