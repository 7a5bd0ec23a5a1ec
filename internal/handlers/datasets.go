package handlers

import (
	"log"
	"strings"

	"finsentry/internal/models"
	"finsentry/internal/repositories"
	"finsentry/internal/services/ingest"
	"finsentry/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DatasetHandler struct {
	datasets repositories.DatasetRepository
}

func NewDatasetHandler(datasets repositories.DatasetRepository) *DatasetHandler {
	return &DatasetHandler{datasets: datasets}
}

// Upload ingests a CSV file of transactions and stores it as a new dataset.
func (h *DatasetHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "CSV file is required (multipart field 'file')")
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		return utils.BadRequest(c, "Only CSV files are supported")
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

	var uploadedBy uint
	if claims, err := utils.GetUserClaims(c); err == nil {
		uploadedBy = claims.UserID
	}

	name := c.FormValue("name")
	if name == "" {
		name = fileHeader.Filename
	}

	ds := &models.Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		RecordCount: len(result.Transactions),
		UploadedBy:  uploadedBy,
	}

	if err := h.datasets.CreateWithTransactions(ds, result.Transactions); err != nil {
		log.Printf("Failed to store dataset %s: %v", ds.ID, err)
		return utils.InternalError(c, "Failed to store dataset")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"dataset_id":         ds.ID,
		"name":               ds.Name,
		"record_count":       ds.RecordCount,
		"rows_skipped":       result.Skipped,
		"missing_timestamps": result.MissingTimestamps,
	})
}

// List returns stored datasets, newest first.
func (h *DatasetHandler) List(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	if p.Limit > 100 {
		p.Limit = 100
	}

	datasets, total, err := h.datasets.List(p.Offset, p.Limit)
	if err != nil {
		return utils.InternalError(c, "Failed to list datasets")
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(datasets, p))
}

// Get returns one dataset header.
func (h *DatasetHandler) Get(c *fiber.Ctx) error {
	ds, err := h.datasets.GetByID(c.Params("id"))
	if err != nil {
		if err == repositories.ErrDatasetNotFound {
			return utils.NotFound(c, "Dataset not found")
		}
		return utils.InternalError(c, "Failed to load dataset")
	}
	return utils.Success(c, ds)
}

// Delete removes a dataset and its transactions.
func (h *DatasetHandler) Delete(c *fiber.Ctx) error {
	if err := h.datasets.Delete(c.Params("id")); err != nil {
		if err == repositories.ErrDatasetNotFound {
			return utils.NotFound(c, "Dataset not found")
		}
		return utils.InternalError(c, "Failed to delete dataset")
	}
	return utils.Success(c, fiber.Map{"message": "Dataset deleted"})
}
