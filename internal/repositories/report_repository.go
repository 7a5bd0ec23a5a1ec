package repositories

import (
	"finsentry/internal/models"

	"gorm.io/gorm"
)

// ReportRepository persists generated analysis reports.
type ReportRepository interface {
	Save(report *models.AnalysisReport) error
	GetByID(id string) (*models.AnalysisReport, error)
	GetLatestForDataset(datasetID string) (*models.AnalysisReport, error)
	ListForDataset(datasetID string) ([]*models.AnalysisReport, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Save(report *models.AnalysisReport) error {
	if err := r.db.Create(report).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *reportRepository) GetByID(id string) (*models.AnalysisReport, error) {
	var report models.AnalysisReport
	if err := r.db.First(&report, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrReportNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &report, nil
}

func (r *reportRepository) GetLatestForDataset(datasetID string) (*models.AnalysisReport, error) {
	var report models.AnalysisReport
	err := r.db.Where("dataset_id = ?", datasetID).Order("created_at DESC").First(&report).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrReportNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &report, nil
}

func (r *reportRepository) ListForDataset(datasetID string) ([]*models.AnalysisReport, error) {
	var reports []*models.AnalysisReport
	if err := r.db.Where("dataset_id = ?", datasetID).Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return reports, nil
}
