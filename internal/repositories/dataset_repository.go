package repositories

import (
	"finsentry/internal/models"

	"gorm.io/gorm"
)

// DatasetRepository manages uploaded transaction datasets.
type DatasetRepository interface {
	CreateWithTransactions(ds *models.Dataset, txs []models.Transaction) error
	GetByID(id string) (*models.Dataset, error)
	List(offset, limit int) ([]*models.Dataset, int64, error)
	GetTransactions(datasetID string) ([]models.Transaction, error)
	Delete(id string) error
}

type datasetRepository struct {
	db *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) DatasetRepository {
	return &datasetRepository{db: db}
}

// CreateWithTransactions stores the dataset header and its rows in one
// transaction so a failed bulk insert never leaves an empty dataset behind.
func (r *datasetRepository) CreateWithTransactions(ds *models.Dataset, txs []models.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ds).Error; err != nil {
			return err
		}
		for i := range txs {
			txs[i].DatasetID = ds.ID
		}
		if len(txs) > 0 {
			if err := tx.CreateInBatches(txs, 500).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *datasetRepository) GetByID(id string) (*models.Dataset, error) {
	var ds models.Dataset
	if err := r.db.First(&ds, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDatasetNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &ds, nil
}

func (r *datasetRepository) List(offset, limit int) ([]*models.Dataset, int64, error) {
	var datasets []*models.Dataset
	var total int64

	if err := r.db.Model(&models.Dataset{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&datasets).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return datasets, total, nil
}

func (r *datasetRepository) GetTransactions(datasetID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := r.db.Where("dataset_id = ?", datasetID).Order("timestamp ASC").Find(&txs).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	if len(txs) == 0 {
		if _, err := r.GetByID(datasetID); err != nil {
			return nil, err
		}
	}
	return txs, nil
}

func (r *datasetRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Dataset{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDatasetNotFound
		}
		return nil
	})
}
