package repositories

import (
	"errors"

	"finsentry/internal/models"
)

var (
	ErrInvestigatorNotFound = errors.New("investigator not found")
	ErrDatasetNotFound      = errors.New("dataset not found")
	ErrReportNotFound       = errors.New("analysis report not found")
	ErrDatabaseOperation    = errors.New("database operation failed")
)

// InvestigatorRepository manages investigator accounts.
type InvestigatorRepository interface {
	Create(inv *models.Investigator) error
	GetByID(id uint) (*models.Investigator, error)
	GetByEmail(email string) (*models.Investigator, error)
	Update(inv *models.Investigator) error
	Delete(id uint) error
	IncrementTokenVersion(id uint) error
	List(offset, limit int) ([]*models.Investigator, int64, error)
}
