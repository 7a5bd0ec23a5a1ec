package repositories

import (
	"context"
	"log"

	"finsentry/internal/models"
	"finsentry/internal/repositories/cache"

	"gorm.io/gorm"
)

type investigatorRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewInvestigatorRepository creates a new instance of InvestigatorRepository
func NewInvestigatorRepository(db *gorm.DB, cache *cache.CacheService) InvestigatorRepository {
	return &investigatorRepository{
		db:    db,
		cache: cache,
	}
}

func (r *investigatorRepository) Create(inv *models.Investigator) error {
	if err := r.db.Create(inv).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *investigatorRepository) GetByID(id uint) (*models.Investigator, error) {
	// Try cache first
	key := r.cache.GenerateKey("investigator", "id", id)
	if inv, err := r.cache.GetInvestigator(context.Background(), key); err == nil {
		return inv, nil
	}

	var inv models.Investigator
	if err := r.db.First(&inv, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvestigatorNotFound
		}
		return nil, err
	}

	if err := r.cache.CacheInvestigator(context.Background(), &inv); err != nil {
		log.Printf("Failed to cache investigator: %v", err)
	}

	return &inv, nil
}

func (r *investigatorRepository) GetByEmail(email string) (*models.Investigator, error) {
	var inv models.Investigator
	result := r.db.Where("email = ?", email).First(&inv)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrInvestigatorNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &inv, nil
}

func (r *investigatorRepository) Update(inv *models.Investigator) error {
	if err := r.db.Save(inv).Error; err != nil {
		return ErrDatabaseOperation
	}

	if err := r.cache.InvalidateInvestigator(context.Background(), inv.ID); err != nil {
		log.Printf("Warning: Failed to invalidate investigator cache: %v", err)
	}

	return nil
}

func (r *investigatorRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Investigator{}, id)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrInvestigatorNotFound
	}
	return nil
}

func (r *investigatorRepository) IncrementTokenVersion(id uint) error {
	if err := r.db.Model(&models.Investigator{}).Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error; err != nil {
		return err
	}

	if err := r.cache.InvalidateInvestigator(context.Background(), id); err != nil {
		log.Printf("Cache invalidation error: %v", err)
	}

	return nil
}

func (r *investigatorRepository) List(offset, limit int) ([]*models.Investigator, int64, error) {
	var invs []*models.Investigator
	var total int64

	if err := r.db.Model(&models.Investigator{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := r.db.Offset(offset).Limit(limit).Find(&invs).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return invs, total, nil
}
