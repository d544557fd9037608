package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/pedidos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pedidos-api/internal/domain/repository"
)

type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) domainRepo.SummaryRepository {
	return &summaryRepository{db: db}
}

func orderedDetails(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create inserts the summary and its details in one transaction
func (r *summaryRepository) Create(ctx context.Context, summary *entity.Summary) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(summary).Error
	})
}

func (r *summaryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Summary, error) {
	var summary entity.Summary
	err := r.db.WithContext(ctx).
		Preload("Details", orderedDetails).
		First(&summary, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &summary, err
}

// Delete removes the summary; details go with it through the cascade and are
// deleted explicitly too for databases created without the constraint
func (r *summaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("summary_id = ?", id).Delete(&entity.SummaryDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Summary{}, "id = ?", id).Error
	})
}

func (r *summaryRepository) List(ctx context.Context) ([]entity.Summary, error) {
	var summaries []entity.Summary
	err := r.db.WithContext(ctx).
		Preload("Details", orderedDetails).
		Order("created_at DESC").
		Find(&summaries).Error
	return summaries, err
}
