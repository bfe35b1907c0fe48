package repository

import (
	"context"

	"orbita/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OSDRRepository interface {
	// Upsert: запись с непустым DatasetID перезаписывает title/status/
	// updated_at/raw существующей строки с тем же идентификатором;
	// запись без идентификатора всегда вставляется новой строкой.
	Upsert(ctx context.Context, item *models.OSDRItem) error
	List(ctx context.Context, limit int) ([]models.OSDRItem, error)
	Count(ctx context.Context) (int64, error)
}

type osdrRepository struct {
	db *gorm.DB
}

func NewOSDRRepository(db *gorm.DB) OSDRRepository {
	return &osdrRepository{db: db}
}

func (r *osdrRepository) Upsert(ctx context.Context, item *models.OSDRItem) error {
	if item.DatasetID == nil {
		return r.db.WithContext(ctx).Create(item).Error
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "dataset_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "status", "updated_at", "raw",
			}),
		}).
		Create(item).
		Error
}

func (r *osdrRepository) List(ctx context.Context, limit int) ([]models.OSDRItem, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var items []models.OSDRItem
	err := r.db.WithContext(ctx).
		Order("inserted_at DESC").
		Limit(limit).
		Find(&items).
		Error
	return items, err
}

func (r *osdrRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OSDRItem{}).
		Count(&count).
		Error
	return count, err
}
