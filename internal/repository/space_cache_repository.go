package repository

import (
	"context"
	"errors"

	"orbita/internal/models"

	"gorm.io/gorm"
)

type SpaceCacheRepository interface {
	Create(ctx context.Context, cache *models.SpaceCache) error
	// GetLatest — строка с максимальным id для источника;
	// (nil, nil), когда данных ещё нет.
	GetLatest(ctx context.Context, source string) (*models.SpaceCache, error)
}

type spaceCacheRepository struct {
	db *gorm.DB
}

func NewSpaceCacheRepository(db *gorm.DB) SpaceCacheRepository {
	return &spaceCacheRepository{db: db}
}

func (r *spaceCacheRepository) Create(ctx context.Context, cache *models.SpaceCache) error {
	return r.db.WithContext(ctx).Create(cache).Error
}

func (r *spaceCacheRepository) GetLatest(ctx context.Context, source string) (*models.SpaceCache, error) {
	var cache models.SpaceCache
	err := r.db.WithContext(ctx).
		Where("source = ?", source).
		Order("id DESC").
		First(&cache).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cache, nil
}
