package repository

import (
	"context"
	"errors"

	"orbita/internal/models"

	"gorm.io/gorm"
)

type ISSRepository interface {
	Create(ctx context.Context, log *models.ISSLog) error
	// GetLast возвращает (nil, nil), когда данных ещё нет.
	GetLast(ctx context.Context) (*models.ISSLog, error)
	// GetLastTwo — две самые свежие записи, новая первой.
	GetLastTwo(ctx context.Context) ([]*models.ISSLog, error)
	Count(ctx context.Context) (int64, error)
}

type issRepository struct {
	db *gorm.DB
}

func NewISSRepository(db *gorm.DB) ISSRepository {
	return &issRepository{db: db}
}

func (r *issRepository) Create(ctx context.Context, log *models.ISSLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *issRepository) GetLast(ctx context.Context) (*models.ISSLog, error) {
	var log models.ISSLog
	err := r.db.WithContext(ctx).
		Order("id DESC").
		First(&log).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *issRepository) GetLastTwo(ctx context.Context) ([]*models.ISSLog, error) {
	var logs []*models.ISSLog
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(2).
		Find(&logs).
		Error
	return logs, err
}

func (r *issRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ISSLog{}).
		Count(&count).
		Error
	return count, err
}
