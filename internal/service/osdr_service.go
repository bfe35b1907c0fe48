package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"orbita/internal/apperr"
	"orbita/internal/clients"
	"orbita/internal/models"
	"orbita/internal/repository"
)

type OSDRService interface {
	// Sync — один проход синхронизации каталога: fetch, нормализация,
	// независимый upsert каждой записи. Ошибка хранилища прерывает проход.
	Sync(ctx context.Context) error
	List(ctx context.Context, limit int) ([]models.OSDRItem, error)
	Count(ctx context.Context) (int64, error)
}

type osdrService struct {
	repo      repository.OSDRRepository
	cacheRepo repository.CacheRepository
	client    clients.SpaceClient
}

func NewOSDRService(
	repo repository.OSDRRepository,
	cacheRepo repository.CacheRepository,
	client clients.SpaceClient,
) OSDRService {
	return &osdrService{
		repo:      repo,
		cacheRepo: cacheRepo,
		client:    client,
	}
}

func (s *osdrService) Sync(ctx context.Context) error {
	payload, err := s.client.GetOSDR(ctx)
	if err != nil {
		return err
	}

	records := recordsOf(payload)
	for _, record := range records {
		raw, err := json.Marshal(record)
		if err != nil {
			// Кривая запись не прерывает проход
			log.Printf("OSDR sync: skipping unmarshalable record: %v", err)
			continue
		}

		item := &models.OSDRItem{
			DatasetID:  pickString(record, idKeys),
			Title:      pickString(record, titleKeys),
			Status:     pickString(record, statusKeys),
			UpdatedAt:  pickTime(record, timeKeys),
			InsertedAt: time.Now().UTC(),
			Raw:        raw,
		}
		if err := s.repo.Upsert(ctx, item); err != nil {
			return apperr.Wrap(apperr.CodeDatabase, "failed to upsert OSDR item", err)
		}
	}

	log.Printf("OSDR sync: processed %d records", len(records))
	return nil
}

func (s *osdrService) List(ctx context.Context, limit int) ([]models.OSDRItem, error) {
	cacheKey := fmt.Sprintf("osdr:list:%d", limit)

	var cached []models.OSDRItem
	if ok, err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDatabase, "failed to list OSDR items", err)
	}

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, items, 30*time.Second); err != nil {
		log.Printf("Failed to cache OSDR list: %v", err)
	}
	return items, nil
}

func (s *osdrService) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperr.Wrap(apperr.CodeDatabase, "failed to count OSDR items", err)
	}
	return count, nil
}
