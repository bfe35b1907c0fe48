package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"orbita/internal/apperr"
	"orbita/internal/clients"
	"orbita/internal/models"
	"orbita/internal/repository"
)

// Ключи источников кэша космоданных
const (
	SourceAPOD   = "apod"
	SourceNEO    = "neo"
	SourceFLR    = "flr"
	SourceCME    = "cme"
	SourceSpaceX = "spacex"
)

// Sources — все источники в порядке, в котором их перечисляет summary.
var Sources = []string{SourceAPOD, SourceNEO, SourceFLR, SourceCME, SourceSpaceX}

type SpaceService interface {
	// Fetch — fetch+persist одного источника; неуспешный fetch ничего
	// не вставляет.
	Fetch(ctx context.Context, source string) error
	GetLatest(ctx context.Context, source string) (*models.SpaceCache, error)
	// Refresh запускает fetch перечисленных источников, глотая ошибки
	// отдельных источников, и возвращает список того, что пыталась
	// обновить. Успех подтверждается повторным чтением latest.
	Refresh(ctx context.Context, sources []string) []string
	GetSummary(ctx context.Context) (map[string]interface{}, error)
}

type spaceService struct {
	repo      repository.SpaceCacheRepository
	issRepo   repository.ISSRepository
	osdrRepo  repository.OSDRRepository
	cacheRepo repository.CacheRepository
	client    clients.SpaceClient
}

func NewSpaceService(
	repo repository.SpaceCacheRepository,
	issRepo repository.ISSRepository,
	osdrRepo repository.OSDRRepository,
	cacheRepo repository.CacheRepository,
	client clients.SpaceClient,
) SpaceService {
	return &spaceService{
		repo:      repo,
		issRepo:   issRepo,
		osdrRepo:  osdrRepo,
		cacheRepo: cacheRepo,
		client:    client,
	}
}

func (s *spaceService) fetcher(source string) func(context.Context) (interface{}, error) {
	switch source {
	case SourceAPOD:
		return s.client.GetAPOD
	case SourceNEO:
		return s.client.GetNEO
	case SourceFLR:
		return s.client.GetDONKIFLR
	case SourceCME:
		return s.client.GetDONKICME
	case SourceSpaceX:
		return s.client.GetSpaceX
	default:
		return nil
	}
}

func (s *spaceService) Fetch(ctx context.Context, source string) error {
	fetch := s.fetcher(source)
	if fetch == nil {
		return apperr.New(apperr.CodeValidation, "unknown source: "+source)
	}

	data, err := fetch(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return apperr.Wrap(apperr.CodeDecode, "failed to marshal payload", err)
	}

	entry := &models.SpaceCache{
		Source:    source,
		FetchedAt: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return apperr.Wrap(apperr.CodeDatabase, "failed to store "+source+" payload", err)
	}
	return nil
}

func (s *spaceService) GetLatest(ctx context.Context, source string) (*models.SpaceCache, error) {
	entry, err := s.repo.GetLatest(ctx, source)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDatabase, "failed to get latest "+source, err)
	}
	return entry, nil
}

func (s *spaceService) Refresh(ctx context.Context, sources []string) []string {
	refreshed := make([]string, 0, len(sources))
	for _, source := range sources {
		source = strings.ToLower(strings.TrimSpace(source))
		if s.fetcher(source) == nil {
			continue
		}
		if err := s.Fetch(ctx, source); err != nil {
			log.Printf("Refresh %s failed: %v", source, err)
		}
		refreshed = append(refreshed, source)
	}
	return refreshed
}

func (s *spaceService) GetSummary(ctx context.Context) (map[string]interface{}, error) {
	cacheKey := "space:summary"

	var cached map[string]interface{}
	if ok, err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	summary := make(map[string]interface{}, len(Sources)+2)
	for _, source := range Sources {
		entry, err := s.GetLatest(ctx, source)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			summary[source] = map[string]interface{}{}
			continue
		}
		summary[source] = map[string]interface{}{
			"at":      entry.FetchedAt,
			"payload": entry.Payload,
		}
	}

	issLast, err := s.issRepo.GetLast(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDatabase, "failed to get last ISS position", err)
	}
	if issLast == nil {
		summary["iss"] = map[string]interface{}{}
	} else {
		summary["iss"] = map[string]interface{}{
			"at":      issLast.FetchedAt,
			"payload": issLast.Payload,
		}
	}

	osdrCount, err := s.osdrRepo.Count(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDatabase, "failed to count OSDR items", err)
	}
	summary["osdr_count"] = osdrCount

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, summary, 30*time.Second); err != nil {
		log.Printf("Failed to cache space summary: %v", err)
	}
	return summary, nil
}
