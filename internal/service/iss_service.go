package service

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strconv"
	"time"

	"orbita/internal/apperr"
	"orbita/internal/clients"
	"orbita/internal/models"
	"orbita/internal/repository"
)

type ISSService interface {
	// FetchAndStore — один шаг fetch+persist. Выполняется планировщиком
	// под advisory-блокировкой и ручным триггером без неё.
	FetchAndStore(ctx context.Context) error
	GetLastPosition(ctx context.Context) (*models.ISSLog, error)
	GetTrend(ctx context.Context) (*models.ISSTrend, error)
	Count(ctx context.Context) (int64, error)
}

type issService struct {
	repo      repository.ISSRepository
	cacheRepo repository.CacheRepository
	client    clients.SpaceClient
	sourceURL string
}

func NewISSService(
	repo repository.ISSRepository,
	cacheRepo repository.CacheRepository,
	client clients.SpaceClient,
	sourceURL string,
) ISSService {
	return &issService{
		repo:      repo,
		cacheRepo: cacheRepo,
		client:    client,
		sourceURL: sourceURL,
	}
}

func (s *issService) FetchAndStore(ctx context.Context) error {
	data, err := s.client.GetISS(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return apperr.Wrap(apperr.CodeDecode, "failed to marshal ISS payload", err)
	}

	issLog := &models.ISSLog{
		FetchedAt: time.Now().UTC(),
		SourceURL: s.sourceURL,
		Payload:   payload,
	}
	if err := s.repo.Create(ctx, issLog); err != nil {
		return apperr.Wrap(apperr.CodeDatabase, "failed to store ISS log", err)
	}

	// Сбрасываем read-кэш, чтобы /iss/last не отдавал устаревшее
	if err := s.cacheRepo.Delete(ctx, "iss:last"); err != nil {
		log.Printf("Failed to invalidate ISS cache: %v", err)
	}
	return nil
}

func (s *issService) GetLastPosition(ctx context.Context) (*models.ISSLog, error) {
	cacheKey := "iss:last"

	var cached models.ISSLog
	if ok, err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return &cached, nil
	}

	issLog, err := s.repo.GetLast(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDatabase, "failed to get last ISS position", err)
	}
	if issLog == nil {
		return nil, nil
	}

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, issLog, 30*time.Second); err != nil {
		log.Printf("Failed to cache ISS position: %v", err)
	}
	return issLog, nil
}

func (s *issService) GetTrend(ctx context.Context) (*models.ISSTrend, error) {
	cacheKey := "iss:trend"

	var cached models.ISSTrend
	if ok, err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return &cached, nil
	}

	rows, err := s.repo.GetLastTwo(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDatabase, "failed to get ISS positions", err)
	}

	trend := calculateTrend(rows)

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, trend, 30*time.Second); err != nil {
		log.Printf("Failed to cache ISS trend: %v", err)
	}
	return trend, nil
}

func (s *issService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// calculateTrend считает смещение по двум самым свежим записям (новая
// первой). Меньше двух записей — нулевой тренд. Отсутствующая или
// нечисловая координата любой из записей даёт movement=false и
// delta_km=0 без ошибки.
func calculateTrend(rows []*models.ISSLog) *models.ISSTrend {
	if len(rows) < 2 {
		return &models.ISSTrend{}
	}

	newer, older := rows[0], rows[1]

	var newerData, olderData map[string]interface{}
	if err := json.Unmarshal(newer.Payload, &newerData); err != nil {
		return &models.ISSTrend{}
	}
	if err := json.Unmarshal(older.Payload, &olderData); err != nil {
		return &models.ISSTrend{}
	}

	fromLat := num(olderData["latitude"])
	fromLon := num(olderData["longitude"])
	toLat := num(newerData["latitude"])
	toLon := num(newerData["longitude"])
	velocity := num(newerData["velocity"])

	deltaKm := 0.0
	movement := false
	if fromLat != nil && fromLon != nil && toLat != nil && toLon != nil {
		deltaKm = haversineKm(*fromLat, *fromLon, *toLat, *toLon)
		movement = deltaKm > 0.1
	}
	dtSec := newer.FetchedAt.Sub(older.FetchedAt).Seconds()

	return &models.ISSTrend{
		Movement:    movement,
		DeltaKm:     deltaKm,
		DtSec:       dtSec,
		VelocityKmh: velocity,
		FromTime:    &older.FetchedAt,
		ToTime:      &newer.FetchedAt,
		FromLat:     fromLat,
		FromLon:     fromLon,
		ToLat:       toLat,
		ToLon:       toLon,
	}
}

// num приводит число или числовую строку к float64, иначе nil.
func num(v interface{}) *float64 {
	switch x := v.(type) {
	case float64:
		return &x
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return &f
		}
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371

	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
