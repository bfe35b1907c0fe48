package service

import (
	"context"
	"time"

	"orbita/internal/models"
)

// Фейки репозиториев и клиента для юнит-тестов сервисов.

type fakeISSRepo struct {
	logs      []*models.ISSLog
	createErr error
	lastErr   error
}

func (f *fakeISSRepo) Create(_ context.Context, log *models.ISSLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.logs = append([]*models.ISSLog{log}, f.logs...)
	return nil
}

func (f *fakeISSRepo) GetLast(_ context.Context) (*models.ISSLog, error) {
	if f.lastErr != nil {
		return nil, f.lastErr
	}
	if len(f.logs) == 0 {
		return nil, nil
	}
	return f.logs[0], nil
}

func (f *fakeISSRepo) GetLastTwo(_ context.Context) ([]*models.ISSLog, error) {
	if f.lastErr != nil {
		return nil, f.lastErr
	}
	if len(f.logs) > 2 {
		return f.logs[:2], nil
	}
	return f.logs, nil
}

func (f *fakeISSRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.logs)), nil
}

type fakeOSDRRepo struct {
	items     []*models.OSDRItem
	upsertErr error
}

func (f *fakeOSDRRepo) Upsert(_ context.Context, item *models.OSDRItem) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if item.DatasetID != nil {
		for i, existing := range f.items {
			if existing.DatasetID != nil && *existing.DatasetID == *item.DatasetID {
				f.items[i] = item
				return nil
			}
		}
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeOSDRRepo) List(_ context.Context, limit int) ([]models.OSDRItem, error) {
	out := make([]models.OSDRItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, *item)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOSDRRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

type fakeSpaceCacheRepo struct {
	entries   []*models.SpaceCache
	createErr error
}

func (f *fakeSpaceCacheRepo) Create(_ context.Context, entry *models.SpaceCache) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeSpaceCacheRepo) GetLatest(_ context.Context, source string) (*models.SpaceCache, error) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].Source == source {
			return f.entries[i], nil
		}
	}
	return nil, nil
}

// noopCache — read-кэш, который никогда ничего не находит.
type noopCache struct{}

func (noopCache) Get(_ context.Context, _ string) (string, error) { return "", nil }
func (noopCache) Set(_ context.Context, _ string, _ string, _ time.Duration) error {
	return nil
}
func (noopCache) GetJSON(_ context.Context, _ string, _ interface{}) (bool, error) {
	return false, nil
}
func (noopCache) SetJSON(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (noopCache) Delete(_ context.Context, _ string) error { return nil }

// fakeClient реализует clients.SpaceClient через подменяемые функции.
type fakeClient struct {
	iss    func(ctx context.Context) (interface{}, error)
	osdr   func(ctx context.Context) (interface{}, error)
	apod   func(ctx context.Context) (interface{}, error)
	neo    func(ctx context.Context) (interface{}, error)
	flr    func(ctx context.Context) (interface{}, error)
	cme    func(ctx context.Context) (interface{}, error)
	spacex func(ctx context.Context) (interface{}, error)
}

func fail(_ context.Context) (interface{}, error) {
	return nil, errNoStub
}

var errNoStub = &stubError{}

type stubError struct{}

func (*stubError) Error() string { return "stub: not configured" }

func call(fn func(ctx context.Context) (interface{}, error), ctx context.Context) (interface{}, error) {
	if fn == nil {
		return fail(ctx)
	}
	return fn(ctx)
}

func (f *fakeClient) GetISS(ctx context.Context) (interface{}, error)  { return call(f.iss, ctx) }
func (f *fakeClient) GetOSDR(ctx context.Context) (interface{}, error) { return call(f.osdr, ctx) }
func (f *fakeClient) GetAPOD(ctx context.Context) (interface{}, error) { return call(f.apod, ctx) }
func (f *fakeClient) GetNEO(ctx context.Context) (interface{}, error)  { return call(f.neo, ctx) }
func (f *fakeClient) GetDONKIFLR(ctx context.Context) (interface{}, error) {
	return call(f.flr, ctx)
}
func (f *fakeClient) GetDONKICME(ctx context.Context) (interface{}, error) {
	return call(f.cme, ctx)
}
func (f *fakeClient) GetSpaceX(ctx context.Context) (interface{}, error) {
	return call(f.spacex, ctx)
}
