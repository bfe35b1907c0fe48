package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"orbita/internal/lock"
)

// testBackend — in-memory реализация lock.Backend с семантикой try-lock.
type testBackend struct {
	mu   sync.Mutex
	held map[int64]bool
}

func newTestBackend() *testBackend {
	return &testBackend{held: make(map[int64]bool)}
}

func (b *testBackend) WithConn(_ context.Context, fn func(lock.Conn) error) error {
	return fn(b)
}

func (b *testBackend) TryLock(_ context.Context, key int64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.held[key] {
		return false, nil
	}
	b.held[key] = true
	return true, nil
}

func (b *testBackend) Unlock(_ context.Context, key int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.held, key)
	return nil
}

func TestJob_RunsImmediatelyAndOnTicks(t *testing.T) {
	var runs int32
	job := NewJob("iss", 20*time.Millisecond, lock.NewMutex(newTestBackend()), func(_ context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	job.Start()
	defer job.Stop()

	// Первый запуск немедленный, без ожидания первого тика
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&runs) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if atomic.LoadInt32(&runs) == 0 {
		t.Fatal("job did not run immediately after Start")
	}

	for atomic.LoadInt32(&runs) < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := atomic.LoadInt32(&runs); got < 3 {
		t.Errorf("runs = %d, want at least 3 within a second", got)
	}
}

func TestJob_StopHaltsTicks(t *testing.T) {
	var runs int32
	job := NewJob("osdr", 10*time.Millisecond, lock.NewMutex(newTestBackend()), func(_ context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	job.Start()
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&runs) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	job.Stop()

	after := atomic.LoadInt32(&runs)
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&runs); got > after+1 {
		t.Errorf("job kept running after Stop: %d -> %d", after, got)
	}
}

func TestJob_ErrorDoesNotStopLoop(t *testing.T) {
	var runs int32
	job := NewJob("neo", 10*time.Millisecond, lock.NewMutex(newTestBackend()), func(_ context.Context) error {
		atomic.AddInt32(&runs, 1)
		return context.DeadlineExceeded
	})

	job.Start()
	defer job.Stop()

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&runs) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := atomic.LoadInt32(&runs); got < 2 {
		t.Errorf("runs = %d, want the loop to survive task errors", got)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	var runs int32
	scheduler := NewScheduler()
	scheduler.AddWorker(NewJob("apod", 10*time.Millisecond, lock.NewMutex(newTestBackend()), func(_ context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}))
	scheduler.AddWorker(NewJob("spacex", 10*time.Millisecond, lock.NewMutex(newTestBackend()), func(_ context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}))

	scheduler.Start()
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&runs) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	scheduler.Stop()

	if got := atomic.LoadInt32(&runs); got < 2 {
		t.Errorf("runs = %d, want both workers to have run", got)
	}
}
