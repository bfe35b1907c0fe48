package worker

import (
	"context"
	"log"
	"time"

	"orbita/internal/lock"
	"orbita/internal/metrics"
)

// Job — один независимый цикл опроса: немедленный первый запуск, затем
// тик каждые interval. Каждый тик идёт через advisory-блокировку, так
// что одноимённая задача не выполняется одновременно в нескольких
// экземплярах сервиса. Ошибки тика логируются и не останавливают цикл.
type Job struct {
	name     string
	interval time.Duration
	mutex    *lock.Mutex
	task     func(ctx context.Context) error
	stopChan chan struct{}
	running  bool
}

func NewJob(name string, interval time.Duration, mutex *lock.Mutex, task func(ctx context.Context) error) *Job {
	return &Job{
		name:     name,
		interval: interval,
		mutex:    mutex,
		task:     task,
		stopChan: make(chan struct{}),
	}
}

func (j *Job) Start() {
	if j.running {
		return
	}
	j.running = true
	log.Printf("%s job started with interval %v", j.name, j.interval)

	go j.run()
}

func (j *Job) Stop() {
	if !j.running {
		return
	}
	close(j.stopChan)
	j.running = false
	log.Printf("%s job stopped", j.name)
}

func (j *Job) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.tick()

	for {
		select {
		case <-ticker.C:
			j.tick()
		case <-j.stopChan:
			return
		}
	}
}

func (j *Job) tick() {
	started := time.Now()
	err := j.mutex.TryRun(context.Background(), j.name, j.task)
	metrics.ObserveJobRun(j.name, time.Since(started), err)
	if err != nil {
		log.Printf("%s job error: %v", j.name, err)
	}
}
