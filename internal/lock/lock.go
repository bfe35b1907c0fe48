// Package lock — именованный неблокирующий межпроцессный мьютекс поверх
// advisory-блокировок PostgreSQL. Блокировка кооперативная: её соблюдают
// только вызовы через этот же примитив.
package lock

import (
	"context"
	"hash/fnv"
	"log"

	"orbita/internal/apperr"
)

// Conn — одно закреплённое соединение с хранилищем. Advisory-блокировки
// привязаны к сессии, поэтому захват и освобождение обязаны идти через
// одно и то же соединение.
type Conn interface {
	TryLock(ctx context.Context, key int64) (bool, error)
	Unlock(ctx context.Context, key int64) error
}

// Backend выделяет соединение на время callback'а.
type Backend interface {
	WithConn(ctx context.Context, fn func(Conn) error) error
}

// Key выводит стабильный числовой ключ из имени задачи (FNV-1a).
// Коллизии допустимы: имён задач фиксированное малое множество.
func Key(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}

type Mutex struct {
	backend Backend
}

func NewMutex(backend Backend) *Mutex {
	return &Mutex{backend: backend}
}

// TryRun пытается захватить блокировку по имени задачи без ожидания.
// Если блокировка занята другим экземпляром — тик молча пропускается
// (nil). Если захвачена — задача выполняется, блокировка освобождается
// на любом пути выхода, ошибка задачи возвращается после освобождения.
func (m *Mutex) TryRun(ctx context.Context, name string, task func(context.Context) error) error {
	key := Key(name)
	return m.backend.WithConn(ctx, func(conn Conn) error {
		acquired, err := conn.TryLock(ctx, key)
		if err != nil {
			return apperr.Wrap(apperr.CodeDatabase, "failed to acquire advisory lock", err)
		}
		if !acquired {
			log.Printf("Skipping %s task - already running", name)
			return nil
		}
		defer func() {
			if err := conn.Unlock(ctx, key); err != nil {
				log.Printf("Failed to release advisory lock %s: %v", name, err)
			}
		}()
		return task(ctx)
	})
}
