package lock

import (
	"context"

	"gorm.io/gorm"
)

// PostgresBackend закрепляет одно соединение пула на время callback'а,
// чтобы pg_try_advisory_lock и pg_advisory_unlock выполнялись в одной
// сессии. При обрыве соединения хранилище снимает блокировку само.
type PostgresBackend struct {
	db *gorm.DB
}

func NewPostgresBackend(db *gorm.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) WithConn(ctx context.Context, fn func(Conn) error) error {
	return b.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return fn(pgConn{tx: tx})
	})
}

type pgConn struct {
	tx *gorm.DB
}

func (c pgConn) TryLock(ctx context.Context, key int64) (bool, error) {
	var acquired bool
	err := c.tx.WithContext(ctx).Raw("SELECT pg_try_advisory_lock(?)", key).Scan(&acquired).Error
	return acquired, err
}

func (c pgConn) Unlock(ctx context.Context, key int64) error {
	return c.tx.WithContext(ctx).Exec("SELECT pg_advisory_unlock(?)", key).Error
}
