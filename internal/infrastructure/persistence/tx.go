package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// session returns the transaction carried by ctx when one is open,
// otherwise the repository's own connection. Every repository query goes
// through this so paired saves inside a TransactionManager callback land
// in the same transaction.
func session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// GormTransactionManager implements shared.TransactionManager on a GORM
// connection, propagating the transaction through the context
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a transaction manager on the given connection
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// Transaction runs fn inside a single database transaction
func (m *GormTransactionManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}
