package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey carries the transaction *gorm.DB in a context.
type txKey struct{}

// TxManager implements shared.Transactor on top of GORM.
// Notes:
// 1. Wraps gorm's Transaction
// 2. The transaction travels in the context, not in a global
// 3. Nested calls become savepoints (GORM handles it)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction runs fn in a transaction.
// 1. Every repository call made with the ctx passed to fn joins the transaction
// 2. fn returning an error (or panicking) rolls back; nil commits
//
// Example:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    r, err := rollRepo.LockByID(ctx, rollID)
//	    if err != nil {
//	        return err
//	    }
//	    if err := saleRepo.Create(ctx, s); err != nil {
//	        return err // rollback
//	    }
//	    return rollRepo.DecreaseStock(ctx, r.ID, s.MetersSold)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom returns the transaction stored in ctx, or db bound to ctx.
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
