package database

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner opens a transaction, hands it to fn and commits when fn returns nil.
// Any error or panic inside fn rolls the whole unit back.
type TxRunner interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(fn)
}
