package repository

import (
	"context"

	"cashierhub-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	FindAll(ctx context.Context) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)

	// The methods below run on the caller's transaction.
	Create(tx *gorm.DB, header *model.Transaction) error
	CreateItem(tx *gorm.DB, item *model.TransactionItem) error
	FindByIdempotencyKey(tx *gorm.DB, key string) (*model.Transaction, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// unscoped preloads keep deleted cashiers and products resolvable in history
func unscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

func (r *transactionRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.WithContext(ctx).
		Preload("User", unscoped).
		Order("transaction_date DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Preload("User", unscoped).
		Preload("Items").
		Preload("Items.Product", unscoped).
		Preload("Items.Product.Category").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) Create(tx *gorm.DB, header *model.Transaction) error {
	return tx.Omit(clause.Associations).Create(header).Error
}

func (r *transactionRepo) CreateItem(tx *gorm.DB, item *model.TransactionItem) error {
	return tx.Omit(clause.Associations).Create(item).Error
}

func (r *transactionRepo) FindByIdempotencyKey(tx *gorm.DB, key string) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := tx.Preload("Items").Where("idempotency_key = ?", key).First(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}
