package repository

import (
	"context"
	"time"

	"cashierhub-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// The methods below run on the caller's transaction.
	Create(tx *gorm.DB, product *model.Product) error
	Update(tx *gorm.DB, id uuid.UUID, columns map[string]interface{}) error
	FindByIDs(tx *gorm.DB, ids []uuid.UUID) ([]model.Product, error)
	DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").Order("created_at ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Omit("Category").Create(product).Error
}

func (r *productRepo) Update(tx *gorm.DB, id uuid.UUID, columns map[string]interface{}) error {
	res := tx.Model(&model.Product{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByIDs loads live products; missing or deleted ids are simply absent.
func (r *productRepo) FindByIDs(tx *gorm.DB, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := tx.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// DecrementStock subtracts quantity relative to the current value, only when
// enough stock remains. The check and the write are one statement, so two
// concurrent sales can never both take the last units. false means the row
// was missing or short.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumns(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
