package repository

import (
	"context"

	"cashierhub-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]model.Category, error)
	// FindOrCreate runs on the caller's transaction.
	FindOrCreate(tx *gorm.DB, name string) (*model.Category, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindOrCreate inserts the category unless the name exists, then reads it back.
// A concurrent insert of the same name resolves to the same row.
func (r *categoryRepo) FindOrCreate(tx *gorm.DB, name string) (*model.Category, error) {
	candidate := model.Category{Name: name}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil {
		return nil, err
	}

	var category model.Category
	if err := tx.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
