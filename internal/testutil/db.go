package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"cashierhub-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB returns an isolated in-memory sqlite database with the schema migrated.
// The pool is capped at one connection, so code running inside a transaction
// must only use the tx handle it was given.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Transaction{},
		&model.TransactionItem{},
	))
	return db
}

func SeedUser(t testing.TB, db *gorm.DB, username, role string) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Password: "plain-" + username,
		Name:     strings.ToUpper(username[:1]) + username[1:],
		Email:    username + "@cashierhub.test",
		Role:     role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func SeedCategory(t testing.TB, db *gorm.DB, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func SeedProduct(t testing.TB, db *gorm.DB, category *model.Category, code string, stock int, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:       "Product " + code,
		CategoryID: category.ID,
		Code:       code,
		Stock:      stock,
		Price:      decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(p).Error)
	p.Category = category
	return p
}

func Stock(t testing.TB, db *gorm.DB, code string) int {
	t.Helper()
	var p model.Product
	require.NoError(t, db.Unscoped().Where("code = ?", code).Order("created_at DESC").First(&p).Error)
	return p.Stock
}
