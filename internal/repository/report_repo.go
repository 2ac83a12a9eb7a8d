package repository

import (
	"context"
	"time"

	"cashierhub-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportRepository interface {
	LowStock(ctx context.Context, threshold, limit int) ([]model.Product, error)
	BestSelling(ctx context.Context, limit int) ([]BestSellingProduct, error)
	Newest(ctx context.Context, limit int) ([]model.Product, error)
	RoleCounts(ctx context.Context) ([]RoleCount, error)
	MostActive(ctx context.Context, limit int) ([]ActiveCashier, error)
	Totals(ctx context.Context, lowStockThreshold int, since time.Time) (*DashboardTotals, error)
	SalesSince(ctx context.Context, since time.Time) ([]SaleLine, error)
}

type BestSellingProduct struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	TotalSold int64           `json:"total_sold"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

type ActiveCashier struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Role              string    `json:"role"`
	ProfilePicture    *string   `json:"profile_picture"`
	TotalTransactions int64     `json:"total_transactions"`
}

// DashboardTotals untuk overview stats
type DashboardTotals struct {
	TotalProducts     int64           `json:"total_products"`
	LowStockCount     int64           `json:"low_stock_count"`
	TotalValuation    decimal.Decimal `json:"total_valuation"`
	TodayTransactions int64           `json:"today_transactions"`
	TodayRevenue      decimal.Decimal `json:"today_revenue"`
}

// SaleLine is one transaction with the units it sold, bucketed by day in Go.
type SaleLine struct {
	TransactionDate time.Time
	TotalAmount     decimal.Decimal
	Units           int64
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) LowStock(ctx context.Context, threshold, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *reportRepo) BestSelling(ctx context.Context, limit int) ([]BestSellingProduct, error) {
	var rows []BestSellingProduct
	err := r.db.WithContext(ctx).
		Table("transaction_items ti").
		Select("p.id, p.name, p.code, p.price, p.stock, SUM(ti.quantity) AS total_sold").
		Joins("JOIN products p ON ti.product_id = p.id").
		Where("p.deleted_at IS NULL").
		Group("p.id, p.name, p.code, p.price, p.stock").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) Newest(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *reportRepo) RoleCounts(ctx context.Context) ([]RoleCount, error) {
	var rows []RoleCount
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Order("role ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) MostActive(ctx context.Context, limit int) ([]ActiveCashier, error) {
	var rows []ActiveCashier
	err := r.db.WithContext(ctx).
		Table("transactions t").
		Select("u.id, u.name, u.role, u.profile_picture, COUNT(t.id) AS total_transactions").
		Joins("JOIN users u ON t.user_id = u.id").
		Where("u.deleted_at IS NULL").
		Group("u.id, u.name, u.role, u.profile_picture").
		Order("total_transactions DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) Totals(ctx context.Context, lowStockThreshold int, since time.Time) (*DashboardTotals, error) {
	var totals DashboardTotals
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&totals.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("stock <= ?", lowStockThreshold).Count(&totals.LowStockCount).Error; err != nil {
		return nil, err
	}

	var valuation decimal.NullDecimal
	if err := db.Model(&model.Product{}).Select("SUM(stock * price)").Row().Scan(&valuation); err != nil {
		return nil, err
	}
	totals.TotalValuation = valuation.Decimal

	var revenue decimal.NullDecimal
	err := db.Model(&model.Transaction{}).
		Select("COUNT(*), SUM(total_amount)").
		Where("transaction_date >= ?", since).
		Row().
		Scan(&totals.TodayTransactions, &revenue)
	if err != nil {
		return nil, err
	}
	totals.TodayRevenue = revenue.Decimal

	return &totals, nil
}

func (r *reportRepo) SalesSince(ctx context.Context, since time.Time) ([]SaleLine, error) {
	rows, err := r.db.WithContext(ctx).
		Table("transactions t").
		Select("t.transaction_date, t.total_amount, COALESCE(SUM(ti.quantity), 0) AS units").
		Joins("LEFT JOIN transaction_items ti ON ti.transaction_id = t.id").
		Where("t.transaction_date >= ?", since).
		Group("t.id, t.transaction_date, t.total_amount").
		Order("t.transaction_date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []SaleLine
	for rows.Next() {
		var line SaleLine
		if err := rows.Scan(&line.TransactionDate, &line.TotalAmount, &line.Units); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
