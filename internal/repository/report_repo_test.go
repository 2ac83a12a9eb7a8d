package repository

import (
	"context"
	"testing"
	"time"

	"cashierhub-api/internal/model"
	"cashierhub-api/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func recordSale(t *testing.T, db *gorm.DB, user *model.User, at time.Time, lines map[*model.Product]int) {
	t.Helper()
	total := decimal.Zero
	for p, q := range lines {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(q))))
	}
	header := &model.Transaction{UserID: user.ID, TotalAmount: total, CashAmount: total, TransactionDate: at}
	repo := NewTransactionRepo(db)
	require.NoError(t, repo.Create(db, header))
	for p, q := range lines {
		require.NoError(t, repo.CreateItem(db, &model.TransactionItem{
			TransactionID:      header.ID,
			ProductID:          p.ID,
			Quantity:           q,
			PriceAtTransaction: p.Price,
			Subtotal:           p.Price.Mul(decimal.NewFromInt(int64(q))),
		}))
	}
}

func TestProductReports(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReportRepo(db)
	ctx := context.Background()
	cat := testutil.SeedCategory(t, db, "Minuman")
	kasir := testutil.SeedUser(t, db, "kasir1", model.RoleCashier)

	teh := testutil.SeedProduct(t, db, cat, "TEH", 5, "3000")
	kopi := testutil.SeedProduct(t, db, cat, "KOPI", 50, "5000")
	susu := testutil.SeedProduct(t, db, cat, "SUSU", 20, "7000")

	recordSale(t, db, kasir, time.Now(), map[*model.Product]int{kopi: 4, teh: 1})
	recordSale(t, db, kasir, time.Now(), map[*model.Product]int{kopi: 2})

	low, err := repo.LowStock(ctx, 20, 50)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "TEH", low[0].Code)
	assert.Equal(t, susu.Code, low[1].Code)
	assert.Equal(t, "Minuman", low[0].ToResponse().Type)

	best, err := repo.BestSelling(ctx, 5)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, "KOPI", best[0].Code)
	assert.Equal(t, int64(6), best[0].TotalSold)
	assert.Equal(t, kopi.ID, best[0].ID)

	newest, err := repo.Newest(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, newest, 3)
}

func TestEmployeeReports(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReportRepo(db)
	ctx := context.Background()
	cat := testutil.SeedCategory(t, db, "Snack")
	p := testutil.SeedProduct(t, db, cat, "S", 100, "1000")

	testutil.SeedUser(t, db, "admin", model.RoleAdmin)
	a := testutil.SeedUser(t, db, "ani", model.RoleCashier)
	b := testutil.SeedUser(t, db, "bayu", model.RoleCashier)

	recordSale(t, db, b, time.Now(), map[*model.Product]int{p: 1})
	recordSale(t, db, b, time.Now(), map[*model.Product]int{p: 1})
	recordSale(t, db, a, time.Now(), map[*model.Product]int{p: 1})

	roles, err := repo.RoleCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []RoleCount{{Role: model.RoleAdmin, Count: 1}, {Role: model.RoleCashier, Count: 2}}, roles)

	active, err := repo.MostActive(ctx, 5)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, b.ID, active[0].ID)
	assert.Equal(t, int64(2), active[0].TotalTransactions)
}

func TestDashboardTotalsAndSales(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReportRepo(db)
	ctx := context.Background()
	cat := testutil.SeedCategory(t, db, "Snack")
	kasir := testutil.SeedUser(t, db, "kasir", model.RoleCashier)
	a := testutil.SeedProduct(t, db, cat, "A", 10, "1000")
	b := testutil.SeedProduct(t, db, cat, "B", 30, "2500")

	now := time.Now()
	recordSale(t, db, kasir, now.Add(-48*time.Hour), map[*model.Product]int{a: 1})
	recordSale(t, db, kasir, now, map[*model.Product]int{a: 2, b: 1})

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	totals, err := repo.Totals(ctx, 20, startOfDay)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.TotalProducts)
	assert.Equal(t, int64(1), totals.LowStockCount)
	assert.True(t, decimal.NewFromInt(85000).Equal(totals.TotalValuation), totals.TotalValuation.String())
	assert.Equal(t, int64(1), totals.TodayTransactions)
	assert.True(t, decimal.NewFromInt(4500).Equal(totals.TodayRevenue), totals.TodayRevenue.String())

	lines, err := repo.SalesSince(ctx, now.Add(-72*time.Hour))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].Units)
	assert.Equal(t, int64(3), lines[1].Units)
	assert.True(t, decimal.NewFromInt(4500).Equal(lines[1].TotalAmount))
}

func TestDashboardTotalsEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	totals, err := NewReportRepo(db).Totals(context.Background(), 20, time.Now())
	require.NoError(t, err)
	assert.True(t, totals.TotalValuation.IsZero())
	assert.True(t, totals.TodayRevenue.IsZero())
	assert.Zero(t, totals.TodayTransactions)
}
