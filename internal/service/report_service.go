package service

import (
	"context"
	"time"

	"cashierhub-api/internal/model"
	"cashierhub-api/internal/repository"
	"cashierhub-api/pkg/apperr"

	"github.com/shopspring/decimal"
)

const (
	DefaultLowStockThreshold = 20
	DefaultSalesDays         = 7
	MaxSalesDays             = 366

	lowStockLimit    = 50
	topProductsLimit = 5
	topCashiersLimit = 5
)

type ReportService interface {
	ProductStats(ctx context.Context) (*ProductStats, error)
	EmployeeStats(ctx context.Context) (*EmployeeStats, error)
	DashboardStats(ctx context.Context) (*repository.DashboardTotals, error)
	DailySales(ctx context.Context, days int) (*DailySales, error)
}

type ProductStats struct {
	LowStock    []model.ProductResponse         `json:"lowStock"`
	BestSelling []repository.BestSellingProduct `json:"bestSelling"`
	Newest      []model.ProductResponse         `json:"newest"`
}

type EmployeeStats struct {
	RoleCounts []repository.RoleCount     `json:"roleCounts"`
	MostActive []repository.ActiveCashier `json:"mostActive"`
}

type DailySalesPoint struct {
	Date    string          `json:"date"`
	Units   int64           `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
}

type DailySales struct {
	Period struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"period"`
	Data []DailySalesPoint `json:"data"`
}

type reportService struct {
	reportRepo        repository.ReportRepository
	lowStockThreshold int
	now               func() time.Time
}

func NewReportService(reportRepo repository.ReportRepository, lowStockThreshold int) ReportService {
	if lowStockThreshold < 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &reportService{
		reportRepo:        reportRepo,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *reportService) ProductStats(ctx context.Context) (*ProductStats, error) {
	low, err := s.reportRepo.LowStock(ctx, s.lowStockThreshold, lowStockLimit)
	if err != nil {
		return nil, apperr.FromStore(err, "report unavailable")
	}
	best, err := s.reportRepo.BestSelling(ctx, topProductsLimit)
	if err != nil {
		return nil, apperr.FromStore(err, "report unavailable")
	}
	newest, err := s.reportRepo.Newest(ctx, topProductsLimit)
	if err != nil {
		return nil, apperr.FromStore(err, "report unavailable")
	}
	if best == nil {
		best = []repository.BestSellingProduct{}
	}
	return &ProductStats{
		LowStock:    model.ToProductResponses(low),
		BestSelling: best,
		Newest:      model.ToProductResponses(newest),
	}, nil
}

func (s *reportService) EmployeeStats(ctx context.Context) (*EmployeeStats, error) {
	roles, err := s.reportRepo.RoleCounts(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, "report unavailable")
	}
	active, err := s.reportRepo.MostActive(ctx, topCashiersLimit)
	if err != nil {
		return nil, apperr.FromStore(err, "report unavailable")
	}
	if roles == nil {
		roles = []repository.RoleCount{}
	}
	if active == nil {
		active = []repository.ActiveCashier{}
	}
	return &EmployeeStats{RoleCounts: roles, MostActive: active}, nil
}

func (s *reportService) DashboardStats(ctx context.Context) (*repository.DashboardTotals, error) {
	totals, err := s.reportRepo.Totals(ctx, s.lowStockThreshold, startOfDay(s.now()))
	if err != nil {
		return nil, apperr.FromStore(err, "report unavailable")
	}
	return totals, nil
}

// DailySales returns one point per calendar day, oldest first, including days
// without sales. days counts today.
func (s *reportService) DailySales(ctx context.Context, days int) (*DailySales, error) {
	if days <= 0 {
		days = DefaultSalesDays
	}
	if days > MaxSalesDays {
		return nil, apperr.Validation("days cannot exceed 366")
	}

	today := startOfDay(s.now())
	from := today.AddDate(0, 0, -(days - 1))

	lines, err := s.reportRepo.SalesSince(ctx, from)
	if err != nil {
		return nil, apperr.FromStore(err, "report unavailable")
	}

	points := make([]DailySalesPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		points[i] = DailySalesPoint{Date: date, Revenue: decimal.Zero}
		index[date] = i
	}
	for _, l := range lines {
		date := l.TransactionDate.In(today.Location()).Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			continue
		}
		points[i].Units += l.Units
		points[i].Revenue = points[i].Revenue.Add(l.TotalAmount)
	}

	out := &DailySales{Data: points}
	out.Period.From = points[0].Date
	out.Period.To = points[len(points)-1].Date
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
