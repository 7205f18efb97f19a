package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"atelier/internal/domain"
	"atelier/internal/report/repository"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365
	topProductsLimit  = 10
)

type Repository interface {
	Summary(ctx context.Context, since time.Time) (*repository.SummaryRow, error)
	StatusCounts(ctx context.Context, since time.Time) ([]repository.StatusCount, error)
	DailyRevenue(ctx context.Context, since time.Time) ([]repository.DailyBucket, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]repository.TopProduct, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// ClampWindowDays normalizes the caller's trailing-window length: default 30,
// cap 365.
func ClampWindowDays(days int) int {
	if days <= 0 {
		return defaultWindowDays
	}
	if days > maxWindowDays {
		return maxWindowDays
	}
	return days
}

func (s *Service) windowStart(days int) (time.Time, int) {
	days = ClampWindowDays(days)
	return s.now().AddDate(0, 0, -days), days
}

type SalesSummary struct {
	WindowDays        int
	RevenueCents      domain.Cents
	TotalOrders       int
	AverageOrderValue decimal.Decimal
	PendingValueCents domain.Cents
	StatusCounts      map[string]int
}

func (s *Service) GetSalesSummary(ctx context.Context, days int) (*SalesSummary, error) {
	since, days := s.windowStart(days)

	row, err := s.repo.Summary(ctx, since)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.StatusCounts(ctx, since)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int, len(counts))
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
	}

	// Exact division in decimal; a window with no revenue orders averages 0.
	aov := decimal.Zero
	if row.RevenueOrders > 0 {
		aov = row.RevenueCents.Decimal().DivRound(decimal.NewFromInt(int64(row.RevenueOrders)), 2)
	}

	return &SalesSummary{
		WindowDays:        days,
		RevenueCents:      row.RevenueCents,
		TotalOrders:       row.TotalOrders,
		AverageOrderValue: aov,
		PendingValueCents: row.PendingValueCents,
		StatusCounts:      byStatus,
	}, nil
}

func (s *Service) GetStatusCounts(ctx context.Context, days int) (map[string]int, int, error) {
	since, days := s.windowStart(days)

	counts, err := s.repo.StatusCounts(ctx, since)
	if err != nil {
		return nil, 0, err
	}

	byStatus := make(map[string]int, len(domain.OrderStatuses))
	for _, status := range domain.OrderStatuses {
		byStatus[status] = 0
	}
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
	}

	return byStatus, days, nil
}

func (s *Service) GetDailyRevenue(ctx context.Context, days int) ([]repository.DailyBucket, int, error) {
	since, days := s.windowStart(days)

	buckets, err := s.repo.DailyRevenue(ctx, since)
	if err != nil {
		return nil, 0, err
	}

	return buckets, days, nil
}

func (s *Service) GetTopProducts(ctx context.Context, days int) ([]repository.TopProduct, int, error) {
	since, days := s.windowStart(days)

	products, err := s.repo.TopProducts(ctx, since, topProductsLimit)
	if err != nil {
		return nil, 0, err
	}

	return products, days, nil
}
