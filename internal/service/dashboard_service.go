package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/acmedash/invoice-api/internal/dto"
	"github.com/acmedash/invoice-api/internal/models"
)

const dashboardCacheKey = "dashboard:overview"

type invoiceAggregator interface {
	StatusTotals(ctx context.Context) (*models.InvoiceStatusTotals, error)
	Latest(ctx context.Context, limit int) ([]dto.LatestInvoice, error)
}

type customerCounter interface {
	Count(ctx context.Context) (int, error)
}

type revenueLister interface {
	List(ctx context.Context) ([]models.Revenue, error)
}

// DashboardService composes the overview payload: summary cards, the monthly
// revenue chart and the latest-invoices feed. Payloads are cached and
// invalidated by the invoice mutation pipeline.
type DashboardService struct {
	invoices  invoiceAggregator
	customers customerCounter
	revenue   revenueLister
	cache     *CacheService
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(invoices invoiceAggregator, customers customerCounter, revenue revenueLister, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		invoices:  invoices,
		customers: customers,
		revenue:   revenue,
		cache:     cache,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// Overview returns the dashboard payload and whether it was served from cache.
func (s *DashboardService) Overview(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	var cached dto.DashboardResponse
	if hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	overview, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, dashboardCacheKey, overview, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}

	return overview, false, nil
}

func (s *DashboardService) compose(ctx context.Context) (*dto.DashboardResponse, error) {
	totals, err := s.invoices.StatusTotals(ctx)
	if err != nil {
		return nil, err
	}

	customerCount, err := s.customers.Count(ctx)
	if err != nil {
		return nil, err
	}

	months, err := s.revenue.List(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.invoices.Latest(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Cards: dto.DashboardCards{
			InvoiceCount:      totals.Count,
			CustomerCount:     customerCount,
			PaidTotalCents:    totals.PaidCents,
			PendingTotalCents: totals.PendingCents,
		},
		Revenue: dto.RevenueChart{
			Months:        months,
			TopLabelCents: chartCeiling(months),
		},
		LatestInvoices: latest,
	}, nil
}

// chartCeiling rounds the highest monthly revenue up to the next full $1000
// so the chart's y-axis has a clean top label.
func chartCeiling(months []models.Revenue) int64 {
	var max int64
	for _, m := range months {
		if m.RevenueCents > max {
			max = m.RevenueCents
		}
	}
	const step = 100000 // $1000 in cents
	if max == 0 {
		return 0
	}
	ceiling := (max + step - 1) / step * step
	return ceiling
}
