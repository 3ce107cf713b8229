package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acmedash/invoice-api/internal/models"
)

// RevenueRepository reads the monthly revenue series.
type RevenueRepository struct {
	db *sqlx.DB
}

// NewRevenueRepository constructs a RevenueRepository.
func NewRevenueRepository(db *sqlx.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

// List returns every month of the revenue series in calendar order.
func (r *RevenueRepository) List(ctx context.Context) ([]models.Revenue, error) {
	const query = `SELECT month, revenue_cents FROM revenue ORDER BY id ASC`
	var series []models.Revenue
	if err := r.db.SelectContext(ctx, &series, query); err != nil {
		return nil, fmt.Errorf("list revenue: %w", err)
	}
	return series, nil
}
