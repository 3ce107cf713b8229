package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/acmedash/invoice-api/internal/models"
)

// CustomerRepository manages persistence for customers.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository constructs a CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// List returns all customers ordered by name, for select dropdowns.
func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	const query = `SELECT id, name, email, image_url, created_at FROM customers ORDER BY name ASC`
	var customers []models.Customer
	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// FindByID fetches a customer by ID.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	const query = `SELECT id, name, email, image_url, created_at FROM customers WHERE id = $1`
	var customer models.Customer
	if err := r.db.GetContext(ctx, &customer, query, id); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Exists reports whether a customer with the given ID exists.
func (r *CustomerRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM customers WHERE id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check customer: %w", err)
	}
	return true, nil
}

// Count returns the number of customers.
func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM customers"); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return count, nil
}

// Summaries returns customers with invoice aggregates for the table view.
func (r *CustomerRepository) Summaries(ctx context.Context, filter models.CustomerFilter) ([]models.CustomerSummary, error) {
	base := `SELECT c.id, c.name, c.email, c.image_url,
		COUNT(i.id) AS total_invoices,
		COALESCE(SUM(CASE WHEN i.status = 'pending' THEN i.amount_cents ELSE 0 END), 0) AS pending_cents,
		COALESCE(SUM(CASE WHEN i.status = 'paid' THEN i.amount_cents ELSE 0 END), 0) AS paid_cents
		FROM customers c LEFT JOIN invoices i ON i.customer_id = c.id`

	var args []interface{}
	if filter.Query != "" {
		base += " WHERE LOWER(c.name) LIKE $1 OR LOWER(c.email) LIKE $1"
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
	}
	base += " GROUP BY c.id, c.name, c.email, c.image_url ORDER BY c.name ASC"

	var summaries []models.CustomerSummary
	if err := r.db.SelectContext(ctx, &summaries, base, args...); err != nil {
		return nil, fmt.Errorf("customer summaries: %w", err)
	}
	return summaries, nil
}
