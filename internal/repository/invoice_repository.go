package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acmedash/invoice-api/internal/dto"
	"github.com/acmedash/invoice-api/internal/models"
)

// InvoiceRepository manages persistence for invoices.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository constructs an InvoiceRepository.
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// List returns invoices joined with customer data matching the filter, plus
// the total match count.
func (r *InvoiceRepository) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceRow, int, error) {
	base := `FROM invoices i JOIN customers c ON c.id = i.customer_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Query != "" {
		search := "%" + strings.ToLower(filter.Query) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.name) LIKE $%d OR LOWER(c.email) LIKE $%d OR i.status LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 6
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT i.id, i.customer_id, i.amount_cents, i.status, i.date, c.name AS customer_name, c.email AS customer_email, c.image_url %s ORDER BY i.date DESC, i.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)
	var rows []models.InvoiceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	return rows, total, nil
}

// FindByID fetches one invoice.
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	const query = `SELECT id, customer_id, amount_cents, status, date, created_at, updated_at FROM invoices WHERE id = $1`
	var invoice models.Invoice
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Latest returns the most recent invoices with customer data.
func (r *InvoiceRepository) Latest(ctx context.Context, limit int) ([]dto.LatestInvoice, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT i.id, i.amount_cents, c.name AS customer_name, c.email AS customer_email, c.image_url
		FROM invoices i JOIN customers c ON c.id = i.customer_id
		ORDER BY i.date DESC, i.created_at DESC LIMIT %d`, limit)
	var latest []dto.LatestInvoice
	if err := r.db.SelectContext(ctx, &latest, query); err != nil {
		return nil, fmt.Errorf("latest invoices: %w", err)
	}
	return latest, nil
}

// StatusTotals aggregates paid/pending sums and the invoice count.
func (r *InvoiceRepository) StatusTotals(ctx context.Context) (*models.InvoiceStatusTotals, error) {
	const query = `SELECT
		COALESCE(SUM(CASE WHEN status = 'paid' THEN amount_cents ELSE 0 END), 0) AS paid_cents,
		COALESCE(SUM(CASE WHEN status = 'pending' THEN amount_cents ELSE 0 END), 0) AS pending_cents,
		COUNT(*) AS count
		FROM invoices`
	var totals models.InvoiceStatusTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("invoice status totals: %w", err)
	}
	return &totals, nil
}

// Create inserts a new invoice record.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	const query = `INSERT INTO invoices (id, customer_id, amount_cents, status, date, created_at, updated_at)
		VALUES (:id, :customer_id, :amount_cents, :status, :date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, invoice); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

// Update modifies customer, amount and status of an existing invoice. The
// stored date is never touched on update. Returns sql.ErrNoRows when the
// invoice does not exist.
func (r *InvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	invoice.UpdatedAt = time.Now().UTC()
	const query = `UPDATE invoices SET customer_id = :customer_id, amount_cents = :amount_cents, status = :status, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, invoice)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update invoice rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an invoice. Returns sql.ErrNoRows when the invoice does not
// exist, so callers can distinguish a no-op from a real delete.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM invoices WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete invoice rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
