package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/acmedash/invoice-api/internal/dto"
	"github.com/acmedash/invoice-api/internal/form"
	"github.com/acmedash/invoice-api/internal/models"
	"github.com/acmedash/invoice-api/internal/validation"
	appErrors "github.com/acmedash/invoice-api/pkg/errors"
	"github.com/acmedash/invoice-api/pkg/money"
)

// InvoiceListingPath is the navigation target after a successful create or
// update. Callers translate it into their own redirect primitive.
const InvoiceListingPath = "/dashboard/invoices"

const invoiceDateLayout = "2006-01-02"

// Cache key patterns invalidated after every successful invoice write.
const (
	invoiceCachePattern   = "invoices:*"
	dashboardCachePattern = "dashboard:*"
)

type invoiceRepository interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceRow, int, error)
	FindByID(ctx context.Context, id string) (*models.Invoice, error)
	Latest(ctx context.Context, limit int) ([]dto.LatestInvoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id string) error
}

type customerChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// InvoiceSchema is the declarative shape of an invoice submission. The same
// schema applies to create and update; identifier and date are generated
// server-side and never user-supplied.
var InvoiceSchema = validation.Schema{Fields: []validation.FieldSpec{
	{Name: "customer_id", Kind: validation.KindString, Required: true, Message: "Please select a customer."},
	{Name: "amount", Kind: validation.KindNumber, Required: true, GreaterThan: validation.Float(0), Message: "Please enter an amount greater than $0."},
	{Name: "status", Kind: validation.KindEnum, Required: true, Enum: models.InvoiceStatuses, Message: "Please select an invoice status."},
}}

// InvoiceService runs the invoice mutation pipeline
// (extract -> validate -> transform -> persist) and serves invoice queries.
type InvoiceService struct {
	repo      invoiceRepository
	customers customerChecker
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
	cacheTTL  time.Duration
}

// NewInvoiceService constructs an InvoiceService.
func NewInvoiceService(repo invoiceRepository, customers customerChecker, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}
	return &InvoiceService{
		repo:      repo,
		customers: customers,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		cacheTTL:  cacheTTL,
	}
}

// Create validates the submitted fields, derives the stored record and
// persists it. Success invalidates the invoice and dashboard caches and
// carries the listing path as the navigation target.
func (s *InvoiceService) Create(ctx context.Context, fields form.Fields) dto.MutationResult {
	outcome := validation.Apply(InvoiceSchema, fields)
	if !outcome.OK() {
		s.metrics.RecordMutation("create", "rejected")
		return dto.Rejected(outcome.Errors(), "missing or invalid fields; failed to create invoice")
	}
	record := outcome.Record()

	if result, ok := s.requireCustomer(ctx, record.String("customer_id"), "create"); !ok {
		return result
	}

	invoice := models.Invoice{
		CustomerID:  record.String("customer_id"),
		AmountCents: money.MinorUnits(record.Number("amount")),
		Status:      record.String("status"),
		Date:        s.now().UTC().Format(invoiceDateLayout),
	}

	if err := s.repo.Create(ctx, &invoice); err != nil {
		s.logger.Error("invoice create failed", zap.String("customer_id", invoice.CustomerID), zap.Error(err))
		s.metrics.RecordMutation("create", "failed")
		return dto.Failed("failed to create invoice")
	}

	// The write's error handling has exited; only success side effects from
	// here on, so a failed write can never absorb them.
	s.invalidateViews(ctx)
	s.metrics.RecordMutation("create", "succeeded")
	return dto.Succeeded(InvoiceListingPath)
}

// Update validates the submitted fields and merges them into the invoice
// identified by id. The identifier comes from the routing context, never from
// a form field, and the stored date is not regenerated.
func (s *InvoiceService) Update(ctx context.Context, id string, fields form.Fields) dto.MutationResult {
	if strings.TrimSpace(id) == "" {
		s.metrics.RecordMutation("update", "not_found")
		return dto.TargetMissing("invoice not found")
	}

	outcome := validation.Apply(InvoiceSchema, fields)
	if !outcome.OK() {
		s.metrics.RecordMutation("update", "rejected")
		return dto.Rejected(outcome.Errors(), "missing or invalid fields; failed to update invoice")
	}
	record := outcome.Record()

	if result, ok := s.requireCustomer(ctx, record.String("customer_id"), "update"); !ok {
		return result
	}

	invoice := models.Invoice{
		ID:          id,
		CustomerID:  record.String("customer_id"),
		AmountCents: money.MinorUnits(record.Number("amount")),
		Status:      record.String("status"),
	}

	if err := s.repo.Update(ctx, &invoice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordMutation("update", "not_found")
			return dto.TargetMissing("invoice not found")
		}
		s.logger.Error("invoice update failed", zap.String("invoice_id", id), zap.Error(err))
		s.metrics.RecordMutation("update", "failed")
		return dto.Failed("failed to update invoice")
	}

	s.invalidateViews(ctx)
	s.metrics.RecordMutation("update", "succeeded")
	return dto.Succeeded(InvoiceListingPath)
}

// Delete removes the invoice identified by id. A missing invoice is a
// distinct outcome, never reported as success. No navigation target is set
// since the caller is already on the listing view.
func (s *InvoiceService) Delete(ctx context.Context, id string) dto.MutationResult {
	if strings.TrimSpace(id) == "" {
		s.metrics.RecordMutation("delete", "not_found")
		return dto.TargetMissing("invoice not found")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordMutation("delete", "not_found")
			return dto.TargetMissing("invoice not found")
		}
		s.logger.Error("invoice delete failed", zap.String("invoice_id", id), zap.Error(err))
		s.metrics.RecordMutation("delete", "failed")
		return dto.Failed("failed to delete invoice")
	}

	s.invalidateViews(ctx)
	s.metrics.RecordMutation("delete", "succeeded")
	return dto.Succeeded("")
}

type cachedInvoiceList struct {
	Rows  []models.InvoiceRow `json:"rows"`
	Total int                 `json:"total"`
}

// List returns invoices matching the filter, serving from cache when warm.
func (s *InvoiceService) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceRow, *models.Pagination, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 6
	}
	filter.Page = page
	filter.PageSize = size

	key := fmt.Sprintf("invoices:list:q=%s:s=%s:p=%d:n=%d", filter.Query, filter.Status, page, size)
	var cached cachedInvoiceList
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached.Rows, &models.Pagination{Page: page, PageSize: size, TotalCount: cached.Total}, nil
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invoices")
	}

	_ = s.cache.Set(ctx, key, cachedInvoiceList{Rows: rows, Total: total}, s.cacheTTL)

	return rows, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one invoice, for populating the edit form.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}
	return invoice, nil
}

// Latest returns the most recent invoices.
func (s *InvoiceService) Latest(ctx context.Context, limit int) ([]dto.LatestInvoice, error) {
	latest, err := s.repo.Latest(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest invoices")
	}
	return latest, nil
}

// requireCustomer verifies the referenced customer exists. Unknown customers
// reject the submission with a field error; lookup failures are classified as
// infrastructure failures like any other store error.
func (s *InvoiceService) requireCustomer(ctx context.Context, customerID, operation string) (dto.MutationResult, bool) {
	exists, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		s.logger.Error("customer lookup failed", zap.String("customer_id", customerID), zap.Error(err))
		s.metrics.RecordMutation(operation, "failed")
		return dto.Failed(fmt.Sprintf("failed to %s invoice", operation)), false
	}
	if !exists {
		s.metrics.RecordMutation(operation, "rejected")
		errs := validation.FieldErrors{}
		errs.Add("customer_id", "Please select a valid customer.")
		return dto.Rejected(errs, fmt.Sprintf("missing or invalid fields; failed to %s invoice", operation)), false
	}
	return dto.MutationResult{}, true
}

func (s *InvoiceService) invalidateViews(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, invoiceCachePattern); err != nil {
		s.logger.Warn("invoice cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
