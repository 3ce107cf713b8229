package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acmedash/invoice-api/internal/dto"
	"github.com/acmedash/invoice-api/internal/form"
	"github.com/acmedash/invoice-api/internal/models"
	appErrors "github.com/acmedash/invoice-api/pkg/errors"
)

// mockInvoiceRepo records every write and its position in the shared event
// log so tests can assert ordering against cache invalidation.
type mockInvoiceRepo struct {
	events    *[]string
	createErr error
	updateErr error
	deleteErr error
	created   []models.Invoice
	updated   []models.Invoice
	deleted   []string
	listRows  []models.InvoiceRow
	listTotal int
	found     map[string]*models.Invoice
}

func (m *mockInvoiceRepo) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceRow, int, error) {
	return m.listRows, m.listTotal, nil
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	if inv, ok := m.found[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInvoiceRepo) Latest(ctx context.Context, limit int) ([]dto.LatestInvoice, error) {
	return nil, nil
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	if m.createErr != nil {
		return m.createErr
	}
	if invoice.ID == "" {
		invoice.ID = "generated"
	}
	m.created = append(m.created, *invoice)
	*m.events = append(*m.events, "write")
	return nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, *invoice)
	*m.events = append(*m.events, "write")
	return nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	*m.events = append(*m.events, "write")
	return nil
}

type mockCustomers struct {
	known map[string]bool
	err   error
}

func (m *mockCustomers) Exists(ctx context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.known[id], nil
}

// recordingCache implements CacheRepository and appends invalidations to the
// shared event log.
type recordingCache struct {
	events      *[]string
	invalidated []string
}

func (c *recordingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (c *recordingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *recordingCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.invalidated = append(c.invalidated, pattern)
	*c.events = append(*c.events, "invalidate:"+pattern)
	return nil
}

type pipelineFixture struct {
	service *InvoiceService
	repo    *mockInvoiceRepo
	cache   *recordingCache
	events  []string
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{}
	f.repo = &mockInvoiceRepo{events: &f.events, found: map[string]*models.Invoice{}}
	f.cache = &recordingCache{events: &f.events}
	customers := &mockCustomers{known: map[string]bool{"c1": true}}
	cacheSvc := NewCacheService(f.cache, nil, time.Minute, zap.NewNop(), true)
	f.service = NewInvoiceService(f.repo, customers, cacheSvc, nil, zap.NewNop(), time.Minute)
	return f
}

func submit(values map[string]string) form.Fields {
	src := url.Values{}
	for k, v := range values {
		src.Set(k, v)
	}
	return form.Extract(src, InvoiceSchema.Names()...)
}

func TestInvoiceCreateSuccess(t *testing.T) {
	f := newPipelineFixture(t)

	result := f.service.Create(context.Background(), submit(map[string]string{
		"customer_id": "c1",
		"amount":      "49.99",
		"status":      "paid",
	}))

	require.Equal(t, dto.MutationSucceeded, result.Status())
	assert.Equal(t, InvoiceListingPath, result.RedirectTo())
	assert.Nil(t, result.FieldErrors())

	require.Len(t, f.repo.created, 1)
	stored := f.repo.created[0]
	assert.Equal(t, int64(4999), stored.AmountCents, "amount must be stored as integer cents")
	assert.Equal(t, "c1", stored.CustomerID)
	assert.Equal(t, "paid", stored.Status)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, stored.Date, "date must be calendar-date grain")

	assert.Contains(t, f.cache.invalidated, "invoices:*")
	assert.Contains(t, f.cache.invalidated, "dashboard:*")
}

func TestInvoiceCreateMissingCustomerField(t *testing.T) {
	f := newPipelineFixture(t)

	result := f.service.Create(context.Background(), submit(map[string]string{
		"customer_id": "",
		"amount":      "50",
		"status":      "pending",
	}))

	require.Equal(t, dto.MutationRejected, result.Status())
	errs := result.FieldErrors()
	require.Len(t, errs, 1)
	assert.Equal(t, []string{"Please select a customer."}, errs["customer_id"])

	assert.Empty(t, f.repo.created, "validation failures must not reach the store")
	assert.Empty(t, f.cache.invalidated)
}

func TestInvoiceCreateNonPositiveAmount(t *testing.T) {
	f := newPipelineFixture(t)

	result := f.service.Create(context.Background(), submit(map[string]string{
		"customer_id": "c1",
		"amount":      "0",
		"status":      "pending",
	}))

	require.Equal(t, dto.MutationRejected, result.Status())
	errs := result.FieldErrors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs["amount"][0], "greater than $0")
}

func TestInvoiceCreateNonFiniteAmount(t *testing.T) {
	f := newPipelineFixture(t)

	for _, amount := range []string{"NaN", "Inf", "+Inf"} {
		result := f.service.Create(context.Background(), submit(map[string]string{
			"customer_id": "c1",
			"amount":      amount,
			"status":      "paid",
		}))

		require.Equal(t, dto.MutationRejected, result.Status(), "amount=%s", amount)
		assert.Contains(t, result.FieldErrors(), "amount")
	}

	assert.Empty(t, f.repo.created, "non-finite amounts must never reach the store")
	assert.Empty(t, f.cache.invalidated)
}

func TestInvoiceCreateAggregatesAllFieldErrors(t *testing.T) {
	f := newPipelineFixture(t)

	result := f.service.Create(context.Background(), submit(map[string]string{
		"customer_id": "",
		"amount":      "-3",
		"status":      "overdue",
	}))

	require.Equal(t, dto.MutationRejected, result.Status())
	errs := result.FieldErrors()
	assert.Len(t, errs, 3, "every violated field must be reported together")
}

func TestInvoiceCreateStoreFailureIsOpaque(t *testing.T) {
	f := newPipelineFixture(t)
	f.repo.createErr = errors.New("pq: connection refused host=db-internal-7 user=svc_invoices")

	result := f.service.Create(context.Background(), submit(map[string]string{
		"customer_id": "c1",
		"amount":      "49.99",
		"status":      "paid",
	}))

	require.Equal(t, dto.MutationFailed, result.Status())
	assert.Equal(t, "failed to create invoice", result.Message())
	assert.NotContains(t, result.Message(), "pq:", "raw store error must never surface")
	assert.NotContains(t, result.Message(), "db-internal-7")
	assert.Empty(t, f.cache.invalidated, "no invalidation after a failed write")
}

func TestInvoiceUpdateSuccessOrdering(t *testing.T) {
	f := newPipelineFixture(t)

	result := f.service.Update(context.Background(), "inv-1", submit(map[string]string{
		"customer_id": "c1",
		"amount":      "120.50",
		"status":      "pending",
	}))

	require.Equal(t, dto.MutationSucceeded, result.Status())
	require.Len(t, f.repo.updated, 1)
	assert.Equal(t, "inv-1", f.repo.updated[0].ID)
	assert.Equal(t, int64(12050), f.repo.updated[0].AmountCents)
	assert.Empty(t, f.repo.updated[0].Date, "update must not regenerate the date")

	// Invalidation strictly follows the write, never precedes it.
	require.NotEmpty(t, f.events)
	assert.Equal(t, "write", f.events[0])
	for _, event := range f.events[1:] {
		assert.True(t, strings.HasPrefix(event, "invalidate:"), "unexpected event %q", event)
	}
}

func TestInvoiceUpdateStoreFailure(t *testing.T) {
	f := newPipelineFixture(t)
	f.repo.updateErr = errors.New("pq: deadlock detected")

	result := f.service.Update(context.Background(), "inv-1", submit(map[string]string{
		"customer_id": "c1",
		"amount":      "10",
		"status":      "paid",
	}))

	require.Equal(t, dto.MutationFailed, result.Status())
	assert.Equal(t, "failed to update invoice", result.Message())
	assert.Empty(t, f.cache.invalidated)
	assert.Empty(t, f.events)
}

func TestInvoiceUpdateMissingInvoice(t *testing.T) {
	f := newPipelineFixture(t)
	f.repo.updateErr = sql.ErrNoRows

	result := f.service.Update(context.Background(), "ghost", submit(map[string]string{
		"customer_id": "c1",
		"amount":      "10",
		"status":      "paid",
	}))

	assert.Equal(t, dto.MutationTargetMissing, result.Status())
	assert.Equal(t, "invoice not found", result.Message())
}

func TestInvoiceUpdateUnknownCustomerRejected(t *testing.T) {
	f := newPipelineFixture(t)

	result := f.service.Update(context.Background(), "inv-1", submit(map[string]string{
		"customer_id": "nobody",
		"amount":      "10",
		"status":      "paid",
	}))

	require.Equal(t, dto.MutationRejected, result.Status())
	assert.Contains(t, result.FieldErrors(), "customer_id")
	assert.Empty(t, f.repo.updated)
}

func TestInvoiceDeleteSuccess(t *testing.T) {
	f := newPipelineFixture(t)

	result := f.service.Delete(context.Background(), "inv-1")

	require.Equal(t, dto.MutationSucceeded, result.Status())
	assert.Empty(t, result.RedirectTo(), "delete carries no navigation target")
	assert.Equal(t, []string{"inv-1"}, f.repo.deleted)
	assert.Contains(t, f.cache.invalidated, "invoices:*")
}

func TestInvoiceDeleteMissingIsNotSilentSuccess(t *testing.T) {
	f := newPipelineFixture(t)
	f.repo.deleteErr = sql.ErrNoRows

	result := f.service.Delete(context.Background(), "ghost")

	assert.Equal(t, dto.MutationTargetMissing, result.Status())
	assert.Empty(t, f.cache.invalidated)
}

func TestInvoiceResultVariantsAreExclusive(t *testing.T) {
	f := newPipelineFixture(t)

	success := f.service.Create(context.Background(), submit(map[string]string{
		"customer_id": "c1", "amount": "5", "status": "paid",
	}))
	assert.Nil(t, success.FieldErrors())
	assert.NotEmpty(t, success.RedirectTo())

	rejected := f.service.Create(context.Background(), submit(map[string]string{
		"customer_id": "", "amount": "5", "status": "paid",
	}))
	assert.NotEmpty(t, rejected.FieldErrors())
	assert.Empty(t, rejected.RedirectTo())
}

func TestInvoiceGet(t *testing.T) {
	f := newPipelineFixture(t)
	f.repo.found["inv-1"] = &models.Invoice{ID: "inv-1", CustomerID: "c1", AmountCents: 4999, Status: "paid"}

	invoice, err := f.service.Get(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4999), invoice.AmountCents)

	_, err = f.service.Get(context.Background(), "ghost")
	require.Error(t, err)
}
