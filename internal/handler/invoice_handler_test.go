package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmedash/invoice-api/internal/dto"
	"github.com/acmedash/invoice-api/internal/form"
	"github.com/acmedash/invoice-api/internal/models"
	"github.com/acmedash/invoice-api/internal/validation"
	"github.com/acmedash/invoice-api/pkg/response"
)

type invoiceServiceMock struct {
	listRows     []models.InvoiceRow
	listErr      error
	createResult dto.MutationResult
	updateResult dto.MutationResult
	deleteResult dto.MutationResult
	lastFields   form.Fields
	lastFilter   models.InvoiceFilter
	lastID       string
}

func (m *invoiceServiceMock) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceRow, *models.Pagination, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, nil, m.listErr
	}
	return m.listRows, &models.Pagination{Page: 1, PageSize: 6, TotalCount: len(m.listRows)}, nil
}

func (m *invoiceServiceMock) Get(ctx context.Context, id string) (*models.Invoice, error) {
	m.lastID = id
	return &models.Invoice{ID: id}, nil
}

func (m *invoiceServiceMock) Create(ctx context.Context, fields form.Fields) dto.MutationResult {
	m.lastFields = fields
	return m.createResult
}

func (m *invoiceServiceMock) Update(ctx context.Context, id string, fields form.Fields) dto.MutationResult {
	m.lastID = id
	m.lastFields = fields
	return m.updateResult
}

func (m *invoiceServiceMock) Delete(ctx context.Context, id string) dto.MutationResult {
	m.lastID = id
	return m.deleteResult
}

func formRequest(t *testing.T, method, target string, values url.Values) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, strings.NewReader(values.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestInvoiceHandlerCreateRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &invoiceServiceMock{createResult: dto.Succeeded("/dashboard/invoices")}
	handler := NewInvoiceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = formRequest(t, http.MethodPost, "/invoices", url.Values{
		"customer_id": {"c1"},
		"amount":      {"49.99"},
		"status":      {"paid"},
	})

	handler.Create(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/invoices", w.Header().Get("Location"))

	amount, ok := mockSvc.lastFields.Get("amount")
	require.True(t, ok)
	assert.Equal(t, "49.99", amount)
}

func TestInvoiceHandlerCreateRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	errs := validation.FieldErrors{}
	errs.Add("customer_id", "Please select a customer.")
	mockSvc := &invoiceServiceMock{
		createResult: dto.Rejected(errs, "missing or invalid fields; failed to create invoice"),
	}
	handler := NewInvoiceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = formRequest(t, http.MethodPost, "/invoices", url.Values{})

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	assert.Equal(t, []string{"Please select a customer."}, envelope.Error.Details["customer_id"])
}

func TestInvoiceHandlerCreateStoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &invoiceServiceMock{createResult: dto.Failed("failed to create invoice")}
	handler := NewInvoiceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = formRequest(t, http.MethodPost, "/invoices", url.Values{
		"customer_id": {"c1"},
		"amount":      {"49.99"},
		"status":      {"paid"},
	})

	handler.Create(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestInvoiceHandlerUpdateNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &invoiceServiceMock{updateResult: dto.TargetMissing("invoice not found")}
	handler := NewInvoiceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = formRequest(t, http.MethodPut, "/invoices/missing", url.Values{
		"customer_id": {"c1"},
		"amount":      {"49.99"},
		"status":      {"paid"},
	})

	handler.Update(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "missing", mockSvc.lastID)
}

func TestInvoiceHandlerDeleteNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &invoiceServiceMock{deleteResult: dto.Succeeded("")}
	handler := NewInvoiceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "inv-1"}}
	req, _ := http.NewRequest(http.MethodDelete, "/invoices/inv-1", nil)
	c.Request = req

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "inv-1", mockSvc.lastID)
}

func TestInvoiceHandlerListPassesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &invoiceServiceMock{listRows: []models.InvoiceRow{{ID: "inv-1"}}}
	handler := NewInvoiceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/invoices?q=amy&status=paid&page=2", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "amy", mockSvc.lastFilter.Query)
	assert.Equal(t, "paid", mockSvc.lastFilter.Status)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
}
