package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acmedash/invoice-api/internal/dto"
	"github.com/acmedash/invoice-api/internal/form"
	"github.com/acmedash/invoice-api/internal/models"
	"github.com/acmedash/invoice-api/internal/service"
	appErrors "github.com/acmedash/invoice-api/pkg/errors"
	"github.com/acmedash/invoice-api/pkg/response"
)

type invoiceService interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceRow, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Invoice, error)
	Create(ctx context.Context, fields form.Fields) dto.MutationResult
	Update(ctx context.Context, id string, fields form.Fields) dto.MutationResult
	Delete(ctx context.Context, id string) dto.MutationResult
}

// InvoiceHandler exposes invoice listing and mutation endpoints. Mutations
// accept form-encoded submissions, mirroring the dashboard's invoice forms.
type InvoiceHandler struct {
	service invoiceService
}

// NewInvoiceHandler builds a new handler.
func NewInvoiceHandler(service invoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// List godoc
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Param q query string false "Search across customer name, email and status"
// @Param status query string false "Status filter (pending or paid)"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := models.InvoiceFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = page
	}
	rows, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Get godoc
// @Summary Get one invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoice, nil)
}

// Create godoc
// @Summary Create an invoice from a form submission
// @Tags Invoices
// @Accept x-www-form-urlencoded
// @Produce json
// @Param customer_id formData string true "Customer ID"
// @Param amount formData string true "Dollar amount, e.g. 49.99"
// @Param status formData string true "pending or paid"
// @Success 303
// @Failure 400 {object} response.Envelope
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	fields, err := submittedFields(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.mutationResponse(c, h.service.Create(c.Request.Context(), fields))
}

// Update godoc
// @Summary Update an invoice from a form submission
// @Tags Invoices
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Invoice ID"
// @Param customer_id formData string true "Customer ID"
// @Param amount formData string true "Dollar amount, e.g. 49.99"
// @Param status formData string true "pending or paid"
// @Success 303
// @Failure 400 {object} response.Envelope
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	fields, err := submittedFields(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.mutationResponse(c, h.service.Update(c.Request.Context(), c.Param("id"), fields))
}

// Delete godoc
// @Summary Delete an invoice
// @Tags Invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	h.mutationResponse(c, h.service.Delete(c.Request.Context(), c.Param("id")))
}

// submittedFields parses the request body and restricts it to the invoice
// form's expected fields. Unknown fields are dropped here, before validation.
func submittedFields(c *gin.Context) (form.Fields, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form payload")
	}
	return form.Extract(c.Request.PostForm, service.InvoiceSchema.Names()...), nil
}

// mutationResponse maps a pipeline outcome onto HTTP. Success with a redirect
// target becomes a 303 pointing back at the listing, matching form-post
// semantics; success without one is a bare 204.
func (h *InvoiceHandler) mutationResponse(c *gin.Context, result dto.MutationResult) {
	switch result.Status() {
	case dto.MutationSucceeded:
		if target := result.RedirectTo(); target != "" {
			c.Redirect(http.StatusSeeOther, target)
			return
		}
		response.NoContent(c)
	case dto.MutationRejected:
		appErr := appErrors.Clone(appErrors.ErrValidation, result.Message())
		response.Error(c, appErrors.WithDetails(appErr, result.FieldErrors()))
	case dto.MutationTargetMissing:
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, result.Message()))
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, result.Message()))
	}
}
