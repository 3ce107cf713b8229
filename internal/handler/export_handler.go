package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/acmedash/invoice-api/internal/models"
	"github.com/acmedash/invoice-api/pkg/response"
)

type exportService interface {
	InvoicesCSV(ctx context.Context, filter models.InvoiceFilter) ([]byte, error)
	InvoicesPDF(ctx context.Context, filter models.InvoiceFilter) ([]byte, error)
}

// ExportHandler serves invoice listing downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// InvoicesCSV godoc
// @Summary Download the invoice listing as CSV
// @Tags Exports
// @Produce text/csv
// @Param q query string false "Search filter"
// @Param status query string false "Status filter"
// @Success 200 {file} file
// @Router /invoices/export.csv [get]
func (h *ExportHandler) InvoicesCSV(c *gin.Context) {
	payload, err := h.service.InvoicesCSV(c.Request.Context(), exportFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoices.csv"`)
	c.Data(200, "text/csv", payload)
}

// InvoicesPDF godoc
// @Summary Download the invoice listing as PDF
// @Tags Exports
// @Produce application/pdf
// @Param q query string false "Search filter"
// @Param status query string false "Status filter"
// @Success 200 {file} file
// @Router /invoices/export.pdf [get]
func (h *ExportHandler) InvoicesPDF(c *gin.Context) {
	payload, err := h.service.InvoicesPDF(c.Request.Context(), exportFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoices.pdf"`)
	c.Data(200, "application/pdf", payload)
}

func exportFilter(c *gin.Context) models.InvoiceFilter {
	return models.InvoiceFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	}
}
