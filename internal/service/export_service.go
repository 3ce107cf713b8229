package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/acmedash/invoice-api/internal/models"
	appErrors "github.com/acmedash/invoice-api/pkg/errors"
	"github.com/acmedash/invoice-api/pkg/export"
	"github.com/acmedash/invoice-api/pkg/money"
)

var invoiceExportHeaders = []string{"Invoice", "Customer", "Email", "Amount", "Status", "Date"}

const exportPageSize = 100

type invoiceLister interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceRow, int, error)
}

// ExportService renders invoice listings as CSV or PDF downloads.
type ExportService struct {
	invoices invoiceLister
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(invoices invoiceLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		invoices: invoices,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// InvoicesCSV renders the filtered invoice listing as CSV bytes.
func (s *ExportService) InvoicesCSV(ctx context.Context, filter models.InvoiceFilter) ([]byte, error) {
	data, err := s.dataset(ctx, filter)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export invoices")
	}
	return payload, nil
}

// InvoicesPDF renders the filtered invoice listing as a PDF document.
func (s *ExportService) InvoicesPDF(ctx context.Context, filter models.InvoiceFilter) ([]byte, error) {
	data, err := s.dataset(ctx, filter)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.Render(data, "Invoices")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export invoices")
	}
	return payload, nil
}

// dataset walks every page of the filtered listing so exports cover all
// matches, not just the first page.
func (s *ExportService) dataset(ctx context.Context, filter models.InvoiceFilter) (export.Dataset, error) {
	filter.PageSize = exportPageSize

	data := export.Dataset{Headers: invoiceExportHeaders}
	for page := 1; ; page++ {
		filter.Page = page
		rows, total, err := s.invoices.List(ctx, filter)
		if err != nil {
			return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoices for export")
		}

		for _, row := range rows {
			data.Rows = append(data.Rows, map[string]string{
				"Invoice":  row.ID,
				"Customer": row.CustomerName,
				"Email":    row.CustomerEmail,
				"Amount":   money.FormatUSD(row.AmountCents),
				"Status":   row.Status,
				"Date":     row.Date,
			})
		}

		if len(rows) < exportPageSize || len(data.Rows) >= total {
			break
		}
	}
	return data, nil
}
