package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmedash/invoice-api/internal/models"
)

type mockExportLister struct {
	pages      [][]models.InvoiceRow
	total      int
	pagesAsked []int
	lastFilter models.InvoiceFilter
}

func (m *mockExportLister) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceRow, int, error) {
	m.lastFilter = filter
	m.pagesAsked = append(m.pagesAsked, filter.Page)
	if filter.Page >= 1 && filter.Page <= len(m.pages) {
		return m.pages[filter.Page-1], m.total, nil
	}
	return nil, m.total, nil
}

func TestInvoicesCSV(t *testing.T) {
	lister := &mockExportLister{
		pages: [][]models.InvoiceRow{{
			{
				ID:            "inv-1",
				CustomerName:  "Amy Burns",
				CustomerEmail: "amy@example.com",
				AmountCents:   4999,
				Status:        "paid",
				Date:          "2026-08-31",
			},
		}},
		total: 1,
	}
	svc := NewExportService(lister, nil)

	payload, err := svc.InvoicesCSV(context.Background(), models.InvoiceFilter{Query: "amy", Page: 3})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(payload), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "Invoice,Customer,Email,Amount,Status,Date", string(bytes.TrimSpace(lines[0])))
	assert.Contains(t, string(lines[1]), "Amy Burns")
	assert.Contains(t, string(lines[1]), "$49.99")

	// Exports ignore the caller's pagination and cover all matches.
	assert.Equal(t, []int{1}, lister.pagesAsked)
	assert.Equal(t, 100, lister.lastFilter.PageSize)
	assert.Equal(t, "amy", lister.lastFilter.Query)
}

func TestInvoicesCSVWalksEveryPage(t *testing.T) {
	full := make([]models.InvoiceRow, 100)
	for i := range full {
		full[i] = models.InvoiceRow{ID: fmt.Sprintf("inv-%d", i), CustomerName: "Amy Burns", Status: "paid"}
	}
	rest := make([]models.InvoiceRow, 50)
	for i := range rest {
		rest[i] = models.InvoiceRow{ID: fmt.Sprintf("inv-%d", 100+i), CustomerName: "Amy Burns", Status: "paid"}
	}
	lister := &mockExportLister{pages: [][]models.InvoiceRow{full, rest}, total: 150}
	svc := NewExportService(lister, nil)

	payload, err := svc.InvoicesCSV(context.Background(), models.InvoiceFilter{})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(payload), []byte("\n"))
	assert.Len(t, lines, 151, "listings past the first page must not be truncated")
	assert.Equal(t, []int{1, 2}, lister.pagesAsked)
	assert.Contains(t, string(lines[150]), "inv-149")
}

func TestInvoicesPDF(t *testing.T) {
	lister := &mockExportLister{
		pages: [][]models.InvoiceRow{{
			{ID: "inv-1", CustomerName: "Amy Burns", AmountCents: 4999, Status: "paid", Date: "2026-08-31"},
		}},
		total: 1,
	}
	svc := NewExportService(lister, nil)

	payload, err := svc.InvoicesPDF(context.Background(), models.InvoiceFilter{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}
