package dto

import "github.com/acmedash/invoice-api/internal/models"

// DashboardCards carries the four summary cards.
type DashboardCards struct {
	InvoiceCount      int   `json:"invoice_count"`
	CustomerCount     int   `json:"customer_count"`
	PaidTotalCents    int64 `json:"paid_total_cents"`
	PendingTotalCents int64 `json:"pending_total_cents"`
}

// RevenueChart is the monthly revenue series plus its axis ceiling.
type RevenueChart struct {
	Months        []models.Revenue `json:"months"`
	TopLabelCents int64            `json:"top_label_cents"`
}

// LatestInvoice is one row of the latest-invoices feed.
type LatestInvoice struct {
	ID            string `db:"id" json:"id"`
	AmountCents   int64  `db:"amount_cents" json:"amount_cents"`
	CustomerName  string `db:"customer_name" json:"customer_name"`
	CustomerEmail string `db:"customer_email" json:"customer_email"`
	ImageURL      string `db:"image_url" json:"image_url"`
}

// DashboardResponse composes the full overview payload.
type DashboardResponse struct {
	Cards          DashboardCards  `json:"cards"`
	Revenue        RevenueChart    `json:"revenue"`
	LatestInvoices []LatestInvoice `json:"latest_invoices"`
}
