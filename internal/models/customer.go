package models

import "time"

// Customer represents a billable customer.
type Customer struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CustomerSummary is a customer joined with invoice aggregates for the
// customers table view.
type CustomerSummary struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Email         string `db:"email" json:"email"`
	ImageURL      string `db:"image_url" json:"image_url"`
	TotalInvoices int    `db:"total_invoices" json:"total_invoices"`
	PendingCents  int64  `db:"pending_cents" json:"pending_cents"`
	PaidCents     int64  `db:"paid_cents" json:"paid_cents"`
}

// CustomerFilter narrows customer listings.
type CustomerFilter struct {
	Query string
}
