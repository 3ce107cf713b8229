package models

import "time"

// Invoice status values accepted by the mutation pipeline.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// InvoiceStatuses enumerates every valid invoice status.
var InvoiceStatuses = []string{InvoiceStatusPending, InvoiceStatusPaid}

// Invoice is the stored representation of an invoice. AmountCents is integer
// minor units; Date is a calendar date with no time-of-day component.
type Invoice struct {
	ID          string    `db:"id" json:"id"`
	CustomerID  string    `db:"customer_id" json:"customer_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Status      string    `db:"status" json:"status"`
	Date        string    `db:"date" json:"date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// InvoiceRow is an invoice joined with its customer for listing views.
type InvoiceRow struct {
	ID            string `db:"id" json:"id"`
	CustomerID    string `db:"customer_id" json:"customer_id"`
	AmountCents   int64  `db:"amount_cents" json:"amount_cents"`
	Status        string `db:"status" json:"status"`
	Date          string `db:"date" json:"date"`
	CustomerName  string `db:"customer_name" json:"customer_name"`
	CustomerEmail string `db:"customer_email" json:"customer_email"`
	ImageURL      string `db:"image_url" json:"image_url"`
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Query    string
	Status   string
	Page     int
	PageSize int
}

// InvoiceStatusTotals aggregates invoice amounts per status.
type InvoiceStatusTotals struct {
	PaidCents    int64 `db:"paid_cents" json:"paid_cents"`
	PendingCents int64 `db:"pending_cents" json:"pending_cents"`
	Count        int   `db:"count" json:"count"`
}
