package models

// Revenue is one month of aggregated revenue for the dashboard chart.
type Revenue struct {
	Month        string `db:"month" json:"month"`
	RevenueCents int64  `db:"revenue_cents" json:"revenue_cents"`
}
