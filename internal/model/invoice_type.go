package model

import "time"

// InvoiceType classifies invoices and selects which approval route applies.
type InvoiceType struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
