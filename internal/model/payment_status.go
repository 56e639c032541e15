package model

import "time"

// PaymentStatus is a reference status applied to invoices as approval
// stages complete (e.g. "Awaiting payment", "Paid").
type PaymentStatus struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
