package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is created at most once per order; views never construct one
// directly, they only request creation and display the result.
type Invoice struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	OrderID       uuid.UUID     `db:"order_id" json:"order_id"`
	Number        string        `db:"invoice_number" json:"invoice_number"`
	CustomerName  string        `db:"customer_name" json:"customer_name"`
	CustomerEmail string        `db:"customer_email" json:"customer_email"`
	TableNumber   string        `db:"table_number" json:"table_number"`
	Subtotal      float64       `db:"subtotal" json:"subtotal"`
	Tax           float64       `db:"tax" json:"tax"`
	Total         float64       `db:"total" json:"total"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	Items         []InvoiceItem `db:"-" json:"items"`
}

type InvoiceItem struct {
	ID        uuid.UUID `db:"id" json:"id"`
	InvoiceID uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Name      string    `db:"name" json:"name"`
	Price     float64   `db:"price" json:"price"`
	Quantity  int       `db:"quantity" json:"quantity"`
}
