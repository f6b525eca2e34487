package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	Password   string     `db:"password" json:"-"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ArchivedAt *time.Time `db:"archived_at" json:"archived_at,omitempty"`
}

// Session is the verified identity attached to a checkout or dashboard
// request. Presence implies the customer owns the email.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerInfo is the details-step draft collected during checkout.
// Name, Phone and TableNumber are required before order placement.
type CustomerInfo struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	TableNumber string `json:"table_number"`
	Email       string `json:"email"`
}
