package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentSuccess    PaymentStatus = "SUCCESS"
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentFailed     PaymentStatus = "FAILED"
	// PaymentUnset is the zero value: the payment layer has not reported yet.
	PaymentUnset PaymentStatus = ""
)

type Order struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	UserID        *uuid.UUID    `db:"user_id" json:"user_id,omitempty"`
	RestaurantID  uuid.UUID     `db:"restaurant_id" json:"restaurant_id"`
	CustomerName  string        `db:"customer_name" json:"customer_name"`
	CustomerPhone string        `db:"customer_phone" json:"customer_phone"`
	CustomerEmail string        `db:"customer_email" json:"customer_email"`
	TableNumber   string        `db:"table_number" json:"table_number"`
	Total         float64       `db:"total_amount" json:"total_amount"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	Status        string        `db:"status" json:"status"` // placed, preparing, served, cancelled
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	Items         []OrderItem   `db:"-" json:"items"`
}

type OrderItem struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OrderID    uuid.UUID `db:"order_id" json:"order_id"`
	MenuItemID uuid.UUID `db:"menu_item_id" json:"menu_item_id"`
	Name       string    `db:"name" json:"name"`
	Price      float64   `db:"price" json:"price"`
	Quantity   int       `db:"quantity" json:"quantity"`
}

// PaymentView tells the status page how to present a payment state.
type PaymentView struct {
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	CanRefresh bool   `json:"can_refresh"`
}

// ClassifyPayment maps a payment status onto one of four presentation
// buckets: success, failed, pending-or-processing, or unset. A manual
// refresh is offered only for failed and pending-or-processing. Unknown
// values fall into the unset bucket.
func ClassifyPayment(status PaymentStatus) PaymentView {
	switch status {
	case PaymentSuccess:
		return PaymentView{
			Icon:    "check",
			Color:   "green",
			Title:   "Payment successful",
			Message: "Your order is confirmed and the kitchen has been notified.",
		}
	case PaymentFailed:
		return PaymentView{
			Icon:       "cross",
			Color:      "red",
			Title:      "Payment failed",
			Message:    "The payment did not go through. Please try again or contact staff.",
			CanRefresh: true,
		}
	case PaymentPending, PaymentProcessing:
		return PaymentView{
			Icon:       "clock",
			Color:      "amber",
			Title:      "Payment in progress",
			Message:    "We are waiting for the payment provider to confirm your payment.",
			CanRefresh: true,
		}
	default:
		return PaymentView{
			Icon:    "question",
			Color:   "gray",
			Title:   "Payment status unknown",
			Message: "No payment has been recorded for this order yet.",
		}
	}
}
