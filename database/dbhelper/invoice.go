package dbhelper

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/platewise/platewise/database"
	"github.com/platewise/platewise/models"
)

const invoiceColumns = `id, order_id, invoice_number, customer_name, customer_email, table_number, subtotal, tax, total, payment_status, created_at`

// CreateInvoice inserts the invoice and its line items. The unique index on
// order_id makes a concurrent double-create fail; callers re-fetch on error.
func CreateInvoice(tx *sql.Tx, inv *models.Invoice) error {
	err := tx.QueryRow(`
		INSERT INTO invoices (order_id, invoice_number, customer_name, customer_email, table_number, subtotal, tax, total, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		inv.OrderID, inv.Number, inv.CustomerName, inv.CustomerEmail,
		inv.TableNumber, inv.Subtotal, inv.Tax, inv.Total, nullableStatus(inv.PaymentStatus)).
		Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return err
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		item.InvoiceID = inv.ID
		if err := tx.QueryRow(`
			INSERT INTO invoice_items (invoice_id, name, price, quantity)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			item.InvoiceID, item.Name, item.Price, item.Quantity).
			Scan(&item.ID); err != nil {
			return err
		}
	}
	return nil
}

func GetInvoiceByID(id uuid.UUID) (*models.Invoice, error) {
	return getInvoice(`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetInvoiceByOrderID is a find-first lookup; sql.ErrNoRows means no invoice
// has been generated for the order yet.
func GetInvoiceByOrderID(orderID uuid.UUID) (*models.Invoice, error) {
	return getInvoice(`SELECT `+invoiceColumns+` FROM invoices WHERE order_id = $1 LIMIT 1`, orderID)
}

func getInvoice(query string, arg interface{}) (*models.Invoice, error) {
	var inv models.Invoice
	var paymentStatus sql.NullString

	err := database.Platewise.QueryRow(query, arg).
		Scan(&inv.ID, &inv.OrderID, &inv.Number, &inv.CustomerName, &inv.CustomerEmail,
			&inv.TableNumber, &inv.Subtotal, &inv.Tax, &inv.Total, &paymentStatus, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	if paymentStatus.Valid {
		inv.PaymentStatus = models.PaymentStatus(paymentStatus.String)
	}

	items, err := listInvoiceItems(inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return &inv, nil
}

func listInvoiceItems(invoiceID uuid.UUID) ([]models.InvoiceItem, error) {
	rows, err := database.Platewise.Query(`
		SELECT id, invoice_id, name, price, quantity
		FROM invoice_items
		WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InvoiceItem
	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func ListInvoicesByUser(userID uuid.UUID) ([]models.Invoice, error) {
	return listInvoices(`
		SELECT i.id, i.order_id, i.invoice_number, i.customer_name, i.customer_email, i.table_number, i.subtotal, i.tax, i.total, i.payment_status, i.created_at
		FROM invoices i
		JOIN orders o ON o.id = i.order_id
		WHERE o.user_id = $1
		ORDER BY i.created_at DESC`, userID)
}

func ListInvoicesByRestaurant(restaurantID uuid.UUID) ([]models.Invoice, error) {
	return listInvoices(`
		SELECT i.id, i.order_id, i.invoice_number, i.customer_name, i.customer_email, i.table_number, i.subtotal, i.tax, i.total, i.payment_status, i.created_at
		FROM invoices i
		JOIN orders o ON o.id = i.order_id
		WHERE o.restaurant_id = $1
		ORDER BY i.created_at DESC`, restaurantID)
}

func listInvoices(query string, arg interface{}) ([]models.Invoice, error) {
	rows, err := database.Platewise.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		var paymentStatus sql.NullString
		if err := rows.Scan(&inv.ID, &inv.OrderID, &inv.Number, &inv.CustomerName, &inv.CustomerEmail,
			&inv.TableNumber, &inv.Subtotal, &inv.Tax, &inv.Total, &paymentStatus, &inv.CreatedAt); err != nil {
			return nil, err
		}
		if paymentStatus.Valid {
			inv.PaymentStatus = models.PaymentStatus(paymentStatus.String)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func nullableStatus(status models.PaymentStatus) sql.NullString {
	if status == models.PaymentUnset {
		return sql.NullString{}
	}
	return sql.NullString{String: string(status), Valid: true}
}
