package dbhelper

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/platewise/database"
	"github.com/platewise/platewise/models"
)

func setMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := database.Platewise
	database.Platewise = db
	t.Cleanup(func() {
		database.Platewise = prev
		_ = db.Close()
	})
	return mock
}

var orderColumns = []string{
	"id", "user_id", "restaurant_id", "customer_name", "customer_phone",
	"customer_email", "table_number", "total_amount", "payment_status",
	"status", "created_at",
}

func TestGetOrderByID(t *testing.T) {
	mock := setMockDB(t)

	orderID := uuid.New()
	userID := uuid.New()
	restaurantID := uuid.New()
	created := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM orders`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(orderID.String(), userID.String(), restaurantID.String(),
				"Ada", "12345", "ada@example.com", "7", 26.48, "SUCCESS", "placed", created))

	itemID := uuid.New()
	menuItemID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM order_items`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "menu_item_id", "name", "price", "quantity"}).
			AddRow(itemID.String(), orderID.String(), menuItemID.String(), "Margherita", 9.99, 2))

	order, err := GetOrderByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	require.NotNil(t, order.UserID)
	assert.Equal(t, userID, *order.UserID)
	assert.Equal(t, models.PaymentSuccess, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Margherita", order.Items[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByIDNullableColumns(t *testing.T) {
	mock := setMockDB(t)

	orderID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM orders`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(orderID.String(), nil, uuid.New().String(),
				"Ada", "12345", "ada@example.com", "7", 26.48, nil, "placed", time.Now()))

	mock.ExpectQuery(`SELECT (.+) FROM order_items`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "menu_item_id", "name", "price", "quantity"}))

	order, err := GetOrderByID(orderID)
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
	assert.Equal(t, models.PaymentUnset, order.PaymentStatus)
	assert.Empty(t, order.Items)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByIDNotFound(t *testing.T) {
	mock := setMockDB(t)

	orderID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM orders`).
		WithArgs(orderID).
		WillReturnError(sql.ErrNoRows)

	_, err := GetOrderByID(orderID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateOrderFillsGeneratedFields(t *testing.T) {
	mock := setMockDB(t)

	orderID := uuid.New()
	itemID := uuid.New()
	created := time.Now()

	order := &models.Order{
		RestaurantID:  uuid.New(),
		CustomerName:  "Ada",
		CustomerPhone: "12345",
		CustomerEmail: "ada@example.com",
		TableNumber:   "7",
		Total:         19.98,
		Items: []models.OrderItem{
			{MenuItemID: uuid.New(), Name: "Margherita", Price: 9.99, Quantity: 2},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(nil, order.RestaurantID, "Ada", "12345", "ada@example.com", "7", 19.98).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(orderID.String(), created))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(orderID, order.Items[0].MenuItemID, "Margherita", 9.99, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(itemID.String()))
	mock.ExpectCommit()

	err := database.Tx(func(tx *sql.Tx) error {
		return CreateOrder(tx, order)
	})
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, orderID, order.Items[0].OrderID)
	assert.Equal(t, itemID, order.Items[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoiceConflictRollsBack(t *testing.T) {
	mock := setMockDB(t)

	inv := &models.Invoice{
		OrderID:      uuid.New(),
		Number:       "INV-1A2B3C4D",
		CustomerName: "Ada",
		Subtotal:     19.98,
		Tax:          1.0,
		Total:        20.98,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO invoices`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := database.Tx(func(tx *sql.Tx) error {
		return CreateInvoice(tx, inv)
	})
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetInvoiceByOrderID(t *testing.T) {
	mock := setMockDB(t)

	invoiceID := uuid.New()
	orderID := uuid.New()
	created := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM invoices WHERE order_id`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "invoice_number", "customer_name", "customer_email",
			"table_number", "subtotal", "tax", "total", "payment_status", "created_at",
		}).AddRow(invoiceID.String(), orderID.String(), "INV-1A2B3C4D", "Ada", "ada@example.com",
			"7", 19.98, 1.0, 20.98, "SUCCESS", created))

	mock.ExpectQuery(`SELECT (.+) FROM invoice_items`).
		WithArgs(invoiceID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "name", "price", "quantity"}).
			AddRow(uuid.New().String(), invoiceID.String(), "Margherita", 9.99, 2))

	inv, err := GetInvoiceByOrderID(orderID)
	require.NoError(t, err)
	assert.Equal(t, "INV-1A2B3C4D", inv.Number)
	assert.Equal(t, models.PaymentSuccess, inv.PaymentStatus)
	require.Len(t, inv.Items, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateUserByEmailReusesExisting(t *testing.T) {
	mock := setMockDB(t)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT id FROM users`).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))

	got, err := GetOrCreateUserByEmail("ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateUserByEmailCreatesMissing(t *testing.T) {
	mock := setMockDB(t)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT id FROM users`).
		WithArgs("new@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("", "new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))
	mock.ExpectCommit()

	got, err := GetOrCreateUserByEmail("new@example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}
