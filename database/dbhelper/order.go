package dbhelper

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/platewise/platewise/database"
	"github.com/platewise/platewise/models"
)

// CreateOrder inserts the order and its line items in one transaction and
// fills in the generated id and created_at.
func CreateOrder(tx *sql.Tx, order *models.Order) error {
	err := tx.QueryRow(`
		INSERT INTO orders (user_id, restaurant_id, customer_name, customer_phone, customer_email, table_number, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'placed')
		RETURNING id, created_at`,
		order.UserID, order.RestaurantID, order.CustomerName, order.CustomerPhone,
		order.CustomerEmail, order.TableNumber, order.Total).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRow(`
			INSERT INTO order_items (order_id, menu_item_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			item.OrderID, item.MenuItemID, item.Name, item.Price, item.Quantity).
			Scan(&item.ID); err != nil {
			return err
		}
	}
	return nil
}

func GetOrderByID(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	var paymentStatus sql.NullString

	err := database.Platewise.QueryRow(`
		SELECT id, user_id, restaurant_id, customer_name, customer_phone, customer_email, table_number, total_amount, payment_status, status, created_at
		FROM orders
		WHERE id = $1`, id).
		Scan(&order.ID, &order.UserID, &order.RestaurantID, &order.CustomerName,
			&order.CustomerPhone, &order.CustomerEmail, &order.TableNumber,
			&order.Total, &paymentStatus, &order.Status, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	if paymentStatus.Valid {
		order.PaymentStatus = models.PaymentStatus(paymentStatus.String)
	}

	items, err := listOrderItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func listOrderItems(orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := database.Platewise.Query(`
		SELECT id, order_id, menu_item_id, name, price, quantity
		FROM order_items
		WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func ListOrdersByUser(userID uuid.UUID) ([]models.Order, error) {
	return listOrders(`
		SELECT id, user_id, restaurant_id, customer_name, customer_phone, customer_email, table_number, total_amount, payment_status, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
}

func ListOrdersByRestaurant(restaurantID uuid.UUID) ([]models.Order, error) {
	return listOrders(`
		SELECT id, user_id, restaurant_id, customer_name, customer_phone, customer_email, table_number, total_amount, payment_status, status, created_at
		FROM orders
		WHERE restaurant_id = $1
		ORDER BY created_at DESC`, restaurantID)
}

func listOrders(query string, arg interface{}) ([]models.Order, error) {
	rows, err := database.Platewise.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var paymentStatus sql.NullString
		if err := rows.Scan(&order.ID, &order.UserID, &order.RestaurantID, &order.CustomerName,
			&order.CustomerPhone, &order.CustomerEmail, &order.TableNumber,
			&order.Total, &paymentStatus, &order.Status, &order.CreatedAt); err != nil {
			return nil, err
		}
		if paymentStatus.Valid {
			order.PaymentStatus = models.PaymentStatus(paymentStatus.String)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func GetOrderQRCode(orderID uuid.UUID) ([]byte, error) {
	var qr []byte
	err := database.Platewise.QueryRow(`SELECT qr_code FROM orders WHERE id = $1`, orderID).Scan(&qr)
	return qr, err
}

func SaveOrderQRCode(orderID uuid.UUID, qr []byte) error {
	_, err := database.Platewise.Exec(`UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}
