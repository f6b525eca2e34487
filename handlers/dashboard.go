package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/platewise/platewise/database/dbhelper"
	"github.com/platewise/platewise/middlewares"
	"github.com/platewise/platewise/models"
)

type orderRow struct {
	Order   models.Order    `json:"order"`
	Invoice *models.Invoice `json:"invoice,omitempty"`
}

// MyOrders is the per-user dashboard: the caller's orders joined to their
// invoices by order reference, read only.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := dbhelper.ListOrdersByUser(claims.UserID)
	if err != nil {
		http.Error(w, "failed to load orders", http.StatusInternalServerError)
		return
	}

	invoices, err := dbhelper.ListInvoicesByUser(claims.UserID)
	if err != nil {
		// secondary resource: degrade to orders without invoices
		logrus.Debugf("invoice list for user %s failed, error: %v", claims.UserID, err)
		invoices = nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(joinOrders(orders, invoices))
}

// RestaurantOrders is the per-restaurant dashboard, restricted to the
// restaurant's owner.
func (h *Handler) RestaurantOrders(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	restaurantID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "restaurant not found", http.StatusNotFound)
		return
	}

	restaurant, err := dbhelper.GetRestaurantByID(restaurantID)
	if err == sql.ErrNoRows {
		http.Error(w, "restaurant not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to load restaurant", http.StatusInternalServerError)
		return
	}
	if restaurant.OwnerID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	orders, err := dbhelper.ListOrdersByRestaurant(restaurantID)
	if err != nil {
		http.Error(w, "failed to load orders", http.StatusInternalServerError)
		return
	}

	invoices, err := dbhelper.ListInvoicesByRestaurant(restaurantID)
	if err != nil {
		logrus.Debugf("invoice list for restaurant %s failed, error: %v", restaurantID, err)
		invoices = nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"restaurant": restaurant,
		"orders":     joinOrders(orders, invoices),
	})
}

// joinOrders pairs each order with at most one invoice by order reference;
// duplicates beyond the first are dropped.
func joinOrders(orders []models.Order, invoices []models.Invoice) []orderRow {
	byOrder := make(map[uuid.UUID]*models.Invoice, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		if _, seen := byOrder[inv.OrderID]; !seen {
			byOrder[inv.OrderID] = inv
		}
	}

	rows := make([]orderRow, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, orderRow{Order: order, Invoice: byOrder[order.ID]})
	}
	return rows
}
