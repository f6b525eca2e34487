package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/platewise/platewise/database"
	"github.com/platewise/platewise/database/dbhelper"
	"github.com/platewise/platewise/invoice"
	"github.com/platewise/platewise/models"
)

const taxRate = 0.05

// CreateInvoice generates the invoice for an order, idempotently: the
// existing invoice is returned when one is already there, and a lost
// creation race falls back to the winner's row.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	type request struct {
		OrderID uuid.UUID `json:"order_id"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == uuid.Nil {
		http.Error(w, "order_id is required", http.StatusBadRequest)
		return
	}

	order, err := dbhelper.GetOrderByID(req.OrderID)
	if err == sql.ErrNoRows {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to load order", http.StatusInternalServerError)
		return
	}

	if existing, err := dbhelper.GetInvoiceByOrderID(order.ID); err == nil {
		respondInvoice(w, existing, false)
		return
	} else if err != sql.ErrNoRows {
		http.Error(w, "failed to check existing invoice", http.StatusInternalServerError)
		return
	}

	inv := buildInvoice(order)
	txErr := database.Tx(func(tx *sql.Tx) error {
		return dbhelper.CreateInvoice(tx, inv)
	})
	if txErr != nil {
		// unique index on order_id: a concurrent generate may have won
		if existing, err := dbhelper.GetInvoiceByOrderID(order.ID); err == nil {
			respondInvoice(w, existing, false)
			return
		}
		logrus.Errorf("failed to create invoice for order %s, error: %v", order.ID, txErr)
		http.Error(w, "failed to create invoice", http.StatusInternalServerError)
		return
	}

	respondInvoice(w, inv, true)
}

func buildInvoice(order *models.Order) *models.Invoice {
	inv := &models.Invoice{
		OrderID:       order.ID,
		Number:        invoiceNumber(order.ID),
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		TableNumber:   order.TableNumber,
		PaymentStatus: order.PaymentStatus,
	}
	for _, item := range order.Items {
		inv.Subtotal += item.Price * float64(item.Quantity)
		inv.Items = append(inv.Items, models.InvoiceItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	inv.Tax = inv.Subtotal * taxRate
	inv.Total = inv.Subtotal + inv.Tax
	return inv
}

func invoiceNumber(orderID uuid.UUID) string {
	short := strings.ToUpper(strings.ReplaceAll(orderID.String(), "-", ""))[:8]
	return "INV-" + short
}

func respondInvoice(w http.ResponseWriter, inv *models.Invoice, created bool) {
	w.Header().Set("Content-Type", "application/json")
	if created {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"created": created,
		"invoice": inv,
	})
}

// GetInvoice returns the invoice as structured data, looked up by invoice
// id or, with ?order_id=, by its order.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.loadInvoice(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inv)
}

// InvoiceHTML renders the printable document. ?print=true triggers the
// print dialog as soon as the page opens in a new browsing context.
func (h *Handler) InvoiceHTML(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.loadInvoice(w, r)
	if !ok {
		return
	}

	autoPrint := r.URL.Query().Get("print") == "true"
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := invoice.RenderHTML(w, inv, autoPrint); err != nil {
		logrus.Errorf("failed to render invoice %s, error: %v", inv.ID, err)
	}
}

func (h *Handler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.loadInvoice(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+inv.Number+`.pdf"`)
	if err := invoice.RenderPDF(w, inv); err != nil {
		logrus.Errorf("failed to render invoice pdf %s, error: %v", inv.ID, err)
	}
}

func (h *Handler) loadInvoice(w http.ResponseWriter, r *http.Request) (*models.Invoice, bool) {
	var inv *models.Invoice
	var err error

	if idStr, ok := mux.Vars(r)["id"]; ok && idStr != "" {
		id, parseErr := uuid.Parse(idStr)
		if parseErr != nil {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return nil, false
		}
		inv, err = dbhelper.GetInvoiceByID(id)
	} else if orderIDStr := r.URL.Query().Get("order_id"); orderIDStr != "" {
		orderID, parseErr := uuid.Parse(orderIDStr)
		if parseErr != nil {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return nil, false
		}
		inv, err = dbhelper.GetInvoiceByOrderID(orderID)
	} else {
		http.Error(w, "invoice id or order_id required", http.StatusBadRequest)
		return nil, false
	}

	if err == sql.ErrNoRows {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, "failed to load invoice", http.StatusInternalServerError)
		return nil, false
	}
	return inv, true
}
