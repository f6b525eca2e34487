package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/platewise/platewise/config"
	"github.com/platewise/platewise/database/dbhelper"
	"github.com/platewise/platewise/models"
)

// OrderStatus is the post-checkout landing view: the order, its payment
// classification, and the invoice when payment has succeeded. A manual
// refresh is simply a repeat of this request.
func (h *Handler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	order, err := dbhelper.GetOrderByID(orderID)
	if err == sql.ErrNoRows {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to load order", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{
		"order":   order,
		"payment": models.ClassifyPayment(order.PaymentStatus),
	}

	// invoice lookup is secondary: a failure degrades to absent
	if order.PaymentStatus == models.PaymentSuccess {
		inv, err := dbhelper.GetInvoiceByOrderID(order.ID)
		switch {
		case err == nil:
			resp["invoice"] = inv
		case err == sql.ErrNoRows:
			// no invoice yet; the view offers the generate action
		default:
			logrus.Debugf("invoice lookup for order %s failed, error: %v", order.ID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// OrderQRCode serves a PNG linking to the order-status page, generated
// lazily and cached on the order row.
func (h *Handler) OrderQRCode(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	qr, err := dbhelper.GetOrderQRCode(orderID)
	if err == sql.ErrNoRows {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to load QR code", http.StatusInternalServerError)
		return
	}

	if len(qr) == 0 {
		link := fmt.Sprintf("%s/order-status?id=%s", config.BaseURL, orderID)
		qr, err = qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
			return
		}
		if err := dbhelper.SaveOrderQRCode(orderID, qr); err != nil {
			logrus.Warnf("failed to cache QR code for order %s, error: %v", orderID, err)
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}
