package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/platewise/platewise/checkout"
	"github.com/platewise/platewise/database"
	"github.com/platewise/platewise/database/dbhelper"
	"github.com/platewise/platewise/models"
)

// StartCheckout opens a checkout workflow for an in-memory cart. The cart
// is immutable for the life of the checkout.
func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	type request struct {
		RestaurantID  uuid.UUID         `json:"restaurant_id"`
		Items         []models.CartItem `json:"items"`
		RedirectEmail string            `json:"redirect_email"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if req.RestaurantID == uuid.Nil || len(req.Items) == 0 {
		http.Error(w, "restaurant and at least one cart item are required", http.StatusBadRequest)
		return
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			http.Error(w, "item quantity must be positive", http.StatusBadRequest)
			return
		}
	}

	wf := checkout.New(checkout.Config{
		Items:         req.Items,
		RestaurantID:  req.RestaurantID,
		Session:       h.Sessions.CurrentSession(r),
		RedirectEmail: req.RedirectEmail,
		Links:         h.Sessions,
		Events:        h.Sessions,
		Place:         h.placeOrder(req.RestaurantID, req.Items),
	})
	h.Checkouts.Open(wf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(wf.State())
}

// placeOrder is the placement callback handed to the workflow: it persists
// the order, fires the order-placed event and returns the order id so the
// details response can point the customer at the status page.
func (h *Handler) placeOrder(restaurantID uuid.UUID, items []models.CartItem) checkout.PlaceFunc {
	return func(ctx context.Context, info models.CustomerInfo, sess *models.Session) (uuid.UUID, error) {
		order := &models.Order{
			RestaurantID:  restaurantID,
			CustomerName:  info.Name,
			CustomerPhone: info.Phone,
			CustomerEmail: info.Email,
			TableNumber:   info.TableNumber,
		}
		if sess != nil {
			userID := sess.UserID
			order.UserID = &userID
		}
		for _, item := range items {
			order.Total += item.Price * float64(item.Quantity)
			order.Items = append(order.Items, models.OrderItem{
				MenuItemID: item.MenuItemID,
				Name:       item.Name,
				Price:      item.Price,
				Quantity:   item.Quantity,
			})
		}

		if err := database.Tx(func(tx *sql.Tx) error {
			return dbhelper.CreateOrder(tx, order)
		}); err != nil {
			return uuid.Nil, err
		}

		if err := h.Events.OrderPlaced(ctx, order); err != nil {
			logrus.Warnf("failed to publish order-placed event, error: %v", err)
		}

		return order.ID, nil
	}
}

func (h *Handler) checkoutFromRequest(w http.ResponseWriter, r *http.Request) (*checkout.Workflow, uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid checkout id", http.StatusBadRequest)
		return nil, uuid.Nil, false
	}
	wf, err := h.Checkouts.Get(id)
	if err != nil {
		http.Error(w, "checkout not found", http.StatusNotFound)
		return nil, uuid.Nil, false
	}
	return wf, id, true
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.checkoutFromRequest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wf.State())
}

func (h *Handler) SubmitCheckoutEmail(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.checkoutFromRequest(w, r)
	if !ok {
		return
	}

	type request struct {
		Email string `json:"email"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	wf.SubmitEmail(r.Context(), req.Email)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wf.State())
}

func (h *Handler) ResendCheckoutLink(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.checkoutFromRequest(w, r)
	if !ok {
		return
	}

	wf.Resend(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wf.State())
}

func (h *Handler) CheckoutBack(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.checkoutFromRequest(w, r)
	if !ok {
		return
	}

	wf.Back()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wf.State())
}

func (h *Handler) SubmitCheckoutDetails(w http.ResponseWriter, r *http.Request) {
	wf, _, ok := h.checkoutFromRequest(w, r)
	if !ok {
		return
	}

	var info models.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	wf.SubmitDetails(r.Context(), info)

	state := wf.State()
	resp := map[string]interface{}{
		"state": state,
	}
	if state.OrderID != nil {
		resp["order_id"] = *state.OrderID
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// CloseCheckout releases the workflow's auth subscription and timer.
func (h *Handler) CloseCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid checkout id", http.StatusBadRequest)
		return
	}
	h.Checkouts.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// AuthCallback redeems a magic-link token. The token is single use, so the
// visible redirect carries no replayable parameters; the issued session
// travels in the URL fragment.
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	sessionToken, sess, redirectTo, err := h.Sessions.ConsumeLink(r.Context(), token)
	if err != nil {
		logrus.Warnf("magic-link redemption failed, error: %v", err)
		http.Error(w, "invalid or expired link", http.StatusUnauthorized)
		return
	}

	if redirectTo != "" {
		http.Redirect(w, r, redirectTo+"#access_token="+url.QueryEscape(sessionToken), http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": sessionToken,
		"session":      sess,
	})
}

// SignOut emits the signed-out notification for the caller's session; only
// that customer's open checkouts fall back to the email step.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.CurrentSession(r)
	if sess == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	h.Sessions.SignOut(sess)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "signed out"})
}
