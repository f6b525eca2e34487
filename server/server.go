package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/platewise/platewise/handlers"
	"github.com/platewise/platewise/middlewares"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes(h *handlers.Handler) *Server {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")

	router.HandleFunc("/login", h.StaffLogin).Methods("POST")
	router.HandleFunc("/auth/callback", h.AuthCallback).Methods("GET")
	router.HandleFunc("/signout", h.SignOut).Methods("POST")

	// public browsing and checkout
	router.HandleFunc("/api/restaurants", h.ListRestaurants).Methods("GET")
	router.HandleFunc("/api/restaurants/{id}", h.GetRestaurant).Methods("GET")
	router.HandleFunc("/api/restaurants/{id}/dishes", h.GetDishesByRestaurant).Methods("GET")

	router.HandleFunc("/api/checkout", h.StartCheckout).Methods("POST")
	router.HandleFunc("/api/checkout/{id}", h.GetCheckout).Methods("GET")
	router.HandleFunc("/api/checkout/{id}", h.CloseCheckout).Methods("DELETE")
	router.HandleFunc("/api/checkout/{id}/email", h.SubmitCheckoutEmail).Methods("POST")
	router.HandleFunc("/api/checkout/{id}/resend", h.ResendCheckoutLink).Methods("POST")
	router.HandleFunc("/api/checkout/{id}/back", h.CheckoutBack).Methods("POST")
	router.HandleFunc("/api/checkout/{id}/details", h.SubmitCheckoutDetails).Methods("POST")

	// order status and invoices
	router.HandleFunc("/api/orders/{id}/status", h.OrderStatus).Methods("GET")
	router.HandleFunc("/api/orders/{id}/qrcode", h.OrderQRCode).Methods("GET")
	router.HandleFunc("/api/invoices", h.CreateInvoice).Methods("POST")
	router.HandleFunc("/api/invoices", h.GetInvoice).Methods("GET")
	router.HandleFunc("/api/invoices/{id}", h.GetInvoice).Methods("GET")
	router.HandleFunc("/api/invoices/{id}/html", h.InvoiceHTML).Methods("GET")
	router.HandleFunc("/api/invoices/{id}/pdf", h.InvoicePDF).Methods("GET")

	// dashboards require a session
	authRoutes := router.PathPrefix("/api").Subrouter()
	authRoutes.Use(middlewares.AuthMiddleware)
	authRoutes.HandleFunc("/me", h.Me).Methods("GET")
	authRoutes.HandleFunc("/me/orders", h.MyOrders).Methods("GET")
	authRoutes.HandleFunc("/restaurants/{id}/orders", h.RestaurantOrders).Methods("GET")

	return &Server{
		Router: router,
	}
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           cors.Default().Handler(svr.Router),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
