package http

import (
	"net/http"

	"caja-backend/internal/handlers"
	"caja-backend/internal/live"
	"caja-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	cashboxHandler *handlers.CashboxHandler,
	creditHandler *handlers.CreditHandler,
	paymentHandler *handlers.PaymentHandler,
	customerHandler *handlers.CustomerHandler,
	productHandler *handlers.ProductHandler,
	reportHandler *handlers.ReportHandler,
	systemSettingHandler *handlers.SystemSettingHandler,
	healthHandler *handlers.HealthHandler,
	hub *live.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public routes
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Live register feed
	r.HandleFunc("/ws/registers", hub.ServeWS)

	admin := authMiddleware.RequireRole("admin")

	// Authenticated profile
	meAPI := r.PathPrefix("/api/me").Subrouter()
	meAPI.Use(authMiddleware.Authenticate)
	meAPI.HandleFunc("", authHandler.Me).Methods("GET")

	// Daily cash registers
	cashAPI := r.PathPrefix("/api/cash").Subrouter()
	cashAPI.Use(authMiddleware.Authenticate)
	cashAPI.HandleFunc("", cashboxHandler.ListRegisters).Methods("GET")
	cashAPI.HandleFunc("/sweep", cashboxHandler.SweepStale).Methods("POST")
	cashAPI.HandleFunc("/{date}", cashboxHandler.GetRegister).Methods("GET")
	cashAPI.HandleFunc("/{date}", cashboxHandler.OpenRegister).Methods("POST")
	cashAPI.HandleFunc("/{date}/close", cashboxHandler.CloseRegister).Methods("POST")
	cashAPI.HandleFunc("/{date}/reopen", cashboxHandler.ReopenRegister).Methods("POST")
	cashAPI.HandleFunc("/{date}/movements", cashboxHandler.AddMovement).Methods("POST")
	cashAPI.HandleFunc("/{date}/pdf", cashboxHandler.RegisterPDF).Methods("GET")
	cashAPI.HandleFunc("/{date}/csv", cashboxHandler.RegisterCSV).Methods("GET")

	movementsAPI := r.PathPrefix("/api/movements").Subrouter()
	movementsAPI.Use(authMiddleware.Authenticate)
	movementsAPI.HandleFunc("/{id}", cashboxHandler.UpdateMovement).Methods("PUT")
	movementsAPI.HandleFunc("/{id}", cashboxHandler.RemoveMovement).Methods("DELETE")

	// Credit sales and installments
	creditAPI := r.PathPrefix("/api/credits").Subrouter()
	creditAPI.Use(authMiddleware.Authenticate)
	creditAPI.HandleFunc("", creditHandler.ListSales).Methods("GET")
	creditAPI.HandleFunc("", creditHandler.CreateSale).Methods("POST")
	creditAPI.HandleFunc("/overdue-check", creditHandler.CheckOverdue).Methods("POST")
	creditAPI.HandleFunc("/pay", creditHandler.PayRunningAccount).Methods("POST")
	creditAPI.HandleFunc("/{id}", creditHandler.GetSale).Methods("GET")
	creditAPI.HandleFunc("/{id}", admin(http.HandlerFunc(creditHandler.DeleteSale)).ServeHTTP).Methods("DELETE")
	creditAPI.HandleFunc("/{id}/pay-all", creditHandler.PayAllInstallments).Methods("POST")
	creditAPI.HandleFunc("/{id}/payments", paymentHandler.ListBySale).Methods("GET")

	installmentsAPI := r.PathPrefix("/api/installments").Subrouter()
	installmentsAPI.Use(authMiddleware.Authenticate)
	installmentsAPI.HandleFunc("/{id}/pay", creditHandler.PayInstallment).Methods("POST")

	// Payments and check clearance
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("/checks/pending", paymentHandler.ListPendingChecks).Methods("GET")
	paymentsAPI.HandleFunc("/{id}/clear-check", paymentHandler.ClearCheck).Methods("POST")
	paymentsAPI.HandleFunc("/{id}", admin(http.HandlerFunc(paymentHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Customers and balance summaries
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.List).Methods("GET")
	customersAPI.HandleFunc("", customerHandler.Create).Methods("POST")
	customersAPI.HandleFunc("/credit-summaries", customerHandler.CreditSummaries).Methods("GET")
	customersAPI.HandleFunc("/running-summaries", customerHandler.RunningSummaries).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.Get).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.Update).Methods("PUT")
	customersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(customerHandler.Delete)).ServeHTTP).Methods("DELETE")
	customersAPI.HandleFunc("/{id}/summary/refresh", customerHandler.RefreshSummary).Methods("POST")
	customersAPI.HandleFunc("/{id}/statement.pdf", customerHandler.StatementPDF).Methods("GET")

	// Products, barcode lookup and bulk pricing
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.List).Methods("GET")
	productsAPI.HandleFunc("", productHandler.Create).Methods("POST")
	productsAPI.HandleFunc("/bulk-price", admin(http.HandlerFunc(productHandler.BulkPriceUpdate)).ServeHTTP).Methods("POST")
	productsAPI.HandleFunc("/barcode/{code}", productHandler.GetByBarcode).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.Get).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.Update).Methods("PUT")
	productsAPI.HandleFunc("/{id}", admin(http.HandlerFunc(productHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/summary", reportHandler.Summary).Methods("GET")
	reportsAPI.HandleFunc("/products", reportHandler.ProductRankings).Methods("GET")

	// System settings (admin)
	settingsAPI := r.PathPrefix("/api/settings").Subrouter()
	settingsAPI.Use(authMiddleware.Authenticate)
	settingsAPI.HandleFunc("", systemSettingHandler.List).Methods("GET")
	settingsAPI.HandleFunc("/{key}", systemSettingHandler.Get).Methods("GET")
	settingsAPI.HandleFunc("/{key}", admin(http.HandlerFunc(systemSettingHandler.Update)).ServeHTTP).Methods("PUT")

	// Users (admin)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", admin(http.HandlerFunc(userHandler.List)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", admin(http.HandlerFunc(userHandler.Create)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.Update)).ServeHTTP).Methods("PUT")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Detailed health (admin)
	healthAPI := r.PathPrefix("/api/health").Subrouter()
	healthAPI.Use(authMiddleware.Authenticate)
	healthAPI.HandleFunc("/detailed", admin(http.HandlerFunc(healthHandler.HealthDetailed)).ServeHTTP).Methods("GET")

	return r
}
