package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caja-backend/internal/auth"
	"caja-backend/internal/cache"
	"caja-backend/internal/config"
	"caja-backend/internal/database"
	"caja-backend/internal/db"
	"caja-backend/internal/handlers"
	"caja-backend/internal/health"
	caja "caja-backend/internal/http"
	"caja-backend/internal/live"
	"caja-backend/internal/middleware"
	"caja-backend/internal/repositories"
	"caja-backend/internal/services"
	"caja-backend/migrations"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, migrations.Files, ".")
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("[Startup] migrations failed: %v", err)
	}

	if err := cache.Init(cfg); err != nil {
		log.Warnf("[Startup] redis unavailable, summary caching disabled: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	dailyCashRepo := repositories.NewDailyCashRepository(pool)
	creditRepo := repositories.NewCreditRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	settingRepo := repositories.NewSystemSettingRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	hub := live.NewHub()
	backupService := services.NewBackupService(cfg, log)
	cashboxService := services.NewCashboxService(dailyCashRepo, backupService, hub, log)
	creditService := services.NewCreditService(creditRepo, paymentRepo, cashboxService, log)
	paymentService := services.NewPaymentService(paymentRepo, creditRepo, cashboxService, log)
	balanceService := services.NewCustomerBalanceService(creditRepo, paymentRepo, log)
	priceService := services.NewPriceService(productRepo, log)
	reportService := services.NewReportService(dailyCashRepo, creditRepo, paymentRepo, customerRepo, log)
	userService := services.NewUserService(userRepo, jwtManager)
	customerService := services.NewCustomerService(customerRepo)
	productService := services.NewProductService(productRepo)
	settingService := services.NewSystemSettingService(settingRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	cashboxHandler := handlers.NewCashboxHandler(cashboxService, reportService)
	creditHandler := handlers.NewCreditHandler(creditService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	customerHandler := handlers.NewCustomerHandler(customerService, balanceService, reportService)
	productHandler := handlers.NewProductHandler(productService, priceService)
	reportHandler := handlers.NewReportHandler(reportService)
	settingHandler := handlers.NewSystemSettingHandler(settingService)
	healthChecker := health.NewHealthChecker(pool)
	healthHandler := handlers.NewHealthHandler(healthChecker, hub)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := caja.NewRouter(
		authHandler,
		userHandler,
		cashboxHandler,
		creditHandler,
		paymentHandler,
		customerHandler,
		productHandler,
		reportHandler,
		settingHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	handler := middleware.NewCORS(cfg)(middleware.PanicRecovery(router))

	// Background sweepers: stale register close and overdue installments
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go cashboxService.RunSweeper(ctx)
	go creditService.RunOverdueSweeper(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("[Startup] listening on :%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("[Startup] server error: %v", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("[Shutdown] draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[Shutdown] forced: %v", err)
	}
}
