package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/payhub/payhub-backend/internal/client"
	"github.com/payhub/payhub-backend/internal/config"
	"github.com/payhub/payhub-backend/internal/database"
	"github.com/payhub/payhub-backend/internal/handler"
	"github.com/payhub/payhub-backend/internal/logger"
	"github.com/payhub/payhub-backend/internal/repository"
	"github.com/payhub/payhub-backend/internal/router"
	"github.com/payhub/payhub-backend/internal/service"
	"github.com/payhub/payhub-backend/internal/validator"
	"github.com/payhub/payhub-backend/internal/websocket"
	"github.com/payhub/payhub-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting PayHub Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── External Clients ──────────────────────────────────────────────
	conversionClient, err := client.NewConversionClient(cfg.ConversionAPIURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid conversion service URL")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	roleRepo := repository.NewRoleRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	contractorRepo := repository.NewContractorRepository(pool)
	invoiceTypeRepo := repository.NewInvoiceTypeRepository(pool)
	paymentStatusRepo := repository.NewPaymentStatusRepository(pool)
	routeRepo := repository.NewRouteRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	approvalRepo := repository.NewApprovalRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, roleRepo)
	employeeService := service.NewEmployeeService(employeeRepo, authService)
	roleService := service.NewRoleService(roleRepo)
	contractorService := service.NewContractorService(contractorRepo)
	referenceService := service.NewReferenceService(invoiceTypeRepo, paymentStatusRepo, rdb, log)
	routeService := service.NewRouteService(routeRepo, invoiceTypeRepo, log)
	approvalService := service.NewApprovalService(approvalRepo, invoiceRepo, routeRepo, rdb, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, approvalService, log)
	documentService := service.NewDocumentService(cfg, conversionClient, log)

	// ─── WebSocket Hub ────────────────────────────────────────────────
	hub := websocket.NewHub(log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(employeeService, authService),
		Route:      handler.NewRouteHandler(routeService),
		Invoice:    handler.NewInvoiceHandler(invoiceService, documentService),
		Approval:   handler.NewApprovalHandler(approvalService),
		Contractor: handler.NewContractorHandler(contractorService),
		Employee:   handler.NewEmployeeHandler(employeeService),
		Role:       handler.NewRoleHandler(roleService),
		Reference:  handler.NewReferenceHandler(referenceService),
		Document:   handler.NewDocumentHandler(documentService),
		WS:         handler.NewWSHandler(hub, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	notifyWorker := worker.NewNotifyWorker(rdb, hub, log)
	workerDone := notifyWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("Notify worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
