package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/erp/sales/internal/application/billing"
	commissionapp "github.com/erp/sales/internal/application/commission"
	salesapp "github.com/erp/sales/internal/application/sales"
	"github.com/erp/sales/internal/infrastructure/config"
	"github.com/erp/sales/internal/infrastructure/event"
	"github.com/erp/sales/internal/infrastructure/logger"
	"github.com/erp/sales/internal/infrastructure/persistence"
	"github.com/erp/sales/internal/infrastructure/scheduler"
	"github.com/erp/sales/internal/interfaces/http/handler"
	"github.com/erp/sales/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Initialize repositories
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	orderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	returnRepo := persistence.NewGormSalesReturnRepository(db.DB)
	backOrderRepo := persistence.NewGormBackOrderRepository(db.DB)
	reservationRepo := persistence.NewGormInventoryReservationRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	advanceRepo := persistence.NewGormAdvancePaymentRepository(db.DB)
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	planRepo := persistence.NewGormCommissionPlanRepository(db.DB)
	commissionRepo := persistence.NewGormSalesCommissionRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log,
		event.WithAsync(cfg.Event.BufferSize, cfg.Event.WorkerCount))
	busCtx, busCancel := context.WithCancel(context.Background())
	defer busCancel()
	if err := eventBus.Start(busCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Initialize services
	quotationService := salesapp.NewQuotationService(quotationRepo, orderRepo)
	quotationService.SetEventPublisher(eventBus)
	orderService := salesapp.NewSalesOrderService(orderRepo, backOrderRepo)
	orderService.SetEventPublisher(eventBus)
	returnService := salesapp.NewSalesReturnService(returnRepo, orderRepo)
	returnService.SetEventPublisher(eventBus)
	fulfillmentService := salesapp.NewFulfillmentService(backOrderRepo, reservationRepo)

	invoiceService := billingapp.NewInvoiceService(invoiceRepo)
	invoiceService.SetEventPublisher(eventBus)
	txManager := persistence.NewGormTransactionManager(db.DB)
	paymentService := billingapp.NewPaymentService(paymentRepo, invoiceRepo)
	paymentService.SetEventPublisher(eventBus)
	paymentService.SetTransactionManager(txManager)
	advanceService := billingapp.NewAdvancePaymentService(advanceRepo, invoiceRepo)
	advanceService.SetEventPublisher(eventBus)
	advanceService.SetTransactionManager(txManager)
	creditNoteService := billingapp.NewCreditNoteService(creditNoteRepo, invoiceRepo)
	creditNoteService.SetEventPublisher(eventBus)
	creditNoteService.SetTransactionManager(txManager)

	planService := commissionapp.NewPlanService(planRepo)
	commissionService := commissionapp.NewCommissionService(commissionRepo, planRepo)
	discountService := commissionapp.NewDiscountService(discountRepo)

	// Wire cross-context event handlers
	returnApprovedHandler := billingapp.NewSalesReturnApprovedHandler(
		creditNoteRepo, invoiceRepo, returnRepo, log)
	eventBus.Subscribe(returnApprovedHandler, returnApprovedHandler.EventTypes()...)

	orderCompletedHandler := commissionapp.NewSalesOrderCompletedHandler(
		commissionRepo, planRepo, log)
	eventBus.Subscribe(orderCompletedHandler, orderCompletedHandler.EventTypes()...)

	// Initialize HTTP layer
	engine := router.New(cfg, log).Register(
		handler.NewQuotationHandler(quotationService),
		handler.NewSalesOrderHandler(orderService),
		handler.NewSalesReturnHandler(returnService),
		handler.NewFulfillmentHandler(fulfillmentService),
		handler.NewInvoiceHandler(invoiceService),
		handler.NewPaymentHandler(paymentService),
		handler.NewAdvancePaymentHandler(advanceService),
		handler.NewCreditNoteHandler(creditNoteService),
		handler.NewCommissionPlanHandler(planService),
		handler.NewCommissionHandler(commissionService),
		handler.NewDiscountHandler(discountService),
	).Setup()
	engine.GET("/ready", readyHandler(db))

	// Start expiry sweeper
	var sweeper *scheduler.ExpirySweeper
	if cfg.Expiry.AutoExpireEnabled {
		sweeper = scheduler.NewExpirySweeper(
			cfg.Expiry.CheckInterval,
			persistence.NewSweepTenantSource(db.DB),
			log,
			scheduler.Sweep{Name: "quotations", Run: quotationService.ExpireDue},
			scheduler.Sweep{Name: "reservations", Run: fulfillmentService.ExpireDue},
		)
		sweeper.Start(busCtx)
	}

	// Start HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if sweeper != nil {
		sweeper.Stop()
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("Event bus did not drain in time", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// readyHandler reports readiness including database connectivity
func readyHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
