package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arborcare/booking-core/internal/config"
	"github.com/arborcare/booking-core/internal/db"
	"github.com/arborcare/booking-core/internal/handlers"
	"github.com/arborcare/booking-core/internal/model"
	"github.com/arborcare/booking-core/internal/repository"
	"github.com/arborcare/booking-core/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 1. Config from env.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	// 2. Database via GORM.
	gormDB, err := db.NewGormDB(&cfg.DB)
	if err != nil {
		logger.Fatal("init db", zap.Error(err))
	}

	// 3. Schema migration, including the active-slot unique index.
	if err := model.Migrate(gormDB); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 4. Repositories.
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	customerRepo := repository.NewGormCustomerRepository(gormDB)
	blockedRepo := repository.NewGormBlockedDateRepository(gormDB)
	invoiceRepo := repository.NewGormInvoiceRepository(gormDB)
	quoteRepo := repository.NewGormQuoteRepository(gormDB)

	// 5. Services.
	serviceCost := decimal.Zero
	if cfg.DefaultServiceCost != "" {
		serviceCost, err = decimal.NewFromString(cfg.DefaultServiceCost)
		if err != nil {
			logger.Fatal("parse DEFAULT_SERVICE_COST", zap.Error(err))
		}
	}

	availabilitySvc := service.NewAvailabilityService(bookingRepo, blockedRepo)
	customerSvc := service.NewCustomerService(customerRepo, logger)
	financeSvc := service.NewFinanceService(customerRepo, bookingRepo, invoiceRepo, logger, serviceCost)
	notifier := service.NewLogNotifier(logger)
	bookingSvc := service.NewBookingService(bookingRepo, availabilitySvc, customerSvc, financeSvc, notifier, logger)
	billingSvc := service.NewBillingService(quoteRepo, invoiceRepo, customerRepo, bookingRepo, financeSvc, logger)

	// 6. HTTP router.
	router := gin.New()
	router.Use(gin.Recovery())
	handlers.SetupRoutes(router, cfg, bookingSvc, availabilitySvc, customerSvc, financeSvc, billingSvc, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("booking core listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	// 7. Graceful shutdown on signal.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
