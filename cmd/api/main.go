package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loanapp-backend/internal/adapter/export"
	httpadp "loanapp-backend/internal/adapter/http"
	"loanapp-backend/internal/adapter/lock"
	mw "loanapp-backend/internal/adapter/middleware"
	"loanapp-backend/internal/adapter/notify"
	"loanapp-backend/internal/adapter/repository/mysql"
	"loanapp-backend/internal/config"
	"loanapp-backend/internal/infrastructure/cache"
	"loanapp-backend/internal/infrastructure/db"
	"loanapp-backend/internal/infrastructure/logging"
	"loanapp-backend/internal/infrastructure/tracing"
	"loanapp-backend/internal/usecase/approval"
	"loanapp-backend/internal/usecase/audit"
	"loanapp-backend/internal/usecase/loan"
	"loanapp-backend/internal/usecase/notification"
	"loanapp-backend/internal/usecase/repayment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logging.LogError(log, "main", "config.Validate", nil, err)
		os.Exit(1)
	}

	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	shutdownTracing, err := tracing.Setup(ctx, cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		log.WithError(err).Warn("tracing disabled")
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logging.LogError(log, "main", "db.OpenGorm", nil, err)
		os.Exit(1)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb, mysql.Models()...); err != nil {
			logging.LogError(log, "main", "db.Migrate", nil, err)
			os.Exit(1)
		}
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logging.LogError(log, "main", "cache.OpenRedis", cfg.RedisAddr, err)
		os.Exit(1)
	}
	defer rdb.Close()

	loans := mysql.NewLoanRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	reviews := mysql.NewReviewRepository(gdb)
	repayments := mysql.NewRepaymentRepository(gdb)
	inbox := mysql.NewNotificationRepository(gdb)
	audits := mysql.NewAuditRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	notifier := notify.NewNotifier(inbox, rdb)

	loanUC := loan.NewUsecase(loans, users, tx, notifier).WithLogger(log)
	approvalUC := approval.NewUsecase(loans, reviews, tx, notifier).WithLogger(log)
	repaymentUC := repayment.NewUsecase(loans, repayments, users, tx).
		WithLocker(lock.NewRedisLocker(cache.NewLocker(rdb), cfg.LedgerLockTTL, log)).
		WithExporter(export.NewExcel()).
		WithLogger(log)
	notificationUC := notification.NewUsecase(inbox)
	auditUC := audit.NewUsecase(audits)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover(), middleware.RequestID(), middleware.BodyLimit("1M"))
	e.Validator = httpadp.NewValidator(cfg.PhoneRegion)

	httpadp.Register(e, httpadp.Routes{
		Health:        httpadp.NewHandler(),
		Loans:         httpadp.NewLoanHandler(loanUC, log),
		Approvals:     httpadp.NewApprovalHandler(approvalUC, log),
		Repayments:    httpadp.NewRepaymentHandler(repaymentUC, log),
		Notifications: httpadp.NewNotificationHandler(notificationUC, log),
		Audit:         httpadp.NewAuditHandler(auditUC, log),
		Auth:          mw.Auth([]byte(cfg.JWTSecret)),
		Idempotency:   mw.Idempotency(rdb, cfg.IdempTTL(), log),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.WithField("addr", addr).Info("listening")
		errCh <- e.Start(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
