package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commission_tracker/internal/config"
	"commission_tracker/internal/jobs"
	"commission_tracker/internal/logger"
	"commission_tracker/internal/routes"
	"commission_tracker/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	// Initialize structured logging to file
	accessLog := logger.Setup(cfg.LogFile, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	// Connect to the database
	db, err := config.OpenDB(cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("database unavailable")
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			logrus.WithError(err).Warn("closing database")
		}
	}()

	scheduler := cron.New()
	if cfg.ResetCron != "" {
		if _, err := jobs.ScheduleMonthlyReset(scheduler, cfg.ResetCron, store.NewLedgerStore(db)); err != nil {
			logrus.WithError(err).Fatalf("invalid RESET_CRON %q", cfg.ResetCron)
		}
		scheduler.Start()
		logrus.WithField("spec", cfg.ResetCron).Info("automatic monthly reset enabled")
	}

	r := routes.SetupRouter(cfg, db, routes.Options{AccessLog: accessLog})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("🚀 Server running at :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
