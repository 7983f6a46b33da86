package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"gym-booking/internal/bookings"
	"gym-booking/internal/config"
	"gym-booking/internal/database"
	"gym-booking/internal/logging"
	"gym-booking/internal/metrics"
	"gym-booking/internal/models"
	"gym-booking/internal/server"
	"gym-booking/internal/wizard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid display timezone", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWizardMetrics(reg)

	db, err := database.New(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Error opening storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer db.Close()

	store := bookings.NewStore(db,
		bookings.WithKey(cfg.StorageKey),
		bookings.WithLocation(loc),
		bookings.WithLogger(logger),
		bookings.WithMetrics(m),
	)

	srv := server.NewServer(cfg, server.Deps{
		DB:       db,
		Store:    store,
		Wizard:   wizard.New(models.DefaultCatalog(), &models.Draft{}, wizard.WithMetrics(m)),
		Logger:   logger,
		Gatherer: reg,
	})

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Fatal("Error creating listener", zap.Error(err))
	}

	errChan := make(chan error, 1)

	go func() {
		logger.Info("Server started",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.StorageDriver),
		)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.Error("Server error", zap.Error(err))
	case sig := <-stop:
		logger.Info("Initiating graceful shutdown", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shut down the server", zap.Error(err))
			return
		}
		logger.Info("Server gracefully stopped")
	}
}
