package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gym-booking/internal/bookings"
	"gym-booking/internal/config"
	"gym-booking/internal/database"
	"gym-booking/internal/kiosk"
	"gym-booking/internal/logging"
	"gym-booking/internal/models"
	"gym-booking/internal/wizard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Keep the terminal for the wizard; only warnings and up go to stderr.
	logger, err := logging.New(cfg.Env, "warn")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid display timezone", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Error opening storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer db.Close()

	store := bookings.NewStore(db,
		bookings.WithKey(cfg.StorageKey),
		bookings.WithLocation(loc),
		bookings.WithLogger(logger),
	)

	w := wizard.New(models.DefaultCatalog(), &models.Draft{})
	if err := kiosk.New(w, store, os.Stdin, os.Stdout).Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Wizard stopped", zap.Error(err))
	}
}
