package main

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"gym-booking/internal/config"
	"gym-booking/internal/database"
	"gym-booking/internal/logging"
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

	dsn := cfg.PostgresDSN()

	// migrate force <version>
	if len(os.Args) >= 3 && os.Args[1] == "force" {
		version, err := strconv.Atoi(os.Args[2])
		if err != nil {
			logger.Fatal("Invalid version", zap.String("version", os.Args[2]), zap.Error(err))
		}
		if err := database.Force(dsn, version); err != nil {
			logger.Fatal("Force version failed", zap.Error(err))
		}
		fmt.Printf("forced version to %d\n", version)
		return
	}

	if err := database.Migrate(dsn); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}
	fmt.Println("migrations complete")
}
