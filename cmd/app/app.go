package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aya-loyalty/aya-api/internal/api"
	"github.com/aya-loyalty/aya-api/internal/config"
	"github.com/aya-loyalty/aya-api/internal/db"
	"github.com/aya-loyalty/aya-api/internal/logger"
	"github.com/aya-loyalty/aya-api/internal/worker"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	s := api.NewServer(conf, postgresDB)

	sweeper := worker.NewSweeper(conf.Redis, conf.Sweeper.Schedule, s.Exchange)
	if err = sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start the token sweeper -> %w", err)
	}
	defer sweeper.Shutdown()

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
