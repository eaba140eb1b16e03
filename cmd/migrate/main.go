// Command migrate applies the gateway schema to the PostgreSQL database
// named by the client configuration (-d or gateway_dsn).
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/client/config"
	"github.com/dmitrijs2005/snapgram/internal/gateway/repositories/repomanager"
	"github.com/dmitrijs2005/snapgram/internal/logging"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const migrateTimeout = time.Minute

func main() {
	cfg := config.LoadConfig()

	log, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "migration failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logging.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	db, err := sql.Open("pgx", cfg.GatewayDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return err
	}

	if err := repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db); err != nil {
		return err
	}

	log.Info(ctx, "gateway schema is up to date")
	return nil
}
