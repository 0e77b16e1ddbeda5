package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	auditlogStore "gesclient/internal/auditlog/store"
	clientStore "gesclient/internal/client/store"
	demandeStore "gesclient/internal/demande/store"
	numeroStore "gesclient/internal/numero/store"
	"gesclient/internal/platform/config"
	"gesclient/internal/platform/logger"
	platformmongo "gesclient/internal/platform/mongo"
	"gesclient/internal/seed"
	id "gesclient/pkg/domain"
)

// main loads the reference data set into the configured database.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.Server.Environment)
	id.SetCNILength(cfg.CNILength)

	if err := run(cfg, log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := platformmongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close(context.Background()) }()

	db := client.Database()
	accounts := seed.NewAccountMongo(db)
	if err := platformmongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	if err := accounts.EnsureIndexes(ctx); err != nil {
		return err
	}

	seeder := seed.New(seed.Stores{
		Accounts: accounts,
		Clients:  clientStore.NewMongo(db),
		Numeros:  numeroStore.NewMongo(db),
		Demandes: demandeStore.NewMongo(db),
		Logs:     auditlogStore.NewMongo(db),
	}, log)

	_, err = seeder.Run(ctx, cfg.Seed)
	return err
}
