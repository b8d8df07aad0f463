// Команда seed применяет миграции, создаёт администратора и стандартный
// справочник категорий. Учётные данные администратора берутся из
// ADMIN_EMAIL и ADMIN_PASSWORD.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aihelpcenter/helpcenter/internal/config"
	"github.com/aihelpcenter/helpcenter/internal/lib/jwt"
	"github.com/aihelpcenter/helpcenter/internal/lib/logger"
	"github.com/aihelpcenter/helpcenter/internal/lib/password"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/migrations"
	"github.com/aihelpcenter/helpcenter/internal/services/auth"
	"github.com/aihelpcenter/helpcenter/internal/services/seed"
	"github.com/aihelpcenter/helpcenter/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	email := os.Getenv("ADMIN_EMAIL")
	pass := os.Getenv("ADMIN_PASSWORD")
	if email == "" || pass == "" {
		log.Error("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, email, pass); err != nil {
		log.Error("seed failed", sl.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, email, pass string) error {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(db.DB); err != nil {
		return err
	}

	tokens, err := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.Algorithm)
	if err != nil {
		return err
	}
	hasher := password.NewHasher(cfg.Hashing.Cost)
	authenticator := auth.New(log, db, hasher, tokens)

	res, err := seed.New(authenticator, db, hasher, log).Run(ctx, email, pass)
	if err != nil {
		return err
	}

	log.Info("seed completed",
		slog.Bool("admin_created", res.AdminCreated),
		slog.Int("categories_created", res.CategoriesCreated),
		slog.Int("categories_skipped", res.CategoriesSkipped),
	)
	return nil
}
