// Команда chat-events читает очередь chat.analyzed и отдаёт агрегированные
// метрики обращений по категориям.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aihelpcenter/helpcenter/internal/app/chatevents"
	"github.com/aihelpcenter/helpcenter/internal/config"
	"github.com/aihelpcenter/helpcenter/internal/lib/logger"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	log.Info("starting chat-events", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := chatevents.New(cfg, log)
	if err != nil {
		log.Error("failed to initialize chat-events", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("chat-events stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("chat-events stopped gracefully")
}
