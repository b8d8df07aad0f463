// Package helpcenter собирает HTTP API справочного центра: хранилище,
// кэш, очередь событий, сервисы и маршруты.
package helpcenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/aihelpcenter/helpcenter/internal/cache"
	"github.com/aihelpcenter/helpcenter/internal/config"
	grpchealth "github.com/aihelpcenter/helpcenter/internal/grpc/health"
	"github.com/aihelpcenter/helpcenter/internal/lib/jwt"
	"github.com/aihelpcenter/helpcenter/internal/lib/password"
	"github.com/aihelpcenter/helpcenter/internal/lib/rabbitmq"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/migrations"
	adminservice "github.com/aihelpcenter/helpcenter/internal/services/admin"
	authservice "github.com/aihelpcenter/helpcenter/internal/services/auth"
	categoryservice "github.com/aihelpcenter/helpcenter/internal/services/category"
	chatservice "github.com/aihelpcenter/helpcenter/internal/services/chat"
	"github.com/aihelpcenter/helpcenter/internal/services/solution"
	"github.com/aihelpcenter/helpcenter/internal/storage"
)

// App — собранное приложение.
type App struct {
	server   *http.Server
	health   *grpchealth.Server
	logger   *slog.Logger
	db       *storage.Storage
	cache    *cache.Cache
	amqpConn *amqp.Connection
	pub      *rabbitmq.Publisher
	cfg      *config.Config
}

// New подключается к зависимостям и собирает маршруты. Postgres обязателен;
// Redis и RabbitMQ необязательны: при ошибке подключения сервис работает без них.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "helpcenter.New"

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{logger: logger, db: db, cfg: cfg}

	var categoryCache categoryservice.Cache
	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		logger.Warn("redis unavailable, category cache disabled", sl.Err(err))
	} else {
		app.cache = redisCache
		categoryCache = redisCache
	}

	var publisher chatservice.Publisher
	if cfg.RabbitMQ.URL != "" {
		if err := app.connectRabbit(); err != nil {
			logger.Warn("rabbitmq unavailable, chat events disabled", sl.Err(err))
		} else {
			publisher = app.pub
		}
	}

	tokens, err := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.Algorithm)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	services := Services{
		Auth:     authservice.New(logger, db, password.NewHasher(cfg.Hashing.Cost), tokens),
		Category: categoryservice.NewService(db, categoryCache, logger),
		Chat:     chatservice.NewService(db, solution.NewMockGenerator(), publisher, logger),
		Admin:    adminservice.NewService(db, logger),
		Health:   db,
	}

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      NewRouter(logger, cfg.AllowedOrigins(), services),
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.GRPCHealthAddress != "" {
		app.health, err = grpchealth.New(cfg.GRPCHealthAddress, logger)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return app, nil
}

func (a *App) connectRabbit() error {
	conn, err := rabbitmq.Connect(a.cfg.RabbitMQ.URL, a.cfg.RabbitMQ.Retries, a.cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return err
	}
	ch, err := rabbitmq.SetupChannel(conn, a.cfg.RabbitMQ.Exchange, rabbitmq.GetChatQueues())
	if err != nil {
		_ = conn.Close()
		return err
	}
	a.amqpConn = conn
	a.pub = rabbitmq.NewPublisher(ch, a.cfg.RabbitMQ.Exchange)
	return nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает серверы
// в пределах ShutdownTimeout и закрывает подключения.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		if a.health != nil {
			a.health.SetServing(true)
		}
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if a.health != nil {
		g.Go(func() error {
			return a.health.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if a.health != nil {
			a.health.SetServing(false)
		}
		timeoutCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	})

	return g.Wait()
}

func (a *App) close() {
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
