// Package chatevents собирает обработчик очереди chat.analyzed: подключение
// к RabbitMQ, учёт событий и отдачу метрик.
package chatevents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/aihelpcenter/helpcenter/internal/config"
	"github.com/aihelpcenter/helpcenter/internal/lib/rabbitmq"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/services/events"
)

const shutdownTimeout = 5 * time.Second

// App — обработчик событий чата.
type App struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	recorder *events.Recorder
	metrics  *http.Server
	cfg      config.ChatEvents
	logger   *slog.Logger
}

// New подключается к брокеру и объявляет очереди событий чата.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "chatevents.New"

	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("%s: rabbitmq url is not configured", op)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.GetChatQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := ch.Qos(rabbitmq.MaxInFlight, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		conn:     conn,
		ch:       ch,
		recorder: events.NewRecorder(logger),
		cfg:      cfg.ChatEvents,
		logger:   logger,
	}

	if cfg.ChatEvents.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		app.metrics = &http.Server{
			Addr:              cfg.ChatEvents.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return app, nil
}

// Run обрабатывает очередь до отмены ctx, затем снимает подписку, дожидается
// начатых обработчиков и закрывает подключение.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("consuming chat events", slog.String("queue", a.cfg.Queue))
		return rabbitmq.Consume(gctx, a.ch, a.cfg.Queue, a.cfg.ConsumerTag, a.logger, a.recorder.HandleAnalyzed)
	})

	if a.metrics != nil {
		g.Go(func() error {
			a.logger.Info("metrics server starting on", slog.String("address", a.metrics.Addr))
			if err := a.metrics.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return a.metrics.Shutdown(timeoutCtx)
		})
	}

	return g.Wait()
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Warn("failed to close rabbitmq channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
	}
}
