package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
)

// MaxInFlight — предел одновременно обрабатываемых сообщений.
const MaxInFlight = 10

// ErrDeliveriesClosed возвращается, если брокер закрыл поток доставки
// до отмены контекста (обрыв соединения или канала).
var ErrDeliveriesClosed = errors.New("rabbitmq: deliveries channel closed")

// Consume читает очередь queue под именем consumer и передаёт тело каждого
// сообщения в handler. Успешно обработанное сообщение подтверждается, при
// ошибке возвращается в очередь.
//
// Вызов блокируется до отмены ctx: затем подписка снимается, уже
// полученные, но не начатые сообщения возвращаются в очередь, и Consume
// дожидается завершения запущенных обработчиков.
func Consume(ctx context.Context, ch *amqp.Channel, queue, consumer string, log *slog.Logger, handler func(context.Context, []byte) error) error {
	const op = "rabbitmq.Consume"

	deliveries, err := ch.Consume(queue, consumer, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queue))
	sem := make(chan struct{}, MaxInFlight)
	var wg sync.WaitGroup
	defer wg.Wait()

	stop := func() {
		if err := ch.Cancel(consumer, false); err != nil {
			log.Warn("failed to cancel consumer", sl.Err(err))
		}
		for d := range deliveries {
			requeue(log, d)
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("%s: %w", op, ErrDeliveriesClosed)
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				requeue(log, d)
				stop()
				return nil
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				if err := handler(ctx, d.Body); err != nil {
					log.Warn("handler failed, requeueing", sl.Err(err))
					requeue(log, d)
					return
				}
				if err := d.Ack(false); err != nil {
					log.Error("failed to ack message", sl.Err(err))
				}
			}(d)
		}
	}
}

func requeue(log *slog.Logger, d amqp.Delivery) {
	if err := d.Nack(false, true); err != nil {
		log.Error("failed to nack message", sl.Err(err))
	}
}
