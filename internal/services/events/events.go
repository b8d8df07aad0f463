// Package events обрабатывает события чата, полученные из очереди.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/aihelpcenter/helpcenter/internal/lib/metrics"
	"github.com/aihelpcenter/helpcenter/internal/lib/sl"
	"github.com/aihelpcenter/helpcenter/internal/services/chat"
)

// UncategorizedLabel — значение метки для события без категории.
const UncategorizedLabel = "uncategorized"

// Recorder учитывает события chat.analyzed в метриках и журнале.
type Recorder struct {
	log *slog.Logger
}

// NewRecorder создает обработчик событий.
func NewRecorder(log *slog.Logger) *Recorder {
	return &Recorder{log: log}
}

// HandleAnalyzed разбирает событие и обновляет метрики. Нераспознанное
// сообщение журналируется и подтверждается, чтобы не блокировать очередь.
func (r *Recorder) HandleAnalyzed(_ context.Context, body []byte) error {
	const op = "events.HandleAnalyzed"
	log := r.log.With(slog.String("op", op))

	var event chat.AnalyzedEvent
	if err := json.Unmarshal(body, &event); err != nil || event.MessageID == "" {
		if err != nil {
			log.Warn("dropping malformed chat event", sl.Err(err))
		} else {
			log.Warn("dropping chat event without message id")
		}
		metrics.ChatEventsRejected.Inc()
		return nil
	}

	category := strings.TrimSpace(event.Category)
	if category == "" {
		category = UncategorizedLabel
	}
	metrics.ChatAnalyzed.WithLabelValues(category).Inc()
	metrics.ChatConfidence.Observe(event.Confidence)

	log.Info("chat message analyzed",
		slog.String("message_id", event.MessageID),
		slog.String("user_id", event.UserID),
		slog.String("category", category),
		slog.Float64("confidence", event.Confidence),
	)
	return nil
}
