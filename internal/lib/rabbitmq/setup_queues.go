package rabbitmq

// RoutingKeyChatAnalyzed — ключ маршрутизации события о разобранном обращении.
const RoutingKeyChatAnalyzed = "chat.analyzed"

// QueueConfig описывает очередь и её ключ привязки.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetChatQueues возвращает очереди событий чата.
func GetChatQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "chat.analyzed", RoutingKey: RoutingKeyChatAnalyzed},
	}
}
