package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/caremesh/chat-service/internal/domain"

	"github.com/segmentio/kafka-go"
)

// message.created для пайплайна уведомлений/напоминаний.
// Тело сообщения в событие не кладём — только метаданные.
type MessageCreatedEvent struct {
	Type         string    `json:"type"`
	MessageID    string    `json:"message_id"`
	RoomID       string    `json:"room_id"`
	SenderID     string    `json:"sender_id"`
	ReceiverID   string    `json:"receiver_id"`
	SenderRole   string    `json:"sender_role"`
	ReceiverRole string    `json:"receiver_role"`
	SentAt       time.Time `json:"sent_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		}),
	}
}

// MessageCreated — реализация service.Notifier; вызывается после коммита,
// ошибка публикации не влияет на результат отправки.
func (p *Producer) MessageCreated(ctx context.Context, m *domain.Message) error {
	ev := MessageCreatedEvent{
		Type:         "message.created",
		MessageID:    m.ID,
		RoomID:       m.RoomID,
		SenderID:     m.SenderID,
		ReceiverID:   m.ReceiverID,
		SenderRole:   string(m.SenderRole),
		ReceiverRole: string(m.ReceiverRole),
		SentAt:       m.CreatedAt,
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// ключ — room id, события одной комнаты идут в одну партицию
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(m.RoomID),
		Value: b,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
