package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Conte777/fanscraper/internal/domain/auth/dto"
	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
)

// ProducerAdapter publishes auth lifecycle events keyed by account id
type ProducerAdapter struct {
	producer *KafkaProducer
	topic    string
}

func NewProducerAdapter(producer *KafkaProducer, topic string) *ProducerAdapter {
	return &ProducerAdapter{producer: producer, topic: topic}
}

func (a *ProducerAdapter) PublishSessionRegistered(ctx context.Context, session *entities.AuthSession) error {
	event := &dto.SessionEvent{
		EventID:    uuid.NewString(),
		Type:       dto.EventSessionRegistered,
		AuthID:     session.ID,
		Username:   session.Username,
		Guest:      session.Guest,
		HasIssues:  session.Issues() != nil,
		OccurredAt: time.Now().UTC(),
	}

	return a.producer.SendToTopic(ctx, a.topic, strconv.FormatInt(session.ID, 10), event)
}

func (a *ProducerAdapter) PublishSessionRemoved(ctx context.Context, id int64, reason string) error {
	event := &dto.SessionEvent{
		EventID:    uuid.NewString(),
		Type:       dto.EventSessionRemoved,
		AuthID:     id,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}

	return a.producer.SendToTopic(ctx, a.topic, strconv.FormatInt(id, 10), event)
}
