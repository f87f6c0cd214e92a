package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/fanscraper/config"
	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	"github.com/Conte777/fanscraper/internal/infrastructure/metrics"
)

var Module = fx.Module(
	"kafka",
	fx.Provide(
		NewProducer,
		NewAdapter,
	),
)

func NewProducer(lc fx.Lifecycle, cfg *config.KafkaConfig, m *metrics.Metrics, log zerolog.Logger) (*KafkaProducer, error) {
	producer, err := NewKafkaProducer(cfg.Brokers, m, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("closing kafka producer...")
			return producer.Close()
		},
	})

	return producer, nil
}

func NewAdapter(producer *KafkaProducer, cfg *config.KafkaConfig) deps.EventPublisher {
	return NewProducerAdapter(producer, cfg.TopicAuthEvents)
}
