// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Conte777/SaveVideoBot/config"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/deps"
	"github.com/Conte777/SaveVideoBot/internal/domain/download/entities"
)

// Publisher implements deps.EventPublisher
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewPublisher creates a Kafka publisher, or a no-op one when no brokers are configured
func NewPublisher(cfg *config.KafkaConfig, logger zerolog.Logger) (deps.EventPublisher, error) {
	if !cfg.Enabled() {
		logger.Info().Msg("Kafka brokers not configured, download events are disabled")
		return NopPublisher{}, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("Kafka producer initialized successfully")

	return newPublisher(producer, cfg.Topic, logger), nil
}

func newPublisher(producer sarama.SyncProducer, topic string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// PublishDownload sends a download event keyed by chat so one chat's events stay ordered
func (p *Publisher) PublishDownload(ctx context.Context, event *entities.DownloadEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", event.ChatID)),
		Value: sarama.ByteEncoder(jsonData),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.logger.Error().Err(err).Str("topic", p.topic).Msg("Failed to send Kafka message")
		return err
	}

	p.logger.Debug().
		Str("topic", p.topic).
		Str("request_id", event.RequestID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Download event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

// NopPublisher drops every event
type NopPublisher struct{}

// PublishDownload implements deps.EventPublisher
func (NopPublisher) PublishDownload(context.Context, *entities.DownloadEvent) error { return nil }

// Close implements deps.EventPublisher
func (NopPublisher) Close() error { return nil }
