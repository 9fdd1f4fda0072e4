package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"logsieve/config"
	"logsieve/internal/dto"
	"logsieve/internal/model"
)

// RawLogProducer publishes unparsed log payloads collected from disk.
type RawLogProducer interface {
	Produce(ctx context.Context, payloads []model.RawLog) error
	Close() error
}

type kafkaRawLogProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewRawLogProducer(lc fx.Lifecycle, cfg *config.Config) (RawLogProducer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.RawLogTopic == "" {
		log.Error().Msg("Kafka brokers or raw log topic is not configured.")
		return nil, errors.New("kafka configuration missing")
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.RawLogTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    cfg.Ingest.BatchSize,
		BatchTimeout: cfg.Ingest.MaxBatchWait,
		Async:        true,
	})
	p := &kafkaRawLogProducer{
		writer: writer,
		topic:  cfg.Kafka.RawLogTopic,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing raw log producer")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.RawLogTopic).Msg("Raw log producer initialized")
	return p, nil
}

func (p *kafkaRawLogProducer) Produce(ctx context.Context, payloads []model.RawLog) error {
	if len(payloads) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(payloads))

	for _, payload := range payloads {
		value, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("path", payload.Path).Msg("Failed to marshal raw log payload")
			continue
		}
		// Keyed by path so one file's chunks land on one partition, in order.
		messages = append(messages, kafka.Message{
			Key:   []byte(payload.Path),
			Value: value,
		})
	}
	if len(messages) == 0 {
		log.Warn().Msg("No valid messages to produce.")
		return nil
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Int("message_count", len(messages)).Msg("Failed to write messages to Kafka")
		return err
	}

	log.Debug().Int("message_count", len(messages)).Str("topic", p.topic).Msg("Successfully produced messages to Kafka")
	return nil
}

func (p *kafkaRawLogProducer) Close() error {
	return p.writer.Close()
}

// ResultProducer publishes structured parse results for downstream
// consumers.
type ResultProducer interface {
	Produce(ctx context.Context, key string, result *dto.ParseResponse) error
	Close() error
}

type kafkaResultProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewResultProducer(lc fx.Lifecycle, cfg *config.Config) (ResultProducer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.ResultTopic == "" {
		log.Error().Msg("Kafka brokers or result topic is not configured.")
		return nil, errors.New("kafka configuration missing")
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.ResultTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: cfg.Ingest.MaxBatchWait,
	})
	p := &kafkaResultProducer{
		writer: writer,
		topic:  cfg.Kafka.ResultTopic,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing result producer")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.ResultTopic).Msg("Result producer initialized")
	return p, nil
}

func (p *kafkaResultProducer) Produce(ctx context.Context, key string, result *dto.ParseResponse) error {
	value, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to marshal parse result")
		return err
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to write parse result to Kafka")
		return err
	}

	log.Debug().Str("key", key).Str("topic", p.topic).Int("records", len(result.Lines)).Msg("Produced parse result")
	return nil
}

func (p *kafkaResultProducer) Close() error {
	return p.writer.Close()
}
