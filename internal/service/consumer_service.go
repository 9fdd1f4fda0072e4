package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"

	"logsieve/internal/dto"
	"logsieve/internal/kafka"
)

// ConsumerService drains the raw log topic: each message is one unit of
// collected content, parsed through the pipeline and republished as a
// structured result. Offsets are committed only after the result is safely
// on the result topic, so a crash reprocesses rather than loses.
type ConsumerService interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
}

type consumerService struct {
	consumer     kafka.RawLogConsumer
	producer     kafka.ResultProducer
	parseService ParseService
}

func NewConsumerService(
	consumer kafka.RawLogConsumer,
	producer kafka.ResultProducer,
	parseService ParseService,
) ConsumerService {
	return &consumerService{
		consumer:     consumer,
		producer:     producer,
		parseService: parseService,
	}
}

func (s *consumerService) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Info().Msg("Starting consumer service loop...")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Consumer service loop stopping due to context cancellation.")
			return
		default:
		}

		if err := s.processNext(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info().Msg("Context cancelled during message processing.")
				return
			}
			log.Error().Err(err).Msg("Error processing raw log message")
			time.Sleep(1 * time.Second)
		}
	}
}

func (s *consumerService) processNext(ctx context.Context) error {
	rawLog, msg, err := s.consumer.FetchMessage(ctx)
	if err != nil {
		if rawLog == nil && msg.Topic != "" {
			// Undecodable payload: commit it away, reprocessing cannot fix it.
			log.Warn().Int64("offset", msg.Offset).Msg("Committing message with unmarshal error.")
			return s.consumer.CommitMessages(ctx, msg)
		}
		return fmt.Errorf("failed to fetch kafka message: %w", err)
	}

	result, err := s.parseService.Parse(ctx, dto.ParseRequest{
		Content:  rawLog.Content,
		FilePath: rawLog.Path,
	})
	if err != nil {
		// A selection failure is content-determined; retrying the same bytes
		// cannot succeed, so commit and move on.
		log.Error().Err(err).Str("path", rawLog.Path).Msg("Failed to parse raw log, skipping message")
		return s.consumer.CommitMessages(ctx, msg)
	}

	publish := func() error {
		return s.producer.Produce(ctx, rawLog.Path, result)
	}
	publishBackoff := backoff.NewExponentialBackOff()
	publishBackoff.InitialInterval = 1 * time.Second
	publishBackoff.MaxInterval = 15 * time.Second
	publishBackoff.MaxElapsedTime = 60 * time.Second

	if err := backoff.Retry(publish, backoff.WithContext(publishBackoff, ctx)); err != nil {
		log.Error().Err(err).Str("path", rawLog.Path).Msg("Failed to publish parse result after retries")
		// Not committed: the message will be reprocessed.
		return fmt.Errorf("failed publishing parse result: %w", err)
	}

	return s.consumer.CommitMessages(ctx, msg)
}
