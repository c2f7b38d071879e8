package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"revulink/background-worker-service/internal/app/worker/entity"
	"revulink/background-worker-service/internal/app/worker/service"
	"revulink/pkg/logger"
	"revulink/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// errMalformedEvent помечает сообщение, которое невозможно разобрать
// Такие сообщения коммитятся и пропускаются, чтобы не блокировать партицию
var errMalformedEvent = errors.New("malformed rating event")

// KafkaConsumer читает события оценок из Kafka и передает их в CounterService
type KafkaConsumer struct {
	reader     *kafka.Reader
	counterSvc service.CounterServiceInterface
	topic      string
	groupID    string
	stopChan   chan struct{}
	doneChan   chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer для событий оценок
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	counterSvc service.CounterServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:     reader,
		counterSvc: counterSvc,
		topic:      topic,
		groupID:    groupID,
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}
}

// Start запускает цикл чтения сообщений в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().
		Str("topic", c.topic).
		Str("group_id", c.groupID).
		Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer и дожидается завершения цикла чтения
func (c *KafkaConsumer) Stop() error {
	close(c.stopChan)
	<-c.doneChan

	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("failed to close kafka reader: %w", err)
	}

	logger.Info().Msg("Kafka consumer stopped")
	return nil
}

// consume читает сообщения до остановки
// Сообщение коммитится после успешной обработки; ошибки обработки
// оставляют offset на месте и сообщение будет перечитано
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		message, err := c.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error().Err(err).Msg("Failed to fetch message from Kafka")
			metrics.RecordKafkaError("background-worker", c.topic, "fetch")
			time.Sleep(1 * time.Second)
			continue
		}

		if err := c.processMessage(ctx, message); err != nil {
			if !errors.Is(err, errMalformedEvent) {
				logger.Error().
					Err(err).
					Int64("offset", message.Offset).
					Msg("Failed to process message, will retry")
				continue
			}
			logger.Warn().
				Err(err).
				Int64("offset", message.Offset).
				Msg("Skipping malformed message")
		}

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			logger.Error().Err(err).Msg("Failed to commit message")
			metrics.RecordKafkaError("background-worker", c.topic, "commit")
		}
	}
}

// processMessage разбирает событие и передает его в сервис счётчиков
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.RatingEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("%w: failed to unmarshal: %v", errMalformedEvent, err)
	}

	if err := c.counterSvc.ProcessRatingEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to process rating event: %w", err)
	}

	metrics.RecordKafkaMessageConsumed("background-worker", c.topic, c.groupID)
	return nil
}
