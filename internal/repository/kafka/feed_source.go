package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/config"
	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
)

// feedSource читает сырой фид станций из Kafka-топика через consumer group.
// Скраперы пишут в топик либо одиночные записи, либо JSON-массивы.
type feedSource struct {
	reader    *kafkago.Reader
	batchSize int
	batchWait time.Duration
	logger    *zap.Logger
}

// NewFeedSource создает источник фида поверх Kafka consumer group
func NewFeedSource(cfg *config.FeedConfig, logger *zap.Logger) repository.FeedSource {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.KafkaGroupID,
		Topic:    cfg.KafkaTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})

	logger.Info("Kafka feed source ready",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group_id", cfg.KafkaGroupID))

	return &feedSource{
		reader:    reader,
		batchSize: cfg.KafkaBatchSize,
		batchWait: cfg.KafkaBatchWait,
		logger:    logger,
	}
}

// Fetch копит сообщения, пока не наберётся batchSize записей или не истечёт
// окно batchWait. Оффсеты коммитятся только после успешного набора пачки,
// поэтому доставка at-least-once.
func (s *feedSource) Fetch(ctx context.Context) ([]domain.RawStationRecord, error) {
	window, cancel := context.WithTimeout(ctx, s.batchWait)
	defer cancel()

	var (
		records []domain.RawStationRecord
		fetched []kafkago.Message
	)

	for len(fetched) < s.batchSize {
		msg, err := s.reader.FetchMessage(window)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				// Окно набора закрылось, отдаём что успели
				break
			}
			return nil, fmt.Errorf("fetch message: %w", err)
		}

		batch, err := decodeRecords(msg.Value)
		if err != nil {
			// Битое сообщение коммитим вместе с остальными,
			// иначе оно навсегда заблокирует группу
			s.logger.Warn("Skipping malformed feed message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
		} else {
			records = append(records, batch...)
		}
		fetched = append(fetched, msg)
	}

	if len(fetched) > 0 {
		if err := s.reader.CommitMessages(ctx, fetched...); err != nil {
			return nil, fmt.Errorf("commit messages: %w", err)
		}
		s.logger.Debug("Feed batch fetched",
			zap.Int("messages", len(fetched)),
			zap.Int("records", len(records)))
	}

	return records, nil
}

// Name возвращает имя источника
func (s *feedSource) Name() string {
	return "kafka"
}

// Close останавливает consumer и отдаёт партиции группе
func (s *feedSource) Close() error {
	return s.reader.Close()
}

// decodeRecords разбирает значение сообщения: JSON-массив записей
// или одиночный объект
func decodeRecords(value []byte) ([]domain.RawStationRecord, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var batch []domain.RawStationRecord
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("decode record array: %w", err)
		}
		return batch, nil
	}

	var rec domain.RawStationRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return []domain.RawStationRecord{rec}, nil
}
