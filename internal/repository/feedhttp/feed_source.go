package feedhttp

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/config"
	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
)

// Пауза между повторами, растёт линейно с номером попытки
const retryBackoff = 500 * time.Millisecond

// feedSource периодически вытягивает фид по HTTP.
// Агрегаторы отдают полный срез одним JSON-массивом, поэтому неизменившееся
// тело ответа не считается новой порцией данных.
type feedSource struct {
	httpClient *http.Client
	url        string
	retries    int
	logger     *zap.Logger

	// Хеш последнего обработанного тела. Fetch вызывается из одной
	// горутины воркера, синхронизация не нужна.
	lastHash [sha256.Size]byte
	seen     bool
}

// NewFeedSource создает HTTP-источник фида
func NewFeedSource(cfg *config.FeedConfig, logger *zap.Logger) repository.FeedSource {
	logger.Info("HTTP feed source ready",
		zap.String("url", cfg.HTTPURL),
		zap.Duration("timeout", cfg.HTTPTimeout),
		zap.Int("retries", cfg.HTTPRetries))

	return &feedSource{
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		url:     cfg.HTTPURL,
		retries: cfg.HTTPRetries,
		logger:  logger,
	}
}

// Fetch выполняет GET с повторами. Пустой срез без ошибки означает,
// что фид не изменился с прошлого опроса.
func (s *feedSource) Fetch(ctx context.Context) ([]domain.RawStationRecord, error) {
	var lastErr error

	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}

		records, err := s.pull(ctx)
		if err == nil {
			return records, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		s.logger.Warn("Feed pull failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return nil, fmt.Errorf("fetch feed after %d attempts: %w", s.retries+1, lastErr)
}

// pull делает один запрос и разбирает ответ
func (s *feedSource) pull(ctx context.Context) ([]domain.RawStationRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	hash := sha256.Sum256(body)
	if s.seen && hash == s.lastHash {
		s.logger.Debug("Feed unchanged since last poll")
		return nil, nil
	}

	records, err := decodeBody(body)
	if err != nil {
		return nil, err
	}

	s.lastHash = hash
	s.seen = true

	s.logger.Debug("Feed pulled", zap.Int("records", len(records)))
	return records, nil
}

// Name возвращает имя источника
func (s *feedSource) Name() string {
	return "http"
}

// Close сбрасывает keep-alive соединения клиента
func (s *feedSource) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

// decodeBody разбирает тело ответа: массив записей или одиночный объект
func decodeBody(body []byte) ([]domain.RawStationRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []domain.RawStationRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode feed response: %w", err)
		}
		return records, nil
	}

	var rec domain.RawStationRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	return []domain.RawStationRecord{rec}, nil
}
