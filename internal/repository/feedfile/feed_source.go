package feedfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/config"
	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
)

// Подкаталог, куда уходят обработанные файлы
const archiveDir = "processed"

// feedSource читает сырой фид из json-файлов каталога.
// Скраперы кладут выгрузки как <имя>.json, каждый файл - массив записей.
// Обработанный файл переносится в processed/, битый получает суффикс .bad.
type feedSource struct {
	dir     string
	archive string
	logger  *zap.Logger
}

// NewFeedSource создает файловый источник фида
func NewFeedSource(cfg *config.FeedConfig, logger *zap.Logger) (repository.FeedSource, error) {
	archive := filepath.Join(cfg.FileDir, archiveDir)
	if err := os.MkdirAll(archive, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	logger.Info("File feed source ready", zap.String("dir", cfg.FileDir))

	return &feedSource{
		dir:     cfg.FileDir,
		archive: archive,
		logger:  logger,
	}, nil
}

// Fetch обрабатывает один файл за вызов, старейший по имени.
// Скраперы датируют выгрузки в именах, лексикографический порядок
// совпадает с хронологическим.
func (s *feedSource) Fetch(ctx context.Context) ([]domain.RawStationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list feed files: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Strings(matches)
	path := matches[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed file %s: %w", path, err)
	}

	records, err := decodeFile(data)
	if err != nil {
		// Битый файл помечаем и убираем с дороги, иначе Fetch
		// будет спотыкаться об него бесконечно
		s.logger.Warn("Malformed feed file, moving aside",
			zap.String("file", path),
			zap.Error(err))
		if mvErr := os.Rename(path, filepath.Join(s.archive, filepath.Base(path)+".bad")); mvErr != nil {
			return nil, fmt.Errorf("move malformed file %s: %w", path, mvErr)
		}
		return nil, nil
	}

	if err := os.Rename(path, filepath.Join(s.archive, filepath.Base(path))); err != nil {
		return nil, fmt.Errorf("archive feed file %s: %w", path, err)
	}

	s.logger.Debug("Feed file processed",
		zap.String("file", filepath.Base(path)),
		zap.Int("records", len(records)))
	return records, nil
}

// Name возвращает имя источника
func (s *feedSource) Name() string {
	return "file"
}

// Close ничего не освобождает, файловый источник не держит ресурсов
func (s *feedSource) Close() error {
	return nil
}

// decodeFile разбирает файл: массив записей или одиночный объект
func decodeFile(data []byte) ([]domain.RawStationRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []domain.RawStationRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode feed file: %w", err)
		}
		return records, nil
	}

	var rec domain.RawStationRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("decode feed file: %w", err)
	}
	return []domain.RawStationRecord{rec}, nil
}
