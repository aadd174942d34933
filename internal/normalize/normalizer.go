// Package normalize приводит сырые записи фида к канонической схеме.
// Отбраковка отдельных записей никогда не валит пакет целиком: невалидные
// записи складываются в отдельную корзину со счётчиком.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// unavailableSentinel - литерал "нет данных" в фиде скраперов
const unavailableSentinel = "N/A"

// Rejection - отбракованная запись с причиной
type Rejection struct {
	Record domain.RawStationRecord
	Reason string
}

// Result - итог нормализации пакета
type Result struct {
	Valid    []domain.StationRecord
	Rejected []Rejection
}

// RejectedCount возвращает число отбракованных записей
func (r *Result) RejectedCount() int {
	return len(r.Rejected)
}

// Normalizer валидирует и приводит сырые записи к канонической схеме
type Normalizer struct {
	clock   clockwork.Clock
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewNormalizer(clock clockwork.Clock, logger *zap.Logger, m *metrics.Metrics) *Normalizer {
	return &Normalizer{
		clock:   clock,
		logger:  logger,
		metrics: m,
	}
}

// Normalize обрабатывает пакет сырых записей. Порядок валидных записей
// совпадает с порядком входа; синтезированные идентификаторы последовательны
// внутри пакета и не сталкиваются с явными.
func (n *Normalizer) Normalize(raws []domain.RawStationRecord) *Result {
	result := &Result{}
	buildDate := dateOnly(n.clock.Now())

	// Явные идентификаторы пакета: синтезированные не должны с ними совпасть
	taken := make(map[string]struct{}, len(raws))
	for i := range raws {
		if id := strings.TrimSpace(raws[i].ID); id != "" {
			taken[id] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(raws))
	seq := 0

	for i := range raws {
		raw := &raws[i]

		record, reason := n.normalizeOne(raw, buildDate)
		if reason != "" {
			result.Rejected = append(result.Rejected, Rejection{Record: *raw, Reason: reason})
			continue
		}

		if record.ID == "" {
			record.ID = nextSyntheticID(&seq, taken)
		} else if _, dup := seen[record.ID]; dup {
			// Повтор явного идентификатора внутри пакета: оставляем обе
			// станции, поздней выдаём синтезированный идентификатор
			record.ID = nextSyntheticID(&seq, taken)
		}

		seen[record.ID] = struct{}{}
		taken[record.ID] = struct{}{}
		result.Valid = append(result.Valid, record)
	}

	if n.metrics != nil {
		n.metrics.RecordsNormalized.Add(float64(len(result.Valid)))
		n.metrics.RecordsRejected.Add(float64(len(result.Rejected)))
	}
	n.logger.Info("Batch normalized",
		zap.Int("valid", len(result.Valid)),
		zap.Int("rejected", len(result.Rejected)),
	)

	return result
}

func (n *Normalizer) normalizeOne(raw *domain.RawStationRecord, buildDate time.Time) (domain.StationRecord, string) {
	lat, ok := parseCoordinate(raw.Latitude)
	if !ok {
		return domain.StationRecord{}, "unparsable latitude"
	}
	lon, ok := parseCoordinate(raw.Longitude)
	if !ok {
		return domain.StationRecord{}, "unparsable longitude"
	}

	record := domain.StationRecord{
		ID:           strings.TrimSpace(raw.ID),
		Name:         textOrDefault(raw.Name, domain.DefaultStationName),
		Brand:        strings.ToLower(textOrDefault(raw.Brand, domain.DefaultBrand)),
		Address:      strings.TrimSpace(raw.Address),
		Neighborhood: strings.TrimSpace(raw.Neighborhood),
		City:         strings.TrimSpace(raw.City),
		State:        strings.ToUpper(strings.TrimSpace(raw.State)),
		Latitude:     lat,
		Longitude:    lon,
		CollectedAt:  parseCollectedAt(raw.CollectedAt, buildDate),
		Source:       textOrDefault(raw.Source, domain.DefaultSource),
	}

	if !record.HasValidCoordinates() {
		if lat == 0 && lon == 0 {
			return domain.StationRecord{}, "zero coordinate pair"
		}
		return domain.StationRecord{}, "coordinates out of range"
	}

	for _, fuel := range domain.FuelTypes() {
		record.SetPrice(fuel, parsePrice(raw.RawPrice(fuel)))
	}

	return record, ""
}

// parseCoordinate разбирает координату, допуская запятую как десятичный
// разделитель
func parseCoordinate(v domain.FlexString) (float64, bool) {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parsePrice разбирает цену: пустое значение, сентинел и неположительные
// числа означают "нет данных", не ноль и не ошибку
func parsePrice(v domain.FlexString) *float64 {
	s := strings.TrimSpace(v.String())
	if s == "" || strings.EqualFold(s, unavailableSentinel) {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return nil
	}
	return &f
}

// parseCollectedAt пробует известные форматы даты; при неудаче подставляет
// дату сборки
func parseCollectedAt(s string, buildDate time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return buildDate
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return buildDate
}

func textOrDefault(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nextSyntheticID(seq *int, taken map[string]struct{}) string {
	for {
		*seq++
		id := fmt.Sprintf("station_%d", *seq)
		if _, exists := taken[id]; !exists {
			return id
		}
	}
}
