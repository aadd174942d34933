// Package dedup сливает почти-дубликаты записей из независимых источников.
// Сравнение идёт только внутри ячейки сетки: станции у границы ячеек,
// близкие по реальному расстоянию, но попавшие в разные ячейки, НЕ сливаются.
// Это осознанный компромисс ради амортизированного O(n), а не ошибка.
package dedup

import (
	"math"
	"sort"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"go.uber.org/zap"
)

// Умолчания группировки
const (
	DefaultCellSize  = 0.1
	DefaultThreshold = 0.05
)

// Config - параметры группировки почти-дубликатов
type Config struct {
	// CellSize - размер ячейки разбиения в градусах
	CellSize float64
	// Threshold - максимальная дельта по каждой оси в градусах.
	// Намеренно покоординатная проверка, не хаверсин: дешевле на порядок.
	Threshold float64
}

func (c *Config) applyDefaults() {
	if c.CellSize <= 0 {
		c.CellSize = DefaultCellSize
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
}

// Stats - итог прохода дедупликации
type Stats struct {
	InputCount   int
	OutputCount  int
	MergedGroups int
}

// Deduplicator группирует близкие записи и сливает их в канонические
type Deduplicator struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewDeduplicator(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Deduplicator {
	cfg.applyDefaults()
	return &Deduplicator{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// Deduplicate сливает почти-дубликаты. Порядок выхода детерминирован:
// каждая группа встаёт на позицию самого раннего из своих членов.
func (d *Deduplicator) Deduplicate(records []domain.StationRecord) ([]domain.StationRecord, Stats) {
	stats := Stats{InputCount: len(records)}
	if len(records) == 0 {
		return nil, stats
	}

	// Разбиение по ячейкам: в ячейке храним индексы исходного среза
	cells := make(map[domain.CellKey][]int)
	for i := range records {
		key := domain.CellKeyFor(records[i].Latitude, records[i].Longitude, d.cfg.CellSize)
		cells[key] = append(cells[key], i)
	}

	type anchored struct {
		anchor int
		record domain.StationRecord
	}
	out := make([]anchored, 0, len(records))

	for _, cell := range cells {
		if len(cell) == 1 {
			// Единственная запись в ячейке проходит без изменений
			out = append(out, anchored{anchor: cell[0], record: records[cell[0]]})
			continue
		}

		processed := make(map[int]bool, len(cell))
		for _, seed := range cell {
			if processed[seed] {
				continue
			}

			group := d.collectGroup(records, cell, seed, processed)
			if len(group) == 1 {
				out = append(out, anchored{anchor: group[0], record: records[group[0]]})
				continue
			}

			merged := d.merge(records, group)
			out = append(out, anchored{anchor: group[0], record: merged})
			stats.MergedGroups++
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].anchor < out[j].anchor })

	result := make([]domain.StationRecord, len(out))
	for i := range out {
		result[i] = out[i].record
	}
	stats.OutputCount = len(result)

	if d.metrics != nil {
		d.metrics.DedupGroupsMerged.Add(float64(stats.MergedGroups))
	}
	d.logger.Info("Deduplication pass finished",
		zap.Int("input", stats.InputCount),
		zap.Int("output", stats.OutputCount),
		zap.Int("merged_groups", stats.MergedGroups),
	)

	return result, stats
}

// collectGroup собирает транзитивное замыкание похожести внутри ячейки
// обходом в ширину от затравочной записи
func (d *Deduplicator) collectGroup(records []domain.StationRecord, cell []int, seed int, processed map[int]bool) []int {
	group := []int{seed}
	processed[seed] = true

	for cursor := 0; cursor < len(group); cursor++ {
		current := group[cursor]
		for _, candidate := range cell {
			if processed[candidate] {
				continue
			}
			if d.similar(&records[current], &records[candidate]) {
				processed[candidate] = true
				group = append(group, candidate)
			}
		}
	}

	sort.Ints(group)
	return group
}

// similar - покоординатная близость: обе дельты не больше порога
func (d *Deduplicator) similar(a, b *domain.StationRecord) bool {
	return math.Abs(a.Latitude-b.Latitude) <= d.cfg.Threshold &&
		math.Abs(a.Longitude-b.Longitude) <= d.cfg.Threshold
}

// merge сливает группу: базой становится самая свежая запись, недостающие
// цены добираются от более старых в порядке убывания свежести, источники
// объединяются в merged_sources
func (d *Deduplicator) merge(records []domain.StationRecord, group []int) domain.StationRecord {
	members := make([]domain.StationRecord, len(group))
	for i, idx := range group {
		members[i] = records[idx]
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].CollectedAt.After(members[j].CollectedAt)
	})

	merged := members[0]

	for _, fuel := range domain.FuelTypes() {
		chosen := merged.Price(fuel)
		if chosen == nil {
			for _, older := range members[1:] {
				if p := older.Price(fuel); p != nil {
					chosen = p
					break
				}
			}
		}
		if chosen != nil {
			v := *chosen
			merged.SetPrice(fuel, &v)
		}
	}

	merged.MergedSources = unionSources(members)
	return merged
}

func unionSources(members []domain.StationRecord) []string {
	set := make(map[string]struct{})
	for i := range members {
		if members[i].Source != "" {
			set[members[i].Source] = struct{}{}
		}
		for _, s := range members[i].MergedSources {
			if s != "" {
				set[s] = struct{}{}
			}
		}
	}

	union := make([]string, 0, len(set))
	for s := range set {
		union = append(union, s)
	}
	sort.Strings(union)
	return union
}
