package snapshot

import (
	"sort"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/index"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Builder собирает снапшот за один проход по записям: карты поиска,
// агрегаты для метаданных и все три пространственных индекса
type Builder struct {
	cellSize float64
	clock    clockwork.Clock
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewBuilder создаёт билдер. cellSize <= 0 заменяется умолчанием
// сеточного индекса.
func NewBuilder(cellSize float64, clock clockwork.Clock, logger *zap.Logger, m *metrics.Metrics) *Builder {
	if cellSize <= 0 {
		cellSize = index.DefaultCellSize
	}
	return &Builder{
		cellSize: cellSize,
		clock:    clock,
		logger:   logger,
		metrics:  m,
	}
}

// Build собирает снапшот новой генерации из готовых записей.
// Пустой вход даёт валидный пустой снапшот, а не ошибку.
func (b *Builder) Build(records []domain.StationRecord) *Snapshot {
	meta := domain.SnapshotMeta{
		Generation: uuid.New().String(),
		BuiltAt:    b.clock.Now().UTC(),
	}
	return b.assemble(records, meta)
}

// Restore пересобирает снапшот из персистентной формы, сохраняя
// генерацию и время сборки. Индексы строятся заново детерминированно.
func (b *Builder) Restore(data *domain.SnapshotData) *Snapshot {
	return b.assemble(data.Records, data.Meta)
}

func (b *Builder) assemble(records []domain.StationRecord, meta domain.SnapshotMeta) *Snapshot {
	start := b.clock.Now()

	// Записи копируются: источник может переиспользовать свой срез
	owned := make([]domain.StationRecord, len(records))
	copy(owned, records)

	byID := make(map[string]int, len(owned))
	byState := make(map[string][]int)
	byCity := make(map[string]map[string][]int)
	byBrand := make(map[string][]int)

	for i := range owned {
		r := &owned[i]
		byID[r.ID] = i

		// Пустые значения не индексируются: фильтры ищут только
		// по заполненным атрибутам
		if r.State != "" {
			byState[r.State] = append(byState[r.State], i)
			if r.City != "" {
				cities := byCity[r.State]
				if cities == nil {
					cities = make(map[string][]int)
					byCity[r.State] = cities
				}
				cities[r.City] = append(cities[r.City], i)
			}
		}
		if r.Brand != "" {
			byBrand[r.Brand] = append(byBrand[r.Brand], i)
		}
	}

	totalCities := 0
	cityCounts := make(map[string][]GroupCount, len(byCity))
	for state, cities := range byCity {
		totalCities += len(cities)
		cityCounts[state] = groupCounts(cities)
	}
	// У штата без городов всё равно должен быть пустой, но известный список
	for state := range byState {
		if _, ok := cityCounts[state]; !ok {
			cityCounts[state] = []GroupCount{}
		}
	}

	meta.TotalCount = len(owned)
	meta.TotalStates = len(byState)
	meta.TotalCities = totalCities
	meta.TotalBrands = len(byBrand)

	snap := &Snapshot{
		meta:        meta,
		records:     owned,
		byID:        byID,
		byState:     byState,
		byCity:      byCity,
		byBrand:     byBrand,
		grid:        index.NewGridIndex(owned, b.cellSize),
		bbox:        index.NewBBoxIndex(owned),
		coords:      index.NewCoordinateIndex(owned),
		stateCounts: groupCounts(byState),
		cityCounts:  cityCounts,
		brandCounts: groupCounts(byBrand),
	}

	elapsed := b.clock.Since(start)
	if b.metrics != nil {
		b.metrics.SnapshotBuildDuration.Observe(elapsed.Seconds())
	}
	b.logger.Info("Snapshot assembled",
		zap.String("generation", meta.Generation),
		zap.Int("stations", meta.TotalCount),
		zap.Int("states", meta.TotalStates),
		zap.Int("cities", meta.TotalCities),
		zap.Int("brands", meta.TotalBrands),
		zap.Duration("elapsed", elapsed),
	)

	return snap
}

func groupCounts(groups map[string][]int) []GroupCount {
	out := make([]GroupCount, 0, len(groups))
	for name, members := range groups {
		out = append(out, GroupCount{Name: name, Count: len(members)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
