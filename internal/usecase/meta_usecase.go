package usecase

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
	apperrors "github.com/fuelstation-microservice/internal/pkg/errors"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"github.com/fuelstation-microservice/internal/snapshot"
	"github.com/fuelstation-microservice/internal/usecase/dto"
)

// MetaUseCase отдаёт метаданные активного снапшота: сводку, справочники
// штатов, городов и брендов, карточки станций и агрегаты цен
type MetaUseCase struct {
	snapshots *snapshot.Manager
	cache     repository.QueryCache
	logger    *zap.Logger
	metrics   *metrics.Metrics
	strategy  string
	cacheTTL  time.Duration
}

// NewMetaUseCase - создание нового MetaUseCase
func NewMetaUseCase(
	snapshots *snapshot.Manager,
	cache repository.QueryCache,
	logger *zap.Logger,
	m *metrics.Metrics,
	strategy string,
	cacheTTL time.Duration,
) *MetaUseCase {
	return &MetaUseCase{
		snapshots: snapshots,
		cache:     cache,
		logger:    logger,
		metrics:   m,
		strategy:  strategy,
		cacheTTL:  cacheTTL,
	}
}

// Status возвращает сводку по активному снапшоту
func (uc *MetaUseCase) Status(ctx context.Context) (*dto.StatusResponse, error) {
	start := time.Now()

	snap, err := uc.snapshots.Current()
	if err != nil {
		observeQuery(uc.metrics, "meta", start, err)
		return nil, err
	}

	meta := snap.Meta()
	observeQuery(uc.metrics, "meta", start, nil)
	return &dto.StatusResponse{
		Status:        "ok",
		Generation:    meta.Generation,
		BuiltAt:       meta.BuiltAt,
		TotalStations: meta.TotalCount,
		TotalStates:   meta.TotalStates,
		TotalCities:   meta.TotalCities,
		TotalBrands:   meta.TotalBrands,
		IndexStrategy: snap.Index(uc.strategy).Name(),
	}, nil
}

// States возвращает штаты снапшота с числом станций
func (uc *MetaUseCase) States(ctx context.Context) ([]dto.StateCount, error) {
	start := time.Now()

	snap, err := uc.snapshots.Current()
	if err != nil {
		observeQuery(uc.metrics, "meta", start, err)
		return nil, err
	}

	counts := snap.StateCounts()
	out := make([]dto.StateCount, 0, len(counts))
	for _, gc := range counts {
		out = append(out, dto.StateCount{State: gc.Name, Stations: gc.Count})
	}

	observeQuery(uc.metrics, "meta", start, nil)
	return out, nil
}

// Cities возвращает города штата с числом станций.
// Неизвестный штат - 404, а не пустой список.
func (uc *MetaUseCase) Cities(ctx context.Context, state string) ([]dto.CityCount, error) {
	start := time.Now()

	state = strings.ToUpper(strings.TrimSpace(state))

	snap, err := uc.snapshots.Current()
	if err != nil {
		observeQuery(uc.metrics, "meta", start, err)
		return nil, err
	}

	counts, ok := snap.CityCounts(state)
	if !ok {
		err := apperrors.ErrStateNotFound.WithDetails(map[string]interface{}{"state": state})
		observeQuery(uc.metrics, "meta", start, err)
		return nil, err
	}

	out := make([]dto.CityCount, 0, len(counts))
	for _, gc := range counts {
		out = append(out, dto.CityCount{City: gc.Name, Stations: gc.Count})
	}

	observeQuery(uc.metrics, "meta", start, nil)
	return out, nil
}

// Brands возвращает бренды снапшота с числом станций
func (uc *MetaUseCase) Brands(ctx context.Context) ([]dto.BrandCount, error) {
	start := time.Now()

	snap, err := uc.snapshots.Current()
	if err != nil {
		observeQuery(uc.metrics, "meta", start, err)
		return nil, err
	}

	counts := snap.BrandCounts()
	out := make([]dto.BrandCount, 0, len(counts))
	for _, gc := range counts {
		out = append(out, dto.BrandCount{Brand: gc.Name, Stations: gc.Count})
	}

	observeQuery(uc.metrics, "meta", start, nil)
	return out, nil
}

// StationByID возвращает карточку станции по идентификатору
func (uc *MetaUseCase) StationByID(ctx context.Context, id string) (*dto.StationResult, error) {
	start := time.Now()

	snap, err := uc.snapshots.Current()
	if err != nil {
		observeQuery(uc.metrics, "meta", start, err)
		return nil, err
	}

	rec, ok := snap.RecordByID(strings.TrimSpace(id))
	if !ok {
		err := apperrors.ErrStationNotFound.WithDetails(map[string]interface{}{"id": id})
		observeQuery(uc.metrics, "meta", start, err)
		return nil, err
	}

	res := dto.ConvertStation(rec)
	observeQuery(uc.metrics, "meta", start, nil)
	return &res, nil
}

// Stats возвращает агрегаты по снапшоту: распределение по штатам и
// брендам плюс ценовые сводки по каждому топливу. Единственный O(n)
// мета-запрос, поэтому ответ кешируется на генерацию.
func (uc *MetaUseCase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	start := time.Now()

	snap, err := uc.snapshots.Current()
	if err != nil {
		observeQuery(uc.metrics, "meta", start, err)
		return nil, err
	}

	key := "meta:stats:" + snap.Meta().Generation
	if cached, ok := cacheFetch(ctx, uc.cache, uc.metrics, uc.logger, key); ok {
		var resp dto.StatsResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			observeQuery(uc.metrics, "meta", start, nil)
			return &resp, nil
		}
	}

	resp := buildStats(snap)

	cacheStore(ctx, uc.cache, uc.logger, key, resp, uc.cacheTTL)
	observeQuery(uc.metrics, "meta", start, nil)
	return resp, nil
}

func buildStats(snap *snapshot.Snapshot) *dto.StatsResponse {
	meta := snap.Meta()
	resp := &dto.StatsResponse{
		Generation:    meta.Generation,
		BuiltAt:       meta.BuiltAt,
		TotalStations: meta.TotalCount,
		States:        make([]dto.StateCount, 0, meta.TotalStates),
		Brands:        make([]dto.BrandCount, 0, meta.TotalBrands),
		Fuels:         make(map[string]dto.FuelStats, len(domain.FuelTypes())),
	}

	for _, gc := range snap.StateCounts() {
		resp.States = append(resp.States, dto.StateCount{State: gc.Name, Stations: gc.Count})
	}
	for _, gc := range snap.BrandCounts() {
		resp.Brands = append(resp.Brands, dto.BrandCount{Brand: gc.Name, Stations: gc.Count})
	}

	type priceAgg struct {
		count    int
		min, max float64
		sum      float64
	}
	aggs := make(map[domain.FuelType]*priceAgg, len(domain.FuelTypes()))
	for _, fuel := range domain.FuelTypes() {
		aggs[fuel] = &priceAgg{min: math.MaxFloat64}
	}

	for _, rec := range snap.Records() {
		for _, fuel := range domain.FuelTypes() {
			p := rec.Price(fuel)
			if p == nil {
				continue
			}
			a := aggs[fuel]
			a.count++
			a.sum += *p
			if *p < a.min {
				a.min = *p
			}
			if *p > a.max {
				a.max = *p
			}
		}
	}

	for _, fuel := range domain.FuelTypes() {
		a := aggs[fuel]
		stats := dto.FuelStats{Available: a.count}
		if a.count > 0 {
			stats.MinPrice = a.min
			stats.MaxPrice = a.max
			// Средняя цена до сентаво
			stats.AvgPrice = math.Round(a.sum/float64(a.count)*100) / 100
		}
		resp.Fuels[string(fuel)] = stats
	}

	return resp
}
