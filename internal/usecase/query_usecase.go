package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
	apperrors "github.com/fuelstation-microservice/internal/pkg/errors"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"github.com/fuelstation-microservice/internal/pkg/utils"
	"github.com/fuelstation-microservice/internal/snapshot"
	"github.com/fuelstation-microservice/internal/usecase/dto"
)

// Клампы и умолчания параметров запросов
const (
	MaxRadiusKm     = 50.0
	DefaultRadiusKm = 10.0

	DefaultNearbyLimit = 20
	MaxNearbyLimit     = 100

	DefaultFilterLimit = 50
	MaxFilterLimit     = 500

	DefaultSearchLimit = 20
	MaxSearchLimit     = 100

	DefaultBatchLimit = 10
	MaxBatchLimit     = 50

	// Потолок одновременных задач пакетного запроса
	maxBatchConcurrency = 10
)

// Сентинель сортировки по цене: больше любой реальной цены,
// станции без цены уходят в конец
const priceSentinel = math.MaxFloat64

// QueryUseCase - движок запросов чтения поверх активного снапшота.
// Состояния не держит: каждый запрос - чистая функция от пары
// (снапшот, параметры).
type QueryUseCase struct {
	snapshots *snapshot.Manager
	cache     repository.QueryCache
	logger    *zap.Logger
	metrics   *metrics.Metrics
	strategy  string
	cacheTTL  time.Duration
}

// NewQueryUseCase - создание нового QueryUseCase.
// cache может быть nil, тогда ответы не кешируются.
func NewQueryUseCase(
	snapshots *snapshot.Manager,
	cache repository.QueryCache,
	logger *zap.Logger,
	m *metrics.Metrics,
	strategy string,
	cacheTTL time.Duration,
) *QueryUseCase {
	return &QueryUseCase{
		snapshots: snapshots,
		cache:     cache,
		logger:    logger,
		metrics:   m,
		strategy:  strategy,
		cacheTTL:  cacheTTL,
	}
}

// Nearby возвращает станции в радиусе от точки, ближние первыми
func (uc *QueryUseCase) Nearby(ctx context.Context, req dto.NearbyRequest) (*dto.NearbyResponse, error) {
	start := time.Now()

	if err := validatePoint(req.Lat, req.Lon); err != nil {
		observeQuery(uc.metrics, "nearby", start, err)
		return nil, err
	}

	req.RadiusKm = clampRadius(req.RadiusKm)
	req.Limit = clampLimit(req.Limit, DefaultNearbyLimit, MaxNearbyLimit)

	snap, err := uc.snapshots.Current()
	if err != nil {
		observeQuery(uc.metrics, "nearby", start, err)
		return nil, err
	}

	stations := uc.radiusSearch(snap, req.Lat, req.Lon, req.RadiusKm, req.Limit)

	observeQuery(uc.metrics, "nearby", start, nil)
	return &dto.NearbyResponse{
		Stations: stations,
		Params: dto.NearbyParams{
			Lat:      req.Lat,
			Lon:      req.Lon,
			RadiusKm: req.RadiusKm,
			Limit:    req.Limit,
		},
	}, nil
}

// Filter возвращает станции, прошедшие все заданные атрибутные фильтры
func (uc *QueryUseCase) Filter(ctx context.Context, req dto.FilterRequest) (*dto.FilterResponse, error) {
	start := time.Now()

	// Фильтры приводятся к каноническим формам нормализатора
	req.State = strings.ToUpper(strings.TrimSpace(req.State))
	req.City = strings.TrimSpace(req.City)
	req.Brand = strings.ToLower(strings.TrimSpace(req.Brand))
	req.SortBy = strings.TrimSpace(req.SortBy)
	req.Limit = clampLimit(req.Limit, DefaultFilterLimit, MaxFilterLimit)

	if req.SortBy != "" && !validSortField(req.SortBy) {
		err := apperrors.ErrInvalidSortField.WithField("sort_by",
			"must be one of price_gasoline, price_ethanol, price_diesel, price_cng")
		observeQuery(uc.metrics, "filter", start, err)
		return nil, err
	}

	snap, err := uc.snapshots.Current()
	if err != nil {
		observeQuery(uc.metrics, "filter", start, err)
		return nil, err
	}

	params := dto.FilterParams{
		State:            req.State,
		City:             req.City,
		Brand:            req.Brand,
		MaxPriceGasoline: req.MaxPriceGasoline,
		MaxPriceEthanol:  req.MaxPriceEthanol,
		MaxPriceDiesel:   req.MaxPriceDiesel,
		MaxPriceCNG:      req.MaxPriceCNG,
		SortBy:           req.SortBy,
		Limit:            req.Limit,
	}

	key := filterCacheKey(snap.Meta().Generation, req)
	if cached, ok := cacheFetch(ctx, uc.cache, uc.metrics, uc.logger, key); ok {
		var stations []dto.StationResult
		if err := json.Unmarshal(cached, &stations); err == nil {
			observeQuery(uc.metrics, "filter", start, nil)
			return &dto.FilterResponse{Stations: stations, Params: params}, nil
		}
	}

	stations := filterSnapshot(snap, req)

	cacheStore(ctx, uc.cache, uc.logger, key, stations, uc.cacheTTL)
	observeQuery(uc.metrics, "filter", start, nil)
	return &dto.FilterResponse{Stations: stations, Params: params}, nil
}

// Search возвращает станции с подстрокой запроса в названии, адресе,
// квартале или городе, в порядке снапшота
func (uc *QueryUseCase) Search(ctx context.Context, req dto.TextSearchRequest) (*dto.TextSearchResponse, error) {
	start := time.Now()

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		err := apperrors.ErrMissingSearchQuery
		observeQuery(uc.metrics, "search", start, err)
		return nil, err
	}
	req.Limit = clampLimit(req.Limit, DefaultSearchLimit, MaxSearchLimit)

	snap, err := uc.snapshots.Current()
	if err != nil {
		observeQuery(uc.metrics, "search", start, err)
		return nil, err
	}

	params := dto.TextSearchParams{Query: req.Query, Limit: req.Limit}
	q := strings.ToLower(req.Query)

	key := fmt.Sprintf("query:search:%s:%s|%d", snap.Meta().Generation, q, req.Limit)
	if cached, ok := cacheFetch(ctx, uc.cache, uc.metrics, uc.logger, key); ok {
		var stations []dto.StationResult
		if err := json.Unmarshal(cached, &stations); err == nil {
			observeQuery(uc.metrics, "search", start, nil)
			return &dto.TextSearchResponse{Stations: stations, Params: params}, nil
		}
	}

	// Ранний выход по лимиту: полный проход - худший случай, не норма
	stations := make([]dto.StationResult, 0, req.Limit)
	for _, rec := range snap.Records() {
		if !matchesText(rec, q) {
			continue
		}
		stations = append(stations, dto.ConvertStation(rec))
		if len(stations) == req.Limit {
			break
		}
	}

	cacheStore(ctx, uc.cache, uc.logger, key, stations, uc.cacheTTL)
	observeQuery(uc.metrics, "search", start, nil)
	return &dto.TextSearchResponse{Stations: stations, Params: params}, nil
}

// BatchNearby выполняет независимый радиусный запрос для каждой точки.
// Результаты ключуются индексом входной точки; плохая точка даёт пустой
// результат только на свой индекс и никогда не валит пакет.
func (uc *QueryUseCase) BatchNearby(ctx context.Context, req dto.BatchNearbyRequest) (*dto.BatchNearbyResponse, error) {
	start := time.Now()

	if len(req.Points) == 0 {
		err := apperrors.ErrInvalidRequest.WithField("points", "at least one point is required")
		observeQuery(uc.metrics, "batch", start, err)
		return nil, err
	}

	radiusKm := req.RadiusKm
	if radiusKm == 0 {
		radiusKm = DefaultRadiusKm
	}
	radiusKm = clampRadius(radiusKm)
	limit := clampLimit(req.Limit, DefaultBatchLimit, MaxBatchLimit)

	// Снапшот берётся один раз: все точки пакета видят одну генерацию
	snap, err := uc.snapshots.Current()
	if err != nil {
		observeQuery(uc.metrics, "batch", start, err)
		return nil, err
	}

	type indexedResult struct {
		index    int
		stations []dto.StationResult
	}

	resultsChan := make(chan indexedResult, len(req.Points))
	sem := make(chan struct{}, batchConcurrency(len(req.Points)))

	for i, point := range req.Points {
		go func(idx int, pt dto.Point) {
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := validatePoint(pt.Lat, pt.Lon); err != nil {
				uc.logger.Warn("Skipping invalid point in batch query",
					zap.Int("point_index", idx),
					zap.Float64("lat", pt.Lat),
					zap.Float64("lon", pt.Lon))
				resultsChan <- indexedResult{index: idx, stations: []dto.StationResult{}}
				return
			}

			resultsChan <- indexedResult{
				index:    idx,
				stations: uc.radiusSearch(snap, pt.Lat, pt.Lon, radiusKm, limit),
			}
		}(i, point)
	}

	// Сбор по индексу входа, не по порядку завершения
	results := make(map[int][]dto.StationResult, len(req.Points))
	for range req.Points {
		res := <-resultsChan
		results[res.index] = res.stations
	}
	close(resultsChan)

	observeQuery(uc.metrics, "batch", start, nil)
	return &dto.BatchNearbyResponse{
		Results:     results,
		TotalPoints: len(req.Points),
		Params: dto.BatchNearbyParams{
			Points:   len(req.Points),
			RadiusKm: radiusKm,
			Limit:    limit,
		},
	}, nil
}

// radiusSearch - ядро радиусного запроса: рамка-кандидат через настроенную
// стратегию индекса, точный хаверсин-фильтр, сортировка, срез лимита.
// Рамка - прямоугольное приближение круга, лишние кандидаты внутри рамки
// отсеиваются точным расстоянием.
func (uc *QueryUseCase) radiusSearch(snap *snapshot.Snapshot, lat, lon, radiusKm float64, limit int) []dto.StationResult {
	latDelta, lonDelta := utils.RadiusDegreeDeltas(lat, radiusKm)
	box := domain.BoundingBox{
		MinLat: lat - latDelta,
		MinLon: lon - lonDelta,
		MaxLat: lat + latDelta,
		MaxLon: lon + lonDelta,
	}

	ids := snap.Index(uc.strategy).SearchBox(box)

	matches := make([]domain.StationWithDistance, 0, len(ids))
	for _, id := range ids {
		rec, ok := snap.RecordByID(id)
		if !ok {
			continue
		}
		d := utils.HaversineDistance(lat, lon, rec.Latitude, rec.Longitude)
		if d <= radiusKm {
			matches = append(matches, domain.StationWithDistance{StationRecord: rec, DistanceKm: d})
		}
	}

	// Порядок кандидатов из индекса недетерминирован, равные расстояния
	// упорядочиваются по id
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].ID < matches[j].ID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]dto.StationResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, dto.ConvertStationWithDistance(m.StationRecord, m.DistanceKm))
	}
	return results
}

func filterSnapshot(snap *snapshot.Snapshot, req dto.FilterRequest) []dto.StationResult {
	matched := make([]domain.StationRecord, 0)
	for _, rec := range filterCandidates(snap, req) {
		if !matchesFilters(rec, req) {
			continue
		}
		matched = append(matched, rec)
	}

	if req.SortBy != "" {
		fuel := strings.TrimPrefix(req.SortBy, "price_")
		// Кандидаты идут в порядке снапшота, stable сохраняет его
		// при равных ценах
		sort.SliceStable(matched, func(i, j int) bool {
			return sortPrice(matched[i], fuel) < sortPrice(matched[j], fuel)
		})
	}

	if len(matched) > req.Limit {
		matched = matched[:req.Limit]
	}

	results := make([]dto.StationResult, 0, len(matched))
	for _, rec := range matched {
		results = append(results, dto.ConvertStation(rec))
	}
	return results
}

// filterCandidates сужает перебор через самый селективный индекс снапшота
func filterCandidates(snap *snapshot.Snapshot, req dto.FilterRequest) []domain.StationRecord {
	switch {
	case req.State != "" && req.City != "":
		return snap.ByCity(req.State, req.City)
	case req.State != "":
		return snap.ByState(req.State)
	case req.Brand != "":
		return snap.ByBrand(req.Brand)
	default:
		return snap.Records()
	}
}

func matchesFilters(rec domain.StationRecord, req dto.FilterRequest) bool {
	if req.State != "" && rec.State != req.State {
		return false
	}
	if req.City != "" && rec.City != req.City {
		return false
	}
	if req.Brand != "" && rec.Brand != req.Brand {
		return false
	}
	return withinMaxPrice(rec.PriceGasoline, req.MaxPriceGasoline) &&
		withinMaxPrice(rec.PriceEthanol, req.MaxPriceEthanol) &&
		withinMaxPrice(rec.PriceDiesel, req.MaxPriceDiesel) &&
		withinMaxPrice(rec.PriceCNG, req.MaxPriceCNG)
}

// withinMaxPrice: порог включительный, станция без цены фильтром исключается
func withinMaxPrice(price, max *float64) bool {
	if max == nil {
		return true
	}
	return price != nil && *price <= *max
}

func sortPrice(rec domain.StationRecord, fuel string) float64 {
	if p := rec.Price(domain.FuelType(fuel)); p != nil {
		return *p
	}
	return priceSentinel
}

func matchesText(rec domain.StationRecord, q string) bool {
	return strings.Contains(strings.ToLower(rec.Name), q) ||
		strings.Contains(strings.ToLower(rec.Address), q) ||
		strings.Contains(strings.ToLower(rec.Neighborhood), q) ||
		strings.Contains(strings.ToLower(rec.City), q)
}

func validSortField(sortBy string) bool {
	fuel, ok := strings.CutPrefix(sortBy, "price_")
	if !ok {
		return false
	}
	return domain.ValidFuelType(fuel)
}

func validatePoint(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return apperrors.ErrInvalidCoordinates.WithField("lat", "must be a number in [-90, 90]")
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return apperrors.ErrInvalidCoordinates.WithField("lon", "must be a number in [-180, 180]")
	}
	return nil
}

func clampRadius(radiusKm float64) float64 {
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return 0
	}
	if radiusKm > MaxRadiusKm {
		return MaxRadiusKm
	}
	return radiusKm
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func batchConcurrency(points int) int {
	if points < maxBatchConcurrency {
		return points
	}
	return maxBatchConcurrency
}

// filterCacheKey - детерминированный ключ кеша, посоленный генерацией:
// после публикации нового снапшота старые ключи не совпадут
func filterCacheKey(generation string, req dto.FilterRequest) string {
	return fmt.Sprintf("query:filter:%s:%s|%s|%s|%s|%s|%s|%s|%s|%d",
		generation, req.State, req.City, req.Brand,
		fmtPrice(req.MaxPriceGasoline), fmtPrice(req.MaxPriceEthanol),
		fmtPrice(req.MaxPriceDiesel), fmtPrice(req.MaxPriceCNG),
		req.SortBy, req.Limit)
}

func fmtPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// cacheFetch достаёт закешированный ответ; ошибка кеша трактуется как промах
func cacheFetch(ctx context.Context, cache repository.QueryCache, m *metrics.Metrics, logger *zap.Logger, key string) ([]byte, bool) {
	if cache == nil {
		return nil, false
	}

	data, err := cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Query cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if data == nil {
		m.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	m.CacheLookups.WithLabelValues("hit").Inc()
	return data, true
}

// cacheStore кладёт сериализованный ответ в кеш; сбой только логируется
func cacheStore(ctx context.Context, cache repository.QueryCache, logger *zap.Logger, key string, value interface{}, ttl time.Duration) {
	if cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("Query cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func observeQuery(m *metrics.Metrics, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.QueryTotal.WithLabelValues(operation, outcome).Inc()
	m.QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
