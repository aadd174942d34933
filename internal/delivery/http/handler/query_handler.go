package handler

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/fuelstation-microservice/internal/pkg/errors"
	"github.com/fuelstation-microservice/internal/pkg/utils"
	"github.com/fuelstation-microservice/internal/pkg/validator"
	"github.com/fuelstation-microservice/internal/usecase"
	"github.com/fuelstation-microservice/internal/usecase/dto"
)

// QueryHandler - обработчик пространственных и атрибутных запросов
type QueryHandler struct {
	queryUC *usecase.QueryUseCase
	logger  *zap.Logger
}

// NewQueryHandler - создание нового QueryHandler
func NewQueryHandler(queryUC *usecase.QueryUseCase, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		queryUC: queryUC,
		logger:  logger,
	}
}

// Nearby godoc
// @Summary Станции в радиусе от точки
// @Description Возвращает станции не дальше radius_km от точки, отсортированные по расстоянию. Радиус ограничен 50 км.
// @Tags Query
// @Accept json
// @Produce json
// @Param lat query number true "Широта точки"
// @Param lon query number true "Долгота точки"
// @Param radius_km query number false "Радиус поиска в километрах" default(10)
// @Param limit query int false "Максимальное количество результатов" default(20)
// @Success 200 {object} utils.SuccessResponse{data=dto.NearbyResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /query/nearby [get]
func (h *QueryHandler) Nearby(c *fiber.Ctx) error {
	start := time.Now()

	// NaN вместо нуля: отсутствие координаты не превращается в точку (0,0)
	req := dto.NearbyRequest{
		Lat:      c.QueryFloat("lat", math.NaN()),
		Lon:      c.QueryFloat("lon", math.NaN()),
		RadiusKm: c.QueryFloat("radius_km", usecase.DefaultRadiusKm),
		Limit:    c.QueryInt("limit", 0),
	}

	result, err := h.queryUC.Nearby(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result.Stations),
		TimeMSec: utils.ElapsedMSec(start),
		Params:   result.Params,
	})
}

// Filter godoc
// @Summary Станции по атрибутам
// @Description Фильтрует станции по штату, городу, бренду и потолкам цен. Все фильтры комбинируются через AND. Станции без цены не проходят ценовой фильтр.
// @Tags Query
// @Accept json
// @Produce json
// @Param state query string false "Код штата (регистронезависимо)"
// @Param city query string false "Город (точное совпадение)"
// @Param brand query string false "Бренд (регистронезависимо)"
// @Param max_price_gasoline query number false "Максимальная цена бензина"
// @Param max_price_ethanol query number false "Максимальная цена этанола"
// @Param max_price_diesel query number false "Максимальная цена дизеля"
// @Param max_price_cng query number false "Максимальная цена метана"
// @Param sort_by query string false "Сортировка: name или price_<вид топлива>"
// @Param limit query int false "Максимальное количество результатов" default(50)
// @Success 200 {object} utils.SuccessResponse{data=dto.FilterResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /query/filter [get]
func (h *QueryHandler) Filter(c *fiber.Ctx) error {
	start := time.Now()

	req := dto.FilterRequest{
		State:  c.Query("state"),
		City:   c.Query("city"),
		Brand:  c.Query("brand"),
		SortBy: c.Query("sort_by"),
		Limit:  c.QueryInt("limit", 0),
	}

	var err error
	if req.MaxPriceGasoline, err = queryPricePtr(c, "max_price_gasoline"); err != nil {
		return utils.SendError(c, err)
	}
	if req.MaxPriceEthanol, err = queryPricePtr(c, "max_price_ethanol"); err != nil {
		return utils.SendError(c, err)
	}
	if req.MaxPriceDiesel, err = queryPricePtr(c, "max_price_diesel"); err != nil {
		return utils.SendError(c, err)
	}
	if req.MaxPriceCNG, err = queryPricePtr(c, "max_price_cng"); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.queryUC.Filter(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result.Stations),
		TimeMSec: utils.ElapsedMSec(start),
		Params:   result.Params,
	})
}

// Search godoc
// @Summary Текстовый поиск станций
// @Description Ищет подстроку запроса в названии, адресе, районе и городе станции без учёта регистра
// @Tags Query
// @Accept json
// @Produce json
// @Param q query string true "Поисковый запрос"
// @Param limit query int false "Максимальное количество результатов" default(20)
// @Success 200 {object} utils.SuccessResponse{data=dto.TextSearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /query/search [get]
func (h *QueryHandler) Search(c *fiber.Ctx) error {
	start := time.Now()

	req := dto.TextSearchRequest{
		Query: c.Query("q"),
		Limit: c.QueryInt("limit", 0),
	}

	result, err := h.queryUC.Search(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result.Stations),
		TimeMSec: utils.ElapsedMSec(start),
		Params:   result.Params,
	})
}

// BatchNearby godoc
// @Summary Пакетный поиск станций в радиусе
// @Description Выполняет радиусный поиск для нескольких точек за один запрос. Невалидная точка даёт пустой результат на свой индекс, не отменяя пакет.
// @Tags Query
// @Accept json
// @Produce json
// @Param request body dto.BatchNearbyRequest true "Точки и параметры поиска"
// @Success 200 {object} utils.SuccessResponse{data=dto.BatchNearbyResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /query/batch [post]
func (h *QueryHandler) BatchNearby(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.BatchNearbyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithField("body", "malformed JSON"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.queryUC.BatchNearby(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.TotalPoints,
		TimeMSec: utils.ElapsedMSec(start),
		Params:   result.Params,
	})
}

// queryPricePtr читает опциональный ценовой параметр. Отсутствие параметра
// означает отсутствие фильтра, а не нулевой потолок.
func queryPricePtr(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.ErrInvalidRequest.WithField(key, "must be a number")
	}
	return &v, nil
}
