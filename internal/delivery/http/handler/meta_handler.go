package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/pkg/utils"
	"github.com/fuelstation-microservice/internal/usecase"
)

// MetaHandler - обработчик метаданных снапшота
type MetaHandler struct {
	metaUC *usecase.MetaUseCase
	logger *zap.Logger
}

// NewMetaHandler - создание нового MetaHandler
func NewMetaHandler(metaUC *usecase.MetaUseCase, logger *zap.Logger) *MetaHandler {
	return &MetaHandler{
		metaUC: metaUC,
		logger: logger,
	}
}

// Status godoc
// @Summary Статус текущего снапшота
// @Description Возвращает поколение снапшота, время сборки, количество станций и активную стратегию индекса
// @Tags Meta
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.StatusResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /meta/status [get]
func (h *MetaHandler) Status(c *fiber.Ctx) error {
	start := time.Now()

	result, err := h.metaUC.Status(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.TotalStations,
		TimeMSec: utils.ElapsedMSec(start),
	})
}

// States godoc
// @Summary Список штатов
// @Description Возвращает штаты с количеством станций, по убыванию количества
// @Tags Meta
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.StateCount}
// @Failure 500 {object} utils.ErrorResponse
// @Router /meta/states [get]
func (h *MetaHandler) States(c *fiber.Ctx) error {
	start := time.Now()

	result, err := h.metaUC.States(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result),
		TimeMSec: utils.ElapsedMSec(start),
	})
}

// Cities godoc
// @Summary Города штата
// @Description Возвращает города указанного штата с количеством станций, по убыванию количества
// @Tags Meta
// @Accept json
// @Produce json
// @Param state path string true "Код штата (регистронезависимо)"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.CityCount}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /meta/cities/{state} [get]
func (h *MetaHandler) Cities(c *fiber.Ctx) error {
	start := time.Now()

	result, err := h.metaUC.Cities(c.Context(), c.Params("state"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result),
		TimeMSec: utils.ElapsedMSec(start),
	})
}

// Brands godoc
// @Summary Список брендов
// @Description Возвращает бренды с количеством станций, по убыванию количества
// @Tags Meta
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.BrandCount}
// @Failure 500 {object} utils.ErrorResponse
// @Router /meta/brands [get]
func (h *MetaHandler) Brands(c *fiber.Ctx) error {
	start := time.Now()

	result, err := h.metaUC.Brands(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result),
		TimeMSec: utils.ElapsedMSec(start),
	})
}

// Stats godoc
// @Summary Сводная статистика по снапшоту
// @Description Возвращает агрегаты по станциям: количество штатов и брендов, минимум, максимум и среднее цен по видам топлива
// @Tags Meta
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.StatsResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /meta/stats [get]
func (h *MetaHandler) Stats(c *fiber.Ctx) error {
	start := time.Now()

	result, err := h.metaUC.Stats(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.TotalStations,
		TimeMSec: utils.ElapsedMSec(start),
	})
}
