package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/pkg/utils"
	"github.com/fuelstation-microservice/internal/usecase"
)

// StationHandler - обработчик карточек станций
type StationHandler struct {
	metaUC *usecase.MetaUseCase
	logger *zap.Logger
}

// NewStationHandler - создание нового StationHandler
func NewStationHandler(metaUC *usecase.MetaUseCase, logger *zap.Logger) *StationHandler {
	return &StationHandler{
		metaUC: metaUC,
		logger: logger,
	}
}

// GetByID godoc
// @Summary Станция по идентификатору
// @Description Возвращает полную карточку станции по её каноническому идентификатору
// @Tags Stations
// @Accept json
// @Produce json
// @Param id path string true "Идентификатор станции"
// @Success 200 {object} utils.SuccessResponse{data=dto.StationResult}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /stations/{id} [get]
func (h *StationHandler) GetByID(c *fiber.Ctx) error {
	start := time.Now()

	result, err := h.metaUC.StationByID(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    1,
		TimeMSec: utils.ElapsedMSec(start),
	})
}
