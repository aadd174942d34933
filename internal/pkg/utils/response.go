package utils

import (
	"time"

	"github.com/fuelstation-microservice/internal/pkg/errors"
	"github.com/gofiber/fiber/v2"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

// Meta - метаданные ответа. TimeMSec присутствует всегда, даже при пустом
// результате, для клиентского мониторинга производительности.
type Meta struct {
	Total    int         `json:"total"`
	TimeMSec float64     `json:"time_ms"`
	Params   interface{} `json:"params,omitempty"`
}

// ElapsedMSec возвращает время с момента start в миллисекундах
func ElapsedMSec(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(500).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
