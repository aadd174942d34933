package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Logger - middleware для структурированного логирования HTTP запросов
func Logger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		}

		if err != nil {
			// Ошибка уйдёт в ErrorHandler приложения, статус ответа ещё не финальный
			fields = append(fields, zap.Error(err))
			logger.Error("HTTP request failed", fields...)
			return err
		}

		logger.Info("HTTP request", fields...)
		return nil
	}
}
