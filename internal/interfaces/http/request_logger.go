package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pdv-api/pkg/logger"
)

// RequestLogger registra cada petición autenticada. Las respuestas 5xx salen como error;
// el resto en debug (los 4xx son errores del cliente). Un 500 ya escrito por writeError
// se registra con el error original.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		logErr := err
		if logErr == nil {
			logErr, _ = c.Locals(localInternalError).(error)
		}

		l := log.Tenant(GetTenantID(c))
		ev := l.Debug()
		if status >= fiber.StatusInternalServerError {
			ev = l.Error().Err(logErr)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición")
		return err
	}
}
