package middlewares

import (
	"time"

	"ledger-backend/logger"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger writes one zerolog line per request. Chain errors are
// rendered here through ErrorHandler so the logged status is the one sent.
func RequestLogger() fiber.Handler {
	log := logger.WithComponent("access")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := ErrorHandler(c, err); herr != nil {
				return herr
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("owner_id", OwnerID(c)).
			Msg("request")
		return nil
	}
}
