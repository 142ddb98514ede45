package middleware

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency labelled by route pattern
// rather than raw path.
func Metrics(recorder metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		recorder.RecordHTTPRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
