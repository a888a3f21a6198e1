package auth

import (
	"crypto/subtle"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

const apiKeyHeader = "X-API-Key"

// RequireAPIKey guards operator endpoints with a static key.
// When no key is configured the guard lets requests through.
func RequireAPIKey(expected string, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	var warnOnce sync.Once

	return func(c *fiber.Ctx) error {
		if expected == "" {
			warnOnce.Do(func() {
				logger.Warn("ADMIN_API_KEY not configured; operator endpoints are unprotected")
			})
			return c.Next()
		}

		provided := c.Get(apiKeyHeader)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			return apperrors.NewForbidden("Invalid API key")
		}
		return c.Next()
	}
}
