package http

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/observability"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// MiddlewareConfig bundles what the global middlewares need.
type MiddlewareConfig struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Timeout time.Duration
	DevMode bool

	// AllowOrigins is a comma separated CORS origin list. Empty means "*".
	AllowOrigins string
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// The request logger sits outermost so it sees the final status.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	app.Use(errorHandlingMiddleware(cfg.Logger, cfg.Metrics, cfg.DevMode))
	app.Use(cors.New(cors.Config{AllowOrigins: allowOrigins(cfg.AllowOrigins)}))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
}

// ErrorHandler is the fiber fallback for errors raised outside the middleware chain.
func ErrorHandler(logger *zap.Logger, devMode bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, logger, nil, devMode, err)
	}
}

func allowOrigins(origins string) string {
	if origins == "" {
		return "*"
	}
	return origins
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, devMode bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			}
			if err != nil {
				err = writeError(c, logger, metrics, devMode, err)
			}
		}()
		return c.Next()
	}
}

func writeError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, devMode bool, err error) error {
	domainErr := apperrors.ToDomainError(err)
	metrics.RecordError(observability.RoutePath(c), c.Method(), domainErr.Code)

	if domainErr.IsInternal() {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("code", domainErr.Code),
			zap.Error(err))
	} else {
		logger.Debug("request rejected",
			zap.String("path", c.Path()),
			zap.String("code", domainErr.Code),
			zap.String("message", domainErr.Message))
	}

	return c.Status(domainErr.HTTPStatus).JSON(apperrors.ResponseBody(domainErr, devMode))
}
