package ratelimit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/config"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

const (
	HeaderLimit     = "RateLimit-Limit"
	HeaderRemaining = "RateLimit-Remaining"
	HeaderReset     = "RateLimit-Reset"
)

// Messages returned once a limiter trips.
const (
	MsgGeneral  = "Too many requests from this IP, please try again later."
	MsgAuth     = "Too many authentication attempts, please try again after 15 minutes."
	MsgAnamnese = "Too many anamnese submissions from this IP, please try again later."
)

// Options describe one named limiter.
type Options struct {
	Name    string
	Rule    config.LimitRule
	Message string
	// SkipSuccessful stops requests that finish below 400 from counting.
	SkipSuccessful bool
}

// New returns a fiber middleware enforcing opts against store.
// Store failures let the request through.
func New(store Store, opts Options, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Message == "" {
		opts.Message = MsgGeneral
	}
	if store == nil || opts.Rule.Max <= 0 || opts.Rule.Window <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := "ratelimit:" + opts.Name + ":" + c.IP()

		hits, resetAt, err := store.Increment(ctx, key, opts.Rule.Window)
		if err != nil {
			logger.Warn("rate limit store unavailable", zap.String("limiter", opts.Name), zap.Error(err))
			return c.Next()
		}

		remaining := int64(opts.Rule.Max) - hits
		if remaining < 0 {
			remaining = 0
		}
		c.Set(HeaderLimit, strconv.Itoa(opts.Rule.Max))
		c.Set(HeaderRemaining, strconv.FormatInt(remaining, 10))
		c.Set(HeaderReset, strconv.FormatInt(secondsUntil(resetAt), 10))

		if hits > int64(opts.Rule.Max) {
			c.Set(fiber.HeaderRetryAfter, strconv.FormatInt(secondsUntil(resetAt), 10))
			return apperrors.NewRateLimited(opts.Message)
		}

		err = c.Next()
		if opts.SkipSuccessful && err == nil && c.Response().StatusCode() < fiber.StatusBadRequest {
			if derr := store.Decrement(ctx, key); derr != nil {
				logger.Warn("rate limit decrement failed", zap.String("limiter", opts.Name), zap.Error(derr))
			}
		}
		return err
	}
}

func secondsUntil(t time.Time) int64 {
	d := time.Until(t)
	if d <= 0 {
		return 0
	}
	return int64((d + time.Second - 1) / time.Second)
}
