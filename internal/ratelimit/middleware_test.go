package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vetclinic-service/internal/config"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

func newTestApp(h fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(apperrors.ResponseBody(de, false))
		},
	})
	app.Use(h)
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/fail", func(c *fiber.Ctx) error { return apperrors.NewInvalidCredentials() })
	return app
}

func TestMiddleware_BlocksAfterMax(t *testing.T) {
	app := newTestApp(New(NewMemoryStore(), Options{
		Name: "general",
		Rule: config.LimitRule{Max: 2, Window: time.Minute},
	}, nil))

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get(HeaderLimit))
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get(HeaderRemaining))
	assert.NotEmpty(t, resp.Header.Get(HeaderReset))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, MsgGeneral, body["message"])
}

func TestMiddleware_SkipSuccessfulCountsOnlyFailures(t *testing.T) {
	app := newTestApp(New(NewMemoryStore(), Options{
		Name:           "auth",
		Rule:           config.LimitRule{Max: 2, Window: time.Minute},
		Message:        MsgAuth,
		SkipSuccessful: true,
	}, nil))

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

type brokenStore struct{}

func (brokenStore) Increment(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("redis: connection refused")
}

func (brokenStore) Decrement(context.Context, string) error { return nil }

func TestMiddleware_FailsOpen(t *testing.T) {
	app := newTestApp(New(brokenStore{}, Options{
		Name: "general",
		Rule: config.LimitRule{Max: 1, Window: time.Minute},
	}, nil))

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestMiddleware_DisabledRule(t *testing.T) {
	app := newTestApp(New(NewMemoryStore(), Options{Name: "off"}, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(HeaderLimit))
}
