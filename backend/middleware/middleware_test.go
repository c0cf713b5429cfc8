package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"quizpractice/backend/config"
	"quizpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuthMiddlewareSetsOwner(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}
	app := fiber.New()
	app.Get("/me", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendString(OwnerID(c))
	})

	token, err := utils.GenerateJWTToken("u-77", cfg)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "u-77", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoggingMiddlewareLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := &utils.Logger{SugaredLogger: zap.New(core).Sugar()}

	app := fiber.New()
	app.Use(LoggingMiddleware(logger))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		_, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.EqualValues(t, fiber.StatusNotFound, entries[1].ContextMap()["status"])
}
