package apperrors

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errCause = errors.New("cause")

func TestHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: Handler(zap.NewNop())})
	app.Get("/bad", func(c *fiber.Ctx) error { return BadRequest("bad input", errCause) })
	app.Get("/missing", func(c *fiber.Ctx) error { return NotFound("no such thing", nil) })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrMethodNotAllowed })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("hidden") })

	tests := []struct {
		path    string
		status  int
		message string
		errText string
	}{
		{"/bad", fiber.StatusBadRequest, "bad input", "cause"},
		{"/missing", fiber.StatusNotFound, "no such thing", ""},
		{"/fiber", fiber.StatusMethodNotAllowed, "Method Not Allowed", ""},
		{"/plain", fiber.StatusInternalServerError, "Internal server error", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, tt.errText, body["error"])
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	err := Internal("failed", errCause)
	assert.ErrorIs(t, err, errCause)
	assert.Equal(t, "failed: cause", err.Error())
	assert.Equal(t, "plain", New(418, "plain", nil).Error())
}
