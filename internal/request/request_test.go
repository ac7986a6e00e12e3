package request_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnthoniusHendriyanto/academy-service/internal/middleware"
	"github.com/AnthoniusHendriyanto/academy-service/internal/request"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Post("/items/:id", func(c *fiber.Ctx) error {
		id, err := request.ID(c, "id")
		if err != nil {
			return err
		}
		var in sample
		if err := request.Bind(c, &in); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id, "email": in.Email})
	})
	return app
}

func TestBindAndID(t *testing.T) {
	app := newApp()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"valid", "/items/12", `{"email":"a@x.com"}`, http.StatusOK, ""},
		{"bad id", "/items/abc", `{"email":"a@x.com"}`, http.StatusBadRequest, "invalid id"},
		{"zero id", "/items/0", `{"email":"a@x.com"}`, http.StatusBadRequest, "invalid id"},
		{"malformed json", "/items/12", `{"email":`, http.StatusBadRequest, "invalid request body"},
		{"failed validation", "/items/12", `{"email":"nope"}`, http.StatusBadRequest, "email must be a valid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.Equal(t, float64(12), body["id"])
			}
		})
	}
}

func TestParseSkipsValidation(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Post("/raw", func(c *fiber.Ctx) error {
		var in sample
		if err := request.Parse(c, &in); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"email": in.Email})
	})

	req := httptest.NewRequest(http.MethodPost, "/raw", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/raw", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
