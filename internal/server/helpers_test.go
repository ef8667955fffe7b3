package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"absent", "", repository.NoLimit, 0},
		{"explicit", "limit=10&offset=20", 10, 20},
		{"zero limit is honored", "limit=0", 0, 0},
		{"malformed limit", "limit=abc", repository.NoLimit, 0},
		{"negative limit", "limit=-5", repository.NoLimit, 0},
		{"limit capped", "limit=5000", maxPaginationLimit, 0},
		{"negative offset clamped", "offset=-3", repository.NoLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Pagination
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c)
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			_, err := app.Test(req, -1)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "user ID", humanizeParam("userId"))
	assert.Equal(t, "post author ID", humanizeParam("postAuthorId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestMapServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", models.NewValidationError("bad input"), http.StatusBadRequest},
		{"self protection", models.NewSelfProtectionError("no"), http.StatusBadRequest},
		{"auth required", models.NewAuthRequiredError("login"), http.StatusUnauthorized},
		{"unauthorized", models.NewUnauthorizedError("forbidden"), http.StatusForbidden},
		{"not found", models.NewNotFoundError("Post", 7), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return mapServiceError(c, fmt.Errorf("wrapped: %w", tt.err))
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
