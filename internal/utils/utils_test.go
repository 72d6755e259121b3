package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fraudgen/internal/errors"
	"fraudgen/internal/models"
)

func TestGetPagination(t *testing.T) {
	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Limit: 100, Offset: 0}},
		{"?limit=5&offset=10", Pagination{Limit: 5, Offset: 10}},
		{"?limit=abc&offset=-1", Pagination{Limit: 100, Offset: 0}},
		{"?limit=-3", Pagination{Limit: 100, Offset: 0}},
		{"?limit=0", Pagination{Limit: 0, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = GetPagination(c, 100)
				return c.SendStatus(fiber.StatusNoContent)
			})

			_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", apperrors.ErrTransactionNotFound, 404, "Transaction not found"},
		{"validation", apperrors.ErrValidation.WithMessage("Missing required fields: amount"), 400, "Missing required fields: amount"},
		{"internal", errors.New("pq: connection refused"), 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return Error(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body map[string]string
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.wantBody, body["error"])
		})
	}
}

func TestAdminToken(t *testing.T) {
	token, err := GenerateAdminToken("s3cret", "ops", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAdminToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.HasPermission(models.PermissionTransactionDelete))

	_, err = ParseAdminToken("other", token)
	assert.Error(t, err)

	expired, err := GenerateAdminToken("s3cret", "ops", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAdminToken("s3cret", expired)
	assert.Error(t, err)

	_, err = GenerateAdminToken("", "ops", time.Hour)
	assert.Error(t, err)
}
