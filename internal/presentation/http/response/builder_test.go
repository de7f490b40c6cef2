package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/tableside/pkg/errorbank"
)

func render(t *testing.T, build func(c echo.Context) error) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")

	require.NoError(t, build(c))
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestBuildSuccess(t *testing.T) {
	rec, env := render(t, func(c echo.Context) error {
		return New(c).WithStatus(http.StatusCreated).WithData(map[string]string{"id": "1"}).Build()
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.Equal(t, "req-1", env.Meta["request_id"])
}

func TestBuildDomainError(t *testing.T) {
	rec, env := render(t, func(c echo.Context) error {
		return New(c).WithError(errorbank.ItemNotFound("abc")).Build()
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "item_not_found", env.Error.Kind)
	assert.Equal(t, "abc", env.Error.Details["menu_item_id"])
}

func TestBuildHidesInternalCause(t *testing.T) {
	rec, env := render(t, func(c echo.Context) error {
		return New(c).WithError(errors.New("pq: password authentication failed")).Build()
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "internal", env.Error.Kind)
	assert.Equal(t, "internal error", env.Error.Message)
	assert.NotContains(t, rec.Body.String(), "password")
}
