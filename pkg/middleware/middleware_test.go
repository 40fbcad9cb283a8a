package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/Ramsey-B/clover/pkg/context"
	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
)

func newEcho(handler echo.HandlerFunc) *echo.Echo {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	e := echo.New()
	e.HTTPErrorHandler = Error(logger)
	e.Use(Context(), Logger(logger))
	e.GET("/listings/:id", handler)
	return e
}

func get(e *echo.Echo, requestID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/listings/42", nil)
	if requestID != "" {
		req.Header.Set(echo.HeaderXRequestID, requestID)
	}
	req.Header.Set(HeaderUserID, "user-7")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestContextCarriesRequestFields(t *testing.T) {
	var requestID, userID, route string
	e := newEcho(func(c echo.Context) error {
		ctx := c.Request().Context()
		requestID = appctx.GetRequestID(ctx)
		userID = appctx.GetUserID(ctx)
		route = appctx.GetRoute(ctx)
		return c.NoContent(http.StatusOK)
	})

	rec := get(e, "req-123")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", requestID)
	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "user-7", userID)
	assert.Equal(t, "/listings/:id", route)
}

func TestContextGeneratesRequestID(t *testing.T) {
	rec := get(newEcho(func(c echo.Context) error { return c.NoContent(http.StatusOK) }), "")

	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", clovererrors.NewValidationError("id", "42", "must be a canonical UUID"), http.StatusBadRequest, "must be a canonical UUID"},
		{"not found", clovererrors.ErrNotFound, http.StatusNotFound, "listing not found"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "nope"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
		{"unreachable backend", errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"), http.StatusServiceUnavailable, "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newEcho(func(echo.Context) error { return tt.err }), "req-9")

			assert.Equal(t, tt.wantCode, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body.Message, tt.wantMsg)
			assert.Equal(t, "req-9", body.RequestID)
		})
	}
}
