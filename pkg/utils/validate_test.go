package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
)

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=active sold"`
	Note   string `json:"note" validate:"max=5"`
}

func TestValidateReportsJSONFieldName(t *testing.T) {
	_, err := Validate(statusRequest{Status: "gone"})

	var validationErr *clovererrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "status", validationErr.Field)
	assert.Equal(t, "gone", validationErr.Value)
	assert.Equal(t, "failed rule 'oneof=active sold'", validationErr.Message)
}

func TestValidateAcceptsValidStruct(t *testing.T) {
	v, err := Validate(statusRequest{Status: "sold", Note: "ok"})

	require.NoError(t, err)
	assert.Equal(t, "sold", v.Status)
}

func TestValidateValue(t *testing.T) {
	assert.NoError(t, ValidateValue("city", "3b241101-e2bb-4255-8caf-4136c566a962", "uuid"))

	err := ValidateValue("city", "bandung", "uuid")
	var validationErr *clovererrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "city", validationErr.Field)
	assert.Equal(t, "failed rule 'uuid'", validationErr.Message)
}

func bindContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindRequest(t *testing.T) {
	v, err := BindRequest[statusRequest](bindContext(`{"status":"active"}`))
	require.NoError(t, err)
	assert.Equal(t, "active", v.Status)

	_, err = BindRequest[statusRequest](bindContext(`{"status":"active","note":"too long"}`))
	assert.True(t, clovererrors.IsValidationError(err))

	_, err = BindRequest[statusRequest](bindContext(`{"status":`))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}
