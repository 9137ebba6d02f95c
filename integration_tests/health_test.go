package integration_tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getAlby/lnurlhub.go/controllers"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	e.GET("/health-check", controllers.NewHealthController().HealthCheck)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health-check", nil)
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	healthResponse := &controllers.HealthResponseBody{}
	err := json.NewDecoder(rec.Body).Decode(healthResponse)
	assert.NoError(t, err)
	assert.Equal(t, "pass", healthResponse.Status)
	assert.Equal(t, "0", healthResponse.Version)
}
