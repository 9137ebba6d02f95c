package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const healthVersion = "0"

// HealthController : Health check controller struct
type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

type HealthResponseBody struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthCheck godoc
// @Summary      Liveness check
// @Produce      json
// @Tags         Health
// @Success      200  {object}  HealthResponseBody
// @Router       /health-check [get]
func (controller *HealthController) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthResponseBody{
		Status:  "pass",
		Version: healthVersion,
	})
}
