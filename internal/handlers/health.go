package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const serviceName = "utang-tracker"

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health возвращает статус сервиса для проверок живости.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Service: serviceName})
}
