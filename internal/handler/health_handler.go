package handler

import (
	"net/http"

	"app/internal/gateway"

	"github.com/labstack/echo/v4"
)

const (
	serviceName    = "pos-register"
	serviceVersion = "1.0.0"
)

// 死活確認のHTTP。/health/backend は診断用のバックエンド疎通チェック。
type HealthHandler struct {
	backend gateway.Backend
}

// DI
func NewHealthHandler(backend gateway.Backend) *HealthHandler {
	return &HealthHandler{backend: backend}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.health)
	e.GET("/health/backend", h.backendHealth)
}

func (h *HealthHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, gateway.HealthStatus{
		Status:  "ok",
		Service: serviceName,
		Version: serviceVersion,
	})
}

func (h *HealthHandler) backendHealth(c echo.Context) error {
	st, err := h.backend.Health(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "backend unreachable"})
	}
	return c.JSON(http.StatusOK, st)
}
