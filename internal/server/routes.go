package server

import (
	"app/internal/config"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Health.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e)
	h.Session.RegisterRoutes(e)

	// レジセッション配下はJWT（未ログインはデフォルト担当者で通す）
	g := e.Group("/sessions/:id")
	g.Use(middleware.OperatorJWT(cfg))

	h.Cart.RegisterRoutes(g)
	h.Scanner.RegisterRoutes(g)
	h.Checkout.RegisterRoutes(g)
}
