package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Auth     *handler.AuthHandler
	Session  *handler.SessionHandler
	Cart     *handler.CartHandler
	Scanner  *handler.ScannerHandler
	Checkout *handler.CheckoutHandler
	Health   *handler.HealthHandler
}

// New はechoを組み立てる。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())

	RegisterRoutes(e, cfg, h)
	return e
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, port string) error {
	return e.Start(":" + port)
}
