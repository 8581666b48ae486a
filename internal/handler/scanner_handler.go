package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /sessions/:id/scanner 系のHTTP
type ScannerHandler struct {
	uc *usecase.ScannerUsecase
}

// DI
func NewScannerHandler(uc *usecase.ScannerUsecase) *ScannerHandler {
	return &ScannerHandler{uc: uc}
}

type ScanRequest struct {
	Code string `json:"code"`
}

type ScannerErrorRequest struct {
	Name string `json:"name"` // DOMException名
}

func (h *ScannerHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/scanner/start", h.start)
	g.POST("/scanner/stop", h.stop)
	g.POST("/scanner/errors", h.reportError)
	g.POST("/scans", h.scan)
}

func (h *ScannerHandler) start(c echo.Context) error {
	out, err := h.uc.Start(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScannerHandler) stop(c echo.Context) error {
	h.uc.Stop(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// 読み取り1件。デバウンスで抑止されたら204（検索もカート変更もしない）。
func (h *ScannerHandler) scan(c echo.Context) error {
	var req ScanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, delivered, err := h.uc.Deliver(c.Request().Context(), c.Param("id"), req.Code)
	if err != nil {
		return writeError(c, err)
	}
	if !delivered {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScannerHandler) reportError(c echo.Context) error {
	var req ScannerErrorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ReportError(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
