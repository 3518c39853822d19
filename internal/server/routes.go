package server

import (
	"net/http"

	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 登録するハンドラ。AdminCatalogがnilなら管理APIは登録しない。
type Handlers struct {
	Product      *handler.ProductHandler
	AdminCatalog *handler.AdminCatalogHandler
	JWTSecret    string
	Gatherer     prometheus.Gatherer
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	gatherer := h.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	h.Product.RegisterRoutes(e)

	if h.AdminCatalog != nil && h.JWTSecret != "" {
		h.AdminCatalog.RegisterRoutes(e, h.JWTSecret)
	}
}
