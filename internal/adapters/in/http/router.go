package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const (
	healthPath  = "/health"
	metricsPath = "/metrics"
)

// RouterOptions tunes NewEcho. A nil Gatherer disables /metrics.
type RouterOptions struct {
	Gatherer      prometheus.Gatherer
	EnableSwagger bool
	Debug         bool
}

// NewEcho builds the HTTP router: API routes behind the OpenAPI request
// validator plus health, metrics and swagger endpoints.
func NewEcho(ctx context.Context, server *Server, logger zerolog.Logger, opts RouterOptions) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = opts.Debug
	if opts.Debug {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.ERROR)
	}
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(RequestLogger(logger, healthPath, metricsPath))
	e.Use(middleware.Recover())

	e.GET(healthPath, func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if opts.Gatherer != nil {
		e.GET(metricsPath, echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if opts.EnableSwagger {
		if err = RegisterSwaggerDoc(doc); err != nil {
			return nil, err
		}
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := e.Group("/api/v1", validator)
	api.POST("/routes/optimize", server.OptimizeRoute)
	api.POST("/status", server.UpdateStatus)
	api.PUT("/orders/:id/status", server.UpdateOrderStatus)
	api.PUT("/deliveries/:id/status", server.UpdateDeliveryStatus)
	api.POST("/orders/bulk", server.BulkCreateOrders)
	api.GET("/summary", server.GetDailySummary)
	api.GET("/orders/preparation-list", server.GetPreparationList)
	api.GET("/deliveries", server.ListDeliveries)

	return e, nil
}
