package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	httpapi "tiffin/internal/adapters/in/http"
	"tiffin/internal/adapters/out/kafka"
	"tiffin/internal/adapters/out/metrics"
	"tiffin/internal/adapters/out/postgres"
	"tiffin/internal/core/application/usecases/commands"
	"tiffin/internal/core/application/usecases/queries"
	"tiffin/internal/core/domain/services"
	"tiffin/internal/core/ports"
	"tiffin/internal/jobs"
	"tiffin/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// CompositionRoot builds the use case handlers and adapters from Config.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	registry  *prometheus.Registry
	metrics   ports.DispatchMetrics
	publisher ports.EventPublisher
	closers   []func() error
}

// NewCompositionRoot wires the outbound adapters. The Kafka producer connects
// here when enabled.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB) (*CompositionRoot, error) {
	root := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		metrics:    metrics.NopSink{},
		publisher:  kafka.NopPublisher{},
	}

	if cfg.Metrics.Enabled {
		root.registry = prometheus.NewRegistry()
		root.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sink, err := metrics.NewPromSink(root.registry)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		root.metrics = sink
	}

	if cfg.Kafka.Enabled {
		publisher, err := kafka.NewStatusChangedPublisher(
			cfg.Kafka.Brokers,
			cfg.Kafka.OrderChangedTopic,
			logger.New("kafka_publisher"),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka: %w", err)
		}
		root.publisher = publisher
		root.closers = append(root.closers, publisher.Close)
	}

	return root, nil
}

func (c *CompositionRoot) CreateBulkCreateOrdersCommandHandler() *commands.BulkCreateOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	handler := commands.NewBulkCreateOrdersCommandHandler(f, c.metrics)
	return &handler
}

func (c *CompositionRoot) CreateUpdateStatusCommandHandler() *commands.UpdateStatusCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	handler := commands.NewUpdateStatusCommandHandler(f, c.publisher, c.metrics, time.Now,
		logger.New("update_status"))
	return &handler
}

func (c *CompositionRoot) CreateOptimizeRouteCommandHandler() (*commands.OptimizeRouteCommandHandler, error) {
	depot, err := c.cfg.Routing.Depot()
	if err != nil {
		return nil, err
	}
	optimizer, err := services.NewRouteOptimizer(c.cfg.Routing.Optimizer())
	if err != nil {
		return nil, err
	}

	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	handler := commands.NewOptimizeRouteCommandHandler(f, optimizer, depot, c.metrics)
	return &handler, nil
}

func (c *CompositionRoot) CreateGetDailySummaryQueryHandler() queries.GetDailySummaryQueryHandler {
	return queries.NewGetDailySummaryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPreparationListQueryHandler() queries.GetPreparationListQueryHandler {
	return queries.NewGetPreparationListQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListDeliveriesQueryHandler() queries.ListDeliveriesQueryHandler {
	return queries.NewListDeliveriesQueryHandler(c.gormDB)
}

// CreateEcho builds the HTTP router over every use case.
func (c *CompositionRoot) CreateEcho(ctx context.Context) (*echo.Echo, error) {
	optimizeRoute, err := c.CreateOptimizeRouteCommandHandler()
	if err != nil {
		return nil, err
	}

	server := httpapi.NewServer(
		optimizeRoute,
		c.CreateUpdateStatusCommandHandler(),
		c.CreateBulkCreateOrdersCommandHandler(),
		c.CreateGetDailySummaryQueryHandler(),
		c.CreateGetPreparationListQueryHandler(),
		c.CreateListDeliveriesQueryHandler(),
		time.Now,
	)

	opts := httpapi.RouterOptions{
		EnableSwagger: c.cfg.HTTP.Swagger,
		Debug:         c.cfg.HTTP.Debug,
	}
	if c.registry != nil {
		opts.Gatherer = c.registry
	}
	return httpapi.NewEcho(ctx, server, logger.New("http"), opts)
}

// CreateJobManager returns the scheduled jobs; it is empty when jobs are
// disabled.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	if !c.cfg.Jobs.Enabled {
		return jobs.NewJobManager(), nil
	}

	jobCfg, err := c.cfg.Jobs.DailyOrders()
	if err != nil {
		return nil, err
	}
	daily := jobs.NewDailyOrdersJob(c.CreateBulkCreateOrdersCommandHandler(), jobCfg, time.Now,
		logger.New("jobs"))
	return jobs.NewJobManager(daily), nil
}

// Close releases the adapters opened by NewCompositionRoot.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}
