package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiffin/internal/core/application/usecases/commands"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultDailyOrdersSpec fires at 05:30:00 every day.
const DefaultDailyOrdersSpec = "0 30 5 * * *"

// BulkCreateOrdersHandler creates the orders of a date.
type BulkCreateOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.BulkCreateOrdersCommand) (commands.BulkCreateOrdersResult, error)
}

// DailyOrdersJobConfig configures DailyOrdersJob. Spec defaults to
// DefaultDailyOrdersSpec and MealTypes to every meal type. Timeout bounds a
// single run; zero means one minute.
type DailyOrdersJobConfig struct {
	Spec      string
	MealTypes []order.MealType
	Location  *time.Location
	Timeout   time.Duration
}

// DailyOrdersJob creates today's orders for each configured meal type.
type DailyOrdersJob struct {
	handler   BulkCreateOrdersHandler
	cron      *cron.Cron
	spec      string
	mealTypes []order.MealType
	location  *time.Location
	timeout   time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewDailyOrdersJob creates the job. A nil clock means time.Now.
func NewDailyOrdersJob(
	handler BulkCreateOrdersHandler,
	cfg DailyOrdersJobConfig,
	now func() time.Time,
	logger zerolog.Logger,
) *DailyOrdersJob {
	if cfg.Spec == "" {
		cfg.Spec = DefaultDailyOrdersSpec
	}
	if len(cfg.MealTypes) == 0 {
		cfg.MealTypes = order.MealTypes
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if now == nil {
		now = time.Now
	}

	logger = logger.With().Str("job", "daily_orders").Logger()
	return &DailyOrdersJob{
		handler: handler,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})),
		),
		spec:      cfg.Spec,
		mealTypes: cfg.MealTypes,
		location:  cfg.Location,
		timeout:   cfg.Timeout,
		now:       now,
		logger:    logger,
	}
}

// Name identifies the job in logs.
func (j *DailyOrdersJob) Name() string {
	return "daily_orders"
}

// Start schedules the job.
func (j *DailyOrdersJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		_ = j.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", j.spec, err)
	}

	j.cron.Start()
	j.logger.Info().Str("spec", j.spec).Msg("job started")
	return nil
}

// Stop unschedules the job and waits for a running pass to finish.
func (j *DailyOrdersJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info().Msg("job stopped")
}

// RunOnce creates today's orders for every meal type. A failing meal type does
// not prevent the others; the failures are returned joined.
func (j *DailyOrdersJob) RunOnce(ctx context.Context) error {
	date := kernel.DateOf(j.now().In(j.location))

	var failures []error
	for _, mealType := range j.mealTypes {
		cmd, err := commands.NewBulkCreateOrdersCommand(date, mealType, nil)
		if err != nil {
			failures = append(failures, err)
			continue
		}

		result, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.Error().Err(err).
				Str("date", date.Format(kernel.DateLayout)).
				Stringer("meal_type", mealType).
				Msg("bulk order creation failed")
			failures = append(failures, fmt.Errorf("%s: %w", mealType, err))
			continue
		}

		j.logger.Info().
			Str("date", date.Format(kernel.DateLayout)).
			Stringer("meal_type", mealType).
			Int("created", result.Created).
			Int("skipped", result.Skipped()).
			Msg("orders created")
	}

	return errors.Join(failures...)
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
