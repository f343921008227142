package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/core/domain/services"
	"tiffin/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides: TIFFIN_DB__HOST sets db.host.
const EnvPrefix = "TIFFIN_"

// Config is the service configuration.
type Config struct {
	HTTP    HTTPConfig    `koanf:"http"`
	DB      DBConfig      `koanf:"db"`
	Kafka   KafkaConfig   `koanf:"kafka"`
	Routing RoutingConfig `koanf:"routing"`
	Jobs    JobsConfig    `koanf:"jobs"`
	Logging LoggingConfig `koanf:"logging"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type HTTPConfig struct {
	Port    int  `koanf:"port"`
	Debug   bool `koanf:"debug"`
	Swagger bool `koanf:"swagger"`
}

type DBConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`
}

// DSN renders the connection string understood by both pgx and lib/pq.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

type KafkaConfig struct {
	Enabled           bool     `koanf:"enabled"`
	Brokers           []string `koanf:"brokers"`
	OrderChangedTopic string   `koanf:"order_changed_topic"`
}

// RoutingConfig holds the depot and the optimizer tuning.
type RoutingConfig struct {
	DepotLatitude   float64       `koanf:"depot_latitude"`
	DepotLongitude  float64       `koanf:"depot_longitude"`
	AverageSpeedKmh float64       `koanf:"average_speed_kmh"`
	ServiceTime     time.Duration `koanf:"service_time"`
	MaxStops        int           `koanf:"max_stops"`
	TwoOpt          bool          `koanf:"two_opt"`
}

// Depot returns the configured depot.
func (c RoutingConfig) Depot() (kernel.GeoPoint, error) {
	return kernel.NewGeoPoint(c.DepotLatitude, c.DepotLongitude)
}

// Optimizer converts the section into the optimizer settings.
func (c RoutingConfig) Optimizer() services.RouteOptimizerConfig {
	return services.RouteOptimizerConfig{
		AverageSpeedKmh: c.AverageSpeedKmh,
		ServiceTime:     c.ServiceTime,
		MaxStops:        c.MaxStops,
		TwoOpt:          c.TwoOpt,
	}
}

type JobsConfig struct {
	Enabled         bool     `koanf:"enabled"`
	DailyOrdersSpec string   `koanf:"daily_orders_spec"`
	MealTypes       []string `koanf:"meal_types"`
	Timezone        string   `koanf:"timezone"`
}

// DailyOrders converts the section into the job settings.
func (c JobsConfig) DailyOrders() (jobs.DailyOrdersJobConfig, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return jobs.DailyOrdersJobConfig{}, fmt.Errorf("jobs.timezone: %w", err)
	}

	mealTypes := make([]order.MealType, 0, len(c.MealTypes))
	for _, name := range c.MealTypes {
		mealType, parseErr := order.ParseMealType(name)
		if parseErr != nil {
			return jobs.DailyOrdersJobConfig{}, fmt.Errorf("jobs.meal_types: %w", parseErr)
		}
		mealTypes = append(mealTypes, mealType)
	}

	return jobs.DailyOrdersJobConfig{
		Spec:      c.DailyOrdersSpec,
		MealTypes: mealTypes,
		Location:  loc,
	}, nil
}

type LoggingConfig struct {
	Level string `koanf:"level"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// DefaultConfig returns the settings used for every key no source sets.
// The depot sits in Langley, BC.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080, Swagger: true},
		DB: DBConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "tiffin",
			SSLMode: "disable",
		},
		Kafka: KafkaConfig{OrderChangedTopic: "tiffin.status-changed"},
		Routing: RoutingConfig{
			DepotLatitude:   49.1044,
			DepotLongitude:  -122.6600,
			AverageSpeedKmh: services.DefaultAverageSpeedKmh,
			ServiceTime:     services.DefaultServiceTime,
			MaxStops:        services.DefaultMaxStops,
			TwoOpt:          true,
		},
		Jobs: JobsConfig{
			DailyOrdersSpec: jobs.DefaultDailyOrdersSpec,
			MealTypes:       []string{order.Lunch.String(), order.Dinner.String()},
			Timezone:        "America/Vancouver",
		},
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// LoadConfig layers, from lowest to highest precedence: DefaultConfig, the
// file at path (YAML or JSON, skipped when path is empty), a .env file in the
// working directory and TIFFIN_ environment variables.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return Config{}, err
		}
		if err = k.Load(file.Provider(path), parser); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
}

// envKey maps TIFFIN_KAFKA__BROKERS=a:9092,b:9092 to kafka.brokers and splits
// list values on commas.
func envKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	switch key {
	case "kafka.brokers", "jobs.meal_types":
		return key, strings.Split(value, ",")
	default:
		return key, value
	}
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port: %d is not a valid port", c.HTTP.Port))
	}
	if _, err := c.Routing.Depot(); err != nil {
		errs = append(errs, fmt.Errorf("routing depot: %w", err))
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.OrderChangedTopic == "") {
		errs = append(errs, errors.New("kafka: brokers and order_changed_topic are required when enabled"))
	}
	if c.Jobs.Enabled {
		if _, err := c.Jobs.DailyOrders(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
