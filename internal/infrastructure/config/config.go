package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Callback      CallbackConfig      `mapstructure:"callback"`
	Dispatch      DispatchConfig      `mapstructure:"dispatch"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	Trigger       TriggerConfig       `mapstructure:"trigger"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	InstanceID    string              `mapstructure:"instance_id"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	ConnectRetries  uint          `mapstructure:"connect_retries"`
}

type RedisConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	DB                int           `mapstructure:"db"`
	Password          string        `mapstructure:"password"`
	ConnectRetries    int           `mapstructure:"connect_retries"`
	ConnectRetryDelay time.Duration `mapstructure:"connect_retry_delay"`
}

// CallbackConfig configures the payment gateway callback endpoint.
// Key2 is the gateway's callback secret and must never be logged.
type CallbackConfig struct {
	Path              string `mapstructure:"path"`
	Key2              string `mapstructure:"key2"`
	MaxBodyBytes      int64  `mapstructure:"max_body_bytes"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// DispatchConfig configures the admin notification fan-out.
type DispatchConfig struct {
	AdminRole      string        `mapstructure:"admin_role"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

type WorkerConfig struct {
	BatchSize          int64         `mapstructure:"batch_size"`
	BlockDuration      time.Duration `mapstructure:"block_duration"`
	OutboxPollInterval time.Duration `mapstructure:"outbox_poll_interval"`
	OutboxBatchSize    int           `mapstructure:"outbox_batch_size"`
	ConsumerGroup      string        `mapstructure:"consumer_group"`
	DispatchTimeout    time.Duration `mapstructure:"dispatch_timeout"`
}

// TriggerConfig selects where order-created events come from.
type TriggerConfig struct {
	Source     string `mapstructure:"source"`
	AMQPURL    string `mapstructure:"amqp_url"`
	Exchange   string `mapstructure:"exchange"`
	Queue      string `mapstructure:"queue"`
	RoutingKey string `mapstructure:"routing_key"`
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

const (
	TriggerSourceRedis = "redis"
	TriggerSourceAMQP  = "amqp"
)

// Role selects which binary's settings Load validates.
type Role string

const (
	RoleAPI    Role = "api"
	RoleWorker Role = "worker"
)

func Load(role Role) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("STORENOTIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storenotify")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(role); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the shared settings plus those the given binary uses.
func (c *Config) Validate(role Role) error {
	var errs []error

	if c.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if c.Database.Port <= 0 {
		errs = append(errs, fmt.Errorf("database.port must be positive"))
	}
	if c.Redis.Port <= 0 {
		errs = append(errs, fmt.Errorf("redis.port must be positive"))
	}

	switch role {
	case RoleAPI:
		errs = append(errs, c.validateAPI()...)
	case RoleWorker:
		errs = append(errs, c.validateWorker()...)
	default:
		errs = append(errs, fmt.Errorf("unknown config role %q", role))
	}

	if isProduction() && c.Database.Password == "" {
		errs = append(errs, fmt.Errorf("database.password required in production"))
	}

	return errors.Join(errs...)
}

func (c *Config) validateAPI() []error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if strings.Trim(c.Callback.Path, "/") == "" {
		errs = append(errs, fmt.Errorf("callback.path is required"))
	}
	if c.Callback.Key2 == "" {
		errs = append(errs, fmt.Errorf("callback.key2 is required"))
	} else if isProduction() && len(c.Callback.Key2) < 16 {
		errs = append(errs, fmt.Errorf("callback.key2 must be at least 16 characters in production"))
	}
	if c.Callback.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("callback.max_body_bytes must be positive"))
	}
	return errs
}

func (c *Config) validateWorker() []error {
	var errs []error

	if c.Dispatch.AdminRole == "" {
		errs = append(errs, fmt.Errorf("dispatch.admin_role is required"))
	}
	if c.Dispatch.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("dispatch.write_timeout must be positive"))
	}
	if c.Dispatch.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("dispatch.max_concurrency must not be negative"))
	}
	if c.Worker.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("worker.batch_size must be positive"))
	}
	if c.Worker.OutboxPollInterval <= 0 {
		errs = append(errs, fmt.Errorf("worker.outbox_poll_interval must be positive"))
	}
	switch c.Trigger.Source {
	case TriggerSourceRedis:
	case TriggerSourceAMQP:
		if c.Trigger.AMQPURL == "" {
			errs = append(errs, fmt.Errorf("trigger.amqp_url is required when trigger.source is amqp"))
		}
	default:
		errs = append(errs, fmt.Errorf("trigger.source must be %q or %q, got %q", TriggerSourceRedis, TriggerSourceAMQP, c.Trigger.Source))
	}
	return errs
}

func isProduction() bool {
	env := os.Getenv("ENV")
	return env == "production" || env == "prod"
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8888)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "storenotify")
	v.SetDefault("database.database", "storenotify")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.connect_retries", 5)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.connect_retries", 5)
	v.SetDefault("redis.connect_retry_delay", "1s")

	// Callback defaults
	v.SetDefault("callback.path", "zalopay-callback")
	v.SetDefault("callback.max_body_bytes", 1<<20)
	v.SetDefault("callback.requests_per_minute", 600)

	// Dispatch defaults
	v.SetDefault("dispatch.admin_role", "admin")
	v.SetDefault("dispatch.write_timeout", "5s")
	v.SetDefault("dispatch.max_concurrency", 16)
	v.SetDefault("dispatch.breaker_timeout", "30s")

	// Worker defaults
	v.SetDefault("worker.batch_size", 10)
	v.SetDefault("worker.block_duration", "1s")
	v.SetDefault("worker.outbox_poll_interval", "2s")
	v.SetDefault("worker.outbox_batch_size", 10)
	v.SetDefault("worker.consumer_group", "order-notifiers")
	v.SetDefault("worker.dispatch_timeout", "30s")

	// Trigger defaults
	v.SetDefault("trigger.source", TriggerSourceRedis)
	v.SetDefault("trigger.exchange", "order_events")
	v.SetDefault("trigger.queue", "storenotify.order_created")
	v.SetDefault("trigger.routing_key", "order.created")

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", false)

	v.SetDefault("instance_id", "storenotify-1")
}

func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// DatabaseURL is the URL form used by golang-migrate.
func (c *DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CallbackRoute returns the route the callback handler is mounted on,
// e.g. "/api/zalopay-callback".
func (c *CallbackConfig) CallbackRoute() string {
	return "/api/" + strings.Trim(c.Path, "/")
}
