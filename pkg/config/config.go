package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	OTel     OTelConfig     `mapstructure:"otel"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	Version     string `mapstructure:"version"`
}

// IsDevelopment returns true when running in development
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// Addr returns the listen address
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka broker settings for the event publisher
type KafkaConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
	ClientID string   `mapstructure:"client_id"`
}

// JWTConfig holds JWT verification settings
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// GatewayConfig holds payment gateway settings
type GatewayConfig struct {
	Type            string        `mapstructure:"type"` // mock or stripe
	Currency        string        `mapstructure:"currency"`
	StripeSecretKey string        `mapstructure:"stripe_secret_key"`
	ChargeTimeout   time.Duration `mapstructure:"charge_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	MockSuccessRate float64       `mapstructure:"mock_success_rate"`
	MockDelayMs     int           `mapstructure:"mock_delay_ms"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServiceName   string `mapstructure:"service_name"`
	CollectorAddr string `mapstructure:"collector_addr"`
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Missing .env is fine, environment variables still apply
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := bindConfig(v, cfg); err != nil {
		return nil, fmt.Errorf("failed to bind config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "techgather")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Database defaults
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_DBNAME", "techgather")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_CONNS", 25)
	v.SetDefault("DATABASE_MIN_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", "30m")

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 50)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 5)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Kafka defaults
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "ticketing-events")
	v.SetDefault("KAFKA_CLIENT_ID", "techgather-api")

	// JWT defaults
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "techgather")

	// Gateway defaults
	v.SetDefault("GATEWAY_TYPE", "mock")
	v.SetDefault("GATEWAY_CURRENCY", "USD")
	v.SetDefault("GATEWAY_STRIPE_SECRET_KEY", "")
	v.SetDefault("GATEWAY_CHARGE_TIMEOUT", "30s")
	v.SetDefault("GATEWAY_MAX_RETRIES", 3)
	v.SetDefault("GATEWAY_MOCK_SUCCESS_RATE", 1.0)
	v.SetDefault("GATEWAY_MOCK_DELAY_MS", 0)

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "techgather-api")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
}

func bindConfig(v *viper.Viper, cfg *Config) error {
	cfg.App = AppConfig{
		Name:        v.GetString("APP_NAME"),
		Environment: v.GetString("APP_ENVIRONMENT"),
		Debug:       v.GetBool("APP_DEBUG"),
		Version:     v.GetString("APP_VERSION"),
	}
	cfg.Server = ServerConfig{
		Host:         v.GetString("SERVER_HOST"),
		Port:         v.GetInt("SERVER_PORT"),
		ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
	}
	cfg.Database = DatabaseConfig{
		Host:            v.GetString("DATABASE_HOST"),
		Port:            v.GetInt("DATABASE_PORT"),
		User:            v.GetString("DATABASE_USER"),
		Password:        v.GetString("DATABASE_PASSWORD"),
		DBName:          v.GetString("DATABASE_DBNAME"),
		SSLMode:         v.GetString("DATABASE_SSLMODE"),
		MaxConns:        v.GetInt32("DATABASE_MAX_CONNS"),
		MinConns:        v.GetInt32("DATABASE_MIN_CONNS"),
		ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
		ConnMaxIdleTime: v.GetDuration("DATABASE_CONN_MAX_IDLE_TIME"),
	}
	cfg.Redis = RedisConfig{
		Host:         v.GetString("REDIS_HOST"),
		Port:         v.GetInt("REDIS_PORT"),
		Password:     v.GetString("REDIS_PASSWORD"),
		DB:           v.GetInt("REDIS_DB"),
		PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
		MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
		DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
		ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
		WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
	}
	cfg.Kafka = KafkaConfig{
		Enabled:  v.GetBool("KAFKA_ENABLED"),
		Brokers:  strings.Split(v.GetString("KAFKA_BROKERS"), ","),
		Topic:    v.GetString("KAFKA_TOPIC"),
		ClientID: v.GetString("KAFKA_CLIENT_ID"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}
	cfg.Gateway = GatewayConfig{
		Type:            v.GetString("GATEWAY_TYPE"),
		Currency:        v.GetString("GATEWAY_CURRENCY"),
		StripeSecretKey: v.GetString("GATEWAY_STRIPE_SECRET_KEY"),
		ChargeTimeout:   v.GetDuration("GATEWAY_CHARGE_TIMEOUT"),
		MaxRetries:      v.GetInt("GATEWAY_MAX_RETRIES"),
		MockSuccessRate: v.GetFloat64("GATEWAY_MOCK_SUCCESS_RATE"),
		MockDelayMs:     v.GetInt("GATEWAY_MOCK_DELAY_MS"),
	}
	cfg.OTel = OTelConfig{
		Enabled:       v.GetBool("OTEL_ENABLED"),
		ServiceName:   v.GetString("OTEL_SERVICE_NAME"),
		CollectorAddr: v.GetString("OTEL_COLLECTOR_ADDR"),
	}
	return nil
}

// Validate checks that required settings are present and consistent
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Gateway.Type != "mock" && c.Gateway.Type != "stripe" {
		return fmt.Errorf("unsupported gateway type: %s", c.Gateway.Type)
	}
	if c.Gateway.Type == "stripe" && c.Gateway.StripeSecretKey == "" {
		return fmt.Errorf("stripe secret key is required for stripe gateway")
	}
	if c.App.Environment == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required in production")
	}
	return nil
}
