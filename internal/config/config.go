package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// ErrInvalidConfig возвращается, когда значение конфигурации недопустимо
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация приложения
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Redis    RedisConfig    `toml:"redis"`
	Kafka    KafkaConfig    `toml:"kafka"`
	Auth     AuthConfig     `toml:"auth"`

	location *time.Location
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig правила расписания салона
type BookingConfig struct {
	SlotIntervalMinutes int    `toml:"slot_interval_minutes"`
	Timezone            string `toml:"timezone"`
	MaxAdvanceDays      int    `toml:"max_advance_days"`
	LockWaitMillis      int    `toml:"lock_wait_ms"` // ожидание блокировки слота
}

// CatalogConfig клиент каталога услуг и расписаний мастеров
type CatalogConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// RedisConfig распределенная блокировка слотов; без нее блокировка в памяти процесса
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	LockTTLMs  int    `toml:"lock_ttl_ms"`
	LockWaitMs int    `toml:"lock_wait_ms"`
}

// KafkaConfig публикация событий записей; пустой brokers отключает публикацию
type KafkaConfig struct {
	Brokers string `toml:"brokers"` // через запятую
	Topic   string `toml:"topic"`
}

// AuthConfig проверка JWT
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переменные окружения DB_PASSWORD, JWT_SECRET, REDIS_PASSWORD
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon_scheduler",
		},
		Booking: BookingConfig{
			SlotIntervalMinutes: domain.DefaultSlotIntervalMinutes,
			Timezone:            domain.DefaultTimezone,
			MaxAdvanceDays:      domain.DefaultMaxAdvanceDays,
			LockWaitMillis:      3000,
		},
		Catalog: CatalogConfig{
			Timeout: 5,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			LockTTLMs:  10000,
			LockWaitMs: 3000,
		},
		Kafka: KafkaConfig{
			Topic: "appointments",
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

// Validate проверяет конфигурацию и вычисляет часовой пояс салона
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}

	b := c.Booking
	if b.SlotIntervalMinutes < domain.MinSlotIntervalMinutes || b.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: booking.slot_interval_minutes must be between %d and %d, got %d",
			ErrInvalidConfig, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes, b.SlotIntervalMinutes)
	}
	if b.MaxAdvanceDays < 0 || b.MaxAdvanceDays > domain.MaxAdvanceDays {
		return fmt.Errorf("%w: booking.max_advance_days must be between 0 and %d, got %d",
			ErrInvalidConfig, domain.MaxAdvanceDays, b.MaxAdvanceDays)
	}
	if b.LockWaitMillis <= 0 {
		return fmt.Errorf("%w: booking.lock_wait_ms must be positive", ErrInvalidConfig)
	}

	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalidConfig, b.Timezone, err)
	}
	c.location = loc

	if strings.TrimSpace(c.Catalog.URL) == "" {
		return fmt.Errorf("%w: catalog.url is required", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required (or JWT_SECRET)", ErrInvalidConfig)
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
		}
		if c.Redis.LockTTLMs <= 0 || c.Redis.LockWaitMs <= 0 {
			return fmt.Errorf("%w: redis.lock_ttl_ms and redis.lock_wait_ms must be positive", ErrInvalidConfig)
		}
	}

	if c.Kafka.Brokers != "" && c.Kafka.Topic == "" {
		return fmt.Errorf("%w: kafka.topic is required when brokers are set", ErrInvalidConfig)
	}

	return nil
}

// Location часовой пояс салона; UTC до вызова Validate
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// LockWait ожидание блокировки слота в процессе
func (c BookingConfig) LockWait() time.Duration {
	return time.Duration(c.LockWaitMillis) * time.Millisecond
}

// LockTTL время жизни ключа блокировки в Redis
func (c RedisConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLMs) * time.Millisecond
}

// LockWait ожидание блокировки в Redis
func (c RedisConfig) LockWait() time.Duration {
	return time.Duration(c.LockWaitMs) * time.Millisecond
}
