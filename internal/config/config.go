package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	Database        DatabaseConfig        `toml:"database"`
	ScheduleService ScheduleServiceConfig `toml:"schedule_service"`
	PaymentGateway  PaymentGatewayConfig  `toml:"payment_gateway"`
	Cart            CartConfig            `toml:"cart"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды

	// Rate limit на checkout (запросов в секунду на IP)
	CheckoutRateLimit float64 `toml:"checkout_rate_limit"`
	CheckoutRateBurst int     `toml:"checkout_rate_burst"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DatabaseConfig настройки подключения к Postgres (журнал попыток оплаты)
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

// DSN возвращает строку подключения к Postgres
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ScheduleServiceConfig настройки клиента удаленного сервиса расписаний
type ScheduleServiceConfig struct {
	URL              string `toml:"url"`
	Timeout          int    `toml:"timeout"`             // секунды
	RulesCacheTTLSec int    `toml:"rules_cache_ttl_sec"` // TTL кэша правил расписания
}

// PaymentGatewayConfig настройки клиента платежного шлюза
type PaymentGatewayConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// CartConfig настройки корзины и часов истечения
type CartConfig struct {
	HoldMinutes          int    `toml:"hold_minutes"`
	WarnThresholdSeconds int    `toml:"warn_threshold_seconds"`
	TickIntervalMS       int    `toml:"tick_interval_ms"`
	Timezone             string `toml:"timezone"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults проставляет значения по умолчанию для незаполненных полей
func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Server.CheckoutRateLimit == 0 {
		cfg.Server.CheckoutRateLimit = 1
	}
	if cfg.Server.CheckoutRateBurst == 0 {
		cfg.Server.CheckoutRateBurst = 3
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "clf-reservation-service"
	}
	if cfg.ScheduleService.Timeout == 0 {
		cfg.ScheduleService.Timeout = 10
	}
	if cfg.ScheduleService.RulesCacheTTLSec == 0 {
		cfg.ScheduleService.RulesCacheTTLSec = 300
	}
	if cfg.PaymentGateway.Timeout == 0 {
		cfg.PaymentGateway.Timeout = 30
	}
	if cfg.Cart.HoldMinutes == 0 {
		cfg.Cart.HoldMinutes = 10
	}
	if cfg.Cart.WarnThresholdSeconds == 0 {
		cfg.Cart.WarnThresholdSeconds = 60
	}
	if cfg.Cart.TickIntervalMS == 0 {
		cfg.Cart.TickIntervalMS = 1000
	}
	if cfg.Cart.Timezone == "" {
		cfg.Cart.Timezone = "America/Sao_Paulo"
	}
}
