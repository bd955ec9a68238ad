package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	MySQLHost   string `env:"MYSQL_HOST" envDefault:"mysql"`
	MySQLPort   string `env:"MYSQL_PORT" envDefault:"3306"`
	MySQLDB     string `env:"MYSQL_DB" envDefault:"loanapp"`
	MySQLUser   string `env:"MYSQL_USER" envDefault:"loanapp"`
	MySQLPass   string `env:"MYSQL_PASS" envDefault:"loanapp"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"redis:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	IdempTTLSecs  int           `env:"IDEMPOTENCY_TTL_SECONDS" envDefault:"300"`
	LedgerLockTTL time.Duration `env:"LEDGER_LOCK_TTL" envDefault:"30s"`

	JWTSecret string `env:"JWT_SECRET"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	PhoneRegion string `env:"PHONE_DEFAULT_REGION" envDefault:"IN"`

	OTELEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"loanapp-backend"`
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over .env entries.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// a missing .env is normal outside local development
		_ = godotenv.Load(f)
	}
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) IdempTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; loc=UTC keeps due dates stable
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
