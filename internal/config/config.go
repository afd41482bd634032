package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Seat decrement policies for a booking.  PerBooking matches the behaviour of
// the original site (one seat per booking regardless of party size).
const (
	DecrementPerBooking = "per_booking"
	DecrementPerPerson  = "per_person"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env      string // application environment (dev, test, prod)
	Port     string // HTTP port to listen on
	LogLevel string // debug, info, warn, error

	DBDriver string // "mysql" or "sqlite"
	DBUser   string
	DBPass   string // optional
	DBHost   string
	DBPort   string
	DBName   string
	DBPath   string // sqlite database file

	AuthJWTSecret     string // secret shared with the identity provider for session tokens
	AdminUser         string
	AdminPasswordHash string // bcrypt hash; admin routes are disabled when empty

	BookingDecrement string // DecrementPerBooking or DecrementPerPerson
	BookingConsumer  bool   // run the booking log consumer inside the server process

	DemoCatalogPath string // optional YAML catalog for the demo viewer
	OTelEndpoint    string // OTLP/HTTP endpoint; tracing is off when empty
}

// Load reads configuration from the environment.  A .env file in the working
// directory is applied first when present.  Missing required variables cause
// the program to exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}
	cfg := Config{
		Env:      must("APP_ENV"),
		Port:     must("APP_PORT"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver: strings.ToLower(getenv("DB_DRIVER", "mysql")),

		AuthJWTSecret:     must("AUTH_JWT_SECRET"),
		AdminUser:         getenv("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		BookingDecrement: getenv("BOOKING_DECREMENT", DecrementPerBooking),
		BookingConsumer:  envBool("BOOKING_CONSUMER", false),

		DemoCatalogPath: os.Getenv("DEMO_CATALOG_PATH"),
		OTelEndpoint:    os.Getenv("OTEL_ENDPOINT"),
	}
	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case "sqlite":
		cfg.DBPath = getenv("DB_PATH", "aerial-tours.db")
	default:
		log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return cfg
}

// Validate checks cross-field constraints that the env helpers cannot.
func (c Config) Validate() error {
	switch c.BookingDecrement {
	case DecrementPerBooking, DecrementPerPerson:
	default:
		return fmt.Errorf("BOOKING_DECREMENT must be %q or %q, got %q", DecrementPerBooking, DecrementPerPerson, c.BookingDecrement)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("APP_PORT must be numeric, got %q", c.Port)
	}
	return nil
}

// DSN builds the data source name for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBPath
	}
	auth := c.DBUser
	if c.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", c.DBUser, c.DBPass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, c.DBHost, c.DBPort, c.DBName)
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}
