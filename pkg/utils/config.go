package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Security SecurityConfig
	Booking  BookingConfig
	Currency CurrencyConfig
	Kafka    KafkaConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	CORSOrigins    []string
	RequestTimeout int // seconds
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	Migrate  bool
}

type SessionConfig struct {
	ExpiryHours  int
	CookieName   string
	CookieSecure bool
}

type SecurityConfig struct {
	EncryptionKey string
	BcryptCost    int
	AdminEmail    string
	AdminPassword string
}

type BookingConfig struct {
	MaxNights          int
	IdempotencyTTLMins int
}

type CurrencyConfig struct {
	Base     string
	RatesURL string
	Rates    map[string]float64
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func LoadConfig() (*Config, error) {
	// .env is optional, the environment always wins
	if _, err := os.Stat(".env"); err == nil {
		viper.SetConfigFile(".env")
		viper.SetConfigType("env")
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_NAME", "hotel-reservation")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("SESSION_COOKIE_NAME", "session_token")
	viper.SetDefault("SESSION_COOKIE_SECURE", false)
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("BOOKING_MAX_NIGHTS", 30)
	viper.SetDefault("IDEMPOTENCY_TTL_MINUTES", 60)
	viper.SetDefault("CURRENCY_BASE", "USD")
	viper.SetDefault("KAFKA_TOPIC", "hotel.bookings")

	rates, err := ParseRates(viper.GetString("CURRENCY_RATES"))
	if err != nil {
		return nil, fmt.Errorf("parse CURRENCY_RATES: %w", err)
	}

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			CORSOrigins:    SplitList(viper.GetString("CORS_ORIGINS")),
			RequestTimeout: viper.GetInt("REQUEST_TIMEOUT_SECONDS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
			Migrate:  viper.GetBool("DB_MIGRATE"),
		},
		Session: SessionConfig{
			ExpiryHours:  viper.GetInt("SESSION_EXPIRY_HOURS"),
			CookieName:   viper.GetString("SESSION_COOKIE_NAME"),
			CookieSecure: viper.GetBool("SESSION_COOKIE_SECURE"),
		},
		Security: SecurityConfig{
			EncryptionKey: viper.GetString("ENCRYPTION_KEY"),
			BcryptCost:    viper.GetInt("BCRYPT_COST"),
			AdminEmail:    viper.GetString("ADMIN_EMAIL"),
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
		},
		Booking: BookingConfig{
			MaxNights:          viper.GetInt("BOOKING_MAX_NIGHTS"),
			IdempotencyTTLMins: viper.GetInt("IDEMPOTENCY_TTL_MINUTES"),
		},
		Currency: CurrencyConfig{
			Base:     strings.ToUpper(viper.GetString("CURRENCY_BASE")),
			RatesURL: viper.GetString("CURRENCY_RATES_URL"),
			Rates:    rates,
		},
		Kafka: KafkaConfig{
			Brokers: SplitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
	}

	if config.Security.EncryptionKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}

	return config, nil
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseRates parses "EUR:0.92,GBP:0.79" into a rate table.
func ParseRates(raw string) (map[string]float64, error) {
	rates := make(map[string]float64)
	for _, pair := range SplitList(raw) {
		code, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid rate %q, want CODE:RATE", pair)
		}
		var rate float64
		if _, err := fmt.Sscanf(strings.TrimSpace(value), "%g", &rate); err != nil || rate <= 0 {
			return nil, fmt.Errorf("invalid rate value for %s", code)
		}
		rates[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return rates, nil
}
