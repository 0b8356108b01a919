package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Paystack    PaystackConfig
	Flutterwave FlutterwaveConfig
	Jobs        JobsConfig

	// BaseCurrency is the currency requests are priced in and wallets
	// are credited in.
	BaseCurrency string
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

type PaystackConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

type FlutterwaveConfig struct {
	BaseURL    string // v3 API root
	SecretKey  string
	SecretHash string // verif-hash shared secret
	Timeout    time.Duration
}

type JobsConfig struct {
	StalePendingInterval  time.Duration
	StalePendingAge       time.Duration
	UnpaidRequestInterval time.Duration
	UnpaidRequestAge      time.Duration
	EscrowReleaseInterval time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "vybraa:vybraa@tcp(localhost:3306)/vybraa?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			AccessExpiry: 15 * time.Minute,
			Issuer:       "vybraa",
		},
		Paystack: PaystackConfig{
			BaseURL:   getEnv("PAYSTACK_URL", "https://api.paystack.co"),
			SecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
			Timeout:   15 * time.Second,
		},
		Flutterwave: FlutterwaveConfig{
			BaseURL:    getEnv("FLUTTERWAVE_V3_URL", "https://api.flutterwave.com/v3"),
			SecretKey:  getEnv("FLUTTERWAVE_SECRET_KEY", ""),
			SecretHash: getEnv("FLUTTERWAVE_SECRET_HASH", ""),
			Timeout:    15 * time.Second,
		},
		Jobs: JobsConfig{
			StalePendingInterval:  time.Hour,
			StalePendingAge:       24 * time.Hour,
			UnpaidRequestInterval: 24 * time.Hour,
			UnpaidRequestAge:      48 * time.Hour,
			EscrowReleaseInterval: time.Minute,
		},
		BaseCurrency: getEnv("BASE_CURRENCY", "USD"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
