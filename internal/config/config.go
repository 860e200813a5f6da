package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every recognized environment option. Zero values disable
// the corresponding integration rather than failing startup, except for the
// Stripe secret key which the payment paths require.
type Config struct {
	HTTPPort           string
	SiteURL            string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	StripeSecretKey      string
	StripePublishableKey string

	ResendAPIKey     string
	ContactToEmail   string
	ContactFromEmail string

	ShippoAPIKey       string
	ShippoUPSAccountID string
	ShipFromStreet     string
	ShipFromCity       string
	ShipFromState      string
	ShipFromZip        string
	ShipFromPhone      string
	ShipFromEmail      string

	TaxRate        float64
	TaxApplyToShip bool
	TaxOriginState string

	RedisAddr    string
	KafkaBrokers []string
}

func Load() *Config {
	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		SiteURL:            getEnv("SITE_URL", "http://localhost:8080"),
		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB

		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),

		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		ContactToEmail:   getEnv("CONTACT_TO_EMAIL", "orders@alligerhouseofwings.com"),
		ContactFromEmail: getEnv("CONTACT_FROM_EMAIL", "Alliger House of Wings <contact@alligerhouseofwings.com>"),

		ShippoAPIKey:       os.Getenv("SHIPPO_API_KEY"),
		ShippoUPSAccountID: os.Getenv("SHIPPO_UPS_ACCOUNT_ID"),
		ShipFromStreet:     os.Getenv("SHIP_FROM_STREET"),
		ShipFromCity:       os.Getenv("SHIP_FROM_CITY"),
		ShipFromState:      os.Getenv("SHIP_FROM_STATE"),
		ShipFromZip:        os.Getenv("SHIP_FROM_ZIP"),
		ShipFromPhone:      os.Getenv("SHIP_FROM_PHONE"),
		ShipFromEmail:      os.Getenv("SHIP_FROM_EMAIL"),

		TaxRate:        getEnvFloat("TAX_RATE", 0.08),
		TaxApplyToShip: getEnvBool("TAX_APPLY_TO_SHIPPING", false),
		TaxOriginState: os.Getenv("TAX_ORIGIN_STATE"),

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
