package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. Values come from environment
// variables so main stays lean; empty optional values disable the feature
// (Postgres falls back to in-memory stores, Kafka to the channel worker).
type Config struct {
	Addr          string
	PostgresURL   string
	RedisURL      string
	KafkaBrokers  string
	KafkaTopic    string
	JWTSigningKey string
	// RedsysMerchantCode identifies the federation to the payment gateway.
	// The default is the Redsys sandbox merchant.
	RedsysMerchantCode string
	// ExpiryCacheTTL bounds staleness of the cached expiring-soon listings.
	ExpiryCacheTTL time.Duration
	// ListLimit is the default page size for unbounded list requests.
	ListLimit int
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:               envOr("AIKIFED_ADDR", ":8080"),
		PostgresURL:        os.Getenv("AIKIFED_POSTGRES_URL"),
		RedisURL:           os.Getenv("AIKIFED_REDIS_URL"),
		KafkaBrokers:       os.Getenv("AIKIFED_KAFKA_BROKERS"),
		KafkaTopic:         envOr("AIKIFED_KAFKA_TOPIC", "aikifed.audit"),
		JWTSigningKey:      os.Getenv("AIKIFED_JWT_SIGNING_KEY"),
		RedsysMerchantCode: envOr("AIKIFED_REDSYS_MERCHANT_CODE", "999008881"),
		ExpiryCacheTTL:     5 * time.Minute,
		ListLimit:          100,
	}
	if ttl := os.Getenv("AIKIFED_EXPIRY_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.ExpiryCacheTTL = d
		}
	}
	if limit := os.Getenv("AIKIFED_LIST_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			cfg.ListLimit = n
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
