package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores database connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns the postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Redis stores redis connection settings.
type Redis struct {
	Addr        string
	PositionTTL time.Duration
}

// Kafka stores broker settings for the notification event stream. Empty
// Brokers disables kafka entirely.
type Kafka struct {
	Brokers []string
	Topic   string
	Group   string
}

// Auth stores token verification settings.
type Auth struct {
	JWTSecret string
}

// Maps stores the external distance provider settings. Empty APIKey leaves
// the provider disabled, and delivery creation fails as unavailable.
type Maps struct {
	APIKey string
}

// Matching stores matching engine settings.
type Matching struct {
	Limit int
}

// RateLimit stores settings for the matching endpoint limiter.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores the debug server settings.
type Pprof struct {
	Port int
	User string
	Pass string
}

// Config stores all service settings.
type Config struct {
	Port      int
	DB        DB
	Redis     Redis
	Kafka     Kafka
	Auth      Auth
	Maps      Maps
	Matching  Matching
	RateLimit RateLimit
	Pprof     Pprof
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      DefaultPort(),
		DB:        DefaultDB(),
		Redis:     DefaultRedis(),
		Kafka:     DefaultKafka(),
		Matching:  DefaultMatching(),
		RateLimit: DefaultRateLimit(),
		Pprof:     DefaultPprof(),
	}

	var err error
	if cfg.Port, err = intEnv("PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.Pprof.Port, err = intEnv("PPROF_PORT", cfg.Pprof.Port); err != nil {
		return nil, err
	}
	cfg.Pprof.User = strEnv("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = strEnv("PPROF_PASS", cfg.Pprof.Pass)

	cfg.DB.Host = strEnv("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = strEnv("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = strEnv("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = strEnv("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = strEnv("POSTGRES_DB", cfg.DB.Name)
	if _, err = strconv.Atoi(cfg.DB.Port); err != nil {
		return nil, fmt.Errorf("invalid postgres port: %q", cfg.DB.Port)
	}

	cfg.Redis.Addr = strEnv("REDIS_ADDR", cfg.Redis.Addr)
	if cfg.Redis.PositionTTL, err = durationEnv("REDIS_POSITION_TTL", cfg.Redis.PositionTTL); err != nil {
		return nil, err
	}

	if v := strEnv("KAFKA_BROKERS", ""); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.Topic = strEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.Group = strEnv("KAFKA_GROUP", cfg.Kafka.Group)

	cfg.Auth.JWTSecret = strEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Maps.APIKey = strEnv("GOOGLE_MAPS_API_KEY", cfg.Maps.APIKey)

	if cfg.Matching.Limit, err = intEnv("MATCHING_LIMIT", cfg.Matching.Limit); err != nil {
		return nil, err
	}

	if v := strEnv("RATE_LIMIT_ENABLED", ""); v != "" {
		cfg.RateLimit.Enabled = v == "true" || v == "1"
	}
	if cfg.RateLimit.Burst, err = intEnv("RATE_LIMIT_BURST", cfg.RateLimit.Burst); err != nil {
		return nil, err
	}
	if v := strEnv("RATE_LIMIT_RATE", ""); v != "" {
		rate, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return nil, fmt.Errorf("invalid rate limit rate: %q", v)
		}
		cfg.RateLimit.Rate = rate
	}

	if err = parseFlags(cfg); err != nil {
		return nil, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Matching.Limit <= 0 {
		return nil, fmt.Errorf("invalid matching limit: %d", cfg.Matching.Limit)
	}
	return cfg, nil
}

func parseFlags(cfg *Config) error {
	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.IntVar(&cfg.Pprof.Port, "pprof-port", cfg.Pprof.Port, "pprof port to listen on")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

func strEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
