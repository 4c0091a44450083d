package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "poslito",
}

var defaultRedis = Redis{
	Addr:        "127.0.0.1:6379",
	PositionTTL: time.Hour,
}

var defaultKafka = Kafka{
	Topic: "delivery-events",
	Group: "poslito-notifications",
}

var defaultMatching = Matching{
	Limit: 10,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       1,
	Burst:      5,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultPprof = Pprof{
	Port: 6060,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultRedis returns the default redis settings.
func DefaultRedis() Redis {
	return defaultRedis
}

// DefaultKafka returns the default kafka settings.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultMatching returns the default matching settings.
func DefaultMatching() Matching {
	return defaultMatching
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultPprof returns the default pprof settings.
func DefaultPprof() Pprof {
	return defaultPprof
}
