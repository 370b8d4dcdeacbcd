package config

import (
	"log"
	"strings"
)

// Missing returns the env names from keys whose values are empty in c.
// Unknown names are reported as missing.
func (c Config) Missing(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if !c.has(k) {
			out = append(out, k)
		}
	}
	return out
}

// MustHave aborts start-up when any of keys is unset.
func (c Config) MustHave(keys ...string) {
	if missing := c.Missing(keys...); len(missing) > 0 {
		log.Fatalf("missing required env %s", strings.Join(missing, ", "))
	}
}

func (c Config) has(key string) bool {
	switch key {
	case "DATABASE_URL":
		return c.DatabaseURL != ""
	case "JWT_SECRET":
		return len(c.JWTAccessSecret) > 0
	case "CATALOG_URL":
		return c.CatalogURL != ""
	case "KAFKA_BROKERS":
		return len(c.KafkaBrokers) > 0
	case "REDIS_URL":
		return c.RedisURL != ""
	case "ES_URL":
		return c.ESURL != ""
	default:
		return false
	}
}

func MustNonEmpty(value, envName string) string {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
	return value
}
