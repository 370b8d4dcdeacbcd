package config

import (
	"os"

	"github.com/Skotchmaster/medimarket/pkg/config"
)

type Config struct {
	ListenAddr    string
	CatalogURL    string
	SchedulingURL string
	CartURL       string
	OrderURL      string
	JWTSecret     []byte
	LogLevel      string
	SecureCookies bool
}

func Load() *Config {
	return &Config{
		ListenAddr:    config.EnvDefault("GATEWAY_ADDR", ":8080"),
		CatalogURL:    config.MustNonEmpty(os.Getenv("CATALOG_URL"), "CATALOG_URL"),
		SchedulingURL: config.MustNonEmpty(os.Getenv("SCHEDULING_URL"), "SCHEDULING_URL"),
		CartURL:       config.MustNonEmpty(os.Getenv("CART_URL"), "CART_URL"),
		OrderURL:      config.MustNonEmpty(os.Getenv("ORDER_URL"), "ORDER_URL"),
		JWTSecret:     []byte(config.MustNonEmpty(os.Getenv("JWT_SECRET"), "JWT_SECRET")),
		LogLevel:      config.EnvDefault("LOG_LEVEL", "info"),
		SecureCookies: config.EnvDefault("SECURE_COOKIES", "") == "true",
	}
}
