package config

import "github.com/Skotchmaster/medimarket/pkg/config"

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "order"
	}
	cfg.MustHave("DATABASE_URL", "JWT_SECRET", "CATALOG_URL")

	return ServiceConfig{Config: cfg}
}
