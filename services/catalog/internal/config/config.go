package config

import "github.com/Skotchmaster/medimarket/pkg/config"

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "catalog"
	}
	cfg.MustHave("DATABASE_URL", "JWT_SECRET")

	return ServiceConfig{Config: cfg}
}
