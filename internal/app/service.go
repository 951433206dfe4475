package app

import (
	"time"

	"pubwatch/internal/adapters"
	"pubwatch/internal/core"
	"pubwatch/internal/ports"
)

type Service struct {
	Registry ports.RegistryPort
	UI       ports.UIPort
	Manifest ports.ManifestPort
	Cache    *core.ReconciliationCache
	Clock    func() time.Time
}

type Config struct {
	RegistryBaseURL string
	TimeoutSec      int
	CacheCapacity   int
}

func NewService(ui ports.UIPort, cfg Config) Service {
	return Service{
		Registry: adapters.NewRegistryHTTPAdapter(adapters.RegistryHTTPConfig{
			BaseURL:    cfg.RegistryBaseURL,
			TimeoutSec: cfg.TimeoutSec,
		}),
		UI:       ui,
		Manifest: adapters.NewManifestFileAdapter(),
		Cache:    core.NewReconciliationCache(cfg.CacheCapacity),
		Clock:    time.Now,
	}
}
