package api

import (
	"go.uber.org/zap"

	"github.com/spectriclabs/heka-data-service/internal/cache"
	"github.com/spectriclabs/heka-data-service/internal/config"
	"github.com/spectriclabs/heka-data-service/internal/datasource"
)

type API struct {
	Cfg    *config.Config
	Cache  *cache.Cache
	Source *datasource.Source
	Log    *zap.Logger
}

func NewHDSAPI(cfg *config.Config, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	c := cache.New(cfg.CacheLocation, log)
	return &API{
		Cfg:    cfg,
		Cache:  c,
		Source: &datasource.Source{Cfg: cfg, Cache: c, Log: log},
		Log:    log,
	}
}
