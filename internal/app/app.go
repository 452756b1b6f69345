package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.elastic.co/apm/module/apmhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spectriclabs/heka-data-service/internal/api"
	"github.com/spectriclabs/heka-data-service/internal/cache"
	"github.com/spectriclabs/heka-data-service/internal/config"
)

func Run() {
	cfg := ParseCLI(os.Args[1:])

	logger := SetupLogger(cfg.Debug)
	defer logger.Sync()

	if err := LoadConfig(&cfg); err != nil {
		logger.Fatal("Error loading configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hdsapi := api.NewHDSAPI(&cfg, logger)
	if cfg.UseCache {
		if err := SetupCache(ctx, hdsapi.Cache, &cfg); err != nil {
			logger.Error("Cache disabled", zap.Error(err))
			cfg.UseCache = false
		}
	}

	e := SetupServer(hdsapi)

	var handler http.Handler = e
	if cfg.UseAPM {
		handler = apmhttp.Wrap(e)
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: handler,
	}

	go func() {
		logger.Info("Starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Stopping server due to error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down the server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Error during shutdown", zap.Error(err))
	}
}

// ParseCLI reads the command line flags into a config.Config.
func ParseCLI(args []string) config.Config {
	cfg := config.Config{}
	fs := pflag.NewFlagSet("hds", pflag.ExitOnError)
	fs.StringVarP(&cfg.Host, "host", "i", "0.0.0.0", "Host where the server will run")
	fs.IntVarP(&cfg.Port, "port", "p", 5055, "Port where the server will run")
	fs.BoolVarP(&cfg.Debug, "debug", "d", false, "Whether or not to enable debug logging")
	fs.StringVarP(&cfg.ConfigFile, "config", "c", "", "Location of HDS config file (yaml or json)")
	fs.StringVarP(&cfg.LocationsFile, "locations", "l", "./hdsConfig.json", "Location of the JSON file listing data locations")
	fs.BoolVarP(&cfg.UseCache, "use-cache", "u", true, "Use HDS Cache. Can be disabled for certain cases like testing.")
	fs.StringVarP(&cfg.CacheLocation, "cache-location", "C", "./hdscache/", "Where the cache will be stored")
	fs.IntVarP(&cfg.CachePollingInterval, "cache-polling-interval", "P", 60, "How often to check the cache (in seconds)")
	fs.Int64VarP(&cfg.CacheMaxBytes, "cache-max-bytes", "m", 100000000, "How large to allow the cache to be")
	fs.BoolVar(&cfg.UseAPM, "apm", false, "Trace requests with Elastic APM")
	fs.StringVar(&cfg.StimulusMode, "stim", "off", "Default stimulus mode for series requests: off, on or experimental")
	fs.StringVar(&cfg.FillMode, "fill", "nan", "Default fill for short sweeps: nan or mean")
	_ = fs.Parse(args)

	return cfg
}

// LoadConfig merges the optional config file and the locations file into
// cfg and validates the result.
func LoadConfig(cfg *config.Config) error {
	if cfg.ConfigFile != "" {
		if err := config.Load(cfg.ConfigFile, cfg); err != nil {
			return err
		}
	}
	if len(cfg.LocationDetails) == 0 && cfg.LocationsFile != "" {
		locs, err := config.LoadLocations(cfg.LocationsFile)
		if err != nil {
			return err
		}
		cfg.LocationDetails = locs
	}
	return cfg.Validate()
}

// SetupLogger sets up the zap.Logger structured logger.
func SetupLogger(debug bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	logger, logErr := zap.Config{
		Encoding:    "json",
		Level:       zap.NewAtomicLevelAt(level),
		OutputPaths: []string{"stdout"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "message",
			LevelKey:    "level",
			EncodeLevel: zapcore.CapitalLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.ISO8601TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}.Build()
	if logErr != nil {
		log.Fatalf("Couldn't setup logger: %v", logErr)
	}

	return logger
}

// SetupCache creates the cache directories and starts one purge loop per
// directory. The loops stop with ctx.
func SetupCache(ctx context.Context, c *cache.Cache, cfg *config.Config) error {
	if err := c.Setup(); err != nil {
		return err
	}
	interval := time.Duration(cfg.CachePollingInterval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	go cache.CheckCache(ctx, c.Log, c.Dir(cache.Responses), interval, cfg.CacheMaxBytes)
	go cache.CheckCache(ctx, c.Log, c.Dir(cache.Objects), interval, cfg.CacheMaxBytes)
	return nil
}

func SetupServer(a *api.API) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Debug = a.Cfg.Debug

	// Setup Middleware
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			}
			if v.Error != nil {
				a.Log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			a.Log.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// File-specific routes
	e.GET("/hds/fs", a.GetFileLocations)
	e.GET("/hds/fs/:location/*", a.GetFileOrDirectory)
	e.GET("/hds/hdr/:location/*", a.GetBundleHeader)
	e.GET("/hds/tree/:location/*", a.GetTree)
	e.GET("/hds/channels/:location/:group/*", a.GetChannels)

	// Data-service routes
	e.GET("/hds/series/:location/:group/:series/:channel/*", a.GetSeries)
	e.GET("/hds/stim/:location/:group/:series/*", a.GetStimulus)

	// Add Prometheus as middleware for metrics gathering
	p := prometheus.NewPrometheus("heka_data_service", nil)
	p.Use(e)

	return e
}
