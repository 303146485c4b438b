// Command apiserver is the standalone polychain API daemon. Unlike
// `polychain serve` it watches its config file and swaps the application
// service on change without dropping the listener.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/afero"

	"github.com/polyforge/polychain/internal/application/polymer"
	"github.com/polyforge/polychain/internal/config"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/logging"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/prometheus"
	"github.com/polyforge/polychain/internal/infrastructure/storage/fsstore"
	httpapi "github.com/polyforge/polychain/internal/interfaces/http"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
)

const defaultConfigPath = "configs/polychain.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	logger = logger.Named("apiserver")
	logger.Info("starting polychain API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()))

	var metrics *prometheus.Metrics
	if cfg.Metrics.Enabled {
		metrics = prometheus.New(prometheus.Config{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		})
	}

	router, err := buildRouter(cfg, metrics, logger)
	if err != nil {
		return err
	}

	// The handler is swapped atomically on config reload; listener settings
	// (address, timeouts) stay fixed for the process lifetime.
	var handler atomic.Value
	handler.Store(router)
	server := httpapi.NewServer(cfg.Server, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.Load().(http.Handler).ServeHTTP(w, r)
	}), logger)

	if _, statErr := os.Stat(configPath); statErr == nil {
		config.Watch(configPath, func(next *config.Config) {
			nextRouter, buildErr := buildRouter(next, metrics, logger)
			if buildErr != nil {
				logger.Error("config reload rejected", logging.Err(buildErr))
				return
			}
			handler.Store(nextRouter)
			logger.Info("configuration reloaded")
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}
	return server.Stop(context.Background())
}

// loadConfig loads the config file, falling back to environment variables
// and defaults when the file is absent.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	fmt.Fprintf(os.Stderr, "warning: config file %s not found, using environment and defaults\n", path)
	return config.LoadFromEnv()
}

// buildRouter assembles the service and router for a config snapshot.
func buildRouter(cfg *config.Config, metrics *prometheus.Metrics, logger logging.Logger) (http.Handler, error) {
	fs := afero.NewOsFs()
	store, err := fsstore.New(fs, cfg.Storage.OutputDir, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize document store: %w", err)
	}
	scratch, err := fsstore.NewScratch(fs, cfg.Storage.ScratchDir, cfg.Storage.KeepScratch, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize scratch area: %w", err)
	}
	svc := polymer.NewService(cfg, store, metrics, logger)
	return httpapi.NewRouter(httpapi.RouterDeps{
		Service: svc,
		Config:  cfg,
		Metrics: metrics,
		Scratch: scratch,
		Logger:  logger,
		Version: version,
	}), nil
}
