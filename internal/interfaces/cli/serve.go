package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/polyforge/polychain/internal/application/polymer"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/logging"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/prometheus"
	"github.com/polyforge/polychain/internal/infrastructure/storage/fsstore"
	httpapi "github.com/polyforge/polychain/internal/interfaces/http"
)

// serveOptions holds flags for the serve command.
type serveOptions struct {
	host string
	port int
}

// NewServeCmd creates the `polychain serve` command.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the polychain HTTP API server",
		Long: "Serve exposes the chain builder, monomer repeater, XYZ inspector, and\n" +
			"stored-document endpoints over HTTP, with Prometheus metrics and health\n" +
			"probes. The server stops gracefully on SIGINT or SIGTERM.",
		Example: `  polychain serve
  polychain serve --port 9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.host, "host", "", "listen host (overrides config)")
	f.IntVar(&opts.port, "port", 0, "listen port (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cliCtx.Config
	logger := cliCtx.Logger

	if cmd.Flags().Changed("host") {
		cfg.Server.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var metrics *prometheus.Metrics
	if cfg.Metrics.Enabled {
		metrics = prometheus.New(prometheus.Config{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		})
	}

	// The serve command rebuilds the service so metrics are attached; the
	// command-line pipelines constructed in PersistentPreRun run without them.
	svc := polymer.NewService(cfg, cliCtx.Service.Store(), metrics, logger)

	scratch, err := fsstore.NewScratch(afero.NewOsFs(), cfg.Storage.ScratchDir, cfg.Storage.KeepScratch, logger)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Service: svc,
		Config:  cfg,
		Metrics: metrics,
		Scratch: scratch,
		Logger:  logger,
		Version: Version,
	})
	server := httpapi.NewServer(cfg.Server, router, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	if err := server.Stop(context.Background()); err != nil {
		logger.Error("shutdown failed", logging.Err(err))
		return err
	}
	return nil
}
