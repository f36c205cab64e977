// Command rezka browses the site from the terminal and resolves playable
// stream URLs for films and series episodes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pascal91DA/rezka-grabber/internal/cache"
	"github.com/pascal91DA/rezka-grabber/internal/client"
	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/metrics"
	"github.com/pascal91DA/rezka-grabber/internal/resolver"
	"github.com/spf13/cobra"
)

const defaultCacheTTL = 30 * time.Minute

var (
	flagJSON    bool
	flagMetrics bool
)

// app holds the collaborators shared by every command.
type app struct {
	cfg           *config.Config
	client        client.Client
	resolver      *resolver.Resolver
	metricsServer *http.Server
}

var current *app

var rootCmd = &cobra.Command{
	Use:               "rezka",
	Short:             "Browse the site and resolve playable stream URLs",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagMetrics, "metrics", false, "Serve Prometheus metrics while the command runs")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(cuesCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	logger := config.GetLogger()
	if cfg == nil {
		return errors.New("configuration not loaded")
	}

	logger.Debug().
		Str("rezka_domain", cfg.Domain()).
		Str("proxy_connection_string", cfg.ProxyConnectionString).
		Str("cache_provider", cfg.Cache.Provider).
		Msg("Configuration loaded")

	pageCache, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           config.Duration(cfg.Cache.TTL, defaultCacheTTL),
		Logger:        cache.NewZerologLogger(logger),
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         "media_pages",
	})
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.Cache.Provider).Msg("Media page cache unavailable, continuing without it")
	}

	c := client.NewClient(cfg, pageCache)
	current = &app{
		cfg:      cfg,
		client:   c,
		resolver: resolver.New(c.Fetcher(), resolver.OptionsFromConfig(cfg)),
	}

	if flagMetrics || cfg.Metrics.Enabled {
		srv := metrics.NewHTTPServer(cfg.Metrics.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", srv.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Failed to serve metrics")
			}
		}()
		current.metricsServer = srv
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if current == nil {
		return
	}
	logger := config.GetLogger()
	if current.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := current.metricsServer.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown metrics server")
		}
	}
	if err := current.client.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close client")
	}
}

// printJSON writes v indented when --json is set and reports whether it did.
func printJSON(w io.Writer, v any) (bool, error) {
	if !flagJSON {
		return false, nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return true, enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
