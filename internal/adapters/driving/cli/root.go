// Package cli provides the ragbot command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Otachiking/Chatbot-RAG/internal/config"
	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driving"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Services holds the core services the commands drive.
type Services struct {
	Ingest    driving.IngestService
	Query     driving.QueryService
	Documents driving.DocumentService
	Report    driving.ReportService

	// Metrics is served at /metrics by the HTTP server. Optional.
	Metrics http.Handler

	// Background runs for the lifetime of long-lived servers. Optional.
	Background func(ctx context.Context)

	// Close releases resources. Optional.
	Close func() error
}

// Builder wires services from resolved settings.
type Builder func(ctx context.Context, settings *domain.AppSettings) (*Services, error)

var (
	configFile string
	envFile    string
	verbose    bool
)

var (
	builder  Builder
	settings *domain.AppSettings
	services *Services
)

var rootCmd = &cobra.Command{
	Use:   "ragbot",
	Short: "Answer questions about your documents",
	Long: `ragbot ingests PDFs and images, indexes them as embedded chunks, and
answers questions either from general knowledge or grounded in a document,
falling back to general answers when retrieval is not confident.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to ragbot.toml")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command with services created by b.
func Execute(ctx context.Context, b Builder) error {
	builder = b
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	if settings == nil {
		loaded, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		settings = loaded
	}

	if verbose {
		logger.SetVerbose(true)
		return nil
	}
	level, ok := logger.ParseLevel(settings.Log.Level)
	if !ok {
		logger.Warn("Unknown log level %q, using info", settings.Log.Level)
	}
	logger.SetLevel(level)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if services == nil || services.Close == nil {
		return nil
	}
	err := services.Close()
	services = nil
	return err
}

// loadServices builds services on first use.
func loadServices(cmd *cobra.Command) (*Services, error) {
	if services != nil {
		return services, nil
	}
	if builder == nil {
		return nil, errors.New("services not configured")
	}
	built, err := builder(cmd.Context(), settings)
	if err != nil {
		return nil, fmt.Errorf("initialising services: %w", err)
	}
	services = built
	return services, nil
}
