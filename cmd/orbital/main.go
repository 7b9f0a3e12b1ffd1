package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glabrego/orbital-cli/internal/app"
	"github.com/glabrego/orbital-cli/internal/config"
	"github.com/glabrego/orbital-cli/internal/globe"
	"github.com/glabrego/orbital-cli/internal/logging"
	"github.com/glabrego/orbital-cli/internal/restcountries"
	"github.com/glabrego/orbital-cli/internal/storage"
	"github.com/glabrego/orbital-cli/internal/tui"
)

var (
	configPath  string
	verbose     bool
	catalogFlag string
	charsetFlag string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "orbital",
	Short: "Spin a globe in the terminal and browse websites by country",
	Long: `orbital draws a rotating globe in the terminal. Click a country, or press
enter on the one under the crosshair, to see its flag, capital, population and
the websites listed for it in the catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			cfg, err = config.LoadFromEnv()
		}
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if catalogFlag != "" {
			cfg.Catalog = catalogFlag
		}
		if charsetFlag != "" {
			cfg.Charset = charsetFlag
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		logger, err = logging.New(cfg.LogPath, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("logger init error: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGlobe()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $ORBITAL_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "website catalog path or URL")
	rootCmd.PersistentFlags().StringVar(&charsetFlag, "charset", "", "globe glyphs: ascii, blocks or braille")

	rootCmd.AddCommand(exportCmd, categorizeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("orbital: %v", err)
	}
}

func runGlobe() error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	charset, err := globe.ParseCharset(cfg.Charset)
	if err != nil {
		return err
	}
	model := tui.NewModel(newService(repo), tui.Options{
		Charset:     charset,
		KeepCharset: charsetFlag != "" || os.Getenv("ORBITAL_CHARSET") != "",
		FlagPreview: cfg.FlagPreview,
		Logger:      logger,
	})

	logger.Info("starting", zap.String("catalog", cfg.Catalog), zap.String("topology", cfg.TopologyURL))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func openRepository() (*storage.Repository, error) {
	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := repo.Init(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	return repo, nil
}

func newService(repo app.Repository) *app.Service {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	resolver := restcountries.NewResolver(restcountries.NewClient(cfg.CountriesAPI, nil))
	return app.NewService(resolver, repo, app.Sources{
		Catalog:  cfg.Catalog,
		Topology: cfg.TopologyURL,
	}, httpClient, logger)
}
