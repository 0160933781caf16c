package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"estates/internal/catalog"
	"estates/internal/config"
	"estates/internal/format"
	"estates/internal/query"
	"estates/internal/storage/sqlite"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	catalogFlag string
	localeFlag  string

	rootCmd = &cobra.Command{
		Use:           "estates",
		Short:         "Browse and query the real-estate project catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if catalogFlag != "" {
				cfg.Catalog.Path = catalogFlag
			}
			if localeFlag != "" {
				cfg.UI.Locale = localeFlag
			}
			level, _ := config.ParseLogLevel(cfg.App.LogLevel)
			logger = slog.New(slog.NewTextHandler(logOutput(cmd), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "Catalog source (.json, .yaml, .yml, .db or .sqlite)")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "Locale used to format prices")
	rootCmd.AddCommand(serveCmd, browseCmd, searchCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// logOutput picks the log destination for cmd. The browser owns stdout while
// the alternate screen is active, so it logs to stderr.
func logOutput(cmd *cobra.Command) io.Writer {
	if cmd == browseCmd {
		return os.Stderr
	}
	return os.Stdout
}

// loadCatalog opens a fixture file or a sqlite snapshot depending on the
// extension of path.
func loadCatalog(ctx context.Context, path string, logger *slog.Logger) (*catalog.Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("open snapshot: %w", err)
		}
		store, err := sqlite.Open(path, logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadCatalog(ctx)
	default:
		return catalog.Load(path)
	}
}

// newEngine builds the query engine from the search settings.
func newEngine(c config.SearchConfig) (*query.Engine, error) {
	matcher, err := query.NewMatcher(c.Strategy, c.Threshold)
	if err != nil {
		return nil, err
	}
	return query.NewEngine(query.WithMatcher(matcher), query.WithSuggestionLimit(c.SuggestionLimit)), nil
}

type app struct {
	catalog   *catalog.Catalog
	engine    *query.Engine
	formatter *format.Formatter
}

func setup(ctx context.Context) (*app, error) {
	cat, err := loadCatalog(ctx, cfg.Catalog.Path, logger)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(cfg.Search)
	if err != nil {
		return nil, err
	}
	formatter, err := format.NewFormatter(cfg.UI.Locale)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog loaded", slog.String("path", cfg.Catalog.Path), slog.Int("projects", cat.Len()))
	return &app{catalog: cat, engine: engine, formatter: formatter}, nil
}
