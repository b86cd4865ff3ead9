package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joeaphiboon/faculty-comparison/internal/catalog"
	"github.com/joeaphiboon/faculty-comparison/internal/config"
	"github.com/joeaphiboon/faculty-comparison/internal/source"
)

// Set by the release build through -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "facultydash",
	Short:         "Compare faculty skill z-scores across skill groups.",
	Long:          `facultydash loads a table of per-faculty skill z-scores and serves radar, ranking and comparison charts over HTTP, on the terminal, as exports, or to MCP clients.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.AddCommand(serveCmd, reportCmd, exportCmd, mcpCmd, versionCmd)
}

// app holds what every subcommand needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	catalog *catalog.Catalog
	chain   *source.Chain
	cache   *source.Cache
}

// setup loads config, the skill catalog and the dataset chain. Logs go to
// logOut so that commands writing data to stdout keep it clean.
func setup(logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Logging, logOut)
	slog.SetDefault(logger)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	chain, err := source.FromConfig(cfg.Dataset, cat.Metrics(), logger)
	if err != nil {
		return nil, fmt.Errorf("configure dataset sources: %w", err)
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		catalog: cat,
		chain:   chain,
		cache:   source.NewCache(chain),
	}, nil
}

func (a *app) close() { a.chain.Close() }

func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// selection fills in the first entity and the first group when unset.
func selection(ctx context.Context, a *app, entity, group string) (string, string, error) {
	if entity == "" {
		ds, err := a.cache.Get(ctx)
		if err != nil {
			return "", "", err
		}
		if ds.Len() > 0 {
			entity = ds.Entities()[0]
		}
	}
	if group == "" {
		if groups := a.catalog.Groups(); len(groups) > 0 {
			group = groups[0]
		}
	}
	return entity, group, nil
}
