// Package source loads the score table from the configured places and
// caches the result until the source identity changes or the cache is
// invalidated.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joeaphiboon/faculty-comparison/internal/config"
	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
	"github.com/joeaphiboon/faculty-comparison/internal/metrics"
)

var ErrDatasetUnavailable = errors.New("dataset unavailable")

// Source reads a raw table from one place.
type Source interface {
	Name() string
	// Identity changes whenever the underlying data may have changed.
	Identity() string
	Load(ctx context.Context) (dataset.Table, error)
}

// Loader produces a validated dataset.
type Loader interface {
	Identity() string
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Chain tries each source in order and returns the first table that builds
// into a dataset holding every required metric.
type Chain struct {
	sources      []Source
	entityColumn string
	required     []string
	logger       *slog.Logger
}

func NewChain(entityColumn string, required []string, logger *slog.Logger, sources ...Source) *Chain {
	return &Chain{
		sources:      sources,
		entityColumn: entityColumn,
		required:     append([]string(nil), required...),
		logger:       logger,
	}
}

func (c *Chain) Sources() []Source { return append([]Source(nil), c.sources...) }

func (c *Chain) Identity() string {
	ids := make([]string, len(c.sources))
	for i, s := range c.sources {
		ids[i] = s.Identity()
	}
	return strings.Join(ids, "|")
}

func (c *Chain) Load(ctx context.Context) (*dataset.Dataset, error) {
	if len(c.sources) == 0 {
		return nil, fmt.Errorf("%w: no sources configured", ErrDatasetUnavailable)
	}
	var errs []error
	for _, s := range c.sources {
		start := time.Now()
		ds, err := c.loadOne(ctx, s)
		metrics.ObserveSourceLoad(s.Name(), err, time.Since(start))
		if err != nil {
			c.logger.Warn("dataset source failed", "source", s.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		c.logger.Info("dataset loaded",
			"source", s.Name(),
			"rows", ds.Len(),
			"columns", len(ds.Columns()),
			"version", ds.Version,
		)
		return ds, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrDatasetUnavailable, errors.Join(errs...))
}

func (c *Chain) loadOne(ctx context.Context, s Source) (*dataset.Dataset, error) {
	table, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Build(table, c.entityColumn)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(c.required); err != nil {
		return nil, err
	}
	ds.Source = s.Name()
	return ds, nil
}

// FromConfig builds the chain in the order inline payload, secrets file,
// Postgres, SQL database, file.
func FromConfig(cfg config.DatasetConfig, required []string, logger *slog.Logger) (*Chain, error) {
	var sources []Source
	if p := cfg.InlinePayload(); p != "" {
		sources = append(sources, NewPayload(p))
	}
	if cfg.SecretsFile != "" {
		sources = append(sources, NewSecrets(cfg.SecretsFile))
	}
	if cfg.PostgresURL != "" {
		sources = append(sources, NewPostgres(cfg.PostgresURL, cfg.Table))
	}
	if cfg.SQLDSN != "" {
		s, err := NewSQL(cfg.SQLDriver, cfg.SQLDSN, cfg.Table)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	if cfg.Path != "" {
		sources = append(sources, NewFile(cfg.Path, cfg.Sheet))
	}
	return NewChain(cfg.EntityColumn, required, logger, sources...), nil
}

// Close releases pooled connections held by database sources.
func (c *Chain) Close() {
	for _, s := range c.sources {
		if cl, ok := s.(interface{ Close() }); ok {
			cl.Close()
		}
	}
}

func digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
