package source

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

// Postgres reads every row of a table. The pool is opened on first use and
// kept until Close.
type Postgres struct {
	url   string
	table string

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func NewPostgres(databaseURL, table string) *Postgres {
	return &Postgres{url: databaseURL, table: table}
}

func (p *Postgres) Name() string { return "postgres" }

// Identity hashes the URL so credentials never reach logs or cache keys.
func (p *Postgres) Identity() string {
	return "postgres:" + digest(p.url, p.table)
}

func (p *Postgres) connect(ctx context.Context) (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		return p.pool, nil
	}
	pool, err := pgxpool.New(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	p.pool = pool
	return pool, nil
}

func (p *Postgres) Load(ctx context.Context) (dataset.Table, error) {
	if err := validateTableName(p.table); err != nil {
		return dataset.Table{}, err
	}
	pool, err := p.connect(ctx)
	if err != nil {
		return dataset.Table{}, err
	}

	ident := pgx.Identifier(strings.Split(p.table, "."))
	rows, err := pool.Query(ctx, "SELECT * FROM "+ident.Sanitize())
	if err != nil {
		return dataset.Table{}, fmt.Errorf("query %s: %w", p.table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	t := dataset.Table{Columns: make([]string, len(fields))}
	for i, fd := range fields {
		t.Columns[i] = fd.Name
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return dataset.Table{}, fmt.Errorf("scan %s: %w", p.table, err)
		}
		for i, v := range vals {
			vals[i] = pgCell(v)
		}
		t.Rows = append(t.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return dataset.Table{}, fmt.Errorf("iterate %s: %w", p.table, err)
	}
	return t, nil
}

// pgCell unwraps NUMERIC columns, which pgx decodes to pgtype.Numeric.
func pgCell(v any) any {
	n, ok := v.(pgtype.Numeric)
	if !ok {
		return v
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return nil
	}
	return f.Float64
}

func (p *Postgres) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
}
