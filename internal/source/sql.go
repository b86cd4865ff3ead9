package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

var tableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableName.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableName)
	}
	return nil
}

// SQL reads every row of a table through database/sql. Supported drivers
// are "sqlite" and "mysql".
type SQL struct {
	driver string
	dsn    string
	table  string

	mu sync.Mutex
	db *sql.DB
}

func NewSQL(driver, dsn, table string) (*SQL, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	switch driver {
	case "sqlite":
	case "mysql":
		// user:password@tcp(host:port)/dbname
		if _, err := mysql.ParseDSN(dsn); err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported sql driver: %s. Must be sqlite or mysql", driver)
	}
	return &SQL{driver: driver, dsn: dsn, table: table}, nil
}

func (s *SQL) Name() string { return s.driver }

func (s *SQL) Identity() string {
	id := s.driver + ":" + digest(s.dsn, s.table)
	if s.driver == "sqlite" {
		id += ":" + statStamp(s.dsn)
	}
	return id
}

func (s *SQL) open(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.driver, err)
	}
	if s.driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", s.driver, err)
	}
	s.db = db
	return db, nil
}

func (s *SQL) quotedTable() string {
	q := `"`
	if s.driver == "mysql" {
		q = "`"
	}
	parts := strings.Split(s.table, ".")
	for i, p := range parts {
		parts[i] = q + p + q
	}
	return strings.Join(parts, ".")
}

func (s *SQL) Load(ctx context.Context) (dataset.Table, error) {
	db, err := s.open(ctx)
	if err != nil {
		return dataset.Table{}, err
	}
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+s.quotedTable())
	if err != nil {
		return dataset.Table{}, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return dataset.Table{}, err
	}
	t := dataset.Table{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return dataset.Table{}, fmt.Errorf("scan %s: %w", s.table, err)
		}
		t.Rows = append(t.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return dataset.Table{}, fmt.Errorf("iterate %s: %w", s.table, err)
	}
	return t, nil
}

func (s *SQL) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
}
