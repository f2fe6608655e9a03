package factory

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/loykin/scriptchain/internal/store"
	pg "github.com/loykin/scriptchain/internal/store/postgres"
	sq "github.com/loykin/scriptchain/internal/store/sqlite"
	"github.com/loykin/scriptchain/internal/store/yamlfile"
)

// NewFromDSN selects a store implementation based on DSN.
// Supported:
//   - yaml:    "file://<dir>" or a bare directory path (YAML file per chain)
//   - sqlite:  "sqlite://<path>", ":memory:" or a bare path ending in .db/.sqlite/.sqlite3
//   - postgres: DSN starting with "postgres://" or "postgresql://"
func NewFromDSN(dsn string) (store.Store, error) {
	d := strings.TrimSpace(dsn)
	ld := strings.ToLower(d)
	if ld == "" {
		return nil, errors.New("empty DSN")
	}
	switch {
	case strings.HasPrefix(ld, "postgres://") || strings.HasPrefix(ld, "postgresql://"):
		return pg.New(d)
	case strings.HasPrefix(ld, "sqlite://"):
		return sq.New(d[len("sqlite://"):])
	case strings.HasPrefix(ld, "file://"):
		return yamlfile.New(d[len("file://"):])
	case ld == ":memory:":
		return sq.New(d)
	}
	switch strings.ToLower(filepath.Ext(d)) {
	case ".db", ".sqlite", ".sqlite3":
		return sq.New(d)
	}
	if strings.Contains(d, "://") {
		return nil, errors.New("unsupported DSN format: " + d)
	}
	return yamlfile.New(d)
}
