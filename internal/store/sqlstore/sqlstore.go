// Package sqlstore implements store.Store over database/sql for both the
// pgx (postgres) and modernc (sqlite) drivers. Queries are written with $n
// placeholders and rewritten for sqlite; timestamps are set in Go and the
// schema sticks to the dialect subset both engines accept.
package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// Driver names accepted by New.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed schema.sql
var schemaSQL string

// OpenPostgres opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func OpenPostgres(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database at the given path and
// enables WAL journal mode and foreign keys.
func OpenSQLite(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// SQLStore is a store.Store backed by a SQL database.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// New constructs a SQLStore. driver must be DriverPostgres or DriverSQLite.
func New(db *sql.DB, driver string) (*SQLStore, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Users() store.Users             { return &users{s} }
func (s *SQLStore) Persons() store.Persons         { return &persons{s} }
func (s *SQLStore) Places() store.Places           { return &places{s} }
func (s *SQLStore) Events() store.Events           { return &events{s} }
func (s *SQLStore) Memories() store.Memories       { return &memories{s} }
func (s *SQLStore) Reflections() store.Reflections { return &reflections{s} }
func (s *SQLStore) Attributes() store.Attributes   { return &attributes{s} }
func (s *SQLStore) Collections() store.Collections { return &collections{s} }

// HealthPing implements health.HealthPinger.
func (s *SQLStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap applies the embedded schema. Statements use IF NOT EXISTS so the
// call is safe on every start.
func (s *SQLStore) Bootstrap(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func schemaStatements() []string {
	parts := strings.Split(schemaSQL, ";")
	var out []string
	for _, p := range parts {
		if stmt := strings.TrimSpace(p); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

var placeholderRx = regexp.MustCompile(`\$\d+`)

// q rewrites $n placeholders to ? for the sqlite driver. Placeholders are
// always sequential and never reused, so positional rewriting is safe.
func (s *SQLStore) q(query string) string {
	if s.driver == DriverSQLite {
		return placeholderRx.ReplaceAllString(query, "?")
	}
	return query
}

// --- shared helpers ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// notFound maps sql.ErrNoRows onto the model sentinel, tagged with the entity.
func notFound(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, model.ErrNotFound)
	}
	return err
}

// encodeJSON renders v as JSON text for a TEXT column. Returning a string
// rather than []byte matters: the sqlite driver stores []byte as a BLOB,
// which breaks LIKE matches against the column.
func encodeJSON(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 || string(b) == "null" || string(b) == "[]" {
		return nil, nil
	}
	return string(b), nil
}

func decodeStrings(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var out []string
	_ = json.Unmarshal([]byte(raw.String), &out)
	return out
}

func decodePairs(raw sql.NullString) []model.AttributePair {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var out []model.AttributePair
	_ = json.Unmarshal([]byte(raw.String), &out)
	return out
}

// likePattern builds a case-insensitive substring pattern for LOWER(..) LIKE.
func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
