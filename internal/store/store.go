// Package store is the session journal: chat turns, graded answers and
// model requests in one SQLite file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	_ "modernc.org/sqlite"
)

// connPragmas are applied by the driver to every new connection.
var connPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
}

type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open opens or creates the journal at path and brings its tables up to
// date.
func Open(path string) (*Store, error) {
	q := url.Values{}
	for _, p := range connPragmas {
		q.Add("_pragma", p)
	}
	db, err := sql.Open("sqlite", path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	// One writer keeps the shared sequence and WAL checkpoints simple.
	db.SetMaxOpenConns(1)

	drv := entsql.OpenDB(dialect.SQLite, db)
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		drv.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := migrate(ctx, drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	seq, err := newSequenceCounter(db)
	if err != nil {
		drv.Close()
		return nil, err
	}
	return &Store{db: db, drv: drv, seq: seq}, nil
}

// DB exposes the connection for ad-hoc queries in tests and tools.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.drv.Close()
}

// EventRepo is the read/write API over the journal tables.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// DefaultDBPath is $STUDYBUDDY_DB when set, otherwise studybuddy.db under
// the XDG data directory. The parent directory is created.
func DefaultDBPath() (string, error) {
	p := os.Getenv("STUDYBUDDY_DB")
	if p == "" {
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		p = filepath.Join(dataHome, "studybuddy", "studybuddy.db")
	}
	return p, EnsureDir(p)
}

// EnsureDir creates the directory that will hold path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
