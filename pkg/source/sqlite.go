package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// DefaultTable is the table queried when none is configured.
const DefaultTable = "documents"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite reads a document index. The table must have a file_path column;
// title and chunk_count are optional values but must exist as columns:
//
//	CREATE TABLE documents (file_path TEXT, title TEXT, chunk_count INTEGER)
//
// Folders are synthesized from the file paths with [FoldersFromFiles].
type SQLite struct {
	path  string
	db    *sql.DB
	table string
	name  string

	backoff Backoff
}

// NewSQLite reads table from the database file at path. The database is
// opened on every Load.
func NewSQLite(path, table, name string) (*SQLite, error) {
	s, err := newSQLite(table, name)
	if err != nil {
		return nil, err
	}
	s.path = path
	if s.name == "" {
		s.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// NewSQLiteDB reads table from an open database. The caller keeps
// ownership of db.
func NewSQLiteDB(db *sql.DB, table, name string) (*SQLite, error) {
	s, err := newSQLite(table, name)
	if err != nil {
		return nil, err
	}
	s.db = db
	return s, nil
}

func newSQLite(table, name string) (*SQLite, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid table name %q", table)
	}
	return &SQLite{table: table, name: name, backoff: DefaultBackoff}, nil
}

// SetBackoff changes how a locked database is retried.
func (s *SQLite) SetBackoff(b Backoff) { s.backoff = b }

// Kind implements [Source].
func (s *SQLite) Kind() string { return "sqlite" }

// Location implements [Source].
func (s *SQLite) Location() string {
	if s.path == "" {
		return "db:" + s.table
	}
	return s.path + "#" + s.table
}

// Load implements [Source]. A locked database is retried with backoff.
func (s *SQLite) Load(ctx context.Context) (tree.Folder, []tree.File, error) {
	db := s.db
	if db == nil {
		var err error
		if db, err = sql.Open("sqlite", s.path); err != nil {
			return tree.Folder{}, nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "open %s", s.path)
		}
		defer func() { _ = db.Close() }()
	}

	var files []tree.File
	err := s.backoff.Do(ctx, func() error {
		var err error
		files, err = s.query(ctx, db)
		if err != nil && isLocked(err) {
			return Transient(err)
		}
		return err
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return tree.Folder{}, nil, err
		}
		return tree.Folder{}, nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "query %s", s.table)
	}
	return FoldersFromFiles(s.name, files), files, nil
}

func (s *SQLite) query(ctx context.Context, db *sql.DB) ([]tree.File, error) {
	q := `SELECT file_path, COALESCE(title, ''), COALESCE(chunk_count, 0) FROM ` + s.table + ` ORDER BY file_path`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var files []tree.File
	for rows.Next() {
		var f tree.File
		if err := rows.Scan(&f.FilePath, &f.Title, &f.ChunkCount); err != nil {
			return nil, err
		}
		if err := errors.ValidatePath(f.FilePath); err != nil {
			return nil, err
		}
		if f.FilePath == "" {
			continue
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func isLocked(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
