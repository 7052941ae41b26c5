// Package memo persists short notes in a local SQLite database.
package memo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
)

// MaxTextRunes bounds a single memo.
const MaxTextRunes = 4000

// SQLiteStore persists memos in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open creates (or opens) the database at path with WAL journaling and a
// busy timeout, and ensures the schema exists.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, domain.StorageFailure("create memo directory", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.StorageFailure("open memo database "+path, err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, path: path}
	if err := store.init(ctx); err != nil {
		_ = db.Close()
		return nil, domain.StorageFailure("initialize memo database "+path, err)
	}
	return store, nil
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS memos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		created_at TEXT NOT NULL
	);`)
	return err
}

// NormalizeText trims text and rejects empty or oversized memos.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.InvalidInput("memo text must not be empty")
	}
	if utf8.RuneCountInString(text) > MaxTextRunes {
		return "", domain.InvalidInput("memo text exceeds %d characters", MaxTextRunes)
	}
	return text, nil
}

// Add stores text and returns the new memo.
func (s *SQLiteStore) Add(ctx context.Context, text string, now time.Time) (domain.Memo, error) {
	text, err := NormalizeText(text)
	if err != nil {
		return domain.Memo{}, err
	}

	created := now.UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx, `INSERT INTO memos (text, created_at) VALUES (?, ?)`,
		text, created.Format(time.RFC3339))
	if err != nil {
		return domain.Memo{}, domain.StorageFailure("insert memo", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Memo{}, domain.StorageFailure("insert memo", err)
	}
	return domain.Memo{ID: id, Text: text, CreatedAt: created}, nil
}

// Recent returns the newest memos first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.Memo, error) {
	return s.query(ctx, "", nil, limit)
}

// Search returns memos containing every whitespace-separated term of query,
// newest first. Matching is case-insensitive for ASCII.
func (s *SQLiteStore) Search(ctx context.Context, query string, limit int) ([]domain.Memo, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return s.Recent(ctx, limit)
	}
	clauses := make([]string, 0, len(terms))
	args := make([]interface{}, 0, len(terms))
	for _, term := range terms {
		clauses = append(clauses, `text LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(term)+"%")
	}
	return s.query(ctx, " WHERE "+strings.Join(clauses, " AND "), args, limit)
}

func (s *SQLiteStore) query(ctx context.Context, where string, args []interface{}, limit int) ([]domain.Memo, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT id, text, created_at FROM memos")
	builder.WriteString(where)
	builder.WriteString(" ORDER BY id DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, builder.String(), args...)
	if err != nil {
		return nil, domain.StorageFailure("query memos", err)
	}
	defer rows.Close()

	memos := []domain.Memo{}
	for rows.Next() {
		var m domain.Memo
		var ts string
		if err := rows.Scan(&m.ID, &m.Text, &ts); err != nil {
			return nil, domain.StorageFailure("scan memo", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			m.CreatedAt = t
		}
		memos = append(memos, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageFailure("query memos", err)
	}
	return memos, nil
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
