package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Store is a SQLite-backed translation-memory store. All instances opened
// through a Pool for the same database file share one Store.
type Store struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite allows one writer at a time; a single pooled connection keeps
	// statement order deterministic across goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewStore opens (or creates) the database at dbPath and brings its schema up
// to date.
func NewStore(dbPath string) (*Store, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction.
func (s *Store) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &storeTx{tx: tx, store: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// storeTx wraps a SQL transaction
type storeTx struct {
	tx    *sql.Tx
	store *Store
}

func (t *storeTx) Commit() error {
	return t.tx.Commit()
}

func (t *storeTx) Rollback() error {
	return t.tx.Rollback()
}

// insertOrGetSourceWithQuerier is the internal implementation that uses a querier
func (s *Store) insertOrGetSourceWithQuerier(ctx context.Context, q querier, src *Source) (bool, error) {
	query := `
		INSERT INTO sources (text, context, lang, length)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(text, context, lang) DO NOTHING
	`
	result, err := q.ExecContext(ctx, query, src.Text, src.Context, src.Lang, src.Length)
	if err != nil {
		return false, fmt.Errorf("failed to insert source: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		id, err := result.LastInsertId()
		if err != nil {
			return false, err
		}
		src.SID = id
		return true, nil
	}

	// Identical row already exists; reuse its identity.
	lookup := `SELECT sid FROM sources WHERE text = ? AND context = ? AND lang = ?`
	if err := q.QueryRowContext(ctx, lookup, src.Text, src.Context, src.Lang).Scan(&src.SID); err != nil {
		return false, fmt.Errorf("failed to resolve existing source: %w", err)
	}
	return false, nil
}

// InsertOrGetSource inserts src or resolves the existing row's identity.
func (s *Store) InsertOrGetSource(ctx context.Context, src *Source) (bool, error) {
	return s.insertOrGetSourceWithQuerier(ctx, s.db, src)
}

// insertTargetWithQuerier is the internal implementation that uses a querier
func (s *Store) insertTargetWithQuerier(ctx context.Context, q querier, tgt *Target) (bool, error) {
	query := `
		INSERT INTO targets (sid, text, lang, length, time)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(sid, text, lang) DO NOTHING
	`
	result, err := q.ExecContext(ctx, query, tgt.SID, tgt.Text, tgt.Lang, tgt.Length, tgt.Time)
	if err != nil {
		return false, fmt.Errorf("failed to insert target: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		// Identical pair already recorded for that language.
		return false, nil
	}
	id, err := result.LastInsertId()
	if err != nil {
		return false, err
	}
	tgt.TID = id
	return true, nil
}

// InsertTarget inserts tgt, silently skipping an identical stored pair.
func (s *Store) InsertTarget(ctx context.Context, tgt *Target) (bool, error) {
	return s.insertTargetWithQuerier(ctx, s.db, tgt)
}

// scanPairsWithQuerier is the internal implementation that uses a querier
func (s *Store) scanPairsWithQuerier(ctx context.Context, q querier, w ScanWindow) ([]Pair, error) {
	if len(w.SourceLangs) == 0 || len(w.TargetLangs) == 0 {
		return nil, fmt.Errorf("scan requires at least one source and one target language")
	}

	// One placeholder per language tag; binding a joined string against a
	// single IN placeholder would compare the column against the whole
	// string instead of testing membership.
	args := make([]interface{}, 0, len(w.SourceLangs)+len(w.TargetLangs)+2)
	srcHoles := make([]string, len(w.SourceLangs))
	for i, lang := range w.SourceLangs {
		srcHoles[i] = "?"
		args = append(args, lang)
	}
	tgtHoles := make([]string, len(w.TargetLangs))
	for i, lang := range w.TargetLangs {
		tgtHoles[i] = "?"
		args = append(args, lang)
	}
	args = append(args, w.MinLength, w.MaxLength)

	query := `
		SELECT s.text, t.text, s.context, s.lang, t.lang
		FROM sources s
		JOIN targets t ON s.sid = t.sid
		WHERE s.lang IN (` + strings.Join(srcHoles, ",") + `)
		  AND t.lang IN (` + strings.Join(tgtHoles, ",") + `)
		  AND s.length BETWEEN ? AND ?
	`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	pairs := make([]Pair, 0)
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.SourceText, &p.TargetText, &p.Context, &p.SourceLang, &p.TargetLang); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// ScanPairs returns every Source-Target pair inside the window.
func (s *Store) ScanPairs(ctx context.Context, w ScanWindow) ([]Pair, error) {
	return s.scanPairsWithQuerier(ctx, s.db, w)
}

// Status returns row counts and the database size.
func (s *Store) Status(ctx context.Context) (*Status, error) {
	var status Status
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources").Scan(&status.SourceCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM targets").Scan(&status.TargetCount); err != nil {
		return nil, err
	}

	var pageCount, pageSize int
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, fmt.Errorf("failed to read page count: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, fmt.Errorf("failed to read page size: %w", err)
	}
	status.SizeMB = float64(pageCount*pageSize) / (1024 * 1024)

	return &status, nil
}

// Transaction implementations delegate to the internal querier helpers.

func (t *storeTx) InsertOrGetSource(ctx context.Context, src *Source) (bool, error) {
	return t.store.insertOrGetSourceWithQuerier(ctx, t.tx, src)
}

func (t *storeTx) InsertTarget(ctx context.Context, tgt *Target) (bool, error) {
	return t.store.insertTargetWithQuerier(ctx, t.tx, tgt)
}

func (t *storeTx) ScanPairs(ctx context.Context, w ScanWindow) ([]Pair, error) {
	return t.store.scanPairsWithQuerier(ctx, t.tx, w)
}
