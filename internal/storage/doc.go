// Package storage provides SQLite-based persistence for translation-memory
// pairs.
//
// The storage layer manages:
//   - sources: unique (text, context, lang) sentence records
//   - targets: translations owned by a source, unique on (sid, text, lang)
//   - schema_version: applied migration versions
//
// Both tables are append-only. Source rows carry a denormalized length
// column; candidate scans for fuzzy matching filter on an index over it
// before any similarity scoring happens.
//
// # Basic Usage
//
//	pool := storage.NewPool()
//	defer pool.Close()
//
//	store, err := pool.Acquire("~/.tmstore/tm.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every Acquire with the same path returns the same *Store; the pool owns
// the handles and closes them on pool.Close.
//
// # Insertion
//
// Deduplication is explicit, not exception-driven:
//
//	inserted, err := store.InsertOrGetSource(ctx, src) // fills src.SID either way
//	inserted, err = store.InsertTarget(ctx, tgt)       // false = identical pair existed
//
// # Transactions
//
// Use transactions to batch a whole document atomically:
//
//	tx, err := store.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	for _, u := range units {
//	    // InsertOrGetSource / InsertTarget on tx
//	}
//	return tx.Commit()
//
// # Build Tags
//
// The package supports two build configurations:
//
//   - default: pure Go driver (modernc.org/sqlite), no C compiler needed
//   - cgosqlite: github.com/mattn/go-sqlite3, requires CGO
package storage
