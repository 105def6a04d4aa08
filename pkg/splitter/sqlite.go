package splitter

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// WriteIndexDB mirrors the index into a SQLite database so large archives
// can be queried without re-reading index.json. Rows are keyed by
// conversation id; re-running a split upserts in place.
func WriteIndexDB(ctx context.Context, dbPath string, entries []IndexEntry) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening index database: %w", err)
	}
	defer db.Close()

	if err := migrate(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
	INSERT OR REPLACE INTO conversations
		(id, path, title, create_time, update_time, message_count, model)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query,
			e.ID, e.Path, e.Title, e.CreateTime, e.UpdateTime, e.MessageCount, e.Model,
		); err != nil {
			return fmt.Errorf("inserting conversation %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}

	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		title TEXT NOT NULL,
		create_time REAL,
		update_time REAL,
		message_count INTEGER NOT NULL DEFAULT 0,
		model TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_create_time
		ON conversations(create_time);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating index database: %w", err)
	}
	return nil
}
