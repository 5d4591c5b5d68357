package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"taskboard/internal/model"
)

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteSnapshot(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteSnapshot(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL,
			assignee TEXT NOT NULL DEFAULT '',
			due_date TEXT NOT NULL,
			status TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status, position);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// LoadSQLite reads the tasks of a SQLite snapshot in list order.
func LoadSQLite(ctx context.Context, path string) ([]model.Task, error) {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, title, description, priority, assignee, due_date, status FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Task
	for rows.Next() {
		var (
			t                model.Task
			priority, status string
			dueDate          string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &priority, &t.Assignee, &dueDate, &status); err != nil {
			return nil, err
		}
		due, err := model.ParseDate(dueDate)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
		t.Priority = model.Priority(strings.TrimSpace(priority))
		t.Status = model.Status(strings.TrimSpace(status))
		t.DueDate = due
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveSQLite replaces the snapshot at path with tasks in one transaction.
func SaveSQLite(ctx context.Context, path string, tasks []model.Task) error {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO snapshot_meta(k, v) VALUES(?, ?)`, "version", fmt.Sprintf("%d", snapshotVersion)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return err
	}

	nowMs := time.Now().UTC().UnixMilli()
	for i, t := range tasks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(
			id, position, title, description, priority, assignee, due_date, status, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.Title, t.Description, string(t.Priority), t.Assignee, t.DueDate.String(), string(t.Status),
			nowMs,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
