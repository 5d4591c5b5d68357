package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"taskboard/internal/model"
)

// SnapshotFormat is the on-disk encoding of a session snapshot.
type SnapshotFormat string

const (
	SnapshotJSON   SnapshotFormat = "json"
	SnapshotSQLite SnapshotFormat = "sqlite"
)

// FormatForPath picks the snapshot format from the file extension.
func FormatForPath(path string) (SnapshotFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SnapshotJSON, nil
	case ".sqlite", ".sqlite3", ".db":
		return SnapshotSQLite, nil
	}
	return "", fmt.Errorf("unsupported snapshot file %q (expected .json or .sqlite)", path)
}

// LoadFile reads a snapshot and validates every task against roster.
// Snapshots are only read or written on explicit request; the session itself lives in memory.
func LoadFile(ctx context.Context, path string, roster model.Roster) ([]model.Task, error) {
	f, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	switch f {
	case SnapshotJSON:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		tasks, err = decodeSnapshotJSON(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case SnapshotSQLite:
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		tasks, err = LoadSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := validateSnapshot(tasks, roster); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

// SaveFile writes tasks to path, replacing any previous snapshot there.
func SaveFile(ctx context.Context, path string, tasks []model.Task) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	switch f {
	case SnapshotSQLite:
		return SaveSQLite(ctx, path, tasks)
	default:
		b, err := encodeSnapshotJSON(tasks)
		if err != nil {
			return err
		}
		return atomicWriteFile(filepath.Dir(path), ".snapshot-*.json", path, b, 0o644)
	}
}

// Save writes the current session to path.
func (s *Store) Save(ctx context.Context, path string) error {
	tasks := s.Tasks()
	if err := SaveFile(ctx, path, tasks); err != nil {
		return err
	}
	s.log.Info().Str("path", path).Int("tasks", len(tasks)).Msg("snapshot saved")
	return nil
}

func validateSnapshot(tasks []model.Task, roster model.Roster) error {
	seen := map[string]struct{}{}
	for i, t := range tasks {
		if err := t.Validate(roster); err != nil {
			return fmt.Errorf("task %d (%s): %w", i, t.ID, err)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("task %d: duplicate id %q", i, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
