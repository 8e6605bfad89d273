package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS tracks (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		path   TEXT NOT NULL UNIQUE,
		title  TEXT NOT NULL DEFAULT '',
		artist TEXT NOT NULL DEFAULT '',
		album  TEXT NOT NULL DEFAULT ''
	);
`

// SQLiteStore хранит каталог в базе SQLite
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite открывает (и при необходимости создаёт) базу каталога
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ошибка создания директории каталога: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы каталога: %w", err)
	}
	// Один процесс, одно соединение: так in-memory база не теряется между запросами
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания схемы каталога: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Add добавляет запись и возвращает присвоенный id
func (s *SQLiteStore) Add(ctx context.Context, record TrackRecord) (int, error) {
	path, err := NormalizePath(record.Path)
	if err != nil {
		return 0, err
	}

	var id int64
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		var existing int
		err := tx.QueryRowContext(ctx, `SELECT id FROM tracks WHERE path = ?`, path).Scan(&existing)
		switch {
		case err == nil:
			return ErrDuplicatePath
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO tracks (path, title, artist, album) VALUES (?, ?, ?, ?)`,
			path, record.Title, record.Artist, record.Album)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicatePath
			}
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		if errors.Is(err, ErrDuplicatePath) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicatePath, path)
		}
		return 0, fmt.Errorf("ошибка добавления трека: %w", err)
	}
	return int(id), nil
}

// Remove удаляет запись по id
func (s *SQLiteStore) Remove(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("ошибка удаления трека %d: %w", id, err)
	}
	return nil
}

// List возвращает все записи в порядке добавления
func (s *SQLiteStore) List(ctx context.Context) ([]TrackRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, path, title, artist, album FROM tracks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога: %w", err)
	}
	defer rows.Close()

	records := make([]TrackRecord, 0)
	for rows.Next() {
		var r TrackRecord
		if err := rows.Scan(&r.ID, &r.Path, &r.Title, &r.Artist, &r.Album); err != nil {
			return nil, fmt.Errorf("ошибка чтения записи каталога: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога: %w", err)
	}
	return records, nil
}

// Get возвращает запись по id
func (s *SQLiteStore) Get(ctx context.Context, id int) (TrackRecord, error) {
	var r TrackRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, path, title, artist, album FROM tracks WHERE id = ?`, id).
		Scan(&r.ID, &r.Path, &r.Title, &r.Artist, &r.Album)
	if errors.Is(err, sql.ErrNoRows) {
		return TrackRecord{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return TrackRecord{}, fmt.Errorf("ошибка чтения трека %d: %w", id, err)
	}
	return r, nil
}

// Close закрывает базу
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withTx выполняет fn в транзакции: откат при ошибке, фиксация при успехе
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // после Commit откат ничего не делает

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ Store = (*SQLiteStore)(nil)
