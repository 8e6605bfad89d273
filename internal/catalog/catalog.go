// Package catalog содержит модель трека и хранилища каталога
package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

var (
	// ErrNotFound возвращается, когда трек не найден
	ErrNotFound = errors.New("трек не найден")
	// ErrDuplicatePath возвращается при попытке добавить уже сохранённый путь
	ErrDuplicatePath = errors.New("трек с таким путём уже есть в каталоге")
)

// Поддерживаемые движки хранения
const (
	BackendSQLite = "sqlite"
	BackendYAML   = "yaml"
)

// TrackRecord описывает запись каталога.
// Пустые Title, Artist и Album означают отсутствие тега.
type TrackRecord struct {
	ID     int    `yaml:"id"`
	Path   string `yaml:"path"`
	Title  string `yaml:"title"`
	Artist string `yaml:"artist"`
	Album  string `yaml:"album"`
}

// String возвращает краткое описание трека для вывода пользователю
func (r TrackRecord) String() string {
	switch {
	case r.Artist != "" && r.Title != "":
		return fmt.Sprintf("#%d %s - %s", r.ID, r.Artist, r.Title)
	case r.Title != "":
		return fmt.Sprintf("#%d %s", r.ID, r.Title)
	default:
		return fmt.Sprintf("#%d %s", r.ID, filepath.Base(r.Path))
	}
}

// Store описывает долговременное хранилище записей каталога.
//
// Add нормализует путь и возвращает ErrDuplicatePath, если такой путь уже есть.
// Remove для отсутствующего id ничего не делает.
// List возвращает снимок всех записей в порядке добавления.
// Get возвращает ErrNotFound для отсутствующего id.
// Идентификаторы удалённых записей повторно не выдаются.
type Store interface {
	Add(ctx context.Context, record TrackRecord) (int, error)
	Remove(ctx context.Context, id int) error
	List(ctx context.Context) ([]TrackRecord, error)
	Get(ctx context.Context, id int) (TrackRecord, error)
	Close() error
}

// NormalizePath приводит путь к абсолютному очищенному виду.
// Символические ссылки не раскрываются.
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("пустой путь")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("ошибка получения абсолютного пути %q: %w", path, err)
	}
	return abs, nil
}

// Open открывает хранилище указанного движка по пути path
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(ctx, path)
	case BackendYAML:
		return OpenYAML(path)
	default:
		return nil, fmt.Errorf("неизвестный движок каталога: %q", backend)
	}
}

// findByPath ищет запись с точным совпадением пути
func findByPath(records []TrackRecord, path string) (TrackRecord, bool) {
	for _, r := range records {
		if r.Path == path {
			return r, true
		}
	}
	return TrackRecord{}, false
}
