// Package resolver сопоставляет введённую пользователем ссылку с записью каталога
package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hazadus/impact/internal/catalog"
	"github.com/hazadus/impact/internal/logger"
)

// ErrAmbiguous возвращается, когда ссылке соответствует несколько треков
var ErrAmbiguous = errors.New("найдено несколько треков")

// AmbiguousError содержит кандидатов неоднозначного поиска
type AmbiguousError struct {
	Title      string
	Artist     string
	Candidates []catalog.TrackRecord
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	if e.Artist != "" {
		fmt.Fprintf(&b, "%s с названием %q и исполнителем %q:", ErrAmbiguous, e.Title, e.Artist)
	} else {
		fmt.Fprintf(&b, "%s с названием %q, укажите исполнителя (--artist):", ErrAmbiguous, e.Title)
	}
	for _, c := range e.Candidates {
		fmt.Fprintf(&b, "\n  %s", c)
	}
	return b.String()
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// Lister описывает часть хранилища, нужная резолверу
type Lister interface {
	List(ctx context.Context) ([]catalog.TrackRecord, error)
}

// StatFunc проверяет существование пути на диске
type StatFunc func(path string) (os.FileInfo, error)

// Option настраивает Resolver
type Option func(*Resolver)

// WithStat подменяет проверку файловой системы
func WithStat(stat StatFunc) Option {
	return func(r *Resolver) {
		r.stat = stat
	}
}

// Resolver находит ровно одну запись каталога по ссылке
type Resolver struct {
	store Lister
	stat  StatFunc
}

// New создает резолвер поверх хранилища
func New(store Lister, opts ...Option) *Resolver {
	r := &Resolver{
		store: store,
		stat:  os.Stat,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve разбирает ссылку в порядке приоритета: id, путь к файлу,
// "исполнитель - название", название. Первое подходящее правило
// определяет результат, даже если совпадений нет.
// Пустой artist означает, что исполнитель не указан.
func (r *Resolver) Resolve(ctx context.Context, token, artist string) (catalog.TrackRecord, error) {
	// Снимок каталога на время одного разрешения
	records, err := r.store.List(ctx)
	if err != nil {
		return catalog.TrackRecord{}, err
	}

	record, rule, err := r.resolve(records, token, artist)
	if err != nil {
		logger.Debug("ссылка не разрешена",
			zap.String("token", token), zap.String("rule", rule), zap.Error(err))
		return catalog.TrackRecord{}, err
	}
	logger.Debug("ссылка разрешена",
		zap.String("token", token), zap.String("rule", rule), zap.Int("id", record.ID))
	return record, nil
}

func (r *Resolver) resolve(records []catalog.TrackRecord, token, artist string) (catalog.TrackRecord, string, error) {
	if id, err := strconv.Atoi(token); err == nil {
		rec, err := byID(records, id)
		return rec, "id", err
	}

	if token != "" {
		if _, err := r.stat(token); err == nil {
			path, err := catalog.NormalizePath(token)
			if err != nil {
				return catalog.TrackRecord{}, "path", err
			}
			rec, err := first(records, func(t catalog.TrackRecord) bool { return t.Path == path })
			if err != nil {
				err = fmt.Errorf("%w: путь %s", catalog.ErrNotFound, path)
			}
			return rec, "path", err
		}
	}

	if left, right, ok := strings.Cut(token, "-"); ok {
		a := strings.TrimSpace(left)
		title := strings.TrimSpace(right)
		rec, err := first(records, func(t catalog.TrackRecord) bool {
			return t.Artist == a && t.Title == title
		})
		if err != nil {
			err = fmt.Errorf("%w: %q - %q", catalog.ErrNotFound, a, title)
		}
		return rec, "artist-title", err
	}

	rec, err := byTitle(records, strings.TrimSpace(token), artist)
	return rec, "title", err
}

func byID(records []catalog.TrackRecord, id int) (catalog.TrackRecord, error) {
	rec, err := first(records, func(t catalog.TrackRecord) bool { return t.ID == id })
	if err != nil {
		return rec, fmt.Errorf("%w: id %d", catalog.ErrNotFound, id)
	}
	return rec, nil
}

// byTitle ищет по названию; исполнитель используется только для уточнения
func byTitle(records []catalog.TrackRecord, title, artist string) (catalog.TrackRecord, error) {
	matches := filter(records, func(t catalog.TrackRecord) bool { return t.Title == title })

	switch {
	case len(matches) == 0:
		return catalog.TrackRecord{}, fmt.Errorf("%w: название %q", catalog.ErrNotFound, title)
	case len(matches) == 1:
		return matches[0], nil
	case artist == "":
		return catalog.TrackRecord{}, &AmbiguousError{Title: title, Candidates: matches}
	}

	narrowed := filter(matches, func(t catalog.TrackRecord) bool { return t.Artist == artist })
	switch len(narrowed) {
	case 0:
		return catalog.TrackRecord{}, fmt.Errorf("%w: название %q, исполнитель %q", catalog.ErrNotFound, title, artist)
	case 1:
		return narrowed[0], nil
	default:
		return catalog.TrackRecord{}, &AmbiguousError{Title: title, Artist: artist, Candidates: narrowed}
	}
}

func first(records []catalog.TrackRecord, match func(catalog.TrackRecord) bool) (catalog.TrackRecord, error) {
	for _, t := range records {
		if match(t) {
			return t, nil
		}
	}
	return catalog.TrackRecord{}, catalog.ErrNotFound
}

func filter(records []catalog.TrackRecord, match func(catalog.TrackRecord) bool) []catalog.TrackRecord {
	var out []catalog.TrackRecord
	for _, t := range records {
		if match(t) {
			out = append(out, t)
		}
	}
	return out
}
