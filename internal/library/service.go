// Package library связывает каталог, поиск треков и воспроизведение в набор команд
package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/impact/internal/catalog"
	"github.com/hazadus/impact/internal/logger"
	"github.com/hazadus/impact/internal/metadata"
	"github.com/hazadus/impact/internal/player"
	"github.com/hazadus/impact/internal/resolver"
	"github.com/hazadus/impact/internal/utils"
)

// ErrNoSelection возвращается, если трек не указан и не выбран
var ErrNoSelection = errors.New("нет выбранного трека")

// TagReader извлекает теги из файла
type TagReader interface {
	ReadTags(path string) (metadata.TrackMetadata, error)
	GetDuration(path string) (time.Duration, error)
}

// Player управляет воспроизведением
type Player interface {
	Play(record catalog.TrackRecord) error
	Pause() error
	Resume() error
	Stop() error
	State() player.State
	Current() (catalog.TrackRecord, bool)
	Close() error
}

// Service выполняет команды пользователя. Один экземпляр принадлежит
// циклу обработки команд и хранит выбранный трек.
type Service struct {
	store    catalog.Store
	resolver *resolver.Resolver
	tags     TagReader
	player   Player

	selected *catalog.TrackRecord
}

// NewService создает сервис команд
func NewService(store catalog.Store, tags TagReader, p Player, opts ...resolver.Option) *Service {
	return &Service{
		store:    store,
		resolver: resolver.New(store, opts...),
		tags:     tags,
		player:   p,
	}
}

// AddResult описывает результат добавления
type AddResult struct {
	Record    catalog.TrackRecord
	Duplicate bool
}

// String возвращает сообщение для пользователя
func (r AddResult) String() string {
	if r.Duplicate {
		return fmt.Sprintf("Трек уже есть в каталоге: %s", r.Record.Path)
	}
	return fmt.Sprintf("Добавлен трек %s", r.Record)
}

// Add читает теги файла и добавляет его в каталог.
// Повторное добавление того же пути не ошибка: возвращается Duplicate.
func (s *Service) Add(ctx context.Context, req AddRequest) (AddResult, error) {
	if err := req.Validate(); err != nil {
		return AddResult{}, err
	}

	path, err := catalog.NormalizePath(req.Path)
	if err != nil {
		return AddResult{}, err
	}

	// Уже сохранённый трек не перечитываем
	if existing, ok, err := s.findByPath(ctx, path); err != nil || ok {
		return AddResult{Record: existing, Duplicate: ok}, err
	}

	tags, err := s.tags.ReadTags(path)
	if err != nil {
		return AddResult{}, err
	}

	record := catalog.TrackRecord{
		Path:   path,
		Title:  tags.Title,
		Artist: tags.Artist,
		Album:  tags.Album,
	}
	id, err := s.store.Add(ctx, record)
	if errors.Is(err, catalog.ErrDuplicatePath) {
		// Путь сохранили между проверкой и записью
		existing, ok, findErr := s.findByPath(ctx, path)
		if findErr != nil {
			return AddResult{}, findErr
		}
		if !ok {
			return AddResult{}, err
		}
		return AddResult{Record: existing, Duplicate: true}, nil
	}
	if err != nil {
		logger.Error("ошибка записи в каталог", zap.String("path", path), zap.Error(err))
		return AddResult{}, err
	}
	record.ID = id

	logger.Info("трек добавлен", zap.Int("id", id), zap.String("path", path))
	return AddResult{Record: record}, nil
}

// Remove удаляет трек из каталога
func (s *Service) Remove(ctx context.Context, req RemoveRequest) (string, error) {
	record, err := s.target(ctx, req.Reference, req.Artist)
	if err != nil {
		return "", err
	}

	if err := s.store.Remove(ctx, record.ID); err != nil {
		logger.Error("ошибка удаления из каталога", zap.Int("id", record.ID), zap.Error(err))
		return "", err
	}
	if s.selected != nil && s.selected.ID == record.ID {
		s.selected = nil
	}

	logger.Info("трек удален", zap.Int("id", record.ID), zap.String("path", record.Path))
	return fmt.Sprintf("Удален трек %s", record), nil
}

// List возвращает все треки каталога
func (s *Service) List(ctx context.Context) ([]catalog.TrackRecord, error) {
	return s.store.List(ctx)
}

// Resolve находит трек по ссылке
func (s *Service) Resolve(ctx context.Context, req ResolveRequest) (catalog.TrackRecord, error) {
	if err := req.Validate(); err != nil {
		return catalog.TrackRecord{}, err
	}
	return s.resolver.Resolve(ctx, req.Reference, req.Artist)
}

// Select запоминает трек для команд без ссылки
func (s *Service) Select(ctx context.Context, req SelectRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	record, err := s.resolver.Resolve(ctx, req.Reference, req.Artist)
	if err != nil {
		return "", err
	}
	s.selected = &record
	return fmt.Sprintf("Выбран трек %s", record), nil
}

// Deselect сбрасывает выбор
func (s *Service) Deselect() string {
	s.selected = nil
	return "Выбор сброшен"
}

// Selected возвращает выбранный трек
func (s *Service) Selected() (catalog.TrackRecord, bool) {
	if s.selected == nil {
		return catalog.TrackRecord{}, false
	}
	return *s.selected, true
}

// Play начинает воспроизведение трека
func (s *Service) Play(ctx context.Context, req PlayRequest) (string, error) {
	record, err := s.target(ctx, req.Reference, req.Artist)
	if err != nil {
		return "", err
	}

	if err := s.player.Play(record); err != nil {
		return "", err
	}

	msg := fmt.Sprintf("Воспроизведение: %s", record)
	if duration, err := s.tags.GetDuration(record.Path); err == nil && duration > 0 {
		msg += fmt.Sprintf(" [%s]", utils.FormatDuration(duration))
	}
	return msg, nil
}

// Pause ставит на паузу
func (s *Service) Pause() (string, error) {
	if err := s.player.Pause(); err != nil {
		return "", err
	}
	return "Пауза", nil
}

// Resume продолжает воспроизведение
func (s *Service) Resume() (string, error) {
	if err := s.player.Resume(); err != nil {
		return "", err
	}
	return "Воспроизведение продолжено", nil
}

// Stop останавливает воспроизведение
func (s *Service) Stop() (string, error) {
	if err := s.player.Stop(); err != nil {
		return "", err
	}
	return "Остановлено", nil
}

// Status описывает состояние плеера и выбранный трек
func (s *Service) Status() string {
	status := s.player.State().Label()
	if current, ok := s.player.Current(); ok {
		status += ": " + current.String()
	}
	if selected, ok := s.Selected(); ok {
		status += fmt.Sprintf("\nВыбран: %s", selected)
	}
	return status
}

// State возвращает состояние плеера
func (s *Service) State() player.State {
	return s.player.State()
}

// Current возвращает воспроизводимый трек
func (s *Service) Current() (catalog.TrackRecord, bool) {
	return s.player.Current()
}

// Close останавливает воспроизведение
func (s *Service) Close() error {
	return s.player.Close()
}

// findByPath ищет сохранённый трек по нормализованному пути
func (s *Service) findByPath(ctx context.Context, path string) (catalog.TrackRecord, bool, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return catalog.TrackRecord{}, false, err
	}
	for _, r := range records {
		if r.Path == path {
			logger.Info("трек уже в каталоге", zap.String("path", path), zap.Int("id", r.ID))
			return r, true, nil
		}
	}
	return catalog.TrackRecord{}, false, nil
}

// target возвращает трек по ссылке или выбранный трек
func (s *Service) target(ctx context.Context, reference, artist string) (catalog.TrackRecord, error) {
	if reference != "" {
		return s.resolver.Resolve(ctx, reference, artist)
	}
	if s.selected == nil {
		return catalog.TrackRecord{}, ErrNoSelection
	}

	// Выбранный трек мог быть удален
	record, err := s.store.Get(ctx, s.selected.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.selected = nil
		}
		return catalog.TrackRecord{}, err
	}
	return record, nil
}
