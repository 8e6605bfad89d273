package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// yamlDocument описывает содержимое файла каталога
type yamlDocument struct {
	NextID int           `yaml:"next_id"`
	Tracks []TrackRecord `yaml:"tracks"`
}

// YAMLStore хранит каталог в одном YAML-файле.
// Файл перезаписывается целиком при каждом изменении.
type YAMLStore struct {
	path  string
	mutex sync.Mutex
	doc   yamlDocument
}

// OpenYAML загружает каталог из файла; отсутствующий или пустой файл дает пустой каталог
func OpenYAML(path string) (*YAMLStore, error) {
	s := &YAMLStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *YAMLStore) load() error {
	s.doc = yamlDocument{NextID: 1, Tracks: make([]TrackRecord, 0)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("ошибка чтения файла каталога: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, &s.doc); err != nil {
		return fmt.Errorf("ошибка разбора файла каталога: %w", err)
	}
	if s.doc.Tracks == nil {
		s.doc.Tracks = make([]TrackRecord, 0)
	}

	// Старые файлы без next_id: продолжаем после максимального id
	maxID := 0
	for _, t := range s.doc.Tracks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	if s.doc.NextID <= maxID {
		s.doc.NextID = maxID + 1
	}
	return nil
}

// save записывает каталог через временный файл и переименование
func (s *YAMLStore) save() error {
	data, err := yaml.Marshal(&s.doc)
	if err != nil {
		return fmt.Errorf("ошибка сериализации каталога: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ошибка создания директории каталога: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.yaml")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка записи файла каталога: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ошибка записи файла каталога: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("ошибка записи файла каталога: %w", err)
	}
	return nil
}

// Add добавляет запись и возвращает присвоенный id
func (s *YAMLStore) Add(_ context.Context, record TrackRecord) (int, error) {
	path, err := NormalizePath(record.Path)
	if err != nil {
		return 0, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := findByPath(s.doc.Tracks, path); ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicatePath, path)
	}

	record.Path = path
	record.ID = s.doc.NextID
	s.doc.NextID++
	s.doc.Tracks = append(s.doc.Tracks, record)

	if err := s.save(); err != nil {
		// Откатываем изменения в памяти, id не возвращаем
		s.doc.Tracks = s.doc.Tracks[:len(s.doc.Tracks)-1]
		return 0, err
	}
	return record.ID, nil
}

// Remove удаляет запись по id
func (s *YAMLStore) Remove(_ context.Context, id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.doc.Tracks {
		if s.doc.Tracks[i].ID == id {
			removed := s.doc.Tracks[i]
			s.doc.Tracks = append(s.doc.Tracks[:i], s.doc.Tracks[i+1:]...)
			if err := s.save(); err != nil {
				s.doc.Tracks = append(s.doc.Tracks[:i], append([]TrackRecord{removed}, s.doc.Tracks[i:]...)...)
				return err
			}
			return nil
		}
	}
	return nil
}

// List возвращает копию всех записей
func (s *YAMLStore) List(_ context.Context) ([]TrackRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	records := make([]TrackRecord, len(s.doc.Tracks))
	copy(records, s.doc.Tracks)
	return records, nil
}

// Get возвращает запись по id
func (s *YAMLStore) Get(_ context.Context, id int) (TrackRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, t := range s.doc.Tracks {
		if t.ID == id {
			return t, nil
		}
	}
	return TrackRecord{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Close ничего не делает: все изменения уже записаны
func (s *YAMLStore) Close() error {
	return nil
}

var _ Store = (*YAMLStore)(nil)
