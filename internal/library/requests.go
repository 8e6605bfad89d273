package library

import (
	"errors"
	"strings"
)

// ErrEmptyReference возвращается, если ссылка на трек не указана
var ErrEmptyReference = errors.New("не указан трек (id, путь, название или \"исполнитель - название\")")

// AddRequest описывает добавление файла в каталог
type AddRequest struct {
	Path string
}

// Validate проверяет запрос
func (r AddRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return errors.New("не указан путь к файлу")
	}
	return nil
}

// SelectRequest описывает выбор трека для последующих play/remove
type SelectRequest struct {
	Reference string
	Artist    string
}

// Validate проверяет запрос
func (r SelectRequest) Validate() error {
	if r.Reference == "" {
		return ErrEmptyReference
	}
	return nil
}

// PlayRequest описывает воспроизведение, пустая ссылка означает выбранный трек
type PlayRequest struct {
	Reference string
	Artist    string
}

// RemoveRequest описывает удаление, пустая ссылка означает выбранный трек
type RemoveRequest struct {
	Reference string
	Artist    string
}

// ResolveRequest описывает поиск трека без побочных эффектов
type ResolveRequest struct {
	Reference string
	Artist    string
}

// Validate проверяет запрос
func (r ResolveRequest) Validate() error {
	if r.Reference == "" {
		return ErrEmptyReference
	}
	return nil
}
