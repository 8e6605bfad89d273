// Package metadata предоставляет функционал для извлечения метаданных из аудио файлов
package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// ErrTagRead возвращается, когда файл не удалось прочитать для извлечения тегов
var ErrTagRead = errors.New("ошибка чтения тегов")

// TrackMetadata хранит метаданные трека; пустая строка означает отсутствие тега
type TrackMetadata struct {
	Artist string
	Title  string
	Album  string
}

// Extractor извлекает метаданные из аудио файлов
type Extractor struct{}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ReadTags читает теги файла по пути. Отсутствие тегов не ошибка:
// поля просто остаются пустыми. ErrTagRead возвращается, только если
// файл невозможно открыть.
func (e *Extractor) ReadTags(filePath string) (TrackMetadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return TrackMetadata{}, fmt.Errorf("%w: %w", ErrTagRead, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return TrackMetadata{}, fmt.Errorf("%w: %w", ErrTagRead, err)
	}
	if info.IsDir() {
		return TrackMetadata{}, fmt.Errorf("%w: %s является директорией", ErrTagRead, filePath)
	}

	return e.ExtractFromReader(file), nil
}

// ExtractFromReader извлекает метаданные из io.ReadSeeker
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker) TrackMetadata {
	// Сбрасываем reader в начало
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return TrackMetadata{}
	}

	// tag.ErrNoTagsFound и повреждённые теги дают пустые поля
	metadata, err := tag.ReadFrom(reader)
	if err != nil {
		return TrackMetadata{}
	}

	return TrackMetadata{
		Artist: metadata.Artist(),
		Title:  metadata.Title(),
		Album:  metadata.Album(),
	}
}

// GetDuration получает длительность MP3 файла
func (e *Extractor) GetDuration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
