package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const (
	// DefaultSampleRate частота, на которой инициализируются динамики
	DefaultSampleRate = 44100
	// DefaultBufferDuration размер буфера динамиков
	DefaultBufferDuration = 100 * time.Millisecond
	resampleQuality       = 4
)

// BeepBackend выводит звук через gopxl/beep.
// Все треки пересэмплируются к одной частоте, поэтому динамики
// инициализируются только один раз.
type BeepBackend struct {
	sampleRate beep.SampleRate
	bufferSize time.Duration

	initOnce sync.Once
	initErr  error
}

// NewBeepBackend создает бэкенд с частотой sampleRate и буфером buffer
func NewBeepBackend(sampleRate int, buffer time.Duration) *BeepBackend {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if buffer <= 0 {
		buffer = DefaultBufferDuration
	}
	return &BeepBackend{
		sampleRate: beep.SampleRate(sampleRate),
		bufferSize: buffer,
	}
}

// Open открывает и декодирует файл; формат определяется по расширению
func (b *BeepBackend) Open(path string) (Session, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}

	streamer, format, err := decode(file, path)
	if err != nil {
		file.Close()
		return nil, err
	}

	if err := b.initSpeaker(); err != nil {
		streamer.Close()
		file.Close()
		return nil, err
	}

	var source beep.Streamer = streamer
	if format.SampleRate != b.sampleRate {
		source = beep.Resample(resampleQuality, format.SampleRate, b.sampleRate, streamer)
	}

	return &beepSession{
		file:     file,
		streamer: streamer,
		ctrl:     &beep.Ctrl{Streamer: source, Paused: false},
	}, nil
}

// initSpeaker инициализирует динамики (только один раз)
func (b *BeepBackend) initSpeaker() error {
	b.initOnce.Do(func() {
		if err := speaker.Init(b.sampleRate, b.sampleRate.N(b.bufferSize)); err != nil {
			b.initErr = fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
	})
	return b.initErr
}

func decode(file *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".flac":
		streamer, format, err = flac.Decode(file)
	default:
		return nil, beep.Format{}, fmt.Errorf("неподдерживаемый формат %q", ext)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("ошибка декодирования %s: %w", strings.TrimPrefix(ext, "."), err)
	}
	return streamer, format, nil
}

// beepSession хранит открытый трек с контроллером паузы
type beepSession struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl

	stopOnce sync.Once
}

func (s *beepSession) Play() error {
	speaker.Play(s.ctrl)
	return nil
}

func (s *beepSession) Pause() {
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
}

func (s *beepSession) Resume() {
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
}

// Stop отключает сессию от динамиков и закрывает файл
func (s *beepSession) Stop() {
	s.stopOnce.Do(func() {
		speaker.Lock()
		// Ctrl без потока молчит и удаляется микшером
		s.ctrl.Streamer = nil
		speaker.Unlock()

		s.streamer.Close()
		s.file.Close()
	})
}
