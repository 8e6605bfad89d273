package player

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hazadus/impact/internal/catalog"
	"github.com/hazadus/impact/internal/logger"
)

var (
	// ErrPlayback возвращается, если трек не удалось открыть или воспроизвести
	ErrPlayback = errors.New("ошибка воспроизведения")
	// ErrInvalidState возвращается для операции, недопустимой в текущем состоянии
	ErrInvalidState = errors.New("недопустимая операция")
)

// Controller управляет единственной сессией воспроизведения
type Controller struct {
	backend Backend

	mutex   sync.Mutex
	state   State
	session Session
	current catalog.TrackRecord
}

// NewController создает контроллер в состоянии Idle
func NewController(backend Backend) *Controller {
	return &Controller{
		backend: backend,
		state:   Idle,
	}
}

// Play открывает трек и начинает воспроизведение.
// При любой ошибке текущее воспроизведение продолжается, а состояние не меняется.
// Старая сессия на время запуска ставится на паузу и останавливается
// только после успешного старта новой.
func (c *Controller) Play(record catalog.TrackRecord) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	session, err := c.backend.Open(record.Path)
	if err != nil {
		logger.Warn("не удалось открыть трек", zap.Int("id", record.ID), zap.String("path", record.Path), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrPlayback, record.Path, err)
	}

	previous := c.session
	if previous != nil && c.state == Playing {
		previous.Pause()
	}

	if err := session.Play(); err != nil {
		session.Stop()
		if previous != nil && c.state == Playing {
			previous.Resume()
		}
		logger.Warn("не удалось запустить воспроизведение", zap.Int("id", record.ID), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrPlayback, record.Path, err)
	}

	if previous != nil {
		previous.Stop()
	}

	c.session = session
	c.current = record
	c.state = Playing
	logger.Info("воспроизведение", zap.Int("id", record.ID), zap.String("path", record.Path))
	return nil
}

// Pause ставит воспроизведение на паузу
func (c *Controller) Pause() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state != Playing {
		return c.invalidLocked("пауза")
	}
	c.session.Pause()
	c.state = Paused
	logger.Debug("пауза", zap.Int("id", c.current.ID))
	return nil
}

// Resume продолжает воспроизведение после паузы
func (c *Controller) Resume() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state != Paused {
		return c.invalidLocked("продолжение")
	}
	c.session.Resume()
	c.state = Playing
	logger.Debug("продолжение", zap.Int("id", c.current.ID))
	return nil
}

// Stop останавливает воспроизведение и освобождает сессию
func (c *Controller) Stop() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.state.IsActive() {
		return c.invalidLocked("остановка")
	}
	c.session.Stop()
	logger.Debug("остановка", zap.Int("id", c.current.ID))
	c.resetLocked()
	return nil
}

// State возвращает текущее состояние
func (c *Controller) State() State {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.state
}

// Current возвращает трек текущей сессии
func (c *Controller) Current() (catalog.TrackRecord, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.current, c.state.IsActive()
}

// Close останавливает сессию, если она есть
func (c *Controller) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session != nil {
		c.session.Stop()
	}
	c.resetLocked()
	return nil
}

// resetLocked возвращает контроллер в Idle (вызывается под мьютексом)
func (c *Controller) resetLocked() {
	c.session = nil
	c.current = catalog.TrackRecord{}
	c.state = Idle
}

func (c *Controller) invalidLocked(op string) error {
	return fmt.Errorf("%w: %s в состоянии %q", ErrInvalidState, op, c.state.Label())
}
