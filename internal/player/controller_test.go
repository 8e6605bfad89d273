package player

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazadus/impact/internal/catalog"
)

var (
	trackA = catalog.TrackRecord{ID: 1, Path: "/music/a.mp3", Title: "A", Artist: "Band"}
	trackB = catalog.TrackRecord{ID: 2, Path: "/music/b.mp3", Title: "B", Artist: "Band"}
)

func TestControllerInitialState(t *testing.T) {
	c := NewController(NewMockBackend())

	assert.Equal(t, Idle, c.State())
	_, ok := c.Current()
	assert.False(t, ok)
}

func TestControllerPlayPauseResumeStop(t *testing.T) {
	backend := NewMockBackend()
	c := NewController(backend)

	require.NoError(t, c.Play(trackA))
	assert.Equal(t, Playing, c.State())
	current, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, trackA, current)

	session := backend.Sessions()[0]
	assert.True(t, session.Audible())

	require.NoError(t, c.Pause())
	assert.Equal(t, Paused, c.State())
	assert.True(t, session.Paused())

	require.NoError(t, c.Resume())
	assert.Equal(t, Playing, c.State())
	assert.True(t, session.Audible())

	require.NoError(t, c.Stop())
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 1, session.Stops())
	_, ok = c.Current()
	assert.False(t, ok)
}

func TestControllerInvalidTransitions(t *testing.T) {
	c := NewController(NewMockBackend())

	// Из Idle нельзя поставить на паузу, продолжить или остановить
	require.ErrorIs(t, c.Pause(), ErrInvalidState)
	assert.Equal(t, Idle, c.State())
	require.ErrorIs(t, c.Resume(), ErrInvalidState)
	assert.Equal(t, Idle, c.State())
	require.ErrorIs(t, c.Stop(), ErrInvalidState)
	assert.Equal(t, Idle, c.State())

	require.NoError(t, c.Play(trackA))
	require.ErrorIs(t, c.Resume(), ErrInvalidState)
	assert.Equal(t, Playing, c.State())

	require.NoError(t, c.Pause())
	require.ErrorIs(t, c.Pause(), ErrInvalidState)
	assert.Equal(t, Paused, c.State())

	// Остановка допустима и из паузы
	require.NoError(t, c.Stop())
	assert.Equal(t, Idle, c.State())
}

func TestControllerPlayReplacesSession(t *testing.T) {
	backend := NewMockBackend()
	c := NewController(backend)

	require.NoError(t, c.Play(trackA))
	require.NoError(t, c.Play(trackB))

	assert.Equal(t, Playing, c.State())
	current, _ := c.Current()
	assert.Equal(t, trackB, current)

	sessions := backend.Sessions()
	require.Len(t, sessions, 2)
	// Предыдущая сессия остановлена ровно один раз, новая звучит
	assert.Equal(t, 1, sessions[0].Stops())
	assert.False(t, sessions[0].Audible())
	assert.True(t, sessions[1].Audible())
	assert.Equal(t, 0, sessions[1].Stops())
}

func TestControllerPlayFromPausedReplacesSession(t *testing.T) {
	backend := NewMockBackend()
	c := NewController(backend)

	require.NoError(t, c.Play(trackA))
	require.NoError(t, c.Pause())
	require.NoError(t, c.Play(trackB))

	assert.Equal(t, Playing, c.State())
	assert.Equal(t, 1, backend.Sessions()[0].Stops())
}

func TestControllerPlayFailureKeepsState(t *testing.T) {
	backend := NewMockBackend()
	backend.FailOpen(trackB.Path, errors.New("формат не поддерживается"))
	c := NewController(backend)

	require.NoError(t, c.Play(trackA))
	require.NoError(t, c.Pause())

	err := c.Play(trackB)
	require.ErrorIs(t, err, ErrPlayback)
	assert.Contains(t, err.Error(), "формат не поддерживается")

	// Старая сессия не тронута
	assert.Equal(t, Paused, c.State())
	current, _ := c.Current()
	assert.Equal(t, trackA, current)
	assert.Equal(t, 0, backend.Sessions()[0].Stops())
}

func TestControllerPlayFailureFromIdle(t *testing.T) {
	backend := NewMockBackend()
	backend.FailOpen(trackA.Path, os.ErrNotExist)
	c := NewController(backend)

	err := c.Play(trackA)
	require.ErrorIs(t, err, ErrPlayback)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, Idle, c.State())
}

func TestControllerSessionPlayFailure(t *testing.T) {
	backend := NewMockBackend()
	backend.FailPlay(trackA.Path, errors.New("устройство занято"))
	c := NewController(backend)

	err := c.Play(trackA)
	require.ErrorIs(t, err, ErrPlayback)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 1, backend.Sessions()[0].Stops())
}

func TestControllerSessionPlayFailureKeepsPrevious(t *testing.T) {
	tests := []struct {
		name   string
		pause  bool
		state  State
		paused bool
	}{
		{name: "playing", state: Playing},
		{name: "paused", pause: true, state: Paused, paused: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMockBackend()
			backend.FailPlay(trackB.Path, errors.New("устройство занято"))
			c := NewController(backend)

			require.NoError(t, c.Play(trackA))
			if tt.pause {
				require.NoError(t, c.Pause())
			}

			err := c.Play(trackB)
			require.ErrorIs(t, err, ErrPlayback)

			assert.Equal(t, tt.state, c.State())
			current, ok := c.Current()
			assert.True(t, ok)
			assert.Equal(t, trackA, current)

			sessions := backend.Sessions()
			require.Len(t, sessions, 2)
			assert.Equal(t, 0, sessions[0].Stops())
			assert.Equal(t, tt.paused, sessions[0].Paused())
			assert.Equal(t, 1, sessions[1].Stops())

			// Старая сессия по-прежнему управляется контроллером
			require.NoError(t, c.Stop())
			assert.Equal(t, 1, sessions[0].Stops())
		})
	}
}

func TestControllerClose(t *testing.T) {
	backend := NewMockBackend()
	c := NewController(backend)

	require.NoError(t, c.Close())

	require.NoError(t, c.Play(trackA))
	require.NoError(t, c.Close())
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 1, backend.Sessions()[0].Stops())
}

func TestControllerConcurrentAccess(t *testing.T) {
	c := NewController(NewMockBackend())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); _ = c.Play(trackA) }()
		go func() { defer wg.Done(); _ = c.Pause() }()
		go func() { defer wg.Done(); _ = c.Stop() }()
	}
	wg.Wait()

	// Любое итоговое состояние должно быть согласованным
	state := c.State()
	_, active := c.Current()
	assert.Equal(t, state.IsActive(), active)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "Playing", Playing.String())
	assert.Equal(t, "Paused", Paused.String())
	assert.Equal(t, "Unknown", State(42).String())
	assert.Equal(t, "Пауза", Paused.Label())
}

func TestBeepBackendRejectsUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS"), 0o644))

	_, err := NewBeepBackend(0, 0).Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "неподдерживаемый формат")
}

func TestBeepBackendMissingFile(t *testing.T) {
	_, err := NewBeepBackend(0, 0).Open("/non/existent/file.mp3")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBeepBackendCorruptMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not an mp3"), 0o644))

	_, err := NewBeepBackend(0, 0).Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка декодирования mp3")
}
