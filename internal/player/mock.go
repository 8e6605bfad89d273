package player

import "sync"

// MockBackend является тестовой заменой Backend
type MockBackend struct {
	mutex    sync.Mutex
	openErr  map[string]error
	playErr  map[string]error
	opened   []string
	sessions []*MockSession
}

// NewMockBackend создает пустой тестовый бэкенд
func NewMockBackend() *MockBackend {
	return &MockBackend{
		openErr: make(map[string]error),
		playErr: make(map[string]error),
	}
}

// FailOpen заставляет Open(path) вернуть err
func (m *MockBackend) FailOpen(path string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.openErr[path] = err
}

// FailPlay открывает сессии для path, чей Play возвращает err
func (m *MockBackend) FailPlay(path string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.playErr[path] = err
}

func (m *MockBackend) Open(path string) (Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.opened = append(m.opened, path)
	if err := m.openErr[path]; err != nil {
		return nil, err
	}
	s := &MockSession{Path: path, PlayErr: m.playErr[path]}
	m.sessions = append(m.sessions, s)
	return s, nil
}

// Opened возвращает пути всех вызовов Open
func (m *MockBackend) Opened() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]string(nil), m.opened...)
}

// Sessions возвращает успешно открытые сессии
func (m *MockBackend) Sessions() []*MockSession {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]*MockSession(nil), m.sessions...)
}

// MockSession записывает вызовы методов сессии
type MockSession struct {
	Path    string
	PlayErr error

	mutex   sync.Mutex
	playing bool
	paused  bool
	stops   int
}

func (s *MockSession) Play() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.PlayErr != nil {
		return s.PlayErr
	}
	s.playing = true
	return nil
}

func (s *MockSession) Pause() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.paused = true
}

func (s *MockSession) Resume() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.paused = false
}

func (s *MockSession) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.playing = false
	s.stops++
}

// Audible возвращает true, если сессия звучит
func (s *MockSession) Audible() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.playing && !s.paused
}

// Paused возвращает true, если сессия на паузе
func (s *MockSession) Paused() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.paused
}

// Stops возвращает число вызовов Stop
func (s *MockSession) Stops() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stops
}

var (
	_ Backend = (*MockBackend)(nil)
	_ Session = (*MockSession)(nil)
)
