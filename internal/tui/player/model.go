// Package player содержит панель состояния воспроизведения для TUI
package player

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/impact/internal/catalog"
	"github.com/hazadus/impact/internal/player"
	"github.com/hazadus/impact/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff"))

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Bold(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00aa00"))

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// TogglePauseMsg отправляется по клавише паузы
type TogglePauseMsg struct{}

// StopRequestedMsg отправляется по клавише остановки
type StopRequestedMsg struct{}

// StatusMsg содержит состояние плеера после команды
type StatusMsg struct {
	State      player.State
	Current    catalog.TrackRecord
	HasCurrent bool
	Message    string
	Err        error
}

// Model представляет панель воспроизведения
type Model struct {
	status StatusMsg
	width  int
}

// NewModel создает панель в состоянии Idle
func NewModel() *Model {
	return &Model{status: StatusMsg{State: player.Idle}}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			return m, func() tea.Msg { return TogglePauseMsg{} }
		case "s":
			return m, func() tea.Msg { return StopRequestedMsg{} }
		}

	case StatusMsg:
		m.status = msg
		return m, nil
	}

	return m, nil
}

// State возвращает последнее известное состояние плеера
func (m *Model) State() player.State {
	return m.status.State
}

// View отображает модель
func (m *Model) View() string {
	lines := []string{
		titleStyle.Render("🎵 Воспроизведение"),
		statusStyle.Render(fmt.Sprintf("%s %s", statusIcon(m.status.State), m.status.State.Label())),
	}

	if m.status.HasCurrent {
		current := m.status.Current
		lines = append(lines, trackInfoStyle.Render(fmt.Sprintf(
			"🎤 %s\n🎵 %s\n💿 %s",
			utils.OrDash(current.Artist),
			current.String(),
			utils.OrDash(current.Album),
		)))
	}

	switch {
	case m.status.Err != nil:
		lines = append(lines, errorStyle.Render("❌ "+m.status.Err.Error()))
	case m.status.Message != "":
		lines = append(lines, messageStyle.Render(m.status.Message))
	}

	lines = append(lines, controlsStyle.Render(
		"Enter: воспроизвести • Пробел: пауза/продолжить • s: стоп • d: удалить • q: выход",
	))

	style := panelStyle
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func statusIcon(state player.State) string {
	switch state {
	case player.Playing:
		return "▶️"
	case player.Paused:
		return "⏸️"
	default:
		return "⏹️"
	}
}
