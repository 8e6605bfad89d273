// Package app содержит основную логику TUI приложения
package app

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/impact/internal/catalog"
	"github.com/hazadus/impact/internal/library"
	"github.com/hazadus/impact/internal/player"
	tuiPlayer "github.com/hazadus/impact/internal/tui/player"
	"github.com/hazadus/impact/internal/tui/tracklist"
)

// Library описывает операции, которые вызывает интерфейс
type Library interface {
	List(ctx context.Context) ([]catalog.TrackRecord, error)
	Play(ctx context.Context, req library.PlayRequest) (string, error)
	Pause() (string, error)
	Resume() (string, error)
	Stop() (string, error)
	Remove(ctx context.Context, req library.RemoveRequest) (string, error)
	State() player.State
	Current() (catalog.TrackRecord, bool)
}

// actionDoneMsg результат команды библиотеки
type actionDoneMsg struct {
	message string
	err     error
	records []catalog.TrackRecord // не nil, если список нужно обновить
}

// MainModel представляет главную модель TUI
type MainModel struct {
	ctx            context.Context
	lib            Library
	tracklistModel *tracklist.Model
	playerModel    *tuiPlayer.Model
	quitting       bool
}

// NewMainModel создает новую главную модель
func NewMainModel(ctx context.Context, lib Library, records []catalog.TrackRecord) *MainModel {
	return &MainModel{
		ctx:            ctx,
		lib:            lib,
		tracklistModel: tracklist.NewModel(records),
		playerModel:    tuiPlayer.NewModel(),
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(m.tracklistModel.Init(), m.playerModel.Init())
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (msg.String() == "q" && !m.tracklistModel.Filtering()) {
			m.quitting = true
			return m, tea.Quit
		}
		if !m.tracklistModel.Filtering() {
			switch msg.String() {
			case " ", "s":
				var cmd tea.Cmd
				m.playerModel, cmd = m.playerModel.Update(msg)
				return m, cmd
			}
		}

	case tea.WindowSizeMsg:
		var listCmd, playerCmd tea.Cmd
		m.playerModel, playerCmd = m.playerModel.Update(msg)
		panelHeight := lipgloss.Height(m.playerModel.View())
		m.tracklistModel, listCmd = m.tracklistModel.Update(tea.WindowSizeMsg{
			Width:  msg.Width,
			Height: max(msg.Height-panelHeight, 0),
		})
		return m, tea.Batch(listCmd, playerCmd)

	case tracklist.PlayRequestedMsg:
		return m, m.run(func() (string, error) {
			return m.lib.Play(m.ctx, library.PlayRequest{Reference: recordRef(msg.Record)})
		}, false)

	case tracklist.RemoveRequestedMsg:
		return m, m.run(func() (string, error) {
			return m.lib.Remove(m.ctx, library.RemoveRequest{Reference: recordRef(msg.Record)})
		}, true)

	case tuiPlayer.TogglePauseMsg:
		return m, m.run(m.togglePause, false)

	case tuiPlayer.StopRequestedMsg:
		return m, m.run(m.lib.Stop, false)

	case actionDoneMsg:
		var cmds []tea.Cmd
		if msg.records != nil {
			cmds = append(cmds, m.tracklistModel.SetRecords(msg.records))
		}
		current, ok := m.lib.Current()
		var cmd tea.Cmd
		m.playerModel, cmd = m.playerModel.Update(tuiPlayer.StatusMsg{
			State:      m.lib.State(),
			Current:    current,
			HasCurrent: ok,
			Message:    msg.message,
			Err:        msg.err,
		})
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	if m.quitting {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.playerModel.View(), m.tracklistModel.View())
}

// togglePause ставит на паузу или продолжает воспроизведение
func (m *MainModel) togglePause() (string, error) {
	if m.lib.State() == player.Paused {
		return m.lib.Resume()
	}
	return m.lib.Pause()
}

// run выполняет команду библиотеки вне цикла отрисовки
func (m *MainModel) run(action func() (string, error), refresh bool) tea.Cmd {
	return func() tea.Msg {
		message, err := action()
		done := actionDoneMsg{message: message, err: err}
		if refresh && err == nil {
			records, listErr := m.lib.List(m.ctx)
			if listErr != nil {
				done.err = listErr
			} else if records == nil {
				records = []catalog.TrackRecord{}
			}
			done.records = records
		}
		return done
	}
}

// recordRef ссылается на трек по id, чтобы не зависеть от совпадения названий
func recordRef(record catalog.TrackRecord) string {
	return strconv.Itoa(record.ID)
}
