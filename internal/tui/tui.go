// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/impact/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	lib app.Library
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(lib app.Library) *App {
	return &App{lib: lib}
}

// Run запускает TUI приложение и останавливает воспроизведение при выходе
func (tuiApp *App) Run(ctx context.Context) error {
	records, err := tuiApp.lib.List(ctx)
	if err != nil {
		return fmt.Errorf("ошибка чтения каталога: %w", err)
	}

	model := app.NewMainModel(ctx, tuiApp.lib, records)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err = p.Run()

	if tuiApp.lib.State().IsActive() {
		_, _ = tuiApp.lib.Stop()
	}

	return err
}
