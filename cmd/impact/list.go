package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hazadus/impact/internal/catalog"
	"github.com/hazadus/impact/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tracks in the catalog",
		Long:    `Display a table of all tracks stored in the catalog.`,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			service, err := app.service(ctx)
			if err != nil {
				return err
			}

			records, err := service.List(ctx)
			if err != nil {
				return fmt.Errorf("ошибка чтения каталога: %w", err)
			}
			printTracks(records)
			return nil
		},
	}
}

func printTracks(records []catalog.TrackRecord) {
	if len(records) == 0 {
		fmt.Println("📚 Каталог пуст. Добавьте треки с помощью команды 'add'.")
		return
	}

	fmt.Printf("📚 Найдено треков: %d\n\n", len(records))
	fmt.Println(renderTracks(records))
	fmt.Println()
	fmt.Println("💡 Используйте 'play <id>' в режиме shell для воспроизведения трека")
}

// renderTracks форматирует треки в таблицу
func renderTracks(records []catalog.TrackRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			utils.TruncateString(utils.OrDash(r.Artist), 28),
			utils.TruncateString(utils.OrDash(r.Title), 28),
			utils.TruncateString(utils.OrDash(r.Album), 18),
			utils.TruncateString(r.Path, 50),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "Исполнитель", "Название", "Альбом", "Файл").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.Render()
}
