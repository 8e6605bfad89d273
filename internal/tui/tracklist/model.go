// Package tracklist содержит модель экрана списка треков для TUI
package tracklist

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/impact/internal/catalog"
	"github.com/hazadus/impact/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
)

// PlayRequestedMsg отправляется при выборе трека для воспроизведения
type PlayRequestedMsg struct {
	Record catalog.TrackRecord
}

// RemoveRequestedMsg отправляется при удалении трека
type RemoveRequestedMsg struct {
	Record catalog.TrackRecord
}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	record catalog.TrackRecord
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%d %s %s %s", i.record.ID, i.record.Artist, i.record.Title, i.record.Album)
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	// ID | Исполнитель | Название | Альбом
	str := fmt.Sprintf("%-4d %-20s %-40s %s",
		i.record.ID,
		utils.TruncateString(utils.OrDash(i.record.Artist), 20),
		utils.TruncateString(title(i.record), 40),
		utils.TruncateString(utils.OrDash(i.record.Album), 20))

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// title возвращает название или имя файла для треков без тегов
func title(record catalog.TrackRecord) string {
	if record.Title != "" {
		return record.Title
	}
	return filepath.Base(record.Path)
}

// Model представляет модель экрана списка треков
type Model struct {
	list list.Model
}

// NewModel создает новую модель списка треков
func NewModel(records []catalog.TrackRecord) *Model {
	l := list.New(toItems(records), trackItemDelegate{}, 0, 0)
	l.Title = "Треки"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	// "d" занята удалением, выход обрабатывает главная модель
	l.KeyMap.NextPage = key.NewBinding(
		key.WithKeys("right", "l", "pgdown", "f"),
		key.WithHelp("→/l/pgdn", "след. страница"),
	)
	l.KeyMap.Quit.SetEnabled(false)

	return &Model{list: l}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetRecords обновляет данные модели без пересоздания
func (m *Model) SetRecords(records []catalog.TrackRecord) tea.Cmd {
	return m.list.SetItems(toItems(records))
}

// Len возвращает число треков в списке
func (m *Model) Len() int {
	return len(m.list.Items())
}

// Filtering возвращает true, пока пользователь вводит фильтр
func (m *Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Selected возвращает трек под курсором
func (m *Model) Selected() (catalog.TrackRecord, bool) {
	item, ok := m.list.SelectedItem().(trackItem)
	if !ok {
		return catalog.TrackRecord{}, false
	}
	return item.record, true
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch msg.String() {
		case "enter":
			if record, ok := m.Selected(); ok {
				return m, func() tea.Msg {
					return PlayRequestedMsg{Record: record}
				}
			}
			return m, nil

		case "d":
			if record, ok := m.Selected(); ok {
				return m, func() tea.Msg {
					return RemoveRequestedMsg{Record: record}
				}
			}
			return m, nil
		}
	}

	// Обновляем список
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	if len(m.list.Items()) == 0 {
		return titleStyle.Render("Каталог пуст. Добавьте треки командой 'impact add <путь>'.")
	}
	return m.list.View()
}

func toItems(records []catalog.TrackRecord) []list.Item {
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = trackItem{record: r}
	}
	return items
}
