package player

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/impact/internal/catalog"
	"github.com/hazadus/impact/internal/player"
)

func TestNewModel(t *testing.T) {
	model := NewModel()

	if model.State() != player.Idle {
		t.Errorf("Expected Idle state initially, got %v", model.State())
	}
	if !strings.Contains(model.View(), "Остановлено") {
		t.Errorf("Expected idle label in view: %s", model.View())
	}
}

func TestStatusUpdate(t *testing.T) {
	model := NewModel()
	record := catalog.TrackRecord{ID: 1, Path: "/music/song.mp3", Artist: "Test Artist", Title: "Test Title"}

	model, _ = model.Update(StatusMsg{State: player.Playing, Current: record, HasCurrent: true, Message: "Воспроизведение: #1"})

	if model.State() != player.Playing {
		t.Errorf("Expected Playing state, got %v", model.State())
	}
	view := model.View()
	for _, expected := range []string{"Test Artist", "#1 Test Artist - Test Title", "Воспроизведение: #1"} {
		if !strings.Contains(view, expected) {
			t.Errorf("View does not contain %q: %s", expected, view)
		}
	}
}

func TestStatusError(t *testing.T) {
	model := NewModel()
	model, _ = model.Update(StatusMsg{State: player.Idle, Message: "ignored", Err: errors.New("ошибка воспроизведения")})

	view := model.View()
	if !strings.Contains(view, "ошибка воспроизведения") {
		t.Errorf("Expected error in view: %s", view)
	}
	if strings.Contains(view, "ignored") {
		t.Errorf("Message should be hidden by error: %s", view)
	}
}

func TestKeyHandling(t *testing.T) {
	model := NewModel()

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatal("Expected command for space key")
	}
	if _, ok := cmd().(TogglePauseMsg); !ok {
		t.Errorf("Expected TogglePauseMsg, got %T", cmd())
	}

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if cmd == nil {
		t.Fatal("Expected command for 's' key")
	}
	if _, ok := cmd().(StopRequestedMsg); !ok {
		t.Errorf("Expected StopRequestedMsg, got %T", cmd())
	}

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd != nil {
		t.Error("Expected no command for unbound key")
	}
}

func TestUpdateWindowSize(t *testing.T) {
	model := NewModel()
	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	if model.width != 100 {
		t.Errorf("Expected width 100, got %d", model.width)
	}
}
