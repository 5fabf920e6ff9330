package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HealKnix/code-quality-reporter/internal/model"
)

func makeRoster() []model.Contributor {
	return []model.Contributor{
		{ID: 1, Login: "alice", Name: "Alice", MergeCount: 5},
		{ID: 2, Login: "bob", Name: "Bob", MergeCount: 3},
		{ID: 3, Login: "carol", Name: "Carol", MergeCount: 0},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m SelectModel, msgs ...tea.Msg) SelectModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(SelectModel)
		if !ok {
			t.Fatalf("Update returned %T, want SelectModel", next)
		}
	}
	return m
}

func TestSelectToggleAndSubmit(t *testing.T) {
	m := NewSelectModel("acme/widgets", makeRoster())

	m = update(t, m, key("space"), key("j"), key("space"), key("enter"))

	if !m.Submitted() {
		t.Fatal("expected submit after enter with selections")
	}
	selected := m.Selected()
	if len(selected) != 2 {
		t.Fatalf("expected 2 selected, got %d", len(selected))
	}
	if selected[0].Login != "alice" || selected[1].Login != "bob" {
		t.Errorf("unexpected selection order: %v", selected)
	}
}

func TestSelectSubmitRequiresSelection(t *testing.T) {
	m := NewSelectModel("acme/widgets", makeRoster())

	m = update(t, m, key("enter"))

	if m.Submitted() {
		t.Error("enter with nothing selected must not submit")
	}
	if !strings.Contains(m.View(), "select at least one contributor") {
		t.Error("expected a status message prompting for a selection")
	}
}

func TestSelectZeroMergeWarning(t *testing.T) {
	m := NewSelectModel("acme/widgets", makeRoster())

	// Move to carol (merge count 0) and toggle her
	m = update(t, m, key("j"), key("j"), key("space"))

	if !strings.Contains(m.View(), "no merges") {
		t.Error("expected a zero-merge note in the status line")
	}

	m = update(t, m, key("enter"))
	if !m.Submitted() {
		t.Fatal("zero-merge contributors are still selectable")
	}
	if len(m.Selected()) != 1 || m.Selected()[0].Login != "carol" {
		t.Errorf("expected carol selected, got %v", m.Selected())
	}
}

func TestSelectToggleAll(t *testing.T) {
	m := NewSelectModel("acme/widgets", makeRoster())

	m = update(t, m, key("a"), key("enter"))

	if !m.Submitted() {
		t.Fatal("expected submit")
	}
	if len(m.Selected()) != 3 {
		t.Errorf("expected all 3 selected, got %d", len(m.Selected()))
	}
}

func TestSelectToggleAllTwiceClears(t *testing.T) {
	m := NewSelectModel("acme/widgets", makeRoster())

	m = update(t, m, key("a"), key("a"), key("enter"))

	if m.Submitted() {
		t.Error("toggling all twice should leave nothing selected")
	}
}

func TestSelectQuitWithoutSubmit(t *testing.T) {
	m := NewSelectModel("acme/widgets", makeRoster())

	m = update(t, m, key("space"), key("q"))

	if m.Submitted() {
		t.Error("quit must not count as submit")
	}
}

func TestSelectFilter(t *testing.T) {
	m := NewSelectModel("acme/widgets", makeRoster())

	// Enter filter mode and type "bob"
	m = update(t, m, key("/"))
	for _, r := range "bob" {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	// Leave the filter and select the only visible row
	m = update(t, m, key("enter"), key("space"), key("enter"))

	if !m.Submitted() {
		t.Fatal("expected submit")
	}
	if len(m.Selected()) != 1 || m.Selected()[0].Login != "bob" {
		t.Errorf("expected bob selected via filter, got %v", m.Selected())
	}
}

func TestSelectViewShowsRoster(t *testing.T) {
	m := NewSelectModel("acme/widgets", makeRoster())

	view := m.View()
	for _, want := range []string{"acme/widgets", "Alice", "Bob", "Carol"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
}
