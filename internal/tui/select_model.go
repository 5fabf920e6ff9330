package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/HealKnix/code-quality-reporter/internal/format"
	"github.com/HealKnix/code-quality-reporter/internal/model"
	"github.com/HealKnix/code-quality-reporter/internal/selection"
)

// SelectModel is the Bubble Tea model for the contributor selection
// list: filter, toggle, submit.
type SelectModel struct {
	repoName     string
	roster       []model.Contributor // display order: merge count descending
	visible      []model.Contributor // roster after filter
	sel          *selection.Selection
	cursor       int
	filter       textinput.Model
	filtering    bool
	statusMsg    string
	statusTime   time.Time
	submitted    bool
	quitting     bool
	windowWidth  int
	windowHeight int
}

// statusClearMsg clears the transient status line.
type statusClearMsg struct{}

// NewSelectModel creates a selection model over a fetched roster.
func NewSelectModel(repoName string, roster []model.Contributor) SelectModel {
	ti := textinput.New()
	ti.Placeholder = "name or email"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	sorted := selection.SortByMergeCount(roster)
	return SelectModel{
		repoName:     repoName,
		roster:       sorted,
		visible:      sorted,
		sel:          selection.New(),
		filter:       ti,
		windowWidth:  80,
		windowHeight: 24,
	}
}

// Submitted reports whether the user confirmed the selection.
func (m SelectModel) Submitted() bool {
	return m.submitted
}

// Selected returns the chosen contributors in roster order.
func (m SelectModel) Selected() []model.Contributor {
	return m.sel.Selected(m.roster)
}

// Init initializes the model.
func (m SelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case statusClearMsg:
		if time.Since(m.statusTime) >= 2*time.Second {
			m.statusMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleFilterKey routes keys while the filter input is focused.
func (m SelectModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// handleKey routes keys in browse mode.
func (m SelectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case " ":
		if m.cursor < len(m.visible) {
			c := m.visible[m.cursor]
			m.sel.Toggle(c)
			if m.sel.Contains(c) && c.MergeCount == 0 {
				return m.setStatus(fmt.Sprintf("%s has no merges in this range", c.Login))
			}
		}

	case "a":
		// Toggle all visible: select all unless all are selected.
		allSelected := true
		for _, c := range m.visible {
			if !m.sel.Contains(c) {
				allSelected = false
				break
			}
		}
		for _, c := range m.visible {
			if m.sel.Contains(c) == allSelected {
				m.sel.Toggle(c)
			}
		}

	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink

	case "enter":
		if m.sel.Len() == 0 {
			return m.setStatus("select at least one contributor")
		}
		m.submitted = true
		return m, tea.Quit
	}

	return m, nil
}

// setStatus shows a transient status message.
func (m SelectModel) setStatus(msg string) (tea.Model, tea.Cmd) {
	m.statusMsg = msg
	m.statusTime = time.Now()
	return m, clearStatusAfter(2 * time.Second)
}

// applyFilter recomputes the visible slice from the filter query.
func (m *SelectModel) applyFilter() {
	m.visible = selection.Filter(m.roster, m.filter.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the selection list.
func (m SelectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("  Select contributors: %s", m.repoName)))
	b.WriteString("\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString("  " + m.filter.View() + "\n\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(taskDimStyle.Render("  no contributors match the filter") + "\n")
	}

	maxRows := m.windowHeight - 8
	if maxRows < 3 {
		maxRows = 3
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.visible) && i < start+maxRows; i++ {
		c := m.visible[i]

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		check := iconBox
		if m.sel.Contains(c) {
			check = iconChecked
		}

		name, _ := format.TruncateToWidth(c.DisplayName(), 28)
		merges := fmt.Sprintf("%d merges", c.MergeCount)
		if c.MergeCount == 0 {
			merges = taskDimStyle.Render("no merges")
		}

		line := fmt.Sprintf("  %s%s %-16s %-30s %s", cursor, check, c.Login, name, merges)
		b.WriteString(line + "\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n  " + warnStyle.Render(m.statusMsg) + "\n")
	}

	b.WriteString(footerStyle.Render(fmt.Sprintf(
		"\n  %d selected | space toggle, a all, / filter, enter generate, q quit", m.sel.Len())))
	b.WriteString("\n")

	return b.String()
}

// clearStatusAfter schedules a status line clear.
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}
