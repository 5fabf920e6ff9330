package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/HealKnix/code-quality-reporter/internal/format"
	"github.com/HealKnix/code-quality-reporter/internal/model"
	"github.com/HealKnix/code-quality-reporter/internal/notify"
	"github.com/HealKnix/code-quality-reporter/internal/report"
)

// Downloader saves the report file for a result and returns the local
// path it was written to.
type Downloader func(result model.ReviewResult) (string, error)

// ResultsModel is the Bubble Tea model for the live results table fed
// by orchestrator snapshots.
type ResultsModel struct {
	repoName     string
	snapshot     report.Snapshot
	events       <-chan Event
	spinner      spinner.Model
	download     Downloader
	cursor       int
	messages     []notify.Notification // terminal-state and warning log
	statusMsg    string
	statusTime   time.Time
	done         bool
	quitting     bool
	windowWidth  int
	windowHeight int
}

// downloadedMsg reports a finished report download.
type downloadedMsg struct {
	path string
	err  error
}

// NewResultsModel creates a results model.
func NewResultsModel(repoName string, events <-chan Event, download Downloader) ResultsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return ResultsModel{
		repoName:     repoName,
		events:       events,
		spinner:      s,
		download:     download,
		windowWidth:  80,
		windowHeight: 24,
	}
}

// Init initializes the model.
func (m ResultsModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForEvent(m.events),
	)
}

// Update handles messages.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SnapshotEvent:
		m.snapshot = msg.Snapshot
		if m.cursor >= len(m.snapshot.Results) {
			m.cursor = len(m.snapshot.Results) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, waitForEvent(m.events)

	case NotificationEvent:
		m.messages = append(m.messages, msg.Notification)
		return m, waitForEvent(m.events)

	case DoneEvent:
		m.done = true
		return m, waitForEvent(m.events)

	case doneMsg:
		m.done = true
		return m, nil

	case statusClearMsg:
		if time.Since(m.statusTime) >= 3*time.Second {
			m.statusMsg = ""
		}
		return m, nil

	case downloadedMsg:
		if msg.err != nil {
			m.statusMsg = errorStyle.Render(msg.err.Error())
		} else {
			m.statusMsg = successStyle.Render("saved " + msg.path)
		}
		m.statusTime = time.Now()
		return m, clearStatusAfter(3 * time.Second)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes key presses.
func (m ResultsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.snapshot.Results)-1 {
			m.cursor++
		}

	case "d":
		if m.cursor >= len(m.snapshot.Results) || m.download == nil {
			break
		}
		result := m.snapshot.Results[m.cursor]
		if result.Pending || result.ReportFile == "" {
			m.statusMsg = warnStyle.Render("no report file for this row yet")
			m.statusTime = time.Now()
			return m, clearStatusAfter(3 * time.Second)
		}
		return m, func() tea.Msg {
			path, err := m.download(result)
			return downloadedMsg{path: path, err: err}
		}
	}

	return m, nil
}

// View renders the results table.
func (m ResultsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("  Review results: %s", m.repoName)))
	b.WriteString("\n\n")

	if len(m.snapshot.Results) == 0 && len(m.snapshot.Failed) == 0 {
		b.WriteString("  " + spinnerStyle.Render(m.spinner.View()) + " waiting for the first results...\n")
	}

	for i, r := range m.snapshot.Results {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		var status string
		switch {
		case r.Pending:
			status = spinnerStyle.Render(m.spinner.View()) + " generating"
		case r.Status == model.StatusGood:
			status = ratingGoodStyle.Render(string(r.Status))
		case r.Status == model.StatusMedium:
			status = ratingMediumStyle.Render(string(r.Status))
		case r.Status == model.StatusBad:
			status = ratingBadStyle.Render(string(r.Status))
		default:
			status = string(r.Status)
		}

		rating := "    —"
		if !r.Pending {
			rating = fmt.Sprintf("%5.1f", r.Rating)
		}

		name, _ := format.TruncateToWidth(r.Name, 24)
		mark := ""
		if r.ReportFile != "" {
			mark = taskDimStyle.Render(" ⇣")
		}

		b.WriteString(fmt.Sprintf("  %s%-16s %-26s %s  %s%s\n",
			cursor, r.Login, name, rating, status, mark))
	}

	for _, login := range m.snapshot.Failed {
		b.WriteString(fmt.Sprintf("    %-16s %-26s %s  %s\n",
			login, "", "    —", errorStyle.Render("failed")))
	}

	if m.snapshot.Processing != "" && !m.done {
		b.WriteString(messageStyle.Render(fmt.Sprintf("\n  processing %s...", m.snapshot.Processing)) + "\n")
	}

	// Show the most recent notifications
	start := 0
	if len(m.messages) > 3 {
		start = len(m.messages) - 3
	}
	if len(m.messages) > start {
		b.WriteString("\n")
		for _, n := range m.messages[start:] {
			switch n.Level {
			case notify.LevelError:
				b.WriteString("  " + errorStyle.Render(n.Message) + "\n")
			case notify.LevelWarning:
				b.WriteString("  " + warnStyle.Render(n.Message) + "\n")
			case notify.LevelSuccess:
				b.WriteString("  " + successStyle.Render(n.Message) + "\n")
			default:
				b.WriteString("  " + messageStyle.Render(n.Message) + "\n")
			}
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n  " + m.statusMsg + "\n")
	}

	if m.done {
		b.WriteString(footerStyle.Render("\n  d download report, q quit"))
	} else {
		b.WriteString(footerStyle.Render("\n  generating... q cancels"))
	}
	b.WriteString("\n")

	return b.String()
}
