package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HealKnix/code-quality-reporter/internal/format"
	"github.com/HealKnix/code-quality-reporter/internal/model"
	"github.com/HealKnix/code-quality-reporter/internal/notify"
	"github.com/HealKnix/code-quality-reporter/internal/report"
)

func makeSnapshot() report.Snapshot {
	return report.Snapshot{
		Results: []model.ReviewResult{
			{
				Login:      "alice",
				Name:       "Alice",
				Rating:     8.5,
				Status:     model.StatusGood,
				ReportFile: "alice-report.pdf",
			},
			{Login: "carol", Name: "Carol", Pending: true},
		},
		Failed:     []string{"dave"},
		Processing: "carol",
	}
}

func updateResults(t *testing.T, m ResultsModel, msgs ...tea.Msg) ResultsModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(ResultsModel)
		if !ok {
			t.Fatalf("Update returned %T, want ResultsModel", next)
		}
	}
	return m
}

func TestResultsViewRendersSnapshot(t *testing.T) {
	m := NewResultsModel("acme/widgets", nil, nil)
	m = updateResults(t, m, SnapshotEvent{Snapshot: makeSnapshot()})

	view := format.StripAnsi(m.View())
	for _, want := range []string{"acme/widgets", "alice", "8.5", "generating", "failed", "processing carol"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
	if !strings.Contains(view, "generating... q cancels") {
		t.Error("expected the in-progress footer before DoneEvent")
	}
}

func TestResultsDoneFooter(t *testing.T) {
	m := NewResultsModel("acme/widgets", nil, nil)
	m = updateResults(t, m, SnapshotEvent{Snapshot: makeSnapshot()}, DoneEvent{})

	view := format.StripAnsi(m.View())
	if !strings.Contains(view, "d download report, q quit") {
		t.Errorf("expected the done footer, got:\n%s", view)
	}
	if strings.Contains(view, "processing carol") {
		t.Error("processing line must be hidden once done")
	}
}

func TestResultsDownloadPendingGuard(t *testing.T) {
	called := false
	download := func(model.ReviewResult) (string, error) {
		called = true
		return "", nil
	}
	m := NewResultsModel("acme/widgets", nil, download)
	m = updateResults(t, m,
		SnapshotEvent{Snapshot: makeSnapshot()},
		key("j"), // move to carol, still pending
		key("d"),
	)

	if called {
		t.Error("downloader must not run for a pending row")
	}
	if !strings.Contains(format.StripAnsi(m.View()), "no report file for this row yet") {
		t.Error("expected a status message explaining the refusal")
	}
}

func TestResultsDownloadSelectedRow(t *testing.T) {
	var got model.ReviewResult
	download := func(r model.ReviewResult) (string, error) {
		got = r
		return "alice-report.pdf", nil
	}
	m := NewResultsModel("acme/widgets", nil, download)
	m = updateResults(t, m, SnapshotEvent{Snapshot: makeSnapshot()})

	next, cmd := m.Update(key("d"))
	if cmd == nil {
		t.Fatal("expected a download command")
	}
	m = next.(ResultsModel)
	m = updateResults(t, m, cmd())

	if got.Login != "alice" {
		t.Errorf("downloaded row = %q, want alice", got.Login)
	}
	if !strings.Contains(format.StripAnsi(m.View()), "saved alice-report.pdf") {
		t.Error("expected a saved status message")
	}
}

func TestResultsDownloadError(t *testing.T) {
	download := func(model.ReviewResult) (string, error) {
		return "", errors.New("backend unreachable")
	}
	m := NewResultsModel("acme/widgets", nil, download)
	m = updateResults(t, m, SnapshotEvent{Snapshot: makeSnapshot()})

	_, cmd := m.Update(key("d"))
	if cmd == nil {
		t.Fatal("expected a download command")
	}
	m = updateResults(t, m, cmd())

	if !strings.Contains(format.StripAnsi(m.View()), "backend unreachable") {
		t.Error("expected the download error in the status line")
	}
}

func TestResultsNotificationsKeepLastThree(t *testing.T) {
	m := NewResultsModel("acme/widgets", nil, nil)
	// The note-1..note-4 tokens must not collide with static view copy
	// (the spinner placeholder already contains the word "first").
	for _, msg := range []string{"note-1", "note-2", "note-3", "note-4"} {
		m = updateResults(t, m, NotificationEvent{
			Notification: notify.Notification{Level: notify.LevelWarning, Message: msg},
		})
	}

	view := format.StripAnsi(m.View())
	if strings.Contains(view, "note-1") {
		t.Error("oldest notification should have scrolled off")
	}
	for _, want := range []string{"note-2", "note-3", "note-4"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestResultsCursorClampsOnShrink(t *testing.T) {
	m := NewResultsModel("acme/widgets", nil, nil)
	m = updateResults(t, m,
		SnapshotEvent{Snapshot: makeSnapshot()},
		key("j"),
		SnapshotEvent{Snapshot: report.Snapshot{
			Results: []model.ReviewResult{{Login: "alice", Name: "Alice", Rating: 8.5}},
		}},
	)

	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after the results shrank", m.cursor)
	}
}
