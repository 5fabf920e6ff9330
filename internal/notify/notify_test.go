package notify

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelInfo, "info"},
		{LevelSuccess, "ok"},
		{LevelWarning, "warning"},
		{LevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConsoleWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleTo(&buf)

	c.Notify(Notification{Level: LevelWarning, Message: "rate limit low"})

	out := buf.String()
	if !strings.Contains(out, "rate limit low") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("expected trailing newline")
	}
}

func TestFuncAdapter(t *testing.T) {
	var got Notification
	n := Func(func(v Notification) { got = v })

	n.Notify(Notification{Level: LevelError, Message: "boom"})
	if got.Level != LevelError || got.Message != "boom" {
		t.Errorf("unexpected notification: %+v", got)
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Notify(Notification{Level: LevelWarning, Message: "a"})
	r.Notify(Notification{Level: LevelError, Message: "b"})
	r.Notify(Notification{Level: LevelWarning, Message: "c"})

	warnings := r.ByLevel(LevelWarning)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}
	if warnings[0].Message != "a" || warnings[1].Message != "c" {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}
