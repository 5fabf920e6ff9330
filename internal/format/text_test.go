package format

import "testing"

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"colored", "\x1b[31mhello\x1b[0m", "hello"},
		{"bold", "\x1b[1;32mok\x1b[0m done", "ok done"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripAnsi(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"ascii", "hello", 5},
		{"with ansi", "\x1b[31mhello\x1b[0m", 5},
		{"wide runes", "日本語", 6},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayWidth(tt.input); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "exact", 5, "exact"},
		{"truncated", "a very long contributor name", 10, "a very ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, width := TruncateToWidth(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if width > tt.maxWidth {
				t.Errorf("width %d exceeds max %d", width, tt.maxWidth)
			}
		})
	}
}

func TestPadToWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"pads", "ab", 5, "ab   "},
		{"already wide", "abcdef", 3, "abcdef"},
		{"empty", "", 3, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PadToWidth(tt.input, tt.width); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
