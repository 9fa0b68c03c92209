package cli

import (
	"strings"
	"testing"
)

func TestDotPad(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"normal case", "backend_url", 20, "backend_url " + strings.Repeat(".", 8)},
		{"name equals width minus one", "abcde", 6, "abcde"},
		{"name longer than width", "audit_max_backups", 5, "audit_max_backups"},
		{"empty string", "", 10, " " + strings.Repeat(".", 9)},
		{"zero width", "x", 0, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DotPad(tt.input, tt.width)
			if got != tt.expected {
				t.Errorf("DotPad(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestColorFunctions(t *testing.T) {
	prev := colorEnabled
	t.Cleanup(func() { SetColor(prev) })

	tests := []struct {
		name   string
		fn     func(string) string
		prefix string
	}{
		{"Green", Green, "\033[32m"},
		{"Yellow", Yellow, "\033[33m"},
		{"Red", Red, "\033[31m"},
		{"Bold", Bold, "\033[1m"},
		{"Dim", Dim, "\033[2m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetColor(true)
			got := tt.fn("hello")
			if !strings.HasPrefix(got, tt.prefix) || !strings.HasSuffix(got, "\033[0m") {
				t.Errorf("%s(hello) = %q", tt.name, got)
			}

			SetColor(false)
			if got := tt.fn("hello"); got != "hello" {
				t.Errorf("%s with colour disabled = %q, want plain", tt.name, got)
			}
		})
	}
}
