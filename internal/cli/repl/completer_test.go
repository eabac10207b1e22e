package repl

import (
	"reflect"
	"strings"
	"testing"
)

func TestNewCompleter(t *testing.T) {
	c := NewCompleter([]string{"search", "add", "search"})

	want := []string{"add", "exit", "history", "quit", "search"}
	if got := c.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() = %q, want %q", got, want)
	}
}

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter([]string{"backup", "backup create", "backup list", "backup restore", "add"})

	tests := []struct {
		prefix string
		want   []string
	}{
		{"backup ", []string{"backup create", "backup list", "backup restore"}},
		{"backup r", []string{"backup restore"}},
		{"a", []string{"add"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}

	if got := len(c.Complete("")); got != len(c.Commands()) {
		t.Errorf("Complete(\"\") = %d entries, want all %d", got, len(c.Commands()))
	}
}

func TestCompleter_Resolve(t *testing.T) {
	c := NewCompleter([]string{"search", "save", "stats", "remove", "rm", "backup", "backup create"})

	tests := []struct {
		word    string
		want    string
		errPart string
	}{
		{"search", "search", ""},
		{"sea", "search", ""},
		{"st", "stats", ""},
		{"rm", "rm", ""},
		{"rem", "remove", ""},
		{"b", "backup", ""},
		{"s", "", "ambiguous"},
		{"r", "", "ambiguous"},
		{"create", "", "unknown"},
		{"", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, err := c.Resolve(tt.word)
			if tt.errPart != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errPart) {
					t.Fatalf("Resolve(%q) error = %v, want %q", tt.word, err, tt.errPart)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.word, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}
