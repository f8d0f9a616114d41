package logging

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		l, err := New("debug", format)
		if err != nil {
			t.Fatalf("New(%q): %v", format, err)
		}
		l.With("component", "test").Debug("hello", "n", 1)
	}
	if _, err := New("loud", "console"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{"api_key", "sk-123", "draft_id", "abc", "DSN", "postgres://x", "dangling"})
	want := []interface{}{"api_key", "[REDACTED]", "draft_id", "abc", "DSN", "[REDACTED]", "dangling"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sanitizeKVs = %v, want %v", got, want)
	}
}
