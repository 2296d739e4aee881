package id

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		got, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if len(got) != 26 {
			t.Fatalf("expected 26 characters, got %d (%q)", len(got), got)
		}
		if got != strings.ToLower(got) {
			t.Fatalf("expected lowercase id, got %q", got)
		}
		if strings.Contains(got, "=") {
			t.Fatalf("expected no padding, got %q", got)
		}
		if _, ok := seen[got]; ok {
			t.Fatalf("expected unique ids, got repeat %q", got)
		}
		seen[got] = struct{}{}
	}
}
