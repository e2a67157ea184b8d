package store

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTokenRoundTrip(t *testing.T) {
	s := openTemp(t, filepath.Join(t.TempDir(), "state.db"))

	if _, ok, err := s.Token(); err != nil || ok {
		t.Fatalf("Token() on empty store = ok=%v, err=%v; want ok=false, nil", ok, err)
	}

	if err := s.SetToken("token-one"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	if err := s.SetToken("token-two"); err != nil {
		t.Fatalf("SetToken() overwrite error = %v", err)
	}

	token, ok, err := s.Token()
	if err != nil || !ok || token != "token-two" {
		t.Fatalf("Token() = %q, %v, %v; want token-two, true, nil", token, ok, err)
	}

	if err := s.ClearToken(); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}
	if _, ok, _ := s.Token(); ok {
		t.Error("Token() ok = true after ClearToken")
	}
}

func TestJoinedFlagSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s := openTemp(t, path)
	if joined, err := s.Joined(42); err != nil || joined {
		t.Fatalf("Joined(42) on empty store = %v, %v; want false, nil", joined, err)
	}
	if err := s.MarkJoined(42); err != nil {
		t.Fatalf("MarkJoined() error = %v", err)
	}
	// idempotent
	if err := s.MarkJoined(42); err != nil {
		t.Fatalf("second MarkJoined() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s2 := openTemp(t, path)
	joined, err := s2.Joined(42)
	if err != nil || !joined {
		t.Fatalf("Joined(42) after reopen = %v, %v; want true, nil", joined, err)
	}
	if joined, _ := s2.Joined(7); joined {
		t.Error("Joined(7) = true, want false for a never-joined room")
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("Open(\"\") error = nil, want error")
	}
}
