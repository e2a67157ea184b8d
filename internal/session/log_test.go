package session

import (
	"testing"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

func msg(id int64, user, content string) models.Message {
	return models.Message{ID: id, User: models.User{Username: user}, Content: content}
}

func TestMessageLogAppendPreservesOrder(t *testing.T) {
	l := NewMessageLog()
	l.LoadInitial([]models.Message{msg(1, "a", "one"), msg(2, "b", "two")})

	if !l.Append(msg(3, "a", "three")) {
		t.Fatal("Append() = false for new message")
	}

	got := l.Messages()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[2].Content != "three" {
		t.Errorf("last element = %q, want %q", got[2].Content, "three")
	}
	if got[0].Content != "one" || got[1].Content != "two" {
		t.Error("prior elements changed by Append")
	}
}

func TestMessageLogMergesById(t *testing.T) {
	l := NewMessageLog()
	l.LoadInitial([]models.Message{msg(1, "a", "one")})

	if l.Append(msg(1, "a", "one")) {
		t.Error("Append() = true for duplicate id")
	}
	if l.Len() != 1 {
		t.Errorf("len = %d after duplicate append, want 1", l.Len())
	}

	// unpersisted messages carry no id and always append
	if !l.Append(msg(0, "a", "draft")) {
		t.Error("Append() = false for id 0")
	}
	if !l.Append(msg(0, "a", "draft")) {
		t.Error("Append() = false for second id 0")
	}
	if l.Len() != 3 {
		t.Errorf("len = %d, want 3", l.Len())
	}
}

func TestMessageLogLoadInitialReplaces(t *testing.T) {
	l := NewMessageLog()
	l.LoadInitial([]models.Message{msg(1, "a", "one"), msg(2, "b", "two")})
	l.LoadInitial([]models.Message{msg(5, "c", "five")})

	got := l.Messages()
	if len(got) != 1 || got[0].ID != 5 {
		t.Fatalf("log after reload = %v, want only id 5", got)
	}
	// ids from the discarded history are appendable again
	if !l.Append(msg(1, "a", "one")) {
		t.Error("Append() = false for id dropped by reload")
	}
}

func TestMessageLogMessagesIsACopy(t *testing.T) {
	l := NewMessageLog()
	l.LoadInitial([]models.Message{msg(1, "a", "one")})
	snapshot := l.Messages()
	snapshot[0].Content = "mutated"
	if l.Messages()[0].Content != "one" {
		t.Error("mutating the returned slice changed the log")
	}
}
