package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestEventMarshal(t *testing.T) {
	event := Event{
		Type:      "session.created",
		SessionID: "abc-123",
		ClassName: "UserService",
		Method:    "createUser",
		At:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded["type"] != "session.created" {
		t.Errorf("type = %v", decoded["type"])
	}
	if decoded["sessionId"] != "abc-123" {
		t.Errorf("sessionId = %v", decoded["sessionId"])
	}
	// empty optional fields should be omitted
	if _, ok := decoded["filePath"]; ok {
		t.Error("Expected empty filePath to be omitted")
	}
}

func TestSubjectsMatchStreamPattern(t *testing.T) {
	subjects := []string{
		SubjectAnalysisCompleted,
		SubjectSessionCreated,
		SubjectSessionAdvanced,
		SubjectMethodCompleted,
		SubjectSessionExpired,
	}
	for _, s := range subjects {
		if len(s) < len("events.") || s[:len("events.")] != "events." {
			t.Errorf("Subject %s does not match %s", s, SubjectEventsAll)
		}
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	p.Emit(context.Background(), SubjectSessionCreated, Event{})
	p.Close()
}
