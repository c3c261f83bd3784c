package amqp

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestProgressSyncMessage_RoundTrip(t *testing.T) {
	taskID := uuid.New().String()
	msg := NewProgressSyncMessage(taskID, 2025, 3)

	if msg.Timestamp.IsZero() {
		t.Error("NewProgressSyncMessage should stamp the message")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := ProgressSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("ProgressSyncMessageFromJSON() error = %v", err)
	}

	if got.TaskID != taskID {
		t.Errorf("TaskID = %q, want %q", got.TaskID, taskID)
	}
	if got.Year != 2025 || got.Month != 3 {
		t.Errorf("period = %d-%d, want 2025-3", got.Year, got.Month)
	}
	if !got.Timestamp.Equal(msg.Timestamp.Truncate(time.Nanosecond)) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, msg.Timestamp)
	}
}

func TestProgressSyncMessage_FieldNames(t *testing.T) {
	data, err := NewProgressSyncMessage("t-1", 2025, 3).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	// The queue contract uses camelCase keys.
	for _, key := range []string{`"taskId"`, `"year"`, `"month"`, `"timestamp"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("payload missing %s: %s", key, data)
		}
	}
}

func TestProgressSyncMessageFromJSON_Malformed(t *testing.T) {
	if _, err := ProgressSyncMessageFromJSON([]byte(`{not json`)); err == nil {
		t.Error("malformed payload accepted")
	}
}
