package amqp

import (
	"encoding/json"
	"time"
)

// ProgressSyncMessage asks the worker to push one task's monthly record to
// the reporting spreadsheet. It carries only the task id and period; the
// worker loads the full record from storage.
type ProgressSyncMessage struct {
	TaskID    string    `json:"taskId"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

// NewProgressSyncMessage creates a sync message for one task and period.
func NewProgressSyncMessage(taskID string, year, month int) *ProgressSyncMessage {
	return &ProgressSyncMessage{
		TaskID:    taskID,
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ProgressSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ProgressSyncMessageFromJSON creates a message from JSON bytes.
func ProgressSyncMessageFromJSON(data []byte) (*ProgressSyncMessage, error) {
	var msg ProgressSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
