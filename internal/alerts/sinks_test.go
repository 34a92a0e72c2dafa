package alerts

import (
	"encoding/json"
	"testing"
	"time"

	"argus-worker-go/internal/models"
	"argus-worker-go/internal/ws"
)

func testAlert() models.AlertRecord {
	return models.AlertRecord{
		ClassName:  "person",
		Confidence: 0.87,
		Timestamp:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Source:     "camera:0",
	}
}

func TestMessageWireFormat(t *testing.T) {
	msg := newMessage("worker-7", testAlert())

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got["type"] != "detection_alert" {
		t.Errorf("type = %v", got["type"])
	}
	if got["worker_id"] != "worker-7" {
		t.Errorf("worker_id = %v", got["worker_id"])
	}
	if got["class"] != "person" {
		t.Errorf("class = %v", got["class"])
	}
	if got["confidence"] != 0.87 {
		t.Errorf("confidence = %v", got["confidence"])
	}
	if got["source"] != "camera:0" {
		t.Errorf("source = %v", got["source"])
	}
}

func TestLogSinkNeverFails(t *testing.T) {
	if err := NewLogSink().Notify(testAlert()); err != nil {
		t.Errorf("LogSink.Notify() = %v, want nil", err)
	}
}

func TestHubSinkWithoutSubscribers(t *testing.T) {
	sink := NewHubSink(ws.NewAlertHub(), "worker-1")
	if err := sink.Notify(testAlert()); err != nil {
		t.Errorf("HubSink.Notify() with no subscribers = %v, want nil", err)
	}
}
