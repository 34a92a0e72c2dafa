// Package alerts contains the delivery sinks the session controller fans
// alerts out to. Every sink is fire-and-forget from the controller's view:
// a failed delivery is reported back as an error, logged, and never stops
// the frame loop.
package alerts

import (
	"time"

	"github.com/rs/zerolog/log"

	"argus-worker-go/internal/messaging"
	"argus-worker-go/internal/models"
	"argus-worker-go/internal/ws"
)

// Message is the wire form of an alert on NATS and WebSocket.
type Message struct {
	Type       string    `json:"type"`
	WorkerID   string    `json:"worker_id"`
	Class      string    `json:"class"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
}

func newMessage(workerID string, alert models.AlertRecord) Message {
	return Message{
		Type:       "detection_alert",
		WorkerID:   workerID,
		Class:      alert.ClassName,
		Confidence: alert.Confidence,
		Source:     alert.Source,
		Timestamp:  alert.Timestamp,
	}
}

// NATSSink publishes alerts to the configured NATS subject.
type NATSSink struct {
	svc      *messaging.Service
	subject  string
	workerID string
}

func NewNATSSink(svc *messaging.Service, subject, workerID string) *NATSSink {
	return &NATSSink{svc: svc, subject: subject, workerID: workerID}
}

func (s *NATSSink) Notify(alert models.AlertRecord) error {
	return s.svc.Publish(s.subject, newMessage(s.workerID, alert))
}

// HubSink broadcasts alerts to WebSocket subscribers.
type HubSink struct {
	hub      *ws.AlertHub
	workerID string
}

func NewHubSink(hub *ws.AlertHub, workerID string) *HubSink {
	return &HubSink{hub: hub, workerID: workerID}
}

func (s *HubSink) Notify(alert models.AlertRecord) error {
	s.hub.BroadcastJSON(newMessage(s.workerID, alert))
	return nil
}

// LogSink writes alerts to the structured log. Always wired; it is the
// delivery channel of last resort when NATS is disabled.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Notify(alert models.AlertRecord) error {
	log.Warn().
		Str("class", alert.ClassName).
		Float64("confidence", alert.Confidence).
		Str("source", alert.Source).
		Time("at", alert.Timestamp).
		Msg("ALERT")
	return nil
}
