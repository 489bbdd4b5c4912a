package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Stream and subject names for lifecycle events.
const (
	StreamEvents = "TESTLENS_EVENTS"

	// SubjectEventsAll matches every event subject
	SubjectEventsAll = "events.>"

	SubjectAnalysisCompleted = "events.analysis.completed"
	SubjectSessionCreated    = "events.session.created"
	SubjectSessionAdvanced   = "events.session.advanced"
	SubjectMethodCompleted   = "events.session.method_completed"
	SubjectSessionExpired    = "events.session.expired"
)

// publishTimeout bounds one fire-and-forget publish.
const publishTimeout = 2 * time.Second

// Event is the payload published for every lifecycle notification.
type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId,omitempty"`
	ClassName string    `json:"className,omitempty"`
	FilePath  string    `json:"filePath,omitempty"`
	Method    string    `json:"method,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher emits lifecycle events. Publishing is best-effort: a
// failed emit is logged, never surfaced to the caller.
type Publisher interface {
	Emit(ctx context.Context, subject string, event Event)
	Close()
}

// Emitter publishes events through a NATS client.
type Emitter struct {
	client *Client
}

// NewEmitter wraps a connected client as an event publisher.
func NewEmitter(client *Client) *Emitter {
	return &Emitter{client: client}
}

// Emit publishes one event, fire-and-forget.
func (e *Emitter) Emit(ctx context.Context, subject string, event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("failed to marshal event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if _, err := e.client.Publish(ctx, subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
		return
	}

	log.Debug().Str("subject", subject).Str("type", event.Type).Msg("event published")
}

// Close closes the underlying client.
func (e *Emitter) Close() {
	e.client.Close()
}

// Nop is a Publisher that drops every event, for CLI runs and tests.
type Nop struct{}

// Emit does nothing.
func (Nop) Emit(ctx context.Context, subject string, event Event) {}

// Close does nothing.
func (Nop) Close() {}
