package audit

import (
	"context"
	"time"

	"courtsync/pkg/kafka"
	"courtsync/pkg/logger"
)

const source = "courtsync-console"

// Action names recorded on the audit topic.
const (
	ActionCancellationAccepted = "cancellation.accepted"
	ActionCancellationRejected = "cancellation.rejected"
	ActionEventApproved        = "event.approved"
	ActionEventDeclined        = "event.declined"
)

// Entry is the payload published for one admin action.
type Entry struct {
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	TargetID  string    `json:"target_id"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is the producer side the recorder needs.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Recorder publishes admin actions to the audit topic. A publish
// failure is logged and swallowed: the audit trail never blocks or
// fails an admin action.
type Recorder struct {
	publisher Publisher
	log       *logger.Logger
}

func NewRecorder(publisher Publisher, log *logger.Logger) *Recorder {
	return &Recorder{
		publisher: publisher,
		log:       log,
	}
}

// NewNopRecorder returns a recorder that drops everything. Used when no
// Kafka brokers are configured.
func NewNopRecorder(log *logger.Logger) *Recorder {
	return &Recorder{log: log}
}

func (r *Recorder) Record(ctx context.Context, action, actor, targetID, detail string) {
	if r.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(targetID).
		WithEventType(action).
		WithSource(source).
		WithValue(Entry{
			Action:    action,
			Actor:     actor,
			TargetID:  targetID,
			Detail:    detail,
			Timestamp: time.Now().UTC(),
		}).
		Build()

	if err := r.publisher.Publish(ctx, msg); err != nil {
		r.log.Error("Failed to publish audit entry",
			"action", action,
			"target_id", targetID,
			"error", err,
		)
	}
}
